// Package catalog holds the immutable topic catalog the engine classifies
// messages against. The catalog is loaded once at startup and is safe to
// share across concurrent requests without locking.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jonesrussell/topicbot/internal/logger"
)

// NoMatch is the sentinel topic name meaning "no catalog entry applies".
// The oracle emits it verbatim, and the engine reports it on every
// degraded path.
const NoMatch = "none"

// ErrNotFound indicates a topic name has no catalog entry.
var ErrNotFound = errors.New("no matching catalog entry")

// TopicEntry is one unit of the catalog. Field names match the JSON
// persistence format.
type TopicEntry struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords,omitempty"`
	Summary  string   `json:"summary"`
	Reply    string   `json:"reply"`
	Link     string   `json:"link"`
}

// Catalog is a read-only, ordered collection of topic entries.
type Catalog struct {
	entries []TopicEntry
}

// New creates a catalog from the given entries, preserving their order.
func New(entries []TopicEntry) *Catalog {
	return &Catalog{entries: entries}
}

// Load reads the catalog JSON file at path. It is called once at startup;
// failure here is fatal to the process, never to a request.
func Load(path string, log logger.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}

	var entries []TopicEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s contains no entries", path)
	}

	// Topic uniqueness is assumed, not enforced: first match wins on
	// lookup, so duplicates only get a warning.
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		key := strings.ToLower(entry.Topic)
		if seen[key] {
			log.Warn("Duplicate topic in catalog, first entry wins",
				logger.String("topic", entry.Topic),
			)
		}
		seen[key] = true
	}

	log.Info("Topic catalog loaded",
		logger.String("path", path),
		logger.Int("entries", len(entries)),
	)

	return New(entries), nil
}

// Entries returns the catalog entries in load order. Callers must not
// mutate the returned slice.
func (c *Catalog) Entries() []TopicEntry {
	return c.entries
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Resolve looks up a topic name case-insensitively. The first entry in
// catalog order wins. The literal NoMatch name and unknown names return
// ErrNotFound.
func (c *Catalog) Resolve(name string) (*TopicEntry, error) {
	if strings.EqualFold(name, NoMatch) {
		return nil, ErrNotFound
	}
	for i := range c.entries {
		if strings.EqualFold(c.entries[i].Topic, name) {
			return &c.entries[i], nil
		}
	}
	return nil, ErrNotFound
}
