// Package classifier implements the two-stage topic classification engine:
// weighted fuzzy scoring against the catalog, then oracle disambiguation
// when local confidence is high enough.
package classifier

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/jonesrussell/topicbot/internal/catalog"
)

// Signal weights. Topic name is the strongest signal, summary the weakest.
// The confidence threshold is calibrated against this ordering, so the
// weights must not be reordered.
const (
	topicWeight   = 6
	keywordWeight = 4
	summaryWeight = 2
)

// MaxScore is the highest weighted score a single entry can reach: a
// perfect 0-100 partial match on all three signals.
const MaxScore = 100 * (topicWeight + keywordWeight + summaryWeight)

// Scorer computes the weighted fuzzy similarity between a message and one
// catalog entry.
type Scorer struct{}

// NewScorer creates a new scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns the weighted similarity in [0, MaxScore]. Pure function of
// its inputs: each partial-ratio signal is 0-100, case-insensitive, and
// tolerant of the message embedding or near-embedding the entry text.
func (s *Scorer) Score(message string, entry *catalog.TopicEntry) int {
	msg := strings.ToLower(message)

	score := topicWeight * fuzzy.PartialRatio(msg, strings.ToLower(entry.Topic))

	if len(entry.Keywords) > 0 {
		best := 0
		for _, kw := range entry.Keywords {
			if r := fuzzy.PartialRatio(msg, strings.ToLower(kw)); r > best {
				best = r
			}
		}
		score += keywordWeight * best
	}

	score += summaryWeight * fuzzy.PartialRatio(msg, strings.ToLower(entry.Summary))

	return score
}
