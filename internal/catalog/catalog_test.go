//nolint:testpackage // testing internal catalog behavior
package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonesrussell/topicbot/internal/logger"
)

type mockLogger struct {
	warnings []string
}

func (m *mockLogger) Debug(string, ...logger.Field)      {}
func (m *mockLogger) Info(string, ...logger.Field)       {}
func (m *mockLogger) Warn(msg string, _ ...logger.Field) { m.warnings = append(m.warnings, msg) }
func (m *mockLogger) Error(string, ...logger.Field)      {}
func (m *mockLogger) Fatal(string, ...logger.Field)      {}
func (m *mockLogger) With(...logger.Field) logger.Logger { return m }
func (m *mockLogger) Sync() error                        { return nil }

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topics.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}
	return path
}

const validCatalog = `[
  {
    "topic": "Scholarship",
    "keywords": ["scholarship", "funding"],
    "summary": "Financial aid for students",
    "reply": "Apply through the portal.",
    "link": "https://example.com/scholarship"
  },
  {
    "topic": "Visa Questions",
    "summary": "Travel document guidance",
    "reply": "See the visa guide.",
    "link": "https://example.com/visa"
  }
]`

func TestLoad(t *testing.T) {
	path := writeCatalogFile(t, validCatalog)

	cat, err := Load(path, &mockLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", cat.Len())
	}
	if cat.Entries()[0].Topic != "Scholarship" {
		t.Errorf("entries should keep file order, got %s first", cat.Entries()[0].Topic)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), &mockLogger{})
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeCatalogFile(t, `{"not": "an array"}`)

	_, err := Load(path, &mockLogger{})
	if err == nil {
		t.Fatal("expected an error for invalid catalog JSON")
	}
}

func TestLoadEmptyCatalog(t *testing.T) {
	path := writeCatalogFile(t, `[]`)

	_, err := Load(path, &mockLogger{})
	if err == nil {
		t.Fatal("expected an error for an empty catalog")
	}
}

func TestLoadWarnsOnDuplicateTopics(t *testing.T) {
	path := writeCatalogFile(t, `[
	  {"topic": "Scholarship", "summary": "a", "reply": "a", "link": "a"},
	  {"topic": "scholarship", "summary": "b", "reply": "b", "link": "b"}
	]`)

	log := &mockLogger{}
	cat, err := Load(path, log)
	if err != nil {
		t.Fatalf("duplicates should not fail loading: %v", err)
	}
	if len(log.warnings) != 1 {
		t.Errorf("expected one duplicate warning, got %d", len(log.warnings))
	}

	// First entry wins on lookup.
	entry, err := cat.Resolve("Scholarship")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Reply != "a" {
		t.Errorf("expected first duplicate to win, got reply %q", entry.Reply)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	cat := New([]TopicEntry{
		{Topic: "Visa Questions", Summary: "s", Reply: "r", Link: "l"},
	})

	for _, name := range []string{"Visa Questions", "visa questions", "VISA QUESTIONS"} {
		entry, err := cat.Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q) unexpected error: %v", name, err)
			continue
		}
		if entry.Topic != "Visa Questions" {
			t.Errorf("Resolve(%q) got %s", name, entry.Topic)
		}
	}
}

func TestResolveNotFound(t *testing.T) {
	cat := New([]TopicEntry{
		{Topic: "Scholarship", Summary: "s", Reply: "r", Link: "l"},
	})

	_, err := cat.Resolve("Parking")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveNoMatchSentinel(t *testing.T) {
	// A catalog entry literally named after the sentinel must never
	// resolve.
	cat := New([]TopicEntry{
		{Topic: "none", Summary: "s", Reply: "r", Link: "l"},
	})

	for _, name := range []string{"none", "None", "NONE"} {
		if _, err := cat.Resolve(name); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q) should return ErrNotFound, got %v", name, err)
		}
	}
}
