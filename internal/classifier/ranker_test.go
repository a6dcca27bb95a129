//nolint:testpackage // testing internal ranking behavior
package classifier

import (
	"testing"

	"github.com/jonesrussell/topicbot/internal/catalog"
	"github.com/jonesrussell/topicbot/internal/logger"
)

func testEntries() []catalog.TopicEntry {
	return []catalog.TopicEntry{
		{
			Topic:    "Visa Questions",
			Keywords: []string{"visa", "immigration"},
			Summary:  "Travel document and visa guidance",
			Reply:    "See the visa guide.",
			Link:     "https://example.com/visa",
		},
		{
			Topic:    "Scholarship",
			Keywords: []string{"scholarship", "funding"},
			Summary:  "Financial aid for students",
			Reply:    "Apply through the portal.",
			Link:     "https://example.com/scholarship",
		},
		{
			Topic:    "Housing",
			Keywords: []string{"housing", "dorm"},
			Summary:  "On-campus housing options",
			Reply:    "Check the housing office.",
			Link:     "https://example.com/housing",
		},
	}
}

func TestRankerOrdersByScore(t *testing.T) {
	ranker := NewRanker(NewScorer(), logger.NewNop())
	entries := testEntries()

	candidates := ranker.Rank("scholarship", entries)

	if len(candidates) != len(entries) {
		t.Fatalf("expected %d candidates, got %d", len(entries), len(candidates))
	}
	if candidates[0].Entry.Topic != "Scholarship" {
		t.Errorf("expected Scholarship first, got %s", candidates[0].Entry.Topic)
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[i-1].Score {
			t.Errorf("candidates out of order at %d: %d > %d", i, candidates[i].Score, candidates[i-1].Score)
		}
	}
}

func TestRankerTieKeepsCatalogOrder(t *testing.T) {
	ranker := NewRanker(NewScorer(), logger.NewNop())
	entries := []catalog.TopicEntry{
		{Topic: "same", Summary: "same", Reply: "first"},
		{Topic: "same", Summary: "same", Reply: "second"},
	}

	candidates := ranker.Rank("same", entries)

	if candidates[0].Entry != &entries[0] {
		t.Error("equal scores should keep catalog order")
	}
}

func TestRankerEmptyCatalog(t *testing.T) {
	ranker := NewRanker(NewScorer(), logger.NewNop())

	candidates := ranker.Rank("anything", nil)
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}
