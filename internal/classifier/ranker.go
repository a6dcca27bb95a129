package classifier

import (
	"sort"

	"github.com/jonesrussell/topicbot/internal/catalog"
	"github.com/jonesrussell/topicbot/internal/logger"
)

// rankLogDepth is how many top candidates are logged per request. The log
// is diagnostic only and never affects control flow.
const rankLogDepth = 5

// Candidate pairs a catalog entry with its score for one request.
type Candidate struct {
	Score int
	Entry *catalog.TopicEntry
}

// Ranker scores a message against every catalog entry and orders the
// results.
type Ranker struct {
	scorer *Scorer
	logger logger.Logger
}

// NewRanker creates a new ranker.
func NewRanker(scorer *Scorer, log logger.Logger) *Ranker {
	return &Ranker{
		scorer: scorer,
		logger: log,
	}
}

// Rank scores every entry exactly once and sorts descending by score.
// Equal scores keep catalog order, so ties resolve to the earlier entry.
func (r *Ranker) Rank(message string, entries []catalog.TopicEntry) []Candidate {
	candidates := make([]Candidate, len(entries))
	for i := range entries {
		candidates[i] = Candidate{
			Score: r.scorer.Score(message, &entries[i]),
			Entry: &entries[i],
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	for rank, c := range candidates {
		if rank >= rankLogDepth {
			break
		}
		r.logger.Debug("Candidate topic",
			logger.Int("rank", rank+1),
			logger.String("topic", c.Entry.Topic),
			logger.Int("score", c.Score),
		)
	}

	return candidates
}
