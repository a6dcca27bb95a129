package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/topicbot/internal/catalog"
	"github.com/jonesrussell/topicbot/internal/logger"
	"github.com/jonesrussell/topicbot/internal/oracle"
)

const (
	defaultMaxCandidates = 4
	defaultOracleTimeout = 30 * time.Second
)

// slimCandidate is the reduced entry view sent to the oracle. Replies and
// links are withheld so the prompt stays small and the oracle can only
// choose, never compose.
type slimCandidate struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords,omitempty"`
	Summary  string   `json:"summary"`
}

// promptTemplate instructs the oracle to answer with exactly one topic
// name or the literal "none". The name list comes before the full details
// so the model anchors on the allowed answers. Everything after the first
// line of the answer is discarded, so chatty models still resolve cleanly.
const promptTemplate = `You are a topic classifier for an internal knowledge base.

Below are several candidate topics with summaries and keywords.
You must decide which topic best matches the user message.

### Your Rules:
1. Respond ONLY with the exact topic name (as written below) if it matches clearly.
2. If the user's message is NOT about any of these topics, respond with 'none'.
3. Do NOT explain your reasoning or add extra text.
4. The output must be exactly one word or phrase: the topic name or 'none'.

### Candidates:
%s

### Full Candidate Details:
%s

### User message:
"%s"

Now respond ONLY with the best matching topic name from the list above, or 'none' if no match is clear.`

// Disambiguator escalates the top-ranked candidates to the oracle and
// normalizes its answer. Every oracle failure mode degrades to NoMatch.
type Disambiguator struct {
	completer     oracle.Completer
	logger        logger.Logger
	maxCandidates int
	timeout       time.Duration
}

// NewDisambiguator creates a disambiguator over the given completer.
func NewDisambiguator(completer oracle.Completer, log logger.Logger, maxCandidates int, timeout time.Duration) *Disambiguator {
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &Disambiguator{
		completer:     completer,
		logger:        log,
		maxCandidates: maxCandidates,
		timeout:       timeout,
	}
}

// Disambiguate asks the oracle to pick among the leading candidates. It
// returns the cleaned answer (a topic name or catalog.NoMatch) and the
// outcome label for telemetry. It never returns an error: the oracle is
// an optimization, and any failure means NoMatch.
func (d *Disambiguator) Disambiguate(ctx context.Context, message string, candidates []Candidate) (string, string) {
	if len(candidates) == 0 {
		return catalog.NoMatch, OutcomeOracleNone
	}

	limit := d.maxCandidates
	if limit > len(candidates) {
		limit = len(candidates)
	}

	slim := make([]slimCandidate, limit)
	names := make([]string, limit)
	for i := range slim {
		entry := candidates[i].Entry
		slim[i] = slimCandidate{
			Topic:    entry.Topic,
			Keywords: entry.Keywords,
			Summary:  entry.Summary,
		}
		names[i] = entry.Topic
	}

	nameList, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		d.logger.Error("Failed to encode oracle candidates", logger.Error(err))
		return catalog.NoMatch, OutcomeOracleError
	}
	details, err := json.MarshalIndent(slim, "", "  ")
	if err != nil {
		d.logger.Error("Failed to encode oracle candidates", logger.Error(err))
		return catalog.NoMatch, OutcomeOracleError
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	raw, err := d.completer.Complete(ctx, fmt.Sprintf(promptTemplate, nameList, details, message))
	if err != nil {
		outcome := outcomeForError(err)
		d.logger.Warn("Oracle disambiguation failed",
			logger.String("outcome", outcome),
			logger.Error(err),
		)
		return catalog.NoMatch, outcome
	}

	answer := cleanAnswer(raw)
	d.logger.Debug("Oracle answered",
		logger.String("raw", raw),
		logger.String("answer", answer),
	)

	if answer == "" || strings.EqualFold(answer, catalog.NoMatch) {
		return catalog.NoMatch, OutcomeOracleNone
	}
	return answer, OutcomeOracleMatch
}

// cleanAnswer strips the chat framing models add around a bare topic name:
// trailing lines, surrounding quotes, and markdown bold markers.
func cleanAnswer(raw string) string {
	answer := raw
	if idx := strings.IndexByte(answer, '\n'); idx >= 0 {
		answer = answer[:idx]
	}
	answer = strings.TrimSpace(answer)
	answer = strings.Trim(answer, `"'`)
	answer = strings.ReplaceAll(answer, "**", "")
	return strings.TrimSpace(answer)
}

// outcomeForError maps an oracle failure to its telemetry outcome label.
func outcomeForError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeOracleTimeout
	case errors.Is(err, oracle.ErrEmptyCompletion):
		return OutcomeOracleEmpty
	default:
		return OutcomeOracleError
	}
}
