package classifier

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jonesrussell/topicbot/internal/catalog"
	"github.com/jonesrussell/topicbot/internal/logger"
	"github.com/jonesrussell/topicbot/internal/oracle"
	"github.com/jonesrussell/topicbot/internal/telemetry"
)

// Classification outcome labels. They name how a request was decided, for
// logs and metrics. The HTTP response only distinguishes matched from not.
const (
	OutcomeLocalFallback = "local_fallback"
	OutcomeOracleMatch   = "oracle_match"
	OutcomeOracleNone    = "oracle_none"
	OutcomeOracleEmpty   = "oracle_empty"
	OutcomeOracleError   = "oracle_error"
	OutcomeOracleTimeout = "oracle_timeout"
	OutcomeLookupMiss    = "lookup_miss"
)

// Config holds the engine's decision parameters.
type Config struct {
	// ConfidenceThreshold is the minimum top score required to consult
	// the oracle. Below it the engine answers with the fallback topic.
	ConfidenceThreshold int
	// FallbackTopic is the catalog topic used for low-confidence messages.
	FallbackTopic string
	// MaxOracleCandidates caps how many candidates are escalated.
	MaxOracleCandidates int
	// OracleTimeout bounds a single disambiguation call.
	OracleTimeout time.Duration
}

// Result is the outcome of classifying one message.
type Result struct {
	// Entry is the resolved catalog entry, nil when Matched is false.
	Entry *catalog.TopicEntry
	// Topic is the resolved topic name, or catalog.NoMatch.
	Topic string
	// Matched reports whether Entry is usable for a reply.
	Matched bool
	// Outcome is the telemetry label describing how the result was reached.
	Outcome string
}

// Engine runs the full classification pipeline: rank locally, gate on
// confidence, disambiguate via the oracle, resolve against the catalog.
type Engine struct {
	catalog       *catalog.Catalog
	ranker        *Ranker
	disambiguator *Disambiguator
	threshold     int
	fallbackTopic string
	logger        logger.Logger
	telemetry     *telemetry.Provider
}

// NewEngine creates a classification engine.
func NewEngine(
	cat *catalog.Catalog,
	completer oracle.Completer,
	cfg Config,
	log logger.Logger,
	tel *telemetry.Provider,
) *Engine {
	return &Engine{
		catalog:       cat,
		ranker:        NewRanker(NewScorer(), log),
		disambiguator: NewDisambiguator(completer, log, cfg.MaxOracleCandidates, cfg.OracleTimeout),
		threshold:     cfg.ConfidenceThreshold,
		fallbackTopic: cfg.FallbackTopic,
		logger:        log,
		telemetry:     tel,
	}
}

// IsConfident reports whether a top score clears the oracle gate. The gate
// is a step function: threshold-1 falls back, threshold escalates.
func (e *Engine) IsConfident(topScore int) bool {
	return topScore >= e.threshold
}

// Classify decides the topic for one message. It never returns an error:
// every degraded path collapses into a non-matched Result.
func (e *Engine) Classify(ctx context.Context, message string) Result {
	start := time.Now()

	ctx, span := e.telemetry.StartSpan(ctx, "classifier.Classify")
	defer span.End()

	candidates := e.ranker.Rank(message, e.catalog.Entries())

	topScore := 0
	if len(candidates) > 0 {
		topScore = candidates[0].Score
	}
	e.telemetry.RecordTopScore(topScore)
	span.SetAttributes(attribute.Int("classifier.top_score", topScore))

	var result Result
	if !e.IsConfident(topScore) {
		result = e.fallback(topScore)
	} else {
		oracleStart := time.Now()
		answer, outcome := e.disambiguator.Disambiguate(ctx, message, candidates)
		e.telemetry.RecordOracleCall(outcome, time.Since(oracleStart))
		result = e.resolve(answer, outcome)
	}

	span.SetAttributes(
		attribute.String("classifier.outcome", result.Outcome),
		attribute.String("classifier.topic", result.Topic),
	)
	e.telemetry.RecordClassification(result.Outcome, time.Since(start))

	e.logger.Info("Message classified",
		logger.String("topic", result.Topic),
		logger.String("outcome", result.Outcome),
		logger.Int("top_score", topScore),
		logger.Bool("matched", result.Matched),
		logger.Duration("duration", time.Since(start)),
	)

	return result
}

// fallback answers a low-confidence message with the configured fallback
// topic. A catalog that lacks the fallback topic is a deployment mistake;
// the request still degrades to NoMatch rather than failing.
func (e *Engine) fallback(topScore int) Result {
	entry, err := e.catalog.Resolve(e.fallbackTopic)
	if err != nil {
		e.logger.Error("Fallback topic missing from catalog",
			logger.String("fallback_topic", e.fallbackTopic),
			logger.Int("top_score", topScore),
		)
		return Result{Topic: catalog.NoMatch, Outcome: OutcomeLookupMiss}
	}
	return Result{
		Entry:   entry,
		Topic:   entry.Topic,
		Matched: true,
		Outcome: OutcomeLocalFallback,
	}
}

// resolve maps an oracle answer back onto the catalog. The oracle's word
// alone is never enough: a name that resolves to no entry is a miss.
func (e *Engine) resolve(answer, outcome string) Result {
	if outcome != OutcomeOracleMatch {
		return Result{Topic: catalog.NoMatch, Outcome: outcome}
	}

	entry, err := e.catalog.Resolve(answer)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			e.logger.Warn("Oracle answered with unknown topic",
				logger.String("answer", answer),
			)
		}
		return Result{Topic: catalog.NoMatch, Outcome: OutcomeLookupMiss}
	}

	return Result{
		Entry:   entry,
		Topic:   entry.Topic,
		Matched: true,
		Outcome: OutcomeOracleMatch,
	}
}
