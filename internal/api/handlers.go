// Package api exposes the webhook and operational HTTP endpoints.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/topicbot/internal/catalog"
	"github.com/jonesrussell/topicbot/internal/classifier"
	"github.com/jonesrussell/topicbot/internal/logger"
)

const defaultUser = "unknown"

const oracleHealthTimeout = 5 * time.Second

// Classifier decides the topic for one message.
type Classifier interface {
	Classify(ctx context.Context, message string) classifier.Result
}

// HealthPinger checks oracle reachability.
type HealthPinger interface {
	Health(ctx context.Context) error
}

// Handler serves the webhook and operational endpoints.
type Handler struct {
	classifier Classifier
	catalog    *catalog.Catalog
	oracle     HealthPinger
	logger     logger.Logger
}

// NewHandler creates an API handler.
func NewHandler(cls Classifier, cat *catalog.Catalog, pinger HealthPinger, log logger.Logger) *Handler {
	return &Handler{
		classifier: cls,
		catalog:    cat,
		oracle:     pinger,
		logger:     log,
	}
}

// Respond handles POST /respond: classify the message and answer with the
// matched reply or the no-match shape. Classification never fails, so the
// only error responses are for malformed requests.
func (h *Handler) Respond(c *gin.Context) {
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
		return
	}

	user := req.User
	if user == "" {
		user = defaultUser
	}

	result := h.classifier.Classify(c.Request.Context(), message)

	h.logger.Info("Webhook message handled",
		logger.String("user", user),
		logger.String("topic", result.Topic),
		logger.String("outcome", result.Outcome),
		logger.Bool("matched", result.Matched),
	)

	if !result.Matched {
		c.JSON(http.StatusOK, NoMatchResponse{Reply: catalog.NoMatch, Link: nil, User: user})
		return
	}

	c.JSON(http.StatusOK, MatchResponse{
		Reply: composeReply(result.Entry),
		Topic: result.Topic,
		User:  user,
	})
}

// ListTopics handles GET /api/v1/topics: the public catalog listing.
func (h *Handler) ListTopics(c *gin.Context) {
	entries := h.catalog.Entries()
	topics := make([]TopicSummary, len(entries))
	for i, entry := range entries {
		topics[i] = TopicSummary{
			Topic:    entry.Topic,
			Keywords: entry.Keywords,
			Summary:  entry.Summary,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"topics": topics,
		"count":  len(topics),
	})
}

// OracleHealth handles GET /api/v1/oracle/health: a live reachability
// probe against the oracle API.
func (h *Handler) OracleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), oracleHealthTimeout)
	defer cancel()

	if err := h.oracle.Health(ctx); err != nil {
		h.logger.Warn("Oracle health check failed", logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unreachable",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
