package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/topicbot/internal/logger"
	"github.com/jonesrussell/topicbot/internal/telemetry"
)

// RegisterRoutes wires the API endpoints onto the router. The webhook
// endpoint sits behind the shared-secret middleware; the operational
// endpoints are open.
func RegisterRoutes(router *gin.Engine, h *Handler, webhookSecret string, tel *telemetry.Provider, log logger.Logger) {
	router.POST("/respond", AuthMiddleware(webhookSecret, log), h.Respond)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/topics", h.ListTopics)
		v1.GET("/oracle/health", h.OracleHealth)
	}

	router.GET("/metrics", gin.WrapH(tel.Handler()))
}
