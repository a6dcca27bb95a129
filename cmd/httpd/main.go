// Command httpd runs the topicbot webhook service: a chat-webhook topic
// classifier backed by fuzzy catalog matching and an LLM disambiguation
// oracle.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/topicbot/internal/api"
	"github.com/jonesrussell/topicbot/internal/catalog"
	"github.com/jonesrussell/topicbot/internal/classifier"
	"github.com/jonesrussell/topicbot/internal/config"
	"github.com/jonesrussell/topicbot/internal/httpserver"
	"github.com/jonesrussell/topicbot/internal/logger"
	"github.com/jonesrussell/topicbot/internal/oracle"
	"github.com/jonesrussell/topicbot/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "topicbot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting topicbot",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	if cfg.Auth.WebhookSecret == "" {
		log.Warn("BOT_SECRET not set, webhook authentication disabled")
	}
	if cfg.Oracle.APIKey == "" {
		log.Warn("Oracle API key not set, disambiguation calls will fail closed")
	}

	cat, err := catalog.Load(cfg.Catalog.Path, log)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	tel := telemetry.NewProvider()
	tel.SetCatalogSize(cat.Len())

	oracleClient := oracle.NewClient(oracle.Config{
		BaseURL:           cfg.Oracle.BaseURL,
		APIKey:            cfg.Oracle.APIKey,
		Model:             cfg.Oracle.Model,
		MaxTokens:         cfg.Oracle.MaxTokens,
		Timeout:           cfg.Oracle.Timeout,
		RequestsPerMinute: cfg.Oracle.RequestsPerMinute,
	})

	engine := classifier.NewEngine(cat, oracleClient, classifier.Config{
		ConfidenceThreshold: cfg.Classification.ConfidenceThreshold,
		FallbackTopic:       cfg.Classification.FallbackTopic,
		MaxOracleCandidates: cfg.Classification.MaxOracleCandidates,
		OracleTimeout:       cfg.Oracle.Timeout,
	}, log, tel)

	handler := api.NewHandler(engine, cat, oracleClient, log)

	server := httpserver.NewServer(
		&httpserver.Config{
			Port:           cfg.Service.Port,
			Debug:          cfg.Service.Debug,
			ServiceName:    cfg.Service.Name,
			ServiceVersion: cfg.Service.Version,
		},
		log,
		func(router *gin.Engine) {
			httpserver.RegisterHealthRoutes(router, httpserver.HealthOptions{
				ServiceName:    cfg.Service.Name,
				ServiceVersion: cfg.Service.Version,
				Ready: func() bool {
					return cat.Len() > 0
				},
			})
			api.RegisterRoutes(router, handler, cfg.Auth.WebhookSecret, tel, log)
		},
	)

	return server.RunWithGracefulShutdown(context.Background())
}
