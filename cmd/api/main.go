package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chikere/bptracker-api/internal/config"
	chatHandler "github.com/chikere/bptracker-api/internal/handler/chat"
	patientHandler "github.com/chikere/bptracker-api/internal/handler/patient"
	readingHandler "github.com/chikere/bptracker-api/internal/handler/reading"
	riskHandler "github.com/chikere/bptracker-api/internal/handler/risk"
	"github.com/chikere/bptracker-api/internal/handler"
	"github.com/chikere/bptracker-api/internal/repository/postgres"
	"github.com/chikere/bptracker-api/internal/router"
	chatService "github.com/chikere/bptracker-api/internal/service/chat"
	patientService "github.com/chikere/bptracker-api/internal/service/patient"
	readingService "github.com/chikere/bptracker-api/internal/service/reading"
	riskService "github.com/chikere/bptracker-api/internal/service/risk"
	"github.com/chikere/bptracker-api/pkg/ai"
	"github.com/chikere/bptracker-api/pkg/circuitbreaker"
	"github.com/chikere/bptracker-api/pkg/logger"
	"github.com/chikere/bptracker-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics("bptracker")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	readingRepo := postgres.NewReadingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Text-generation collaborator, behind a single shared breaker. The
	// risk classifier and the chat sidebar share failure history.
	completer := ai.NewClient(ai.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	})
	aiBreaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:         "ai-completion",
		MaxRequests:  cfg.Breaker.MaxRequests,
		Interval:     cfg.Breaker.Interval(),
		Timeout:      cfg.Breaker.Timeout(),
		FailureRatio: cfg.Breaker.FailureRatio,
		MinRequests:  cfg.Breaker.MinRequests,
	})

	// Services
	patientSvc := patientService.NewService(patientRepo)
	readingSvc := readingService.NewService(readingRepo, patientRepo)
	ruleAssessor := riskService.NewRuleBasedAssessor(patientRepo, readingRepo, m, appLogger)
	aiAssessor := riskService.NewAIAssessor(patientRepo, readingRepo, completer, aiBreaker, m, appLogger)
	riskSvc := riskService.NewService(ruleAssessor, aiAssessor, m)
	chatSvc := chatService.NewService(completer, aiBreaker, m, appLogger)

	// Router
	r := router.NewRouter(
		handler.NewHandler(db),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			MetricsPrefix:  "bptracker",
		},
		patientHandler.NewHandler(patientSvc),
		readingHandler.NewHandler(readingSvc, outboxRepo),
		riskHandler.NewHandler(riskSvc, readingSvc, outboxRepo),
		chatHandler.NewHandler(chatSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
