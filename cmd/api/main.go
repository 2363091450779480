// Entry point for the checador REST API
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jorge200118/checador-qr/internal/api"
	"github.com/Jorge200118/checador-qr/internal/config"
	"github.com/Jorge200118/checador-qr/internal/core"
	"github.com/Jorge200118/checador-qr/internal/ports/messaging"
	"github.com/Jorge200118/checador-qr/internal/ports/repository"
	"github.com/Jorge200118/checador-qr/internal/ports/storage"
	awsutil "github.com/Jorge200118/checador-qr/pkg/aws"
	"github.com/Jorge200118/checador-qr/pkg/database"
	"github.com/Jorge200118/checador-qr/pkg/logger"
	"github.com/Jorge200118/checador-qr/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer("checador-api")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// Every stored timestamp is wall-clock in this one zone.
	zona, err := time.LoadLocation(cfg.ZonaHoraria)
	if err != nil {
		log.Fatal().Err(err).Str("zona", cfg.ZonaHoraria).Msg("Invalid timezone")
	}

	// DB connection
	db, err := database.NewInstrumentedConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	// AWS SDK Config
	awsCfg, err := awsutil.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	// Initialize dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.IsLocalDev // LocalStack serves buckets by path
	})
	repo := repository.NewChecadorRepository(db)
	fotos := storage.NewS3FotoStorage(s3Client, cfg.FotosBucket, cfg.FotosBaseURL)
	producer := messaging.NewSQSProducer(sqsClient, cfg.NotifySQSQueueURL)
	coreService := core.NewChecadorService(repo, fotos, producer, zona)

	// Setup router and server
	router := api.NewRouter(coreService)

	// Middleware to inject logger with trace ID
	loggerMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.EnrichContextWithLogger(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	handler := otelhttp.NewHandler(loggerMiddleware(router), "api")

	serverAddr := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Checador API starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
