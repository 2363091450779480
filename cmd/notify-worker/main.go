// Entry point for the notification worker
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jorge200118/checador-qr/internal/config"
	"github.com/Jorge200118/checador-qr/internal/core"
	"github.com/Jorge200118/checador-qr/internal/ports/repository"
	"github.com/Jorge200118/checador-qr/internal/worker"
	"github.com/Jorge200118/checador-qr/internal/worker/notify"
	awsutil "github.com/Jorge200118/checador-qr/pkg/aws"
	"github.com/Jorge200118/checador-qr/pkg/database"
	"github.com/Jorge200118/checador-qr/pkg/logger"
	"github.com/Jorge200118/checador-qr/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	logger.Setup(cfg.IsLocalDev)

	shutdownTracer, err := telemetry.InitTracer("checador-notify-worker")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()

	awsCfg, err := awsutil.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	sqsClient := sqs.NewFromConfig(awsCfg)
	sesClient := ses.NewFromConfig(awsCfg)

	repo := repository.NewChecadorRepository(db)
	emailService := core.NewSESEmailService(sesClient, cfg.EmailRemitente)
	processor := notify.NewProcessor(emailService, repo, cfg.EmailDominio)

	w := worker.NewWorker(sqsClient, cfg.NotifySQSQueueURL, processor)
	if cfg.WorkerConcurrency > 0 {
		w.Concurrency = cfg.WorkerConcurrency
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down worker...")
		cancel()
	}()

	log.Info().Str("queue", cfg.NotifySQSQueueURL).Msg("Notify worker starting")
	w.Start(ctx)
	log.Info().Msg("Worker exiting")
}
