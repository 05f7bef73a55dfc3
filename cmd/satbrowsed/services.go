package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	satbrowse "github.com/psagers/sat-browse"
	"github.com/psagers/sat-browse/internal/archive"
	"github.com/psagers/sat-browse/internal/mail"
	"github.com/psagers/sat-browse/internal/page"
	"github.com/psagers/sat-browse/internal/processor"
	"github.com/psagers/sat-browse/internal/queue"
	"github.com/psagers/sat-browse/postgres"
)

// Services holds all application services.
type Services struct {
	SenderService  satbrowse.SenderService
	RequestService satbrowse.RequestService
	Mailer         satbrowse.Mailer
	Archive        satbrowse.Archive
	Queue          queue.Queue
	Processor      *processor.Processor
}

// initServices wires the domain services together.
func initServices(ctx context.Context, pool *pgxpool.Pool, cfg *Config, logger *slog.Logger) (*Services, error) {
	db := postgres.NewDB(pool)
	logger.Info("database services initialized")

	mailer, err := initMailer(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("mailer initialized", slog.String("provider", cfg.MailProvider))

	pageArchive, err := initArchive(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("page archive initialized", slog.String("provider", cfg.ArchiveProvider))

	jobQueue := queue.NewPostgresQueue(pool, logger, queueConfig(cfg))
	logger.Info("queue initialized",
		slog.Int("workers", cfg.QueueWorkerCount),
		slog.Int("max_attempts", cfg.QueueMaxAttempts))

	proc := processor.New(
		db.RequestService,
		page.NewFetcher(cfg.FetchTimeout),
		page.NewConverter(),
		mailer,
		pageArchive,
		logger,
		processor.Config{OperatorBCC: cfg.OperatorBCC},
	)

	return &Services{
		SenderService:  db.SenderService,
		RequestService: db.RequestService,
		Mailer:         mailer,
		Archive:        pageArchive,
		Queue:          jobQueue,
		Processor:      proc,
	}, nil
}

func initMailer(cfg *Config, logger *slog.Logger) (satbrowse.Mailer, error) {
	mailCfg := satbrowse.MailConfig{
		Provider:            cfg.MailProvider,
		FromAddress:         cfg.MailFromAddress,
		FromName:            cfg.MailFromName,
		PostmarkServerToken: cfg.PostmarkServerToken,
		SMTPHost:            cfg.SMTPHost,
		SMTPPort:            cfg.SMTPPort,
		SMTPUsername:        cfg.SMTPUsername,
		SMTPPassword:        cfg.SMTPPassword,
	}
	return mail.New(logger, mailCfg)
}

func initArchive(ctx context.Context, cfg *Config, logger *slog.Logger) (satbrowse.Archive, error) {
	archiveCfg := satbrowse.ArchiveConfig{
		Provider:  cfg.ArchiveProvider,
		LocalPath: cfg.ArchiveLocalPath,
		S3Bucket:  cfg.ArchiveS3Bucket,
		S3Region:  cfg.ArchiveS3Region,
	}
	return archive.New(ctx, logger, archiveCfg)
}

func queueConfig(cfg *Config) queue.Config {
	return queue.Config{
		WorkerCount:     cfg.QueueWorkerCount,
		PollInterval:    cfg.QueuePollInterval,
		JobTimeout:      cfg.QueueJobTimeout,
		ShutdownTimeout: cfg.QueueShutdownTimeout,
		MaxAttempts:     cfg.QueueMaxAttempts,
	}
}
