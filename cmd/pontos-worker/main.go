package main

import (
	"context"
	"errors"
	"os"
	_ "time/tzdata"

	"pontos/internal/amqp"
	"pontos/internal/cli"
	applog "pontos/internal/log"
	"pontos/internal/services"
	"pontos/internal/worker"
)

const dialAttempts = 10

func main() {
	cli.LoadEnvFile()

	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentWorker)
	logger.Info("Starting pontos-worker",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldTimezone, cfg.Timezone,
		applog.FieldBackend, cfg.DataBackend,
		applog.FieldQueue, cfg.AMQPRecomputeQueue)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	store, err := cli.OpenStore(logger, cfg)
	if err != nil {
		logger.Error("Failed to open store", applog.FieldError, err)
		os.Exit(1)
	}
	defer store.Close()

	calc, err := cli.NewCalculator(cfg, logger)
	if err != nil {
		logger.Error("Failed to build calculator", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(applog.WithContext(context.Background(), logger))
	defer cancel()

	amqpLogger := logger.WithComponent(applog.ComponentAMQP)
	amqpClient, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, amqp.Queues{
		Recompute: cfg.AMQPRecomputeQueue,
		Snapshot:  cfg.AMQPSnapshotQueue,
	}, dialAttempts)
	if err != nil {
		amqpLogger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}

	ledger := services.NewLedgerService(store, calc, cfg.MaxLedgerDays, amqpClient)
	ledgerWorker := worker.NewLedgerWorker(ledger)

	consumeDone := make(chan struct{})
	shutdownCtx, shutdownDone := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func() {
		cancel()
		<-consumeDone
		amqpClient.Close()
	})

	go func() {
		defer close(consumeDone)
		if err := amqpClient.ConsumeRecompute(ctx, ledgerWorker.HandleRecompute); err != nil && !errors.Is(err, context.Canceled) {
			amqpLogger.Error("Message consumption failed",
				applog.FieldOperation, applog.OpConsume,
				applog.FieldQueue, cfg.AMQPRecomputeQueue,
				applog.FieldError, err)
		}
	}()

	select {
	case <-shutdownCtx.Done():
		cli.WaitForShutdown(shutdownCtx, shutdownDone)
	case <-consumeDone:
		logger.Warn("Consumer stopped, exiting")
		amqpClient.Close()
	}
}
