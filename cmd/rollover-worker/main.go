package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"casaspese/internal/amqp"
	"casaspese/internal/backend"
	"casaspese/internal/config"
	applog "casaspese/internal/log"
	"casaspese/internal/services"
	"casaspese/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting rollover-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Backend initialization failed",
			applog.FieldBackend, cfg.DataBackend, applog.FieldError, err.Error())
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	// AMQP is optional: without it the worker still advances the cursor and
	// keeps alerts in memory for the API.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without publishing",
				applog.FieldError, err.Error())
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	detector := services.NewRolloverDetector(result.Backend, result.Backend, result.Backend, logger)

	var publisher worker.AlertPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	w := worker.NewRolloverWorker(detector, publisher, cfg.RolloverInterval, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w.Start(gctx)
		<-gctx.Done()
		w.Stop()
		return gctx.Err()
	})

	if amqpClient != nil {
		g.Go(func() error {
			// Log consumed alerts so operators see them even without a
			// downstream notification service attached.
			return amqpClient.ConsumeUnpaidAlerts(gctx, func(msg *amqp.UnpaidAlertMessage) error {
				logger.Info("Unpaid alert received",
					applog.FieldAlertID, msg.AlertID,
					applog.FieldSubCat, msg.SubCategoryID,
					applog.FieldAmount, msg.Amount)
				return nil
			})
		})
	}

	logger.Info("Rollover worker running", "interval", cfg.RolloverInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Rollover worker stopped gracefully")
}
