package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"orderdesk/config"
	"orderdesk/internal/channel"
	"orderdesk/internal/metrics"
	"orderdesk/logger"
	"orderdesk/order"
	"orderdesk/reader"
	"orderdesk/session"
	"orderdesk/view"
)

const defaultConfigPath = "config/config.yml"

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(config.ResolvePath(*configPath, defaultConfigPath))
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service":     cfg.Client.Name,
		"version":     cfg.Client.Version,
		"environment": config.AppEnvironment(),
		"feed":        cfg.FeedURL(),
		"orders":      cfg.OrdersURL(),
	}).Info("starting orderdesk")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.Init()
	if cfg.Metrics.PrometheusAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.PrometheusAddr); err != nil {
				log.WithError(err).Warn("metrics endpoint stopped")
			}
		}()
	}

	if cfg.Metrics.CloudWatch.Enabled {
		logger.InitCloudWatch(ctx, logger.CloudWatchOptions{
			Region:          cfg.Metrics.CloudWatch.Region,
			Namespace:       cfg.Metrics.CloudWatch.Namespace,
			Dashboard:       cfg.Metrics.CloudWatch.Dashboard,
			AccessKeyID:     cfg.Metrics.CloudWatch.AccessKeyID,
			SecretAccessKey: cfg.Metrics.CloudWatch.SecretAccessKey,
		})
	}
	logger.StartReport(ctx, log, cfg.Metrics.ReportInterval)

	events := channel.NewEvents(cfg.Feed.EventBuffer)
	events.StartMetricsReporting(ctx, cfg.Metrics.ReportInterval)

	screen := view.NewScreen(os.Stdout, cfg.View.ANSI)
	feed := reader.NewSubscriber(cfg, events)
	sess := session.New(cfg, events, feed, order.NewClient(cfg), screen)

	// The console is not waited for: it may be blocked on stdin when the
	// session ends.
	go func() {
		if err := session.NewConsole(os.Stdin, events).Run(ctx); err != nil {
			log.WithError(err).Warn("console stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := sess.Run(ctx); err != nil {
		log.WithError(err).Error("session failed")
	}
	cancel()

	log.WithFields(logger.Fields{"session_id": sess.ID}).Info("orderdesk stopped")
}
