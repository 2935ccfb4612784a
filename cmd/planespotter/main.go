package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ian8500/Plane-Spotter/internal/config"
	"github.com/ian8500/Plane-Spotter/internal/opensky"
	"github.com/ian8500/Plane-Spotter/internal/publish"
	"github.com/ian8500/Plane-Spotter/internal/server"
	"github.com/ian8500/Plane-Spotter/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(config.GetConfigPath())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}
	logger.SetOutput(os.Stdout)

	// Set log level
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to 'info'", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Upstream clients share one pooled OpenSky client
	client := opensky.NewClient(opensky.Config{
		BaseURL:     cfg.OpenSky.BaseURL,
		RouteURL:    cfg.OpenSky.RouteURL,
		MetadataURL: cfg.OpenSky.MetadataURL,
		Timeout:     cfg.OpenSky.Timeout,
	})

	pipeline := service.NewPipeline(service.Config{
		MaxFlights:         cfg.Feed.MaxFlights,
		MaxRouteLookups:    cfg.Feed.MaxRouteLookups,
		MaxMetadataLookups: cfg.Feed.MaxMetadataLookups,
		RouteTTL:           cfg.Feed.RouteTTL,
		MetadataTTL:        cfg.Feed.MetadataTTL,
		CacheMaxEntries:    cfg.Feed.CacheMaxEntries,
	}, client, client, client, logger)

	if cfg.Kafka.Enabled {
		publisher := publish.NewPublisher(publish.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, logger)
		defer publisher.Close()
		pipeline.SetPublisher(publisher)
		logger.WithFields(logrus.Fields{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.Topic,
		}).Info("Snapshot publishing enabled")
	}

	srv := server.NewServer(server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.Feed.RequestTimeout,
	}, pipeline, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	case sig := <-stop:
		logger.Infof("Received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
