// Command discussiond runs the discussion service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parley/internal/cache"
	"parley/internal/config"
	"parley/internal/database"
	"parley/internal/discussion"
	"parley/internal/observability"
	"parley/internal/repository"
	"parley/internal/search"
	"parley/internal/service"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig("discussion")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "discussion_service",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampler,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	rdb := cache.Connect(cfg.RedisURL)

	var indexer service.DiscussionIndexer
	if esClient, esErr := search.NewClient(cfg); esErr != nil {
		log.Printf("Elasticsearch warning: %v (continuing without discussion indexing)", esErr)
	} else {
		indexer = esClient
	}

	discussions := service.NewDiscussionService(repository.NewDiscussionRepository(db), indexer)
	srv := discussion.NewServer(cfg, discussions, rdb)

	app := fiber.New(fiber.Config{AppName: "Parley Discussion Service"})
	srv.SetupRoutes(app)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down discussion service...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Discussion service shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	log.Printf("Discussion service starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
