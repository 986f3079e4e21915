// Command searchd runs the search service over the Elasticsearch index.
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
	"parley/internal/observability"
	"parley/internal/search"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig("search")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "search_service",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampler,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	esClient, err := search.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create Elasticsearch client: %v", err)
	}

	rdb := cache.Connect(cfg.RedisURL)
	srv := search.NewServer(cfg, esClient, rdb)

	app := fiber.New(fiber.Config{AppName: "Parley Search Service"})
	srv.SetupRoutes(app)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down search service...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Search service shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	log.Printf("Search service starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
