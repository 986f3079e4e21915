// Command liked runs the like service.
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
	"parley/internal/like"
	"parley/internal/observability"
	"parley/internal/repository"
	"parley/internal/service"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig("like")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "like_service",
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

	likes := service.NewLikeService(repository.NewLikeRepository(db))
	srv := like.NewServer(cfg, likes, rdb)

	app := fiber.New(fiber.Config{AppName: "Parley Like Service"})
	srv.SetupRoutes(app)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down like service...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Like service shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	log.Printf("Like service starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
