// Command gateway is the public entry point: it authenticates requests and
// forwards them to the domain services.
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
	"parley/internal/gateway"
	"parley/internal/observability"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig("gateway")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "api_gateway",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampler,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	rdb := cache.Connect(cfg.RedisURL)
	srv := gateway.NewServer(cfg, rdb)

	app := fiber.New(fiber.Config{
		AppName:   "Parley API Gateway",
		BodyLimit: 10 * 1024 * 1024,
	})
	srv.SetupRoutes(app)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gateway...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Gateway shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	log.Printf("Gateway starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
