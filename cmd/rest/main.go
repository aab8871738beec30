package main

import (
	"context"
	"log"

	"mailfloww-be/internal/bootstrap"
	"mailfloww-be/internal/config"
	"mailfloww-be/internal/server"
	"mailfloww-be/internal/tracer"
	"mailfloww-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.SysLogger.Sync()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	if container.PollInterval > 0 {
		log.Printf("Background: Polling email backend every %s", container.PollInterval)
		container.FetcherService.RunPeriodic(context.Background(), container.PollInterval)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
