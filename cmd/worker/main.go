package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"propertypulse/internal/config"
	"propertypulse/internal/gateway"
	"propertypulse/internal/queue"
	"propertypulse/internal/repository"
	"propertypulse/internal/service"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Verify database connection
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Connected to database")

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	logRepo := repository.NewCommunicationLogRepository(db)

	var gw gateway.Gateway
	if cfg.Gateway.APIKey != "" {
		gw = gateway.NewAfricasTalkingGateway(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Username, cfg.Gateway.SenderID)
	} else {
		gw = gateway.NewMockGateway(cfg.Gateway.MockSuccessRate)
	}

	// Initialize services. The worker never queues new scheduled sends,
	// so no publisher is wired in.
	renderer := service.NewRendererService()
	resolver := service.NewResolverService(tenantRepo)
	templateSvc := service.NewTemplateService(templateRepo, renderer)
	dispatcher := service.NewDispatchEngine(gw, cfg.Gateway.Concurrency, cfg.Gateway.SendTimeout)
	commSvc := service.NewCommunicationService(resolver, templateSvc, renderer, dispatcher, logRepo, tenantRepo, nil)
	log.Println("✅ Services initialized")

	// Connect to RabbitMQ
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	log.Println("✅ Connected to RabbitMQ")

	// Create job handler
	handler := func(job *queue.ScheduledSendJob) error {
		ctx := context.Background()

		log.Printf("📨 Processing scheduled send, log ID: %d", job.LogID)

		if err := commSvc.ProcessScheduledLog(ctx, job.LogID); err != nil {
			log.Printf("❌ Failed to process scheduled send %d: %v", job.LogID, err)
			return err
		}

		log.Printf("✅ Scheduled send %d dispatched", job.LogID)
		return nil
	}

	// Start consumer
	consumer, err := queue.NewConsumer(conn, queue.ScheduledSendQueue, handler)
	if err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.Printf("✅ Worker started, consuming from queue: %s", queue.ScheduledSendQueue)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down gracefully...")

	if err := consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	conn.Close()
	db.Close()

	log.Println("✅ Worker stopped")
}
