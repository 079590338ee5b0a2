package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"propertypulse/internal/config"
	"propertypulse/internal/gateway"
	"propertypulse/internal/handler"
	"propertypulse/internal/middleware"
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

	// Connect to RabbitMQ for the scheduled-send queue
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	log.Println("✅ Connected to RabbitMQ")

	publisher, err := queue.NewPublisher(conn, queue.ScheduledSendQueue)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	logRepo := repository.NewCommunicationLogRepository(db)

	// Pick the outbound gateway: live when an API key is configured,
	// otherwise the latency-simulating mock.
	var gw gateway.Gateway
	if cfg.Gateway.APIKey != "" {
		gw = gateway.NewAfricasTalkingGateway(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Username, cfg.Gateway.SenderID)
		log.Println("📡 Using Africa's Talking SMS gateway")
	} else {
		gw = gateway.NewMockGateway(cfg.Gateway.MockSuccessRate)
		log.Printf("📡 Using mock gateway (success rate: %.0f%%)", cfg.Gateway.MockSuccessRate*100)
	}

	// Initialize services
	renderer := service.NewRendererService()
	resolver := service.NewResolverService(tenantRepo)
	templateSvc := service.NewTemplateService(templateRepo, renderer)
	dispatcher := service.NewDispatchEngine(gw, cfg.Gateway.Concurrency, cfg.Gateway.SendTimeout)
	commSvc := service.NewCommunicationService(resolver, templateSvc, renderer, dispatcher, logRepo, tenantRepo, publisher)
	healthSvc := service.NewHealthService(db, cfg.GetRabbitMQURL(), "1.0.0")
	log.Println("✅ Services initialized")

	// Initialize handlers
	communicationHandler := handler.NewCommunicationHandler(commSvc)
	templateHandler := handler.NewTemplateHandler(templateSvc)
	healthHandler := handler.NewHealthHandler(healthSvc)

	// Create router
	router := mux.NewRouter()
	router.Use(middleware.Recovery)

	router.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")

	comms := router.PathPrefix("/communications").Subrouter()
	comms.HandleFunc("/bulk-send", communicationHandler.BulkSend).Methods("POST")
	comms.HandleFunc("/recipient-groups", communicationHandler.RecipientGroups).Methods("GET")
	comms.HandleFunc("/logs", communicationHandler.ListLogs).Methods("GET")
	comms.HandleFunc("/logs/{id}", communicationHandler.GetLog).Methods("GET")
	comms.HandleFunc("/send-scheduled", communicationHandler.SendScheduled).Methods("POST")
	comms.HandleFunc("/templates", templateHandler.List).Methods("GET")
	comms.HandleFunc("/templates", templateHandler.Create).Methods("POST")
	comms.HandleFunc("/templates/{id}", templateHandler.Delete).Methods("DELETE")
	comms.HandleFunc("/templates/seed-defaults", templateHandler.SeedDefaults).Methods("POST")

	// Start server
	port := ":" + cfg.Server.Port
	log.Printf("🚀 API Server starting on port %s", port)
	log.Printf("📍 Health check: http://localhost%s/health", port)
	log.Printf("🌍 Environment: %s", cfg.Env)

	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
