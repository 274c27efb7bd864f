package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/ammybawa/Azure-Integration-App/internal/auth"
	"github.com/ammybawa/Azure-Integration-App/internal/config"
	"github.com/ammybawa/Azure-Integration-App/internal/conversation"
	"github.com/ammybawa/Azure-Integration-App/internal/gateway"
	"github.com/ammybawa/Azure-Integration-App/internal/metrics"
	"github.com/ammybawa/Azure-Integration-App/internal/models"
	"github.com/ammybawa/Azure-Integration-App/internal/pricing"
	"github.com/ammybawa/Azure-Integration-App/internal/provision"
	"github.com/ammybawa/Azure-Integration-App/internal/session"
	"github.com/ammybawa/Azure-Integration-App/internal/terraform"
	"github.com/ammybawa/Azure-Integration-App/internal/userstore"

	_ "github.com/ammybawa/Azure-Integration-App/docs" // swagger docs
)

// @title Azure Provisioning Chatbot API
// @version 1.0
// @description Conversational API for provisioning Azure resources.
// @description
// @description The chatbot walks users through resource selection, subscription, resource group,
// @description region, and resource-specific configuration, then creates the resource directly
// @description or emits equivalent Terraform code.

// @contact.name API Support
// @contact.email support@application.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Initialize OpenTelemetry
	if err := initTracer(); err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var (
		pool     *pgxpool.Pool
		sessions session.Store
		users    userstore.Store
	)

	if cfg.DatabaseURL != "" {
		// Connect to PostgreSQL with retry logic
		log.Println("Connecting to PostgreSQL database...")
		for i := 0; i < 10; i++ {
			pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
			if err == nil {
				err = pool.Ping(ctx)
				if err == nil {
					break
				}
			}
			log.Printf("Waiting for database... (attempt %d/10): %v", i+1, err)
			time.Sleep(3 * time.Second)
		}
		if err != nil {
			log.Fatalf("Failed to connect to database after retries: %v", err)
		}
		defer pool.Close()
		log.Println("Connected to PostgreSQL database")

		sessionStore := session.NewPostgresStore(pool, cfg.SessionTTL)
		if err := sessionStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare session schema: %v", err)
		}
		userStore := userstore.NewPostgresStore(pool)
		if err := userStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare user schema: %v", err)
		}
		sessions = sessionStore
		users = userStore
	} else {
		log.Println("DATABASE_URL not set, using in-memory stores")
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		users = userstore.NewMemoryStore()
	}

	if err := userstore.EnsureAdmin(ctx, users, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to ensure admin account: %v", err)
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to initialize JWT manager: %v", err)
	}

	chatMetrics, err := metrics.NewChatMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Provisioning backends
	simulated := provision.NewSimulated()
	var rgEnsurer provision.ResourceGroupEnsurer = simulated
	if cfg.Provisioner == "arm" {
		armEnsurer, err := provision.NewARMResourceGroups()
		if err != nil {
			log.Fatalf("Failed to initialize ARM provisioner: %v", err)
		}
		rgEnsurer = armEnsurer
	}

	engine := conversation.NewEngine(conversation.Options{
		Store:               sessions,
		Estimator:           pricing.NewEstimator(),
		Generator:           terraform.NewGenerator(),
		Provisioner:         simulated,
		RGEnsurer:           rgEnsurer,
		Metrics:             chatMetrics,
		DefaultSubscription: cfg.AzureSubscriptionID,
		ProvisionTimeout:    cfg.ProvisionTimeout,
	})

	gatewayHandler := gateway.NewHandler(engine, sessions, users, jwtManager, pricing.NewRetailClient(), chatMetrics, cfg.TokenLifetime)
	chatSocket := gateway.NewChatSocket(engine, []string{cfg.FrontendURL})

	// Setup Gin router
	router := gin.Default()

	// Add structured JSON logging middleware
	router.Use(structuredLoggingMiddleware())
	router.Use(corsMiddleware(cfg.FrontendURL))

	// Health checks MUST be at the root for the WebService standard
	router.GET("/health", gatewayHandler.Health)

	router.GET("/ready", func(c *gin.Context) {
		// Check database connectivity for readiness
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not ready",
					"error":  "database connection failed",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// API routes
	api := router.Group("/api")

	// Public routes (no authentication required)
	api.POST("/auth/login", gatewayHandler.Login)

	// Health check (public) - keep for backward compatibility
	api.GET("/health", gatewayHandler.Health)

	// Pricing lookup (public, rate limited upstream)
	api.GET("/pricing/retail", gatewayHandler.RetailPrices)

	// Swagger documentation (public)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Session creation works anonymously but records identity when a
	// valid token is presented
	optional := api.Group("")
	optional.Use(auth.OptionalAuth(jwtManager))
	optional.POST("/session", gatewayHandler.CreateSession)
	optional.DELETE("/session/:session_id", gatewayHandler.DeleteSession)
	optional.POST("/chat", gatewayHandler.Chat)
	optional.GET("/ws/chat/:session_id", chatSocket.Stream)

	// Protected routes (require JWT authentication)
	protected := api.Group("")
	protected.Use(auth.RequireAuth(jwtManager))
	protected.GET("/auth/me", gatewayHandler.Me)

	// Account creation is restricted to admins
	admin := protected.Group("")
	admin.Use(auth.RequireRole(models.RoleAdmin))
	admin.POST("/auth/register", gatewayHandler.Register)

	// HTTP server configuration
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Provisioning responses can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting Azure Provisioning Chatbot API server on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// initTracer initializes OpenTelemetry tracing
func initTracer() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return nil
}

// corsMiddleware allows the configured frontend origin plus local dev hosts
func corsMiddleware(frontendURL string) gin.HandlerFunc {
	allowed := map[string]bool{
		frontendURL:             true,
		"http://localhost:3000": true,
		"http://localhost:5173": true,
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// structuredLoggingMiddleware provides structured JSON logging for all requests
func structuredLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		// Calculate latency
		latency := time.Since(start)

		// Get user ID from context if available
		userID, _ := c.Get("user_id")

		// Build log entry
		logEntry := map[string]interface{}{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}

		// Add user ID if authenticated
		if userID != nil {
			logEntry["user_id"] = userID
		}

		// Add error if present
		if len(c.Errors) > 0 {
			logEntry["errors"] = c.Errors.String()
		}

		// Output as JSON
		logJSON, _ := json.Marshal(logEntry)
		log.Println(string(logJSON))
	}
}
