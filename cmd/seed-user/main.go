package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/ammybawa/Azure-Integration-App/internal/models"
	"github.com/ammybawa/Azure-Integration-App/internal/userstore"
)

// MinPasswordLength is the minimum password length requirement
const MinPasswordLength = 8

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)

func main() {
	// Parse command-line flags
	username := flag.String("username", "", "Username (required, 3-64 chars)")
	password := flag.String("password", "", "Password (required, min 8 chars)")
	admin := flag.Bool("admin", false, "Grant the admin role")
	flag.Parse()

	// Initialize OpenTelemetry for observability
	if err := initTracer(); err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}

	// Validate inputs
	if err := validateInputs(*username, *password); err != nil {
		log.Fatalf("Validation error: %v", err)
	}

	// Get database connection string from environment
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatalf("DATABASE_URL is required: seeding only applies to the Postgres-backed user store")
	}

	// Connect to PostgreSQL
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Test database connection
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to PostgreSQL database")

	store := userstore.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare user schema: %v", err)
	}

	roles := []string{models.RoleUser}
	if *admin {
		roles = []string{models.RoleAdmin, models.RoleUser}
	}

	user, err := store.Create(ctx, *username, *password, roles)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("✓ Successfully created user")
	log.Printf("  ID: %s", user.ID)
	log.Printf("  Username: %s", user.Username)
	log.Printf("  Roles: %s", strings.Join(user.Roles, ", "))
}

// validateInputs validates user input according to security requirements
func validateInputs(username, password string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-64 characters: letters, numbers, '.', '-', '_'")
	}

	// Validate password strength
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	// Check for password complexity (at least one letter and one number)
	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasLetter || !hasNumber {
		return fmt.Errorf("password must contain at least one letter and one number")
	}

	return nil
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
