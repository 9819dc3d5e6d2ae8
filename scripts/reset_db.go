package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"parcel-backend/internal/auth"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Parcel Ledger Database")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("⚠️  WARNING: This will DELETE ALL LEDGER DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all delivery records")
	fmt.Println("  - Delete all vendors and vendor logins")
	fmt.Println("  - Delete all users")
	fmt.Println("  - Reset all ID sequences")
	fmt.Println("  - Create a default admin")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	// Load environment variables
	godotenv.Load()

	// Database connection
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "parcel_db")

	adminEmail := getEnv("ADMIN_EMAIL", "admin@parcel.local")
	adminPassword := getEnv("ADMIN_PASSWORD", "admin123")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("🔄 Resetting database...")

	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	// Children first; RESTART IDENTITY resets the id sequences
	tables := []string{
		"delivery_records",
		"users",
		"vendors",
	}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			log.Fatalf("Failed to truncate %s: %v", table, err)
		}
		fmt.Printf("  ✓ Cleared %s\n", table)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO users (name, email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, 'admin', TRUE, NOW(), NOW())`,
		"Administrator", adminEmail, hash,
	)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	fmt.Println("  ✓ Created admin user")

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit transaction: %v", err)
	}

	fmt.Println()
	fmt.Println("✅ Database reset successful!")
	fmt.Println()
	fmt.Println("Default credentials:")
	fmt.Printf("  Email:    %s\n", adminEmail)
	fmt.Printf("  Password: %s\n", adminPassword)
	fmt.Println()
	fmt.Println("Cached statements in Redis expire on their own TTL; flush ledger:* to drop them now.")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
