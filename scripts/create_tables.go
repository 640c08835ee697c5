package main

import (
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/config"
	"github.com/Central-University-IT-prod/2025-hack-vvo-team-06-dorm-match/internal/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	sqlBytes, err := os.ReadFile("scripts/schema.sql")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read SQL file: %v\n", err)
		os.Exit(1)
	}

	if _, err := db.Exec(string(sqlBytes)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ dorm-match tables created successfully!")
}
