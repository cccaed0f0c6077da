package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/civicresolve/backend/config"
	"github.com/civicresolve/backend/internal/domain/repository"
	"github.com/civicresolve/backend/internal/infrastructure/memory"
	pginfra "github.com/civicresolve/backend/internal/infrastructure/postgres"
)

// Seeds the Postgres backend with the same sample data the in-memory stores
// start with, so the two backends are interchangeable during development.
// Safe to rerun; existing rows are left alone.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	seededUsers := 0
	for _, u := range memory.SampleUsers() {
		if _, err := users.GetByID(u.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("user lookup failed: %v", err)
		}
		if err := users.Create(u); err != nil {
			log.Fatalf("failed to seed user %s: %v", u.ID, err)
		}
		seededUsers++
	}
	fmt.Printf("seeded %d users (password for all: %s)\n", seededUsers, memory.SamplePassword)

	issues := pginfra.NewIssueRepository(pool)
	seededIssues := 0
	for _, i := range memory.SampleIssues() {
		if _, err := issues.GetByID(i.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("issue lookup failed: %v", err)
		}
		if err := issues.Create(i); err != nil {
			log.Fatalf("failed to seed issue %s: %v", i.ID, err)
		}
		seededIssues++
	}
	fmt.Printf("seeded %d issues\n", seededIssues)

	seededIDs := 0
	for _, id := range memory.SampleAadhaarIDs() {
		tag, err := pool.Exec(ctx,
			`INSERT INTO aadhaar_directory (national_id) VALUES ($1) ON CONFLICT (national_id) DO NOTHING`, id)
		if err != nil {
			log.Fatalf("failed to seed aadhaar id: %v", err)
		}
		seededIDs += int(tag.RowsAffected())
	}
	fmt.Printf("seeded %d aadhaar directory entries\n", seededIDs)
}
