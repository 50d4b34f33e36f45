// seed inserts a demo user into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/user-api/internal/domain"
	"github.com/ErlanBelekov/user-api/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedName     = "Seed User"
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set - run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewUserRepository(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user, err := repo.Create(ctx, &domain.User{
		Name:         seedName,
		Email:        seedEmail,
		PasswordHash: string(hash),
		Active:       true,
	})
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		// Idempotent re-runs: keep the existing row.
		user, err = repo.FindByEmail(ctx, seedEmail)
		if err != nil {
			log.Fatalf("find seed user: %v", err)
		}
	case err != nil:
		log.Fatalf("create seed user: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Name:     %s\n", user.Name)
	fmt.Printf("  Email:    %s\n", user.Email)
	fmt.Printf("  Password: %s\n", seedPassword)
	fmt.Printf("  User ID:  %s\n", user.ID)
	fmt.Printf("  Active:   %t\n", user.Active)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 - authenticate:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/user/auth \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println("    # → {\"id\":\"...\",\"name\":\"Seed User\",\"token\":\"eyJ...\",...}")
	fmt.Println()
	fmt.Println("  Step 2 - fetch the user (add the bearer token when AUTH_REQUIRED=true):")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Printf("    curl -s http://localhost:8080/user/%s -H \"Authorization: Bearer $JWT\"\n", user.ID)
	fmt.Println()
	fmt.Println("  Step 3 - soft delete and re-activate:")
	fmt.Println()
	fmt.Printf("    curl -s -X DELETE http://localhost:8080/user/%s\n", user.ID)
	fmt.Printf("    curl -s -X POST http://localhost:8080/user/%s/activate\n", user.ID)
	fmt.Println()
	fmt.Println("  Errors come back as [{\"category\":\"user\",\"message\":{...}}];")
	fmt.Println("  send Accept-Language: pt-BR to get a single Portuguese string.")
}
