package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/tokenflow-auth/config"
	"github.com/oksasatya/tokenflow-auth/internal/application"
	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	"github.com/oksasatya/tokenflow-auth/internal/domain/repository"
	mongoinfra "github.com/oksasatya/tokenflow-auth/internal/infrastructure/mongodb"
	"github.com/oksasatya/tokenflow-auth/pkg/helpers"
)

// seed inserts a verified demo identity so signin can be tried without a mail provider.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	email := flag.String("email", "demo@tokenflow.dev", "email of the seeded identity")
	password := flag.String("password", "Passw0rd", "password of the seeded identity")
	fullName := flag.String("fullname", "Demo User", "full name of the seeded identity")
	flag.Parse()

	if err := application.ValidateSignup(*fullName, *email, *password); err != nil {
		log.Fatalf("seed identity does not satisfy the signup rules: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongoinfra.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := mongoinfra.NewUserRepository(db, cfg.MongoUsersCollection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	hash, err := helpers.HashPasswordCost(*password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{
		FullName:        strings.ToLower(*fullName),
		Email:           *email,
		Username:        helpers.EmailLocalPart(*email),
		PasswordHash:    hash,
		IsVerified:      true,
		ProfileImageURL: helpers.RandomAvatarURL(),
	}
	err = repo.Create(ctx, u)
	if errors.Is(err, repository.ErrDuplicate) {
		existing, gErr := repo.GetByEmail(ctx, *email)
		if gErr != nil {
			log.Fatalf("seed user exists but lookup failed: %v", gErr)
		}
		if err := repo.UpdatePassword(ctx, existing.ID, hash); err != nil {
			log.Fatalf("failed to reset seed password: %v", err)
		}
		fmt.Printf("seed user already present: id=%s email=%s (password reset)\n", existing.ID, existing.Email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s username=%s password=%s\n", u.ID, u.Email, u.Username, *password)
}
