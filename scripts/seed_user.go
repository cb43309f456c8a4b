package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/khoahotran/vidshare/adapters/persistence"
	authUC "github.com/khoahotran/vidshare/internal/application/usecase/auth"
	"github.com/khoahotran/vidshare/internal/config"
	"github.com/khoahotran/vidshare/pkg/apperror"
	"github.com/khoahotran/vidshare/pkg/auth"
	"github.com/khoahotran/vidshare/pkg/logger"
)

// Creates a user account in the configured catalog store so a fresh
// deployment has someone to upload as. Reads SEED_EMAIL and SEED_PASSWORD.
func main() {
	fmt.Println("adding seed user into database...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.Log.Level)
	defer appLogger.Sync()

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")

	ctx := context.Background()
	repos, err := persistence.NewRepositories(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer repos.Close()

	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	out, err := authUC.NewRegisterUseCase(repos.Users, jwtSvc, appLogger).Execute(ctx, authUC.RegisterInput{
		Email:    email,
		Password: password,
	})
	if errors.Is(err, apperror.ErrConflict) {
		fmt.Printf("user '%s' already exists, nothing to do\n", email)
		return
	}
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added user '%s' (%s) successfully!\n", out.User.Email, out.User.ID)
	fmt.Printf("access token: %s\n", out.AccessToken)
}
