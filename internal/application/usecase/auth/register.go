package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshare/internal/domain/user"
	"github.com/khoahotran/vidshare/pkg/apperror"
	"github.com/khoahotran/vidshare/pkg/auth"
	"github.com/khoahotran/vidshare/pkg/logger"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts up to 72 bytes of input.
	maxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RegisterUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{userRepo: repo, jwtSvc: jwtSvc, logger: log}
}

type RegisterInput struct {
	Email    string
	Password string
}

type RegisterOutput struct {
	AccessToken string
	User        *user.User
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailPattern.MatchString(email) {
		return nil, apperror.NewInvalidField("email", "must be a valid email address")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperror.NewInvalidField("password", "must be at least 6 characters")
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, apperror.NewInvalidField("password", "must be at most 72 bytes")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := uc.userRepo.Create(ctx, u)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	u.ID = id
	span.SetAttributes(attribute.String("user_id", id))

	token, err := uc.jwtSvc.GenerateToken(id)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", id))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	uc.logger.Info("User registered", zap.String("user_id", id))
	return &RegisterOutput{AccessToken: token, User: u}, nil
}
