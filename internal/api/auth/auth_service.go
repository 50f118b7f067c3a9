package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/studyhub/internal/models"
	"github.com/FACorreiaa/studyhub/internal/security/password"
	"github.com/FACorreiaa/studyhub/internal/security/token"
	"github.com/FACorreiaa/studyhub/internal/types"
	"github.com/FACorreiaa/studyhub/internal/validation"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService holds the account use cases behind the /api/auth endpoints.
type AuthService interface {
	// Signup creates an account and returns a token for it.
	Signup(ctx context.Context, req types.SignupRequest) (string, *models.User, error)
	// Login checks credentials, stamps last_login and returns a fresh token.
	// Unknown users, inactive users and wrong passwords all yield types.ErrUnauthenticated.
	Login(ctx context.Context, req types.LoginRequest) (string, *models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type AuthServiceImpl struct {
	logger   *slog.Logger
	repo     AuthRepo
	hasher   password.Hasher
	issuer   TokenIssuer
	validate *validator.Validate
	tokenTTL time.Duration
}

func NewAuthService(repo AuthRepo, hasher password.Hasher, issuer TokenIssuer, tokenTTL time.Duration, logger *slog.Logger) *AuthServiceImpl {
	if tokenTTL <= 0 {
		tokenTTL = token.DefaultTTL
	}
	return &AuthServiceImpl{
		logger:   logger,
		repo:     repo,
		hasher:   hasher,
		issuer:   issuer,
		validate: validation.New(),
		tokenTTL: tokenTTL,
	}
}

// checkRequest validates req and turns the first broken rule into a
// types.ValidationError carrying the matching message from messages.
func (s *AuthServiceImpl) checkRequest(req any, messages map[validation.Rule]string) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	rule, ok := validation.FirstFailure(err)
	if !ok {
		return fmt.Errorf("error validating request: %w", err)
	}
	msg, found := messages[rule]
	if !found {
		msg = messages[validation.RuleRequired]
	}
	return types.NewValidationError(string(rule), msg)
}

func (s *AuthServiceImpl) Signup(ctx context.Context, req types.SignupRequest) (string, *models.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Signup", trace.WithAttributes(
		attribute.String("user.user_id", req.UserID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Signup"), slog.String("userId", req.UserID))
	l.DebugContext(ctx, "Processing signup")

	if err := s.checkRequest(req, signupRuleMessages); err != nil {
		l.InfoContext(ctx, "Signup rejected by validation", slog.Any("error", err))
		span.SetStatus(codes.Error, "Validation failed")
		return "", nil, err
	}

	exists, err := s.repo.ExistsByUserID(ctx, req.UserID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to check user id availability", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to check user id")
		return "", nil, fmt.Errorf("error checking user id: %w", err)
	}
	if exists {
		l.InfoContext(ctx, "User id already taken")
		span.SetStatus(codes.Error, "User id taken")
		return "", nil, fmt.Errorf("user id %q already exists: %w", req.UserID, types.ErrConflict)
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to hash password")
		return "", nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, models.NewUser(req.UserID, req.Username, digest))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		if errors.Is(err, types.ErrConflict) {
			return "", nil, err
		}
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return "", nil, fmt.Errorf("error creating user: %w", err)
	}

	signed, err := s.issue(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue token")
		return "", nil, err
	}

	l.InfoContext(ctx, "User signed up", slog.Int64("id", user.ID))
	span.SetStatus(codes.Ok, "User signed up")
	return signed, user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req types.LoginRequest) (string, *models.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("user.user_id", req.UserID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("userId", req.UserID))
	l.DebugContext(ctx, "Processing login")

	if err := s.checkRequest(req, loginRuleMessages); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		return "", nil, err
	}

	user, err := s.repo.GetActiveUserByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.InfoContext(ctx, "Login for unknown or inactive user")
			span.SetStatus(codes.Error, "Invalid credentials")
			return "", nil, fmt.Errorf("login failed: %w", types.ErrUnauthenticated)
		}
		l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch user")
		return "", nil, fmt.Errorf("error fetching user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		l.InfoContext(ctx, "Login with wrong password")
		span.SetStatus(codes.Error, "Invalid credentials")
		return "", nil, fmt.Errorf("login failed: %w", types.ErrUnauthenticated)
	}

	lastLogin, err := s.repo.UpdateLastLogin(ctx, user.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update last login", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update last login")
		return "", nil, fmt.Errorf("error updating last login: %w", err)
	}
	user.LastLogin = &lastLogin

	signed, err := s.issue(user)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue token")
		return "", nil, err
	}

	l.InfoContext(ctx, "User logged in", slog.Int64("id", user.ID))
	span.SetStatus(codes.Ok, "User logged in")
	return signed, user, nil
}

func (s *AuthServiceImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "GetUser", trace.WithAttributes(
		attribute.Int64("user.id", id),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetUser"), slog.Int64("id", id))

	user, err := s.repo.GetActiveUserByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch user")
		if errors.Is(err, types.ErrNotFound) {
			l.InfoContext(ctx, "User not found or inactive")
			return nil, err
		}
		l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User fetched")
	return user, nil
}

func (s *AuthServiceImpl) issue(user *models.User) (string, error) {
	signed, err := s.issuer.Issue(token.Claims{
		ID:       user.ID,
		UserID:   user.UserID,
		Username: user.Username,
	}, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}
	return signed, nil
}
