package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/studyhub/app/observability/metrics"
	"github.com/FACorreiaa/studyhub/internal/models"
	"github.com/FACorreiaa/studyhub/internal/types"
)

const uniqueViolation = "23505"

const userColumns = `id, user_id, password_hash, username, email, profile_image, bio,
	created_at, updated_at, last_login, is_active`

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the user store used by the account handlers. Every call is a
// single parameterized statement.
type AuthRepo interface {
	// ExistsByUserID reports whether any user, active or not, holds userID.
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	// CreateUser inserts user and returns the stored row.
	// Returns types.ErrConflict when userID is already taken.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetActiveUserByUserID returns types.ErrNotFound for unknown or inactive users.
	GetActiveUserByUserID(ctx context.Context, userID string) (*models.User, error)
	// GetActiveUserByID returns types.ErrNotFound for unknown or inactive users.
	GetActiveUserByID(ctx context.Context, id int64) (*models.User, error)
	// UpdateLastLogin stamps last_login with the current time and returns it.
	UpdateLastLogin(ctx context.Context, id int64) (time.Time, error)
}

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresAuthRepo struct {
	logger  *slog.Logger
	pgpool  DB
	metrics *metrics.AppMetrics
}

func NewPostgresAuthRepo(pgpool DB, logger *slog.Logger, m *metrics.AppMetrics) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger:  logger,
		pgpool:  pgpool,
		metrics: m,
	}
}

func (r *PostgresAuthRepo) startSpan(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "users"),
	}, attrs...)
	return otel.Tracer("AuthRepo").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (r *PostgresAuthRepo) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	ctx, span := r.startSpan(ctx, "ExistsByUserID", "SELECT", attribute.String("db.user.user_id", userID))
	defer span.End()

	start := time.Now()
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)",
		userID).Scan(&exists)
	r.metrics.RecordQuery(ctx, "SELECT", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return false, fmt.Errorf("database error checking user id: %w", err)
	}
	return exists, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, span := r.startSpan(ctx, "CreateUser", "INSERT", attribute.String("db.user.user_id", user.UserID))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("userId", user.UserID))

	query := `
        INSERT INTO users (user_id, password_hash, username, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING ` + userColumns

	start := time.Now()
	created, err := scanUser(r.pgpool.QueryRow(ctx, query, user.UserID, user.PasswordHash, user.Username, user.IsActive))
	r.metrics.RecordQuery(ctx, "INSERT", start, err)
	if err != nil {
		span.RecordError(err)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			l.WarnContext(ctx, "User id already taken")
			span.SetStatus(codes.Error, "Unique violation")
			return nil, fmt.Errorf("user id %q already exists: %w", user.UserID, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.user.id", created.ID))
	l.InfoContext(ctx, "User created", slog.Int64("id", created.ID))
	return created, nil
}

func (r *PostgresAuthRepo) GetActiveUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	ctx, span := r.startSpan(ctx, "GetActiveUserByUserID", "SELECT", attribute.String("db.user.user_id", userID))
	defer span.End()

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND is_active = TRUE`

	start := time.Now()
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, userID))
	return r.finishLookup(ctx, span, start, user, err)
}

func (r *PostgresAuthRepo) GetActiveUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, span := r.startSpan(ctx, "GetActiveUserByID", "SELECT", attribute.Int64("db.user.id", id))
	defer span.End()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active = TRUE`

	start := time.Now()
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, id))
	return r.finishLookup(ctx, span, start, user, err)
}

func (r *PostgresAuthRepo) finishLookup(ctx context.Context, span trace.Span, start time.Time, user *models.User, err error) (*models.User, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		r.metrics.RecordQuery(ctx, "SELECT", start, nil)
		span.SetStatus(codes.Error, "User not found")
		return nil, fmt.Errorf("active user not found: %w", types.ErrNotFound)
	}
	r.metrics.RecordQuery(ctx, "SELECT", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) UpdateLastLogin(ctx context.Context, id int64) (time.Time, error) {
	ctx, span := r.startSpan(ctx, "UpdateLastLogin", "UPDATE", attribute.Int64("db.user.id", id))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateLastLogin"), slog.Int64("id", id))

	start := time.Now()
	var lastLogin time.Time
	err := r.pgpool.QueryRow(ctx,
		"UPDATE users SET last_login = NOW() WHERE id = $1 RETURNING last_login",
		id).Scan(&lastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		r.metrics.RecordQuery(ctx, "UPDATE", start, nil)
		l.WarnContext(ctx, "Attempted to update last login for non-existent user")
		span.SetStatus(codes.Error, "User not found")
		return time.Time{}, fmt.Errorf("user not found: %w", types.ErrNotFound)
	}
	r.metrics.RecordQuery(ctx, "UPDATE", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update user last login timestamp", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return time.Time{}, fmt.Errorf("database error updating last login: %w", err)
	}
	return lastLogin, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.UserID,
		&u.PasswordHash,
		&u.Username,
		&u.Email,
		&u.ProfileImage,
		&u.Bio,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLogin,
		&u.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
