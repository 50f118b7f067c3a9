package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/studyhub/app/db"
	"github.com/FACorreiaa/studyhub/app/observability/metrics"
	"github.com/FACorreiaa/studyhub/config"
	"github.com/FACorreiaa/studyhub/internal/api/auth"
	"github.com/FACorreiaa/studyhub/internal/router"
	"github.com/FACorreiaa/studyhub/internal/security/password"
	"github.com/FACorreiaa/studyhub/internal/security/token"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *slog.Logger
	Pool         *pgxpool.Pool
	Metrics      *metrics.AppMetrics
	AuthHandler  *auth.AuthHandler
	Authenticate func(http.Handler) http.Handler
}

// NewContainer opens the database pool and wires the account API on top of it.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	m := metrics.Get()
	c, err := NewWithRepo(cfg, logger, auth.NewPostgresAuthRepo(pool, logger, m), m)
	if err != nil {
		pool.Close()
		return nil, err
	}
	c.Pool = pool
	return c, nil
}

// NewWithRepo wires hasher, token codec, service and handler around repo.
// m may be nil, in which case nothing is recorded.
func NewWithRepo(cfg *config.Config, logger *slog.Logger, repo auth.AuthRepo, m *metrics.AppMetrics) (*Container, error) {
	hasher, err := password.New(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to build password hasher: %w", err)
	}

	codec, err := token.NewCodec(cfg.JWT.SecretKey, token.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build token codec: %w", err)
	}

	authService := auth.NewAuthService(repo, hasher, codec, cfg.JWT.TokenTTL, logger)
	authHandler := auth.NewAuthHandler(authService, logger, m, cfg.Server.ExposeErrorDetail)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Metrics:      m,
		AuthHandler:  authHandler,
		Authenticate: auth.Authenticate(codec, logger, m),
	}, nil
}

// Router builds the application routes.
func (c *Container) Router() chi.Router {
	return router.SetupRouter(&router.Config{
		AuthHandler:            c.AuthHandler,
		AuthenticateMiddleware: c.Authenticate,
		StaticDir:              c.Config.Server.StaticDir,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
