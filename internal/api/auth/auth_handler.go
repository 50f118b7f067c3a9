package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/studyhub/app/observability/metrics"
	"github.com/FACorreiaa/studyhub/internal/api"
	"github.com/FACorreiaa/studyhub/internal/types"
)

const (
	outcomeSuccess      = "success"
	outcomeInvalid      = "invalid"
	outcomeConflict     = "conflict"
	outcomeUnauthorized = "unauthorized"
	outcomeError        = "error"
)

// AuthHandler serves /api/auth. When exposeErrors is set, 500 responses carry
// the raw error text in their message field.
type AuthHandler struct {
	authService  AuthService
	logger       *slog.Logger
	metrics      *metrics.AppMetrics
	exposeErrors bool
}

func NewAuthHandler(authService AuthService, logger *slog.Logger, m *metrics.AppMetrics, exposeErrors bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		logger:       logger,
		metrics:      m,
		exposeErrors: exposeErrors,
	}
}

func (h *AuthHandler) record(r *http.Request, instruments func(*metrics.AppMetrics) (metric.Int64Counter, metric.Float64Histogram), start time.Time, outcome string) {
	if h.metrics == nil {
		return
	}
	c, hist := instruments(h.metrics)
	metrics.RecordOutcome(r.Context(), c, hist, start, outcome)
}

func signupInstruments(m *metrics.AppMetrics) (metric.Int64Counter, metric.Float64Histogram) {
	return m.SignupRequestsTotal, m.SignupDurationSeconds
}

func loginInstruments(m *metrics.AppMetrics) (metric.Int64Counter, metric.Float64Histogram) {
	return m.LoginRequestsTotal, m.LoginDurationSeconds
}

// Signup godoc
// @Summary      Create an account
// @Description  Registers a new user and returns a bearer token valid for seven days.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body types.SignupRequest true "Signup details"
// @Success      201 {object} types.AuthResponse "Account created"
// @Failure      400 {object} types.ErrorBody "Missing or invalid field"
// @Failure      409 {object} types.ErrorBody "userId already in use"
// @Failure      500 {object} types.ErrorBody "Internal Server Error"
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Signup"))

	var req types.SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode signup request body", slog.Any("error", err))
		h.record(r, signupInstruments, start, outcomeInvalid)
		api.ErrorDetailResponse(w, r, http.StatusBadRequest, MsgInvalidBody, err, true)
		return
	}

	signed, user, err := h.authService.Signup(ctx, req)
	if err != nil {
		var verr *types.ValidationError
		switch {
		case errors.As(err, &verr):
			h.record(r, signupInstruments, start, outcomeInvalid)
			api.ErrorResponse(w, r, http.StatusBadRequest, verr.Message)
		case errors.Is(err, types.ErrConflict):
			h.record(r, signupInstruments, start, outcomeConflict)
			api.ErrorResponse(w, r, http.StatusConflict, MsgUserIDTaken)
		default:
			l.ErrorContext(ctx, "Signup failed", slog.Any("error", err))
			h.record(r, signupInstruments, start, outcomeError)
			api.ErrorDetailResponse(w, r, http.StatusInternalServerError, MsgSignupFailed, err, h.exposeErrors)
		}
		return
	}

	h.record(r, signupInstruments, start, outcomeSuccess)
	api.WriteJSONResponse(w, r, http.StatusCreated, types.AuthResponse{
		Success: true,
		Message: MsgSignupSucceeded,
		Token:   signed,
		User:    types.NewPublicUser(user),
	})
}

// Login godoc
// @Summary      Log in
// @Description  Checks credentials, records the login time and returns a fresh bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body types.LoginRequest true "Credentials"
// @Success      200 {object} types.AuthResponse "Logged in"
// @Failure      400 {object} types.ErrorBody "Missing field"
// @Failure      401 {object} types.ErrorBody "Invalid credentials"
// @Failure      500 {object} types.ErrorBody "Internal Server Error"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode login request body", slog.Any("error", err))
		h.record(r, loginInstruments, start, outcomeInvalid)
		api.ErrorDetailResponse(w, r, http.StatusBadRequest, MsgInvalidBody, err, true)
		return
	}

	signed, user, err := h.authService.Login(ctx, req)
	if err != nil {
		var verr *types.ValidationError
		switch {
		case errors.As(err, &verr):
			h.record(r, loginInstruments, start, outcomeInvalid)
			api.ErrorResponse(w, r, http.StatusBadRequest, verr.Message)
		case errors.Is(err, types.ErrUnauthenticated):
			h.record(r, loginInstruments, start, outcomeUnauthorized)
			api.ErrorResponse(w, r, http.StatusUnauthorized, MsgInvalidCredentials)
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			h.record(r, loginInstruments, start, outcomeError)
			api.ErrorDetailResponse(w, r, http.StatusInternalServerError, MsgLoginFailed, err, h.exposeErrors)
		}
		return
	}

	h.record(r, loginInstruments, start, outcomeSuccess)
	api.WriteJSONResponse(w, r, http.StatusOK, types.AuthResponse{
		Success: true,
		Message: MsgLoginSucceeded,
		Token:   signed,
		User:    types.NewPublicUser(user),
	})
}

// GetUser godoc
// @Summary      Current user
// @Description  Returns the profile of the user the bearer token was issued to.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.UserResponse "Current user"
// @Failure      401 {object} types.ErrorBody "Missing, invalid or expired token"
// @Failure      404 {object} types.ErrorBody "User not found"
// @Failure      500 {object} types.ErrorBody "Internal Server Error"
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GetUser"))

	claims, ok := GetClaimsFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "Claims not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, MsgMissingAuthClaim)
		return
	}

	user, err := h.authService.GetUser(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, MsgUserNotFound)
			return
		}
		l.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		api.ErrorDetailResponse(w, r, http.StatusInternalServerError, MsgGetUserFailed, err, h.exposeErrors)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.UserResponse{
		Success: true,
		User:    types.NewPublicUser(user),
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Tokens are stateless; clients discard theirs. Always succeeds.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.Response "Logged out"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: MsgLoggedOut,
	})
}
