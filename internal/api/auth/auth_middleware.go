package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/studyhub/app/observability/metrics"
	"github.com/FACorreiaa/studyhub/internal/api"
	"github.com/FACorreiaa/studyhub/internal/security/token"
)

type contextKey string

const ClaimsKey contextKey = "authClaims"

const bearerPrefix = "Bearer "

// Authenticate requires an "Authorization: Bearer <token>" header holding a
// token the verifier accepts. The verified claims are stored on the request
// context for GetClaimsFromContext.
func Authenticate(verifier TokenVerifier, logger *slog.Logger, m *metrics.AppMetrics) func(next http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, r *http.Request, reason, message string) {
		if m != nil {
			m.TokenRejectionsTotal.Add(r.Context(), 1, metric.WithAttributes(attribute.String("reason", reason)))
		}
		api.ErrorResponse(w, r, http.StatusUnauthorized, message)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				l.DebugContext(ctx, "Missing or malformed Authorization header")
				reject(w, r, "missing", MsgTokenRequired)
				return
			}

			claims, ok := verifier.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
			if !ok {
				l.DebugContext(ctx, "Bearer token rejected")
				reject(w, r, "invalid", MsgInvalidToken)
				return
			}

			ctx = context.WithValue(ctx, ClaimsKey, claims)
			l.DebugContext(ctx, "Authentication successful", slog.Int64("id", claims.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext returns the claims stored by Authenticate.
func GetClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*token.Claims)
	return claims, ok && claims != nil
}
