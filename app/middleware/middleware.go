package appMiddleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders adds the standard browser hardening headers to every response.
// HTTPS redirects are only enforced in production.
func SecureHeaders(production bool) func(http.Handler) http.Handler {
	s := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !production,
	})
	return s.Handler
}
