package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders sets the standard browser hardening headers. SSL redirects are only enforced in production.
func SecureHeaders(production bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	}).Handler
}
