// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// previewCSP locks down rendered email HTML served to the app: no scripts,
// no plugins, no form posts, images from anywhere, inline styles allowed.
const previewCSP = "default-src 'none'; img-src https: http: data:; style-src 'unsafe-inline'; " +
	"font-src https: data:; form-action 'none'; frame-ancestors 'self'; base-uri 'none'"

// SecureHeaders adds security-related HTTP headers to every response.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		// Rendered emails may only be framed by the app itself.
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", previewCSP)
		// Drafts and renders are per-photographer; keep them out of shared caches.
		h.Set("Cache-Control", "private, no-store")

		next.ServeHTTP(w, r)
	})
}
