package middleware

import (
	"net/http"
	"strings"
)

// CaseInsensitiveMiddleware lowercases the URL path and drops a trailing
// slash, so /Ultimo_QR/ and /ultimo_qr reach the same route. Flight and
// drawer ids in paths are normalised by the handlers.
func CaseInsensitiveMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.ToLower(r.URL.Path)
		if len(path) > 1 {
			path = strings.TrimRight(path, "/")
			if path == "" {
				path = "/"
			}
		}
		r.URL.Path = path
		r.URL.RawPath = ""

		next.ServeHTTP(w, r)
	})
}
