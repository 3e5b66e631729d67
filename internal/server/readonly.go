package server

import "net/http"

// ReadOnlyMiddleware serves GET, HEAD and OPTIONS and rejects every other
// method with 405, so a public showcase deployment cannot change its palette.
func ReadOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			MethodNotAllowed(w, "GET, HEAD, OPTIONS", "server is in read-only mode", r.URL.Path)
		}
	})
}
