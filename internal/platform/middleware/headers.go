package middleware

import (
	"net/http"
	"strings"
)

// Security sets response headers that keep API responses out of caches and
// frames. Requests under any of skipPaths (such as the docs UI) are left alone.
func Security(skipPaths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skipPaths {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			h := w.Header()
			h.Set("Cache-Control", "no-store")
			h.Set("Content-Security-Policy", "frame-ancestors 'none'")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	}
}

// Vary adds Accept to the Vary header, since every response may be JSON or
// CBOR depending on it.
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, v := range w.Header().Values("Vary") {
				for part := range strings.SplitSeq(v, ",") {
					if strings.EqualFold(strings.TrimSpace(part), "Accept") {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			w.Header().Add("Vary", "Accept")
			next.ServeHTTP(w, r)
		})
	}
}
