package useragent

import "net/http"

// Middleware parses the request's User-Agent header and stores the result
// in the request context. Parse errors (unknown device, malformed string)
// are not fatal to the request; the best-effort UserAgent is stored either
// way since even a partially-classified UA is useful for audit enrichment.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua, _ := Parse(r.UserAgent())
		next.ServeHTTP(w, r.WithContext(SetToContext(r.Context(), ua)))
	})
}
