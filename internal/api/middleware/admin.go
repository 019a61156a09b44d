package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AdminToken guards the lead read API. Requests must carry the configured
// token in X-Admin-Token.
func AdminToken(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("X-Admin-Token"))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid admin token"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
