package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rakapradana/auth-gate-be/internal/auth"
)

const bearerPrefix = "Bearer "

// RequireAuth gates protected routes behind bearer-token verification.
// Requests without a well-formed Authorization header are rejected with
// 401; requests whose token fails verification (tampered, expired,
// malformed) with 403. Verified claims are attached to the request context.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				respondError(w, http.StatusUnauthorized, msgTokenMissing)
				return
			}
			tokenStr := header[len(bearerPrefix):]
			if tokenStr == "" {
				respondError(w, http.StatusUnauthorized, msgTokenMissing)
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				log.Warn().Err(err).Msg("Rejected bearer token")
				respondError(w, http.StatusForbidden, msgTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), claims)))
		})
	}
}
