package middleware

import (
	"net/http"

	"stash-backend/pkg/auth"
	"stash-backend/pkg/common"
	pkgerrors "stash-backend/pkg/errors"

	"go.uber.org/zap"
)

// Authenticate validates the bearer token and stores the user in the
// request context. Requests without a valid token get a 401.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				common.RespondError(w, http.StatusUnauthorized,
					string(pkgerrors.ErrorTypeUnauthorized), "missing authorization header")
				return
			}

			claims, err := validator.ValidateToken(header)
			if err != nil {
				logger.Debug("token validation failed", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized,
					string(pkgerrors.ErrorTypeUnauthorized), "invalid or expired token")
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			ctx = common.WithUserID(ctx, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticateStatic injects a fixed user ID on every request. Used for
// local development against the in-memory store, where no identity
// provider is running.
func AuthenticateStatic(userID string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{UserID: userID})
			ctx = common.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
