package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/KanujanS/LMS/internal/ctxdata"
	"github.com/KanujanS/LMS/internal/logging"
	"github.com/KanujanS/LMS/internal/model"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// NewAuthMiddleware resolves a bearer token to the live user record and puts
// its id and role into the request context.
func NewAuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Info(ctx, "no authorization header", zap.String("path", r.URL.Path))
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := auth.Authenticate(ctx, token)
			if err != nil {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Info(ctx, "rejected token", zap.String("path", r.URL.Path))
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			ctx = ctxdata.WithUserID(ctx, user.Id)
			ctx = ctxdata.WithUserRole(ctx, user.Role.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
