package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KanujanS/LMS/internal/ctxdata"
	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/middleware"
	"github.com/KanujanS/LMS/internal/model"
)

type stubAuthenticator struct {
	user *model.User
	err  error
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	auth := &stubAuthenticator{user: &model.User{Id: userID, Role: model.RoleEducator}}

	var gotUserID uuid.UUID
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = ctxdata.GetUserID(r.Context())
		gotRole, _ = ctxdata.GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("ValidToken_PopulatesContext", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()

		middleware.NewAuthMiddleware(auth)(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotUserID)
		assert.Equal(t, model.RoleEducator.String(), gotRole)
	})

	t.Run("NoHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		middleware.NewAuthMiddleware(auth)(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("NotBearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		middleware.NewAuthMiddleware(auth)(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("RejectedToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()

		middleware.NewAuthMiddleware(&stubAuthenticator{err: errdefs.ErrAuthentication})(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
