package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]*model.Session

func (s stubVerifier) Verify(_ context.Context, token string) (*model.Session, error) {
	if token == "signed-out" {
		return nil, service.ErrSessionInvalidated
	}
	session, ok := s[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return session, nil
}

func TestRequireSessionAndRole(t *testing.T) {
	verifier := stubVerifier{
		"admin-token":   {ID: "s1", UserID: uuid.New(), Role: model.RoleAdmin},
		"student-token": {ID: "s2", UserID: uuid.New(), Role: model.RoleStudent},
	}

	r := gin.New()
	r.GET("/admin", RequireSession(verifier), RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.String(http.StatusOK, GetSession(c).ID)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "no token", header: "", wantStatus: http.StatusUnauthorized, wantBody: "TOKEN_REQUIRED"},
		{name: "malformed header", header: "Token abc", wantStatus: http.StatusUnauthorized, wantBody: "TOKEN_REQUIRED"},
		{name: "bad token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: "TOKEN_INVALID"},
		{name: "signed out", header: "Bearer signed-out", wantStatus: http.StatusUnauthorized, wantBody: "SESSION_INVALIDATED"},
		{name: "wrong role", header: "Bearer student-token", wantStatus: http.StatusForbidden, wantBody: "ROLE_FORBIDDEN"},
		{name: "admin", header: "bearer admin-token", wantStatus: http.StatusOK, wantBody: "s1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Hour)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/apply", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/apply", nil))
		return w
	}

	assert.Equal(t, http.StatusCreated, do().Code)
	assert.Equal(t, http.StatusCreated, do().Code)

	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))

	now = now.Add(time.Hour)
	assert.Equal(t, http.StatusCreated, do().Code)
}

func TestBrotli(t *testing.T) {
	long := strings.Repeat("department ", 200)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/long", func(c *gin.Context) {
		// Two writes: the second one arrives after compression started.
		c.Writer.WriteString(long[:600])
		c.Writer.WriteString(long[600:])
	})
	r.GET("/short", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	t.Run("long body is compressed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/long", nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
		body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
		require.NoError(t, err)
		assert.Equal(t, long, string(body))
	})

	t.Run("short body is plain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/short", nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("client without br", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/long", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, long, w.Body.String())
	})
}
