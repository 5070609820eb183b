package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/signin", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signin", nil)
	req.RemoteAddr = "203.0.113.7:5000"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("Should limit through redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		rl := NewRateLimiter(rdb, "signin", PerMinute(2), zap.NewNop())
		t.Cleanup(rl.Stop)
		r := limitedRouter(rl)

		assert.Equal(t, http.StatusOK, hit(r).Code)
		assert.Equal(t, http.StatusOK, hit(r).Code)

		w := hit(r)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		body := decodeError(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "rate_limited", body.Reason)
	})

	t.Run("Should fall back to the local limiter without redis", func(t *testing.T) {
		rl := NewRateLimiter(nil, "signin", PerMinute(1), zap.NewNop())
		t.Cleanup(rl.Stop)
		r := limitedRouter(rl)

		assert.Equal(t, http.StatusOK, hit(r).Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(r).Code)
	})

	t.Run("Should fall back when redis goes away", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		mr.Close()

		rl := NewRateLimiter(rdb, "signin", PerMinute(1), zap.NewNop())
		t.Cleanup(rl.Stop)
		r := limitedRouter(rl)

		assert.Equal(t, http.StatusOK, hit(r).Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(r).Code)
	})
}

type stubVerifier struct {
	uid string
	err error
}

func (s stubVerifier) VerifyAdmin(context.Context, string) (string, error) {
	return s.uid, s.err
}

func adminRouter(v TokenVerifier) *gin.Engine {
	r := gin.New()
	m := NewAuthMiddleware(v, zap.NewNop())
	r.GET("/admin", m.RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(AdminUIDKey))
	})
	return r
}

func callAdmin(r http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	t.Run("Should accept the static token", func(t *testing.T) {
		r := adminRouter(NewStaticTokenVerifier("s3cret"))

		w := callAdmin(r, "Bearer s3cret")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "operator", w.Body.String())
	})

	t.Run("Should reject missing, malformed and wrong tokens", func(t *testing.T) {
		r := adminRouter(NewStaticTokenVerifier("s3cret"))

		for _, h := range []string{"", "s3cret", "Basic s3cret", "Bearer nope"} {
			w := callAdmin(r, h)
			assert.Equal(t, http.StatusUnauthorized, w.Code, h)
			assert.False(t, decodeError(t, w).Success)
		}
	})

	t.Run("Should forbid tokens without the admin claim", func(t *testing.T) {
		r := adminRouter(stubVerifier{err: errNotAdmin})

		assert.Equal(t, http.StatusForbidden, callAdmin(r, "Bearer tok").Code)
	})

	t.Run("Should pass through the verified uid", func(t *testing.T) {
		r := adminRouter(stubVerifier{uid: "firebase-uid"})

		w := callAdmin(r, "bearer tok")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "firebase-uid", w.Body.String())
	})

	t.Run("Should deny everything when unconfigured", func(t *testing.T) {
		r := adminRouter(nil)

		assert.Equal(t, http.StatusUnauthorized, callAdmin(r, "Bearer anything").Code)
	})

	t.Run("Should not leak verifier errors", func(t *testing.T) {
		r := adminRouter(stubVerifier{err: errors.New("token signed by kid abc expired")})

		w := callAdmin(r, "Bearer tok")
		assert.NotContains(t, w.Body.String(), "kid abc")
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "internal_error", body.Reason)
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/lesson/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lesson/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
