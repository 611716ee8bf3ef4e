package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sevensystem/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() { gin.SetMode(gin.TestMode) }

const secret = "segredo-de-teste"

// signToken builds a token with the claim names the login flow writes.
func signToken(key, usuario, dbName string, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"usuario": usuario,
		"db_name": dbName,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}).SignedString([]byte(key))
}

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := gin.New()
	r.GET("/p", JWTAuth(secret), func(c *gin.Context) {
		cl := GetClaims(c)
		c.String(http.StatusOK, cl.Usuario+"|"+cl.DBName)
	})

	token, err := signToken(secret, "maria", "user_maria.db", time.Hour)
	require.NoError(t, err)
	w := perform(r, http.MethodGet, "/p", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "maria|user_maria.db", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/p", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/p", "lixo").Code)

	outro, err := signToken("outro-segredo", "maria", "user_maria.db", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/p", outro).Code)

	expirado, err := signToken(secret, "maria", "user_maria.db", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/p", expirado).Code)

	semTenant, err := signToken(secret, "maria", "", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/p", semTenant).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := perform(r, http.MethodGet, "/", "")
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := perform(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://loja.example, https://admin.example"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://admin.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://outra.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	aberto := gin.New()
	aberto.Use(CORS("*"))
	aberto.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = perform(aberto, http.MethodGet, "/", "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWindowLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	ok, _ := l.allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.allow("10.0.0.1")
	assert.True(t, ok)
	ok, retryAt := l.allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), retryAt)

	ok, _ = l.allow("10.0.0.2")
	assert.True(t, ok, "limits are per IP")

	now = now.Add(61 * time.Second)
	ok, _ = l.allow("10.0.0.1")
	assert.True(t, ok, "new window")

	now = now.Add(10 * time.Minute)
	l.allow("10.0.0.3")
	assert.Len(t, l.entries, 1)
}

func TestRateLimiterHandler(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimiter(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodGet, "/", "").Code)
	w := perform(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

type storesFunc func(dbName string) (*gorm.DB, error)

func (f storesFunc) Get(dbName string) (*gorm.DB, error) { return f(dbName) }

func TestTenantResolver(t *testing.T) {
	db, err := infra.OpenSQLite("TestTenantResolver", infra.SQLiteOptions{Memory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	var asked string
	stores := storesFunc(func(dbName string) (*gorm.DB, error) {
		asked = dbName
		if dbName == "user_quebrado.db" {
			return nil, errors.New("disk I/O error")
		}
		return db, nil
	})

	r := gin.New()
	r.Use(RequestID())
	r.GET("/t", JWTAuth(secret), TenantResolver(stores, nil, time.Second), func(c *gin.Context) {
		c.String(http.StatusOK, GetTenant(c).DBName)
	})

	token, err := signToken(secret, "maria", "user_maria.db", time.Hour)
	require.NoError(t, err)
	w := perform(r, http.MethodGet, "/t", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_maria.db", w.Body.String())
	assert.Equal(t, "user_maria.db", asked)

	quebrado, err := signToken(secret, "joao", "user_quebrado.db", time.Hour)
	require.NoError(t, err)
	w = perform(r, http.MethodGet, "/t", quebrado)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "disk")
}
