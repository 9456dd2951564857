package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/trace/noop"

	"auth-api/internal/service"
)

func setupProtectedRouter(tokenSvc *service.TokenService, downstream gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tracer := noop.NewTracerProvider().Tracer("test")
	r.GET("/protected", TokenAuthMiddleware(tokenSvc, tracer), downstream)
	return r
}

func TestTokenAuthMiddleware_AllowsValidToken(t *testing.T) {
	tokenSvc := newTestTokenService("secret")
	signed, err := tokenSvc.Sign(context.Background(), 42)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	calls := 0
	r := setupProtectedRouter(tokenSvc, func(c *gin.Context) {
		calls++
		id, ok := GetAuthUserID(c)
		if !ok || id != 42 {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", signed)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("expected downstream to run exactly once, ran %d times", calls)
	}
}

func TestTokenAuthMiddleware_RejectsMissingToken(t *testing.T) {
	calls := 0
	r := setupProtectedRouter(newTestTokenService("secret"), func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("downstream must not run without token")
	}
	if !strings.Contains(rec.Body.String(), "no token provided") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestTokenAuthMiddleware_RejectsForeignSecret(t *testing.T) {
	foreign := newTestTokenService("other-secret")
	signed, err := foreign.Sign(context.Background(), 42)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	calls := 0
	r := setupProtectedRouter(newTestTokenService("secret"), func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", signed)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("downstream must not run with foreign token")
	}
	body := decodeBody(t, rec)
	if body["message"] != "error validating token" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if body["error"] == nil || body["error"] == "" {
		t.Fatalf("expected underlying error text: %v", body)
	}
}

func TestTokenAuthMiddleware_RejectsExpiredToken(t *testing.T) {
	now := time.Now().UTC()
	claims := service.Claims{
		Usuario: service.TokenUser{ID: 42},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	r := setupProtectedRouter(newTestTokenService("secret"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", signed)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTokenAuthMiddleware_UsesHeaderAsIs(t *testing.T) {
	// El token se lee tal cual: un prefijo Bearer lo vuelve inválido.
	tokenSvc := newTestTokenService("secret")
	signed, err := tokenSvc.Sign(context.Background(), 42)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := setupProtectedRouter(tokenSvc, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for prefixed token, got %d", rec.Code)
	}
}
