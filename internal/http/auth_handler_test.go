package http

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"auth-api/internal/service"
)

func setupAuthRouter(userSvc *service.UserService, tokenSvc *service.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(zap.NewNop(), userSvc, tokenSvc)
	r.POST("/login", h.Login)
	return r
}

func registerTestUser(t *testing.T, userSvc *service.UserService, email, password string) int64 {
	t.Helper()
	user, err := userSvc.RegisterUser(context.Background(), service.RegisterInput{
		Name:     "A",
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("register test user: %v", err)
	}
	return user.ID
}

func TestAuthHandler_LoginGrantsToken(t *testing.T) {
	userSvc := newTestUserService(newMockUserRepo())
	tokenSvc := newTestTokenService("secret")
	id := registerTestUser(t, userSvc, "a@x.com", "secret")
	r := setupAuthRouter(userSvc, tokenSvc)

	rec := postJSON(t, r, "/login", gin.H{"email": "a@x.com", "password": "secret"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "access granted" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	token, ok := body["token"].(string)
	if !ok || token == "" {
		t.Fatalf("expected token in response: %v", body)
	}

	claims, err := tokenSvc.Verify(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Usuario.ID != id {
		t.Fatalf("expected token for user %d, got %d", id, claims.Usuario.ID)
	}
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	userSvc := newTestUserService(newMockUserRepo())
	registerTestUser(t, userSvc, "a@x.com", "secret")
	r := setupAuthRouter(userSvc, newTestTokenService("secret"))

	rec := postJSON(t, r, "/login", gin.H{"email": "a@x.com", "password": "wrong"})

	// Credenciales inválidas responden 200 con mensaje genérico, sin token.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "incorrect email or password" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if _, ok := body["token"]; ok {
		t.Fatalf("token must be absent on invalid credentials: %v", body)
	}
}

func TestAuthHandler_LoginUnknownEmail(t *testing.T) {
	r := setupAuthRouter(newTestUserService(newMockUserRepo()), newTestTokenService("secret"))

	rec := postJSON(t, r, "/login", gin.H{"email": "nobody@x.com", "password": "secret"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "incorrect email or password" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if _, ok := body["token"]; ok {
		t.Fatalf("token must be absent for unknown email: %v", body)
	}
}

func TestAuthHandler_LoginStoreFailure(t *testing.T) {
	repo := newMockUserRepo()
	repo.getErr = errors.New("connection refused")
	r := setupAuthRouter(newTestUserService(repo), newTestTokenService("secret"))

	rec := postJSON(t, r, "/login", gin.H{"email": "a@x.com", "password": "secret"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "could not login" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_LoginRejectsMissingFields(t *testing.T) {
	r := setupAuthRouter(newTestUserService(newMockUserRepo()), newTestTokenService("secret"))

	rec := postJSON(t, r, "/login", gin.H{"email": "a@x.com"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
