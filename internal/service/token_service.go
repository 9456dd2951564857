package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TokenTTL es la validez fija de los tokens emitidos.
const TokenTTL = time.Hour

// TokenUser es la identidad embebida en el payload del token.
type TokenUser struct {
	ID int64 `json:"id"`
}

// Claims lleva el payload {"usuario": {"id": ...}} más los claims registrados.
type Claims struct {
	Usuario TokenUser `json:"usuario"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// TokenService emite y valida tokens JWT firmados con secreto simétrico.
// El token no se persiste: la expiración embebida es su único ciclo de vida.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	tracer trace.Tracer
}

func NewTokenService(secret string, tracer trace.Tracer) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		tracer: tracer,
	}
}

// Sign firma un token con el id del usuario como único dato de identidad
// y expiración a una hora de la emisión.
func (s *TokenService) Sign(ctx context.Context, userID int64) (string, error) {
	_, span := s.tracer.Start(ctx, "jwt.Sign")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	if len(s.secret) == 0 {
		err := fmt.Errorf("%w: empty secret", ErrTokenInvalid)
		span.RecordError(err)
		return "", err
	}

	now := time.Now().UTC()
	claims := Claims{
		Usuario: TokenUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return signed, nil
}

// Verify valida firma y expiración y devuelve los claims decodificados.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, fmt.Errorf("%w: empty secret", ErrTokenInvalid)
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.Usuario.ID <= 0 {
		return Claims{}, fmt.Errorf("%w: missing user id", ErrTokenInvalid)
	}
	return claims, nil
}
