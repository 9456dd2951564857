package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"auth-api/internal/domain"
	"auth-api/internal/repository"
)

// UserService coordina reglas de negocio para usuarios: alta y verificación
// de credenciales contra el hash almacenado.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	cost   int
	tracer trace.Tracer
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, bcryptCost int, tracer trace.Tracer) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		logger: logger,
		users:  users,
		cost:   bcryptCost,
		tracer: tracer,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)

// RegisterUser hashea la contraseña y persiste un usuario nuevo con sus
// timestamps de ciclo de vida. El texto plano nunca llega al repositorio.
func (s *UserService) RegisterUser(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return domain.User{}, ErrInvalidInput
	}

	hashed, err := s.hashPassword(ctx, input.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Name:      name,
		Email:     email,
		Password:  hashed,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: nil,
		Deleted:   false,
		DeletedAt: nil,
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, err
	}
	user.ID = id

	return user, nil
}

// Authenticate busca por email exacto y compara la contraseña contra el hash.
// Email inexistente y contraseña errónea colapsan en ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if !s.comparePassword(ctx, user, password) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID devuelve el usuario persistido con ese id.
func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) hashPassword(ctx context.Context, password string) (string, error) {
	_, span := s.tracer.Start(ctx, "bcrypt.GenerateFromPassword")
	defer span.End()
	span.SetAttributes(attribute.Int("bcrypt.cost", s.cost))

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return string(hashBytes), nil
}

func (s *UserService) comparePassword(ctx context.Context, user domain.User, password string) bool {
	_, span := s.tracer.Start(ctx, "bcrypt.CompareHashAndPassword")
	defer span.End()

	correct := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
	span.SetAttributes(
		attribute.Int64("user.id", user.ID),
		attribute.Bool("password.is_correct", correct),
	)
	return correct
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
