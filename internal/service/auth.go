package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/finadvisor/internal/database"
	"github.com/jask/finadvisor/internal/domain"
)

const (
	minPasswordLen  = 6
	defaultTokenTTL = 7 * 24 * time.Hour
)

// AuthService registers users and issues HS256 tokens carrying a user_id claim.
type AuthService struct {
	Users  UserStore
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

var errNoSecret = errors.New("auth: jwt secret not configured")

// Register creates the user and returns a token for it. The secret is checked
// before anything is written.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	if len(s.Secret) == 0 {
		return domain.User{}, "", errNoSecret
	}
	u, err := s.CreateUser(ctx, name, email, password)
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := s.IssueToken(u.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return u, token, nil
}

// CreateUser validates, hashes and stores a user without issuing a token.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return domain.User{}, invalidInput("Todos los campos son requeridos")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, invalidInput("Email inválido")
	}
	if len(password) < minPasswordLen {
		return domain.User{}, invalidInput(fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLen))
	}

	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return domain.User{}, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    database.Now(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, "", invalidInput("Email y contraseña son requeridos")
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := s.IssueToken(u.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return *u, token, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return domain.User{}, ErrNotFound
	}
	return *u, nil
}

func (s *AuthService) IssueToken(userID string) (string, error) {
	if len(s.Secret) == 0 {
		return "", errNoSecret
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates tokenStr and returns its user_id claim.
func (s *AuthService) ParseToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	userID, ok := claims["user_id"].(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", ErrInvalidCredentials
	}
	return userID, nil
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
