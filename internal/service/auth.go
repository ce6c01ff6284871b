// Package service provides the business logic of the contacts service,
// delegating persistence to repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/atarasov/contactbook/internal/models"
	"github.com/atarasov/contactbook/internal/repository"
)

// TokenTTL is how long issued bearer tokens stay valid. Matches the client's
// credential retention hint.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidCredentials is returned by Login when the email is unknown or the
// password does not match. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned by Authenticate for malformed or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// CreateUser creates a new user record. Returns repository.ErrEmailTaken
	// if the email is already registered.
	CreateUser(ctx context.Context, name, email, passwordHash string) error
	// GetUserByEmail fetches the user row including the password hash.
	GetUserByEmail(ctx context.Context, email string) (*repository.UserRecord, error)
	// GetUserByID fetches the public user fields.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo   AuthRepository
	secret []byte
}

// NewAuthService constructs a new AuthService using the provided repository
// and HMAC secret for signing bearer tokens.
func NewAuthService(repo AuthRepository, secret string) *AuthService {
	return &AuthService{repo: repo, secret: []byte(secret)}
}

// Register provisions a new account. It hashes the password with bcrypt
// before handing it to the repository. Registration never logs the user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, name, email, string(hash))
}

// Login verifies the email/password pair and issues a signed bearer token.
// Returns ErrInvalidCredentials when either does not match.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	rec, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(rec.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, &models.User{ID: rec.ID, Name: rec.Name, Email: rec.Email}, nil
}

// Authenticate verifies a bearer token and returns the user id it carries.
func (s *AuthService) Authenticate(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// GetUser returns the public fields of the user with the given id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
