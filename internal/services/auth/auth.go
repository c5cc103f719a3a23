package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyCredentials   = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credentials is the single admin account. PasswordHash (bcrypt) takes
// precedence over the plaintext Password.
type Credentials struct {
	Email        string
	Password     string
	PasswordHash string
}

type Auth struct {
	log   *slog.Logger
	creds Credentials
	now   func() time.Time
}

func New(log *slog.Logger, creds Credentials) *Auth {
	if creds.Email == "" || (creds.Password == "" && creds.PasswordHash == "") {
		log.Warn("admin credentials are not configured, every login will be rejected")
	}

	return &Auth{
		log:   log,
		creds: creds,
		now:   time.Now,
	}
}

func (a *Auth) Login(ctx context.Context, email, password string) (models.Admin, error) {
	const op = "auth.Login"

	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login admin")

	if email == "" || password == "" {
		return models.Admin{}, fmt.Errorf("%s: %w", op, ErrEmptyCredentials)
	}

	// Both checks always run so timing does not reveal which one failed.
	okEmail := a.creds.Email != "" && subtle.ConstantTimeCompare([]byte(a.creds.Email), []byte(email)) == 1
	okPass := a.checkPassword(password)

	if !okEmail || !okPass {
		log.Info("invalid credentials")

		return models.Admin{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	log.Info("admin logged in successfully")

	return models.Admin{
		Email:   email,
		LoginAt: a.now().Format(time.RFC3339),
	}, nil
}

func (a *Auth) checkPassword(password string) bool {
	if a.creds.PasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(a.creds.PasswordHash), []byte(password))
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			a.log.Error("failed to compare password hash", sl.Err(err))
		}
		return err == nil
	}

	if a.creds.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.creds.Password), []byte(password)) == 1
}

// HashPassword returns the bcrypt hash to put into admin.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
