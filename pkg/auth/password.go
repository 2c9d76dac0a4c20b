package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridianhq/platform/pkg/directory"
	"github.com/meridianhq/platform/pkg/sanitizer"
	"github.com/meridianhq/platform/pkg/token"
)

// SubjectPasswordReset is the only token subject this package mints;
// declared as a constant so ResetPassword can reject a token forged for a
// different purpose.
const SubjectPasswordReset = "password_reset"

// resetTokenTTL is how long a password-reset token remains valid once
// ForgotPassword issues it.
const resetTokenTTL = 1 * time.Hour

// PasswordResetTokenPayload is the signed, opaque payload ForgotPassword
// mints and ResetPassword verifies.
type PasswordResetTokenPayload struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Subject  string `json:"sub"`
	ExpireAt int64  `json:"exp"`
}

// PasswordResetRequest is what ForgotPassword returns: the caller (an HTTP
// handler) is responsible for emailing Token to Email, never for returning
// it in an HTTP response.
type PasswordResetRequest struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Storage is the persistence surface PasswordService needs. directory.Store
// satisfies it directly; no separate identity table exists in this module,
// so register/login operate on the same public.users row provisioning and
// identity resolution already use.
type Storage interface {
	Create(ctx context.Context, email, passwordHash, fullName string) (*directory.User, error)
	FindByEmail(ctx context.Context, email string) (*directory.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*directory.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// PasswordService implements password-based registration and login for
// lobby users, plus the forgot/reset flow. Every user it creates starts
// unprovisioned (no tenant); pkg/provisioning attaches a tenant later.
type PasswordService struct {
	storage     Storage
	tokenSecret string
	bcryptCost  int
}

// Option configures a PasswordService at construction time.
type Option func(*PasswordService)

// WithBcryptCost overrides the default bcrypt work factor.
func WithBcryptCost(cost int) Option {
	return func(s *PasswordService) { s.bcryptCost = cost }
}

// NewPasswordService builds a PasswordService. tokenSecret signs and
// verifies password-reset tokens; it should not be the platform JWT
// signing key, so a leaked reset token cannot be replayed as a credential.
func NewPasswordService(storage Storage, tokenSecret string, opts ...Option) *PasswordService {
	s := &PasswordService{
		storage:     storage,
		tokenSecret: tokenSecret,
		bcryptCost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new lobby user with a bcrypt-hashed password.
func (s *PasswordService) Register(ctx context.Context, email, password, fullName string) (*directory.User, error) {
	email = sanitizer.NormalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	u, err := s.storage.Create(ctx, email, string(hash), fullName)
	if err != nil {
		if errors.Is(err, directory.ErrEmailTaken) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return u, nil
}

// Authenticate verifies email and password, returning the matching user.
// It returns the same ErrInvalidCredentials whether the email does not
// exist or the password is wrong.
func (s *PasswordService) Authenticate(ctx context.Context, email, password string) (*directory.User, error) {
	u, err := s.storage.FindByEmail(ctx, sanitizer.NormalizeEmail(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// ForgotPassword issues a signed, time-limited reset token for the given
// email. Callers must always report success to the end user regardless of
// whether the lookup below actually found an account, to avoid leaking
// which emails are registered.
func (s *PasswordService) ForgotPassword(ctx context.Context, email string) (*PasswordResetRequest, error) {
	email = sanitizer.NormalizeEmail(email)

	u, err := s.storage.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", directory.ErrUserNotFound, err)
	}

	expiresAt := time.Now().Add(resetTokenTTL)
	payload := PasswordResetTokenPayload{
		UserID:   u.ID.String(),
		Email:    u.Email,
		Subject:  SubjectPasswordReset,
		ExpireAt: expiresAt.Unix(),
	}

	tok, err := token.GenerateToken(payload, s.tokenSecret)
	if err != nil {
		return nil, fmt.Errorf("auth: generate reset token: %w", err)
	}

	return &PasswordResetRequest{Email: u.Email, Token: tok, ExpiresAt: expiresAt}, nil
}

// ResetPassword verifies a reset token and overwrites the target user's
// password hash.
func (s *PasswordService) ResetPassword(ctx context.Context, resetToken, newPassword string) (*directory.User, error) {
	payload, err := token.ParseToken[PasswordResetTokenPayload](resetToken, s.tokenSecret)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if payload.Subject != SubjectPasswordReset {
		return nil, ErrTokenInvalid
	}
	if time.Now().Unix() > payload.ExpireAt {
		return nil, ErrTokenExpired
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	if err := s.storage.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return nil, fmt.Errorf("auth: update password hash: %w", err)
	}

	return s.storage.FindByID(ctx, userID)
}
