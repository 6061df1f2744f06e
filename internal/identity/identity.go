// Package identity provides email/password accounts and the signed tokens
// the HTTP layer uses to address per-user tracker sessions.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnknownUser        = errors.New("unknown user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadToken           = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// resetAudience marks tokens minted for the password-reset flow so a reset
// token can never be replayed as a session token, and vice versa.
const resetAudience = "password-reset"

// User is an account record. PasswordHash is a bcrypt hash and never leaves
// this package.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// UserStore persists accounts. Implementations return ErrEmailTaken from
// Create and ErrUnknownUser from the lookups.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Mailer delivers password-reset messages.
type Mailer interface {
	SendPasswordReset(to, token string) error
}

// EventKind distinguishes session-change broadcasts.
type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event notifies subscribers that a user signed in or out.
type Event struct {
	Kind   EventKind
	UserID string
}

// Service implements the account operations: sign-up, sign-in, token
// verification, sign-out, and the password-reset flow.
type Service struct {
	store    UserStore
	mailer   Mailer
	secret   []byte
	tokenTTL time.Duration
	resetTTL time.Duration

	mu   sync.Mutex
	subs []chan Event
}

func NewService(store UserStore, mailer Mailer, secret string) *Service {
	return &Service{
		store:    store,
		mailer:   mailer,
		secret:   []byte(secret),
		tokenTTL: 24 * time.Hour,
		resetTTL: time.Hour,
	}
}

// SignUp registers a new account with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address %q", email)
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn authenticates an account and returns a signed session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.broadcast(Event{Kind: EventSignedIn, UserID: user.ID})
	return signed, nil
}

// UserID verifies a session token and returns the account id it names.
func (s *Service) UserID(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	// Reset tokens carry the reset audience and are not session tokens.
	for _, aud := range claims.Audience {
		if aud == resetAudience {
			return "", ErrBadToken
		}
	}
	if claims.Subject == "" {
		return "", ErrBadToken
	}
	return claims.Subject, nil
}

// SignOut broadcasts a signed-out event so open sessions can be flushed and
// closed. Tokens are stateless, so there is nothing to revoke server-side
// before their expiry.
func (s *Service) SignOut(userID string) {
	s.broadcast(Event{Kind: EventSignedOut, UserID: userID})
}

// SendPasswordReset mails a short-lived reset token to the account's email.
// An unknown email reports success to the caller so the endpoint does not
// leak which addresses have accounts.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if s.mailer == nil {
		return errors.New("password reset is not configured")
	}
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return nil
		}
		return err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		Audience:  jwt.ClaimStrings{resetAudience},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.resetTTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("failed to sign reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(user.Email, signed); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	return nil
}

// ResetPassword redeems a reset token and replaces the account password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	isReset := false
	for _, aud := range claims.Audience {
		if aud == resetAudience {
			isReset = true
		}
	}
	if !isReset || claims.Subject == "" {
		return ErrBadToken
	}
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.UpdatePassword(ctx, claims.Subject, string(hash))
}

// Subscribe returns a channel of session-change events. Slow subscribers
// drop events rather than block sign-in.
func (s *Service) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Service) broadcast(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrBadToken
	}
	return claims, nil
}
