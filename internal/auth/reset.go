package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/repository"
)

// resetTokenBytes is the entropy of a reset token before hex encoding.
const resetTokenBytes = 20

// ResetTokenManager issues and consumes single-use password reset tokens.
// A user has at most one outstanding token; issuing a new one overwrites
// the previous pair, so the older link goes dead immediately.
type ResetTokenManager struct {
	users      repository.UserRepository
	ttl        time.Duration
	bcryptCost int
}

// NewResetTokenManager builds the manager.
func NewResetTokenManager(users repository.UserRepository, ttl time.Duration, bcryptCost int) *ResetTokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResetTokenManager{users: users, ttl: ttl, bcryptCost: bcryptCost}
}

// Create generates a random token, persists it with its expiry on the
// user record, and returns the plaintext token for delivery. This is the
// only moment the token exists outside the store.
func (m *ResetTokenManager) Create(ctx context.Context, user *domain.User) (string, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)
	expires := time.Now().Add(m.ttl)

	user.PasswordResetToken = &token
	user.PasswordResetExpires = &expires
	if err := m.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("%w: store reset token: %v", domain.ErrUnavailable, err)
	}
	return token, nil
}

// Consume looks up the user holding an unexpired matching token, replaces
// the password hash and clears the pair. Wrong, expired and already used
// tokens all fail identically with ErrInvalidOrExpiredToken.
func (m *ResetTokenManager) Consume(ctx context.Context, token, newPassword string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidOrExpiredToken
	}

	hash, err := HashPassword(newPassword, m.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := m.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("%w: lookup reset token: %v", domain.ErrUnavailable, err)
	}

	user.PasswordHash = hash
	user.ClearResetToken()
	if err := m.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: clear reset token: %v", domain.ErrUnavailable, err)
	}
	return user, nil
}
