package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
)

// CredentialService orchestrates registration, login and the password
// lifecycle against the user store. Each operation is a single
// read-then-write against one row; the store's per-row consistency is
// the only coordination required.
type CredentialService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	resets     *auth.ResetTokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// CredentialDependencies encapsulates collaborator requirements.
type CredentialDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewCredentialService builds the service.
func NewCredentialService(cfg config.Config, deps CredentialDependencies) *CredentialService {
	return &CredentialService{
		users:      deps.UserRepo,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		resets:     auth.NewResetTokenManager(deps.UserRepo, cfg.Auth.PasswordResetTTL(), cfg.Auth.BcryptCost),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account. The email must not already have one.
func (s *CredentialService) Register(ctx context.Context, name, email, password string, whatsappNumber *string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storeFailure("lookup email", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:           name,
		Email:          email,
		WhatsappNumber: whatsappNumber,
		PasswordHash:   hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeFailure("create user", err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Name:  user.Name,
		Email: user.Email,
	})
	return user, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password fail identically.
func (s *CredentialService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, domain.ErrInvalidCredentials
		}
		return nil, "", time.Time{}, storeFailure("lookup email", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", time.Time{}, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ForgotPassword issues a reset token and hands it to the notification
// pipeline. Unknown emails are acknowledged without any store mutation so
// the response never reveals whether an account exists.
func (s *CredentialService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return storeFailure("lookup email", err)
	}

	token, err := s.resets.Create(ctx, user)
	if err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordResetRequested, user.ID, events.PasswordResetRequestedPayload{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: *user.PasswordResetExpires,
	})
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *CredentialService) ResetPassword(ctx context.Context, token, newPassword string) (*domain.User, error) {
	user, err := s.resets.Consume(ctx, token, newPassword)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPasswordChanged, user.ID, events.PasswordChangedPayload{
		Email: user.Email,
	})
	return user, nil
}

// ChangePassword verifies the caller's current password before storing a
// new hash. The caller identity comes from the auth boundary, not from
// request input.
func (s *CredentialService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return storeFailure("lookup user", err)
	}
	if !auth.VerifyPassword(user.PasswordHash, currentPassword) {
		return domain.ErrInvalidCurrentPassword
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return storeFailure("update password", err)
	}

	s.publish(ctx, events.EventPasswordChanged, user.ID, events.PasswordChangedPayload{
		Email: user.Email,
	})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *CredentialService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *CredentialService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrUnavailable, op, err)
}
