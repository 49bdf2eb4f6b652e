package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/enkitstudio/restaurant/internal/auth"
	"github.com/enkitstudio/restaurant/internal/domain"
	"github.com/enkitstudio/restaurant/internal/event"
	"github.com/enkitstudio/restaurant/internal/repository"
	apperrors "github.com/enkitstudio/restaurant/pkg/errors"
)

// TokenSigner mints signed session tokens for authenticated principals.
type TokenSigner interface {
	Mint(username string, roles []string) (string, error)
}

// AccountService orchestrates the account credential lifecycle: registration,
// activation, password reset, login, and profile/password mutation. It never
// caches user records between calls; the store is the single source of truth
// for identity uniqueness and token validity.
type AccountService struct {
	users    repository.UserRepository
	hasher   auth.Hasher
	signer   TokenSigner
	notifier event.Notifier
	logger   *slog.Logger

	// newToken generates activation and reset tokens. Injectable for tests.
	newToken func() string
}

// NewAccountService creates the account service.
func NewAccountService(
	users repository.UserRepository,
	hasher auth.Hasher,
	signer TokenSigner,
	notifier event.Notifier,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		hasher:   hasher,
		signer:   signer,
		notifier: notifier,
		logger:   logger,
		newToken: randomToken,
	}
}

// randomToken returns a 64-character hex token from a CSPRNG.
func randomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read only fails if the OS entropy source is broken.
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates an account in the pending state and returns its activation
// token. The username/email pre-checks give early, precise errors; the store's
// unique indexes remain the source of truth under concurrent registration, so
// a constraint violation at insert time also surfaces as DuplicateIdentity.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if err := domain.ValidatePassword(in.Password); err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return "", apperrors.DuplicateIdentity("username")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return "", err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return "", apperrors.DuplicateIdentity("email")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", apperrors.Wrap(err, "hash password")
	}

	activationToken := s.newToken()
	now := time.Now().UTC()
	user := &domain.User{
		ID:              uuid.New(),
		Username:        in.Username,
		Email:           in.Email,
		PasswordHash:    hash,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Activated:       false,
		ActivationToken: &activationToken,
		Roles:           []string{string(domain.RoleUser)},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	s.notify(ctx, "user registered", func() error {
		return s.notifier.UserRegistered(ctx, user, activationToken)
	})

	s.logger.InfoContext(ctx, "account registered",
		slog.String("username", user.Username),
	)

	return activationToken, nil
}

// Activate consumes an activation token and moves the account to the active
// state. A token that is unknown or already consumed fails with InvalidToken;
// the two cases are indistinguishable to the caller.
func (s *AccountService) Activate(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.InvalidToken()
	}

	user, err := s.users.ConsumeActivationToken(ctx, token)
	if err != nil {
		return err
	}

	s.notify(ctx, "user activated", func() error {
		return s.notifier.UserActivated(ctx, user)
	})

	s.logger.InfoContext(ctx, "account activated",
		slog.String("username", user.Username),
	)

	return nil
}

// RequestPasswordReset issues a fresh reset token for the account with the
// given email, overwriting any previously issued token so at most one is live
// per user. Works for pending accounts too: only login is gated on activation.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.UnknownIdentity()
		}
		return "", err
	}

	resetToken := s.newToken()
	if err := s.users.SetResetToken(ctx, user.ID, resetToken); err != nil {
		return "", err
	}

	s.notify(ctx, "reset requested", func() error {
		return s.notifier.ResetRequested(ctx, user, resetToken)
	})

	s.logger.InfoContext(ctx, "password reset requested",
		slog.String("username", user.Username),
	)

	return resetToken, nil
}

// FinishPasswordReset consumes a reset token and rotates the password. The
// password policy is checked before anything is hashed or written.
func (s *AccountService) FinishPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperrors.InvalidToken()
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.Wrap(err, "hash password")
	}

	user, err := s.users.ConsumeResetToken(ctx, token, hash)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset completed",
		slog.String("username", user.Username),
	)

	return nil
}

// Authenticate verifies credentials and mints a session token. The activation
// check runs after credential verification, so a wrong password on a pending
// account reports InvalidCredentials and never leaks activation state.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.InvalidCredentials()
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, apperrors.InvalidCredentials()
	}

	if !user.Activated {
		return "", nil, apperrors.AccountNotActivated()
	}

	token, err := s.signer.Mint(user.Username, user.Roles)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "mint session token")
	}

	s.logger.InfoContext(ctx, "authentication succeeded",
		slog.String("username", user.Username),
	)

	return token, user, nil
}

// GetAccount returns the account of the given principal.
func (s *AccountService) GetAccount(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", username)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile overwrites the principal's email and name fields. Username is
// immutable. An email change that collides with another account fails with
// DuplicateIdentity.
func (s *AccountService) UpdateProfile(ctx context.Context, username, newEmail, firstName, lastName string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user", username)
		}
		return err
	}

	if newEmail != user.Email {
		if _, err := s.users.GetByEmail(ctx, newEmail); err == nil {
			return apperrors.DuplicateIdentity("email")
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
	}

	user.Email = newEmail
	user.FirstName = firstName
	user.LastName = lastName

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.notify(ctx, "profile updated", func() error {
		return s.notifier.ProfileUpdated(ctx, user)
	})

	return nil
}

// ChangePassword rotates the principal's password after verifying the current
// one. The policy check on the new password runs before any hash is computed
// or written, so a weak candidate leaves the store untouched.
func (s *AccountService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user", username)
		}
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperrors.InvalidCredentials()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.Wrap(err, "hash password")
	}

	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.notify(ctx, "password changed", func() error {
		return s.notifier.PasswordChanged(ctx, user)
	})

	s.logger.InfoContext(ctx, "password changed",
		slog.String("username", user.Username),
	)

	return nil
}

// notify runs a fire-and-forget notification. Failures are logged and
// swallowed: a transient broker outage never fails an operation that already
// succeeded at the data layer.
func (s *AccountService) notify(ctx context.Context, what string, fn func() error) {
	if s.notifier == nil {
		return
	}
	if err := fn(); err != nil {
		s.logger.WarnContext(ctx, "notification failed",
			slog.String("event", what),
			slog.String("error", err.Error()),
		)
	}
}
