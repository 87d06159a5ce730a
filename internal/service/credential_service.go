// Package service holds the vault's business operations.
package service

import (
	"context"
	"errors"
	"strings"

	"brainvault/internal/models"
	"brainvault/internal/observability"
	"brainvault/internal/repository"
	"brainvault/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for stored password hashes.
const BcryptCost = 12

// CredentialService registers users and checks their passwords.
type CredentialService struct {
	users repository.UserRepository
	cost  int
}

// NewCredentialService returns a CredentialService hashing at BcryptCost.
// A non-zero cost overrides it (tests use bcrypt.MinCost).
func NewCredentialService(users repository.UserRepository, cost int) *CredentialService {
	if cost == 0 {
		cost = BcryptCost
	}
	return &CredentialService{users: users, cost: cost}
}

// Register creates a user with a bcrypt-hashed password.
func (s *CredentialService) Register(ctx context.Context, username, password string) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "CredentialService.Register")
	defer func() { observability.EndSpan(span, err) }()

	username = strings.TrimSpace(username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("User already exists with the given username")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{Username: username, Password: string(hashed)}
	// The unique index still guards against a concurrent signup with the same name.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))
	user.Password = ""
	return user, nil
}

// Verify returns the user whose password matches. Unknown usernames yield a
// NotFound error and mismatching passwords an Unauthorized one.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "CredentialService.Verify")
	defer func() { observability.EndSpan(span, err) }()

	user, err = s.users.GetCredentials(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.AuthFailures.WithLabelValues(observability.ReasonUnknownUser).Inc()
		return nil, models.NewNotFoundError("Unable to find user with given username")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.NewInternalError(err)
		}
		observability.AuthFailures.WithLabelValues(observability.ReasonBadPassword).Inc()
		return nil, models.NewUnauthorizedError("Invalid Password")
	}

	user.Password = ""
	return user, nil
}
