package usecase

import (
	"context"
	"errors"
	"fmt"

	"account_backend/internal/feature/auth/domain"
	"account_backend/internal/feature/auth/domain/entity"
)

// dummyPasswordHash is compared against when the email is unknown so that signin
// takes comparable time whether or not the account exists.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user and fills in its ID and timestamps.
	// Returns ErrEmailAlreadyExists if the email is taken.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound if no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound if no user has the ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// Update applies a partial update and returns the stored result.
	// Returns ErrUserNotFound or ErrEmailAlreadyExists.
	Update(ctx context.Context, id uint, patch entity.UserPatch) (*entity.User, error)

	// DeleteCascade removes the user and every record owned by the user in one unit of work.
	// Returns ErrUserNotFound if the user does not exist; nothing is removed in that case.
	DeleteCascade(ctx context.Context, id uint) error

	// List returns all users ordered by ID.
	List(ctx context.Context) ([]entity.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns an error only when the stored hash is unusable.
	Verify(hash, password string) (bool, error)
}

// TokenIssuer issues signed bearer tokens.
type TokenIssuer interface {
	Issue(userID uint, email string) (string, error)
}

// AccountUsecase implements signup, signin and the account operations.
type AccountUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAccountUsecase creates a new AccountUsecase.
func NewAccountUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *AccountUsecase {
	return &AccountUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Signup registers a new user with an empty profile.
func (u *AccountUsecase) Signup(ctx context.Context, email, password string) (*entity.User, error) {
	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Email: email, PasswordHash: hashed}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, domain.ErrCredentialsTaken
		}
		return nil, err
	}
	return user, nil
}

// Signin verifies the credentials and returns a signed access token.
// An unknown email and a wrong password produce the same error.
func (u *AccountUsecase) Signin(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", err
	}

	passwordHash := dummyPasswordHash
	if user != nil {
		passwordHash = user.PasswordHash
	}

	// Always compare, even for an unknown email.
	ok, verifyErr := u.hasher.Verify(passwordHash, password)
	if verifyErr != nil {
		return "", fmt.Errorf("failed to verify password: %w", verifyErr)
	}
	if user == nil || !ok {
		return "", domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
