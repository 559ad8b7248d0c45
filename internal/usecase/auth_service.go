package usecase

import (
	"context"
	"fmt"

	"github.com/padelista/padel-stats/internal/domain/user"
	idgen "github.com/padelista/padel-stats/internal/platform/id"
	"github.com/padelista/padel-stats/internal/platform/logging"
)

// PasswordHasher hashes and verifies account credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints an opaque bearer credential for an authenticated user.
type TokenIssuer interface {
	Issue(u user.User) (string, error)
}

type AuthService struct {
	users  user.Repository
	hasher PasswordHasher
	tokens TokenIssuer
	ids    idgen.Generator
	logger *logging.Logger
}

func NewAuthService(
	users user.Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	ids idgen.Generator,
	logger *logging.Logger,
) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		ids:    ids,
		logger: logger,
	}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (user.User, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Register")
	defer span.End()

	if _, exists, err := s.users.GetByEmail(ctx, input.Email); err != nil {
		return user.User{}, "", fmt.Errorf("check email availability: %w", err)
	} else if exists {
		return user.User{}, "", fmt.Errorf("%w: email already registered", ErrInvalidInput)
	}

	if _, exists, err := s.users.GetByUsername(ctx, input.Username); err != nil {
		return user.User{}, "", fmt.Errorf("check username availability: %w", err)
	} else if exists {
		return user.User{}, "", fmt.Errorf("%w: username already taken", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return user.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.ids.NewID()
	if err != nil {
		return user.User{}, "", fmt.Errorf("generate user id: %w", err)
	}

	account := user.User{
		ID:           userID,
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, account); err != nil {
		return user.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return user.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", account.ID, "username", account.Username)
	return account, token, nil
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (user.User, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	account, exists, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return user.User{}, "", fmt.Errorf("get user by email: %w", err)
	}
	if !exists {
		return user.User{}, "", fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	if err := s.hasher.Compare(account.PasswordHash, input.Password); err != nil {
		return user.User{}, "", fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return user.User{}, "", fmt.Errorf("issue token: %w", err)
	}

	return account, token, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.CurrentUser")
	defer span.End()

	account, exists, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	return account, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.ChangePassword")
	defer span.End()

	account, exists, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if err := s.hasher.Compare(account.PasswordHash, currentPassword); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}
