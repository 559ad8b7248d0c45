package user

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	// ListByIDs returns the users that exist among the given ids; callers
	// compare lengths to detect unresolved ids.
	ListByIDs(ctx context.Context, userIDs []string) ([]User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}
