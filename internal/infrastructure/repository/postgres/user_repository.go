package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/padelista/padel-stats/internal/domain/user"
	qb "github.com/padelista/padel-stats/internal/platform/querybuilder"
)

const userColumns = "id, username, email, first_name, last_name, password_hash, created_at"

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	query, args, err := qb.InsertInto("users").
		Columns("id", "username", "email", "first_name", "last_name", "password_hash", "created_at").
		Values(u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return r.getByColumn(ctx, "id", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	return r.getByColumn(ctx, "email", email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	return r.getByColumn(ctx, "username", username)
}

func (r *UserRepository) getByColumn(ctx context.Context, column, value string) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns).From("users").
		Where(qb.Eq(column, value)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by %s query: %w", column, err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by %s: %w", column, err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select(userColumns).From("users").
		Where(qb.In("id", values)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users by ids query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	query, args, err := qb.Update("users").
		Set("password_hash", passwordHash).
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update password hash query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}
