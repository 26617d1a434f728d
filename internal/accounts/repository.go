package accounts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/pkg/database"
)

// Store is the account persistence used by the handlers.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, email, passwordHash string, role models.Role) (*models.Account, error)
	CountAdmins(ctx context.Context) (int, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.AccountPublic, error)
	Update(ctx context.Context, id uuid.UUID, email, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository handles account persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an account repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const accountColumns = `id, email, password_hash, role, created_at, updated_at`

// GetByID returns an account by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var a models.Account
	err := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id).
		Scan(&a.ID, &a.Email, &a.Password, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &a, nil
}

// GetByEmail returns an account by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email).
		Scan(&a.ID, &a.Email, &a.Password, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &a, nil
}

// Create inserts an account. A taken email returns models.ErrConflict.
func (r *Repository) Create(ctx context.Context, email, passwordHash string, role models.Role) (*models.Account, error) {
	const q = `INSERT INTO accounts (email, password_hash, role) VALUES ($1, $2, $3)
		RETURNING ` + accountColumns
	var a models.Account
	err := r.pool.QueryRow(ctx, q, email, passwordHash, string(role)).
		Scan(&a.ID, &a.Email, &a.Password, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, database.MapError(err)
	}
	return &a, nil
}

// CountAdmins returns how many uploader or developer accounts exist.
func (r *Repository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE role IN ('uploader', 'developer')`).Scan(&n)
	return n, err
}

// ListByRole returns accounts with role, newest first.
func (r *Repository) ListByRole(ctx context.Context, role models.Role) ([]models.AccountPublic, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, role, created_at FROM accounts
		WHERE role = $1 ORDER BY created_at DESC`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.AccountPublic
	for rows.Next() {
		var a models.AccountPublic
		if err := rows.Scan(&a.ID, &a.Email, &a.Role, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update sets email and, when passwordHash is non-empty, the password.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, email, passwordHash string) error {
	const q = `UPDATE accounts SET email = $2,
		password_hash = COALESCE(NULLIF($3, ''), password_hash),
		updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, email, passwordHash)
	if err != nil {
		return database.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an account.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
