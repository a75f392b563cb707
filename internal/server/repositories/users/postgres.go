package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts account and fills in its generated ID and creation time.
// The email is normalized before the write.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO users (email, password, full_name, is_active, roles)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	account.Email = models.NormalizeEmail(account.Email)
	if len(account.Roles) == 0 {
		account.Roles = models.DefaultRoles()
	}

	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.FullName, account.IsActive,
		pq.Array(models.RolesToStrings(account.Roles))).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		return nil, newStoreError(err)
	}

	return account, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, password, full_name, is_active, roles, created_at FROM users
		 WHERE email = $1
		 `

	return r.getOne(ctx, query, models.NormalizeEmail(email))
}

// GetUserByID loads an account by its UUID. A malformed id cannot match any
// row and is reported as not found without a round trip.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, email, password, full_name, is_active, roles, created_at FROM users
		 WHERE id = $1
		 `

	return r.getOne(ctx, query, id)
}

// LockUserByID is GetUserByID with a row lock held until the transaction
// running it commits or rolls back. Concurrent updates of the same account
// are serialized behind it.
func (r *PostgresRepository) LockUserByID(ctx context.Context, id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, email, password, full_name, is_active, roles, created_at FROM users
		 WHERE id = $1
		 FOR UPDATE
		 `

	return r.getOne(ctx, query, id)
}

// Update writes the mutable fields of account back to the store.
func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`UPDATE users SET email = $2, full_name = $3, is_active = $4, roles = $5
		 WHERE id = $1
		 RETURNING created_at
		 `

	account.Email = models.NormalizeEmail(account.Email)

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.FullName, account.IsActive,
		pq.Array(models.RolesToStrings(account.Roles))).Scan(&account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, newStoreError(err)
	}

	return account, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	account := &models.Account{}
	var roles pq.StringArray

	err := r.db.QueryRowContext(ctx, query, arg).Scan(&account.ID, &account.Email, &account.PasswordHash,
		&account.FullName, &account.IsActive, &roles, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.Roles = models.RolesFromStrings(roles)

	return account, nil
}
