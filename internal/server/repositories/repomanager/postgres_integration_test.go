//go:build integration

package repomanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgres_UsersRoundTrip(t *testing.T) {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("gatekeeper_test"),
		postgres.WithUsername("gatekeeper"),
		postgres.WithPassword("gatekeeper"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := OpenDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := NewPostgresRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx, db))

	repo := m.Users(db)

	created, err := repo.Create(ctx, &models.Account{
		Email:        " A@B.com",
		PasswordHash: "$2a$10$hash",
		FullName:     "A B",
		IsActive:     true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "a@b.com", created.Email)

	_, err = repo.Create(ctx, &models.Account{Email: "a@b.com", PasswordHash: "x", FullName: "dup", IsActive: true})
	var se *users.StoreError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.True(t, se.IsUniqueViolation())
	assert.Equal(t, "Key (email)=(a@b.com) already exists.", se.Detail())

	byEmail, err := repo.GetUserByEmail(ctx, "A@B.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, []models.Role{models.RoleUser}, byEmail.Roles)

	byEmail.Roles = []models.Role{models.RoleAdmin, models.RoleUser}
	byEmail.IsActive = false
	_, err = repo.Update(ctx, byEmail)
	require.NoError(t, err)

	byID, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, byID.IsActive)
	assert.Equal(t, []models.Role{models.RoleAdmin, models.RoleUser}, byID.Roles)

	_, err = repo.GetUserByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// A second locker waits for the first transaction to finish.
	tx1, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = m.Users(tx1).LockUserByID(ctx, created.ID)
	require.NoError(t, err)

	tx2, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	_, err = m.Users(tx2).LockUserByID(waitCtx, created.ID)
	cancel()
	require.Error(t, err)
	_ = tx2.Rollback()

	require.NoError(t, tx1.Rollback())

	tx3, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = m.Users(tx3).LockUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.NoError(t, tx3.Commit())
}
