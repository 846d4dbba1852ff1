package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rakapradana/auth-gate-be/internal/database"
)

// newTestDB opens an in-memory store with the full schema applied. A single
// connection is pinned so every query sees the same memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserService_Register(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register("alice", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Name)
	require.Empty(t, user.PasswordHash, "hash must not leave the service")
}

func TestUserService_Register_DuplicateName(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("alice", "secret1")
	require.NoError(t, err)

	_, err = svc.Register("alice", "other-password")
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestUserService_Register_NameIsCaseSensitive(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("alice", "secret1")
	require.NoError(t, err)

	_, err = svc.Register("Alice", "secret1")
	require.NoError(t, err, "names differing in case are distinct users")
}

func TestUserService_Authenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	registered, err := svc.Register("alice", "secret1")
	require.NoError(t, err)

	user, err := svc.Authenticate("alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.Empty(t, user.PasswordHash)
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("alice", "secret1")
	require.NoError(t, err)

	_, err = svc.Authenticate("alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Authenticate_UnknownName(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Authenticate("nobody", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown name must be indistinguishable from wrong password")
}

func TestUserService_GetUserByID(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	registered, err := svc.Register("alice", "secret1")
	require.NoError(t, err)

	user, err := svc.GetUserByID(registered.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Name)

	_, err = svc.GetUserByID("missing-id")
	require.ErrorIs(t, err, ErrUserNotFound)
}
