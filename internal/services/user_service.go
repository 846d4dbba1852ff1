package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rakapradana/auth-gate-be/internal/models"
	"github.com/rakapradana/auth-gate-be/internal/password"
)

// Sentinel errors for the expected failure modes of user operations.
// Handlers map these to status codes; anything else is an internal error.
var (
	ErrNameTaken = errors.New("name already registered")
	// ErrInvalidCredentials covers both unknown name and wrong password so
	// that callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(name, plaintext string) (models.User, error)
	Authenticate(name, plaintext string) (models.User, error)
	GetUserByID(id string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user with a hashed password. The existence
// pre-check is an optimization only; the users.name UNIQUE constraint is
// the authoritative source of conflict under concurrent registration.
func (s *UserService) Register(name, plaintext string) (models.User, error) {
	if _, err := s.getUserByName(name); err == nil {
		return models.User{}, ErrNameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, err
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		PasswordHash: hash,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, name, password_hash) VALUES(?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Name, user.PasswordHash); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrNameTaken
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. Unknown names and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(name, plaintext string) (models.User, error) {
	user, err := s.getUserByName(name)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !password.Verify(plaintext, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// getUserByName retrieves a single user by name, including the password hash.
func (s *UserService) getUserByName(name string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, name, password_hash, created_at FROM users WHERE name = ?", name)
	err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// isUniqueViolation reports whether err is the store's uniqueness signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
