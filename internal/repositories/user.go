package repositories

import (
	"database/sql"
	"errors"

	"github.com/desertthunder/extendr/internal/models"
)

// UserRepository handles persistence for [models.User].
//
// Users are created once at registration; the repository offers no update or delete.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns it with its assigned ID.
//
// A taken username fails with shared.ErrUniqueConstraint.
func (r *UserRepository) Create(user models.InsertUser) (*models.User, error) {
	if err := validate(user); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (username, password) VALUES (?, ?)
		RETURNING id, username, password
	`

	created, err := r.scanOne(r.db.QueryRow(query, user.Username, user.Password))
	if err != nil {
		return nil, storageError("failed to insert user", err)
	}

	return created, nil
}

// Get retrieves a user by ID. Returns nil without error when no user matches.
func (r *UserRepository) Get(id int64) (*models.User, error) {
	query := `SELECT id, username, password FROM users WHERE id = ?`

	user, err := r.scanOne(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("failed to query user", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username. Returns nil without error when no user matches.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	query := `SELECT id, username, password FROM users WHERE username = ?`

	user, err := r.scanOne(r.db.QueryRow(query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError("failed to query user by username", err)
	}

	return user, nil
}

// scanOne scans a single row into a [models.User], passing [sql.ErrNoRows] through untouched.
func (r *UserRepository) scanOne(row rowScanner) (*models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Password); err != nil {
		return nil, err
	}
	return &user, nil
}
