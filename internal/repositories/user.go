package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"kingtires/internal/models"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, first_name, last_name, email, age, password_hash, role, cart_id, created_at, updated_at"

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var cartID sql.NullInt64

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Age,
		&user.PasswordHash,
		&user.Role,
		&cartID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cartID.Valid {
		id := int(cartID.Int64)
		user.CartID = &id
	}

	return user, nil
}

// Create creates a new user with the given password hash and role
func (r *UserRepository) Create(req *models.UserRegisterRequest, passwordHash string, role models.UserRole) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (first_name, last_name, email, age, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(
		query,
		req.FirstName,
		req.LastName,
		strings.ToLower(strings.TrimSpace(req.Email)),
		req.Age,
		passwordHash,
		role,
		time.Now(),
	))

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, models.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID, including the owned cart reference
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"

	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"

	user, err := scanUser(r.db.QueryRow(query, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// AttachCart assigns a cart to a user. A user owns at most one cart; the
// assignment only succeeds when no cart is attached yet.
func (r *UserRepository) AttachCart(userID, cartID int) error {
	result, err := r.db.Exec(
		"UPDATE users SET cart_id = $2, updated_at = $3 WHERE id = $1 AND cart_id IS NULL",
		userID, cartID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to attach cart: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check attached rows: %w", err)
	}
	if affected == 0 {
		return models.ErrCartNotOwned
	}

	return nil
}

// Count returns the total number of users
func (r *UserRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
