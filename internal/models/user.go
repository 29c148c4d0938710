package models

import (
	"errors"
	"strings"
	"time"
)

// UserRole represents the role of a user
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents a registered user
type User struct {
	ID           int       `json:"id" db:"id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	Age          int       `json:"age,omitempty" db:"age"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	CartID       *int      `json:"cart_id,omitempty" db:"cart_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserRegisterRequest represents user registration data
type UserRegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Password  string `json:"password"`
}

// UserLoginRequest represents login credentials
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates user registration data
func (req *UserRegisterRequest) Validate() error {
	if err := validateUserName(req.FirstName); err != nil {
		return err
	}

	if req.LastName != "" && len(req.LastName) > 50 {
		return errors.New("last name must be less than 50 characters")
	}

	if err := validateUserEmail(req.Email); err != nil {
		return err
	}

	if err := validateUserPassword(req.Password); err != nil {
		return err
	}

	if req.Age != 0 && (req.Age < 18 || req.Age > 120) {
		return errors.New("age must be between 18 and 120")
	}

	return nil
}

// Validate validates login credentials
func (req *UserLoginRequest) Validate() error {
	if err := validateUserEmail(req.Email); err != nil {
		return err
	}

	if req.Password == "" {
		return errors.New("password is required")
	}

	return nil
}

// validateUserName validates a user first name
func validateUserName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("first name is required")
	}

	if len(name) < 2 || len(name) > 50 {
		return errors.New("first name must be between 2 and 50 characters")
	}

	return nil
}

// validateUserEmail validates an email address
func validateUserEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return errors.New("email is invalid")
	}

	return nil
}

// validateUserPassword validates a password
func validateUserPassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	return nil
}

// FullName returns the user's full name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// OwnsCart returns true if the user may operate on the given cart.
// A user without an assigned cart may adopt any cart; a user with an
// assigned cart may only operate on that one.
func (u *User) OwnsCart(cartID int) bool {
	return u.CartID == nil || *u.CartID == cartID
}
