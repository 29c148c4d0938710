package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"kingtires/internal/models"
)

// ErrInvalidCredentials is returned when login credentials do not match
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles registration, login and token validation
type AuthService struct {
	userRepo  UserRepository
	cartRepo  CartRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, cartRepo CartRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &AuthService{
		userRepo:  userRepo,
		cartRepo:  cartRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new user with a hashed password and provisions the
// user's cart
func (s *AuthService) Register(req *models.UserRegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(req, string(hash), models.RoleUser)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.Create()
	if err != nil {
		// The user can still shop; a cart is attached on first use
		return user, nil
	}
	if err := s.userRepo.AttachCart(user.ID, cart.ID); err == nil {
		user.CartID = &cart.ID
	}

	return user, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *AuthService) Login(req *models.UserLoginRequest) (*models.User, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetCurrentUser resolves a user from a previously issued token subject
func (s *AuthService) GetCurrentUser(userID int) (*models.User, error) {
	if userID <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.userRepo.GetByID(userID)
}

// ValidateToken parses and verifies a token, returning the user ID it was
// issued for
func (s *AuthService) ValidateToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, models.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, models.ErrUnauthorized
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, models.ErrUnauthorized
	}

	return int(sub), nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
