package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"markethub/internal/apperrors"
	"markethub/internal/models"
	"markethub/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest carries the fields of a new account.
type RegisterRequest struct {
	Name      string          `json:"name" validate:"required,min=2,max=150"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8,max=72"`
	Phone     string          `json:"phone" validate:"omitempty,max=32"`
	UserType  models.UserType `json:"user_type" validate:"omitempty,oneof=customer vendor"`
	StoreName string          `json:"store_name" validate:"omitempty,max=150"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	activity   repositories.ActivityLogRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, activity repositories.ActivityLogRepository, jwtSecret string, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		activity:   activity,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
		logger:     logger,
	}
}

// Register creates an account. Customers are active immediately; vendors start
// pending and get a pending store in the same transaction.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ConstraintViolation(nil, "email '%s' already registered", email)
	}
	if err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Phone:        req.Phone,
		UserType:     models.UserTypeCustomer,
		Status:       models.UserStatusActive,
	}

	switch req.UserType {
	case "", models.UserTypeCustomer:
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	case models.UserTypeVendor:
		user.UserType = models.UserTypeVendor
		user.Status = models.UserStatusPending
		store := &models.VendorStore{StoreName: strings.TrimSpace(req.StoreName)}
		if store.StoreName == "" {
			store.StoreName = models.DefaultStoreName(user)
		}
		if err := s.userRepo.CreateVendor(ctx, user, store); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.InvalidArgument("cannot register as %q", req.UserType)
	}
	return user, nil
}

// Login authenticates an active user by email and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if apperrors.Is(err, apperrors.KindNotFound) {
		return "", nil, apperrors.Unauthorized("invalid credentials")
	}
	if err != nil {
		return "", nil, err
	}

	// Compare the provided password with the hashed password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.Unauthorized("invalid credentials")
	}
	if user.Status != models.UserStatusActive {
		return "", nil, apperrors.Forbidden("account is %s", user.Status)
	}

	tokenString, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	entry := &models.ActivityLog{UserID: user.ID, Action: "login", IPAddress: ip}
	if err := s.activity.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to record login", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return tokenString, user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"user_type": string(user.UserType),
		"email":     user.Email,
		"exp":       time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":       time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Internal(err, "failed to generate token")
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Authenticate returns the current record of the user a token was issued to.
// Tokens outlive status changes, so the account must still exist and be active.
func (s *AuthService) Authenticate(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if apperrors.Is(err, apperrors.KindNotFound) {
		return nil, apperrors.Unauthorized("account no longer exists")
	}
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.Forbidden("account is %s", user.Status)
	}
	return user, nil
}

// EnsureAdmin creates an active admin account for email unless one exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if existing.UserType != models.UserTypeAdmin {
			return false, apperrors.ConstraintViolation(nil, "email '%s' belongs to a %s account", email, existing.UserType)
		}
		return false, nil
	}
	if !apperrors.Is(err, apperrors.KindNotFound) {
		return false, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, apperrors.Internal(err, "failed to hash password")
	}
	admin := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		UserType:     models.UserTypeAdmin,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
