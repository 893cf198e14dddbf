package middleware

import (
	"errors"
	"strings"

	"markethub/internal/apperrors"
	"markethub/internal/models"
	"markethub/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Keys of the authenticated identity in fiber.Ctx locals.
const (
	LocalUserID   = "user_id"
	LocalUserType = "user_type"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token issued to
// an account that is still active.
func AuthRequired(authService *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			logger.Debug("JWT validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		// MapClaims decodes numbers as float64.
		rawID, ok := claims["user_id"].(float64)
		if !ok || rawID < 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		// The role and status come from the stored account, not from the claims.
		user, err := authService.Authenticate(c.UserContext(), uint(rawID))
		if err != nil {
			var appErr *apperrors.Error
			if !errors.As(err, &appErr) {
				appErr = apperrors.Internal(err, "internal server error")
			}
			message := appErr.Message()
			if appErr.HTTPCode() >= fiber.StatusInternalServerError {
				logger.Error("failed to load token user", zap.Uint("user_id", uint(rawID)), zap.Error(err))
				message = "internal server error"
			}
			return c.Status(appErr.HTTPCode()).JSON(fiber.Map{
				"message": message,
				"code":    appErr.Kind(),
			})
		}

		// Store the identity in Fiber context for subsequent handlers
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserType, user.UserType)

		return c.Next()
	}
}

// AdminOnly rejects requests whose token does not belong to an administrator.
// It must run after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userType, _ := c.Locals(LocalUserType).(models.UserType); userType != models.UserTypeAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Administrator access required",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}
