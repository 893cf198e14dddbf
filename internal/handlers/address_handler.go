package handlers

import (
	"markethub/internal/middleware"
	"markethub/internal/models"
	"markethub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AddressHandler serves the authenticated user's address book.
type AddressHandler struct {
	service  *services.AddressService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *services.AddressService, logger *zap.Logger) *AddressHandler {
	return &AddressHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the address routes. router must be authenticated.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/me/addresses")
	addressRoutes.Get("/", h.HandleList)
	addressRoutes.Post("/", h.HandleCreate)
	addressRoutes.Post("/:id/default", h.HandleSetDefault)
}

// HandleList returns the caller's addresses.
func (h *AddressHandler) HandleList(c *fiber.Ctx) error {
	addresses, err := h.service.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(addresses)
}

// HandleCreate adds an address for the caller.
func (h *AddressHandler) HandleCreate(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.validate.Struct(address); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.Create(c.UserContext(), middleware.UserID(c), &address); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

// HandleSetDefault makes an address the caller's default.
func (h *AddressHandler) HandleSetDefault(c *fiber.Ctx) error {
	if err := h.service.SetDefault(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "Default address updated",
	})
}
