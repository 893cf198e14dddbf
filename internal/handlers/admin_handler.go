package handlers

import (
	"context"

	"markethub/internal/models"
	"markethub/internal/reconcile"
	"markethub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// JobRunner runs reconciliation jobs.
type JobRunner interface {
	Jobs() []string
	Run(ctx context.Context, name string) (*reconcile.Report, error)
	RunAll(ctx context.Context) ([]*reconcile.Report, error)
}

// AdminHandler exposes maintenance operations to administrators.
type AdminHandler struct {
	runner      JobRunner
	userService *services.UserService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(runner JobRunner, userService *services.UserService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		runner:      runner,
		userService: userService,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the admin routes. router must be restricted to administrators.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Get("/reconcile/jobs", h.HandleListJobs)
	adminRoutes.Post("/reconcile", h.HandleRunAll)
	adminRoutes.Post("/reconcile/:job", h.HandleRunJob)
	adminRoutes.Patch("/users/:id/status", h.HandleSetUserStatus)
}

// HandleListJobs lists the registered job names.
func (h *AdminHandler) HandleListJobs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"jobs": h.runner.Jobs(),
	})
}

// HandleRunAll runs the batch of reconciliation jobs.
func (h *AdminHandler) HandleRunAll(c *fiber.Ctx) error {
	reports, err := h.runner.RunAll(c.UserContext())
	if err != nil {
		return h.jobFailed(c, err, fiber.Map{"reports": reports})
	}
	return c.JSON(fiber.Map{
		"reports": reports,
	})
}

// HandleRunJob runs one job by name.
func (h *AdminHandler) HandleRunJob(c *fiber.Ctx) error {
	report, err := h.runner.Run(c.UserContext(), c.Params("job"))
	if err != nil {
		if report == nil {
			return respondError(c, h.logger, err)
		}
		return h.jobFailed(c, err, fiber.Map{"report": report})
	}
	return c.JSON(fiber.Map{
		"report": report,
	})
}

// jobFailed reports an aborted run together with the partial reports.
func (h *AdminHandler) jobFailed(c *fiber.Ctx, err error, extra fiber.Map) error {
	status, body := errorResponse(c, h.logger, err)
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

type statusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,oneof=pending active inactive rejected"`
}

// HandleSetUserStatus changes a user's status and syncs a vendor's store.
func (h *AdminHandler) HandleSetUserStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, report, err := h.userService.SetStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"user":       user,
		"store_sync": report,
	})
}
