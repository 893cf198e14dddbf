package handlers

import (
	"strings"

	"markethub/internal/apperrors"
	"markethub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogHandler serves the public catalog read model.
type CatalogHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategory)
	categoryRoutes.Get("/:id/products", h.HandleCategoryProducts)

	router.Get("/vendors", h.HandleListVendors)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
}

type categoryListParams struct {
	Featured bool `query:"featured"`
	Limit    int  `query:"limit" validate:"gte=0,lte=100"`
}

// HandleListCategories lists visible categories, optionally only featured ones.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	var params categoryListParams
	if err := c.QueryParser(&params); err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	if err := h.validate.Struct(params); err != nil {
		return validationFailed(c, err)
	}

	categories, err := h.service.ListCategories(c.UserContext(), services.CategoryQuery{
		Featured: params.Featured,
		Limit:    params.Limit,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(categories)
}

// HandleGetCategory returns a browsable category.
func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(category)
}

// HandleCategoryProducts lists the visible products of a browsable category.
func (h *CatalogHandler) HandleCategoryProducts(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	query, err := h.productQuery(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	query.CategoryID = &category.ID

	page, err := h.service.ListProducts(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"category": category,
		"products": page,
	})
}

type vendorListParams struct {
	MinProducts *int `query:"min_products" validate:"omitempty,gte=0"`
}

// HandleListVendors lists visible vendors with at least min_products products.
func (h *CatalogHandler) HandleListVendors(c *fiber.Ctx) error {
	var params vendorListParams
	if err := c.QueryParser(&params); err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	if err := h.validate.Struct(params); err != nil {
		return validationFailed(c, err)
	}

	minProducts := 1
	if params.MinProducts != nil {
		minProducts = *params.MinProducts
	}
	vendors, err := h.service.ListVendors(c.UserContext(), minProducts)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(vendors)
}

// HandleGetProduct returns a visible product's detail.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(product)
}

// HandleListProducts searches visible products.
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	query, err := h.productQuery(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := services.ParseID(raw, "category")
		if err != nil {
			return respondError(c, h.logger, err)
		}
		query.CategoryID = &id
	}

	page, err := h.service.ListProducts(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(page)
}

type productListParams struct {
	VendorID string `query:"vendor_id"`
	MinPrice string `query:"min_price"`
	MaxPrice string `query:"max_price"`
	Query    string `query:"q" validate:"max=100"`
	Page     int    `query:"page"`
	PerPage  int    `query:"per_page"`
}

// productQuery reads the filters shared by product listings.
func (h *CatalogHandler) productQuery(c *fiber.Ctx) (services.ProductQuery, error) {
	var params productListParams
	if err := c.QueryParser(&params); err != nil {
		return services.ProductQuery{}, apperrors.InvalidArgument("invalid query parameters: %v", err)
	}
	if err := h.validate.Struct(params); err != nil {
		return services.ProductQuery{}, apperrors.InvalidArgument("q must be at most 100 characters")
	}

	query := services.ProductQuery{
		Query:   params.Query,
		Page:    params.Page,
		PerPage: params.PerPage,
	}
	if params.VendorID != "" {
		id, err := services.ParseID(params.VendorID, "vendor")
		if err != nil {
			return services.ProductQuery{}, err
		}
		query.VendorID = &id
	}

	var err error
	if query.MinPrice, err = parsePrice(params.MinPrice, "min_price"); err != nil {
		return services.ProductQuery{}, err
	}
	if query.MaxPrice, err = parsePrice(params.MaxPrice, "max_price"); err != nil {
		return services.ProductQuery{}, err
	}
	return query, nil
}

func parsePrice(raw, name string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.InvalidArgument("invalid %s %q", name, raw)
	}
	return &price, nil
}
