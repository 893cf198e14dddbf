package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"markethub/internal/apperrors"
	"markethub/internal/models"
	"markethub/internal/repositories"

	"github.com/shopspring/decimal"
)

const maxPerPage = 100

// CatalogOptions tunes the catalog read model.
type CatalogOptions struct {
	FeaturedLimit    int
	RelatedLimit     int
	PerPage          int
	PlaceholderImage string
}

// DefaultCatalogOptions returns the limits used when none are configured.
func DefaultCatalogOptions() CatalogOptions {
	return CatalogOptions{
		FeaturedLimit:    6,
		RelatedLimit:     4,
		PerPage:          12,
		PlaceholderImage: "assets/images/placeholder-product.jpg",
	}
}

// CategoryQuery selects between the full category list and the featured one.
type CategoryQuery struct {
	Featured bool
	Limit    int // featured only; zero means the configured default
}

// ProductQuery is a product listing request as received from a caller.
type ProductQuery struct {
	CategoryID *uint
	VendorID   *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Query      string
	Page       int
	PerPage    int
}

// CatalogService builds the public, visibility-filtered views of the catalog.
type CatalogService struct {
	repo repositories.CatalogRepository
	opts CatalogOptions
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.CatalogRepository, opts CatalogOptions) *CatalogService {
	defaults := DefaultCatalogOptions()
	if opts.FeaturedLimit <= 0 {
		opts.FeaturedLimit = defaults.FeaturedLimit
	}
	if opts.RelatedLimit < 0 {
		opts.RelatedLimit = defaults.RelatedLimit
	}
	if opts.PerPage <= 0 || opts.PerPage > maxPerPage {
		opts.PerPage = defaults.PerPage
	}
	if opts.PlaceholderImage == "" {
		opts.PlaceholderImage = defaults.PlaceholderImage
	}
	return &CatalogService{
		repo: repo,
		opts: opts,
	}
}

// ListCategories returns visible categories with counts and price ranges over
// visible products.
func (s *CatalogService) ListCategories(ctx context.Context, q CategoryQuery) ([]models.CategorySummary, error) {
	limit := 0
	if q.Featured {
		limit = q.Limit
		if limit < 0 {
			return nil, apperrors.InvalidArgument("limit must not be negative")
		}
		if limit == 0 {
			limit = s.opts.FeaturedLimit
		}
	}
	return s.repo.CategorySummaries(ctx, q.Featured, limit)
}

// GetCategory returns a browsable category.
func (s *CatalogService) GetCategory(ctx context.Context, rawID string) (*models.Category, error) {
	id, err := ParseID(rawID, "category")
	if err != nil {
		return nil, err
	}
	return s.repo.GetVisibleCategory(ctx, id)
}

// ListVendors returns visible vendors with at least minProducts visible products.
func (s *CatalogService) ListVendors(ctx context.Context, minProducts int) ([]models.VendorSummary, error) {
	if minProducts < 0 {
		return nil, apperrors.InvalidArgument("min_products must not be negative")
	}
	return s.repo.VendorSummaries(ctx, minProducts)
}

// GetProduct returns the detail view of a visible product. A product that
// exists but is not visible is reported as not found.
func (s *CatalogService) GetProduct(ctx context.Context, rawID string) (*models.ProductDetail, error) {
	id, err := ParseID(rawID, "product")
	if err != nil {
		return nil, err
	}

	view, err := s.repo.GetVisibleProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.ProductImages(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.ProductDetail{
		ProductView: *view,
		Images:      s.imageList(view, images),
		Related:     []models.ProductView{},
	}

	if view.CategoryID != nil && s.opts.RelatedLimit > 0 {
		related, err := s.repo.RelatedProducts(ctx, *view.CategoryID, id, s.opts.RelatedLimit)
		if err != nil {
			return nil, err
		}
		if related != nil {
			detail.Related = related
		}
	}
	return detail, nil
}

func (s *CatalogService) imageList(view *models.ProductView, images []models.ProductImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.ImageURL)
	}
	if len(urls) == 0 && view.ImageURL != "" {
		urls = append(urls, view.ImageURL)
	}
	if len(urls) == 0 {
		urls = append(urls, s.opts.PlaceholderImage)
	}
	return urls
}

// ListProducts returns one page of visible products matching q.
func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (*models.ProductPage, error) {
	page := q.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return nil, apperrors.InvalidArgument("page must be positive")
	}
	perPage := q.PerPage
	if perPage == 0 {
		perPage = s.opts.PerPage
	}
	if perPage < 0 || perPage > maxPerPage {
		return nil, apperrors.InvalidArgument("per_page must be between 1 and %d", maxPerPage)
	}
	if page-1 > math.MaxInt/perPage {
		return nil, apperrors.InvalidArgument("page %d is out of range", page)
	}
	if q.MinPrice != nil && q.MinPrice.IsNegative() {
		return nil, apperrors.InvalidArgument("min_price must not be negative")
	}
	if q.MaxPrice != nil && q.MaxPrice.IsNegative() {
		return nil, apperrors.InvalidArgument("max_price must not be negative")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return nil, apperrors.InvalidArgument("min_price must not exceed max_price")
	}

	items, total, err := s.repo.SearchProducts(ctx, repositories.ProductFilter{
		CategoryID: q.CategoryID,
		VendorID:   q.VendorID,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Query:      strings.TrimSpace(q.Query),
		Offset:     (page - 1) * perPage,
		Limit:      perPage,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ProductView{}
	}
	return &models.ProductPage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// ParseID parses a positive numeric identifier of the named entity.
func ParseID(raw, entity string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.InvalidArgument("invalid %s id %q", entity, raw)
	}
	return uint(id), nil
}
