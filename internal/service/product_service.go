package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_catalog/internal/cache"
	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/models"
	"github.com/GTDGit/gtd_catalog/internal/storage"
	"github.com/GTDGit/gtd_catalog/internal/utils"
)

// CatalogStore is the persistent source of product snapshots.
type CatalogStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	ListRecentSlugs(ctx context.Context, limit int) ([]string, error)
}

// ProductCacher caches product snapshots.
type ProductCacher interface {
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Set(ctx context.Context, product *models.Product) error
}

// ProductService serves product page payloads.
type ProductService struct {
	repo   CatalogStore
	cache  ProductCacher
	signer storage.URLSigner
}

// NewProductService constructs a ProductService. cache and signer may be nil.
func NewProductService(repo CatalogStore, cache ProductCacher, signer storage.URLSigner) *ProductService {
	return &ProductService{repo: repo, cache: cache, signer: signer}
}

// PageResolution is the server-side resolution of the initial selection.
type PageResolution struct {
	Price           float64        `json:"price"`
	Quantity        catalog.Stock  `json:"quantity"`
	QuantityChoices []int          `json:"quantityChoices"`
	LowStockMessage string         `json:"lowStockMessage,omitempty"`
	Images          []models.Image `json:"images"`
	VariationID     *int           `json:"variationId,omitempty"`
}

// ProductPage is the payload of a product page request.
type ProductPage struct {
	Product *models.Product `json:"product"`
	// VariationOptions echoes the selection decoded from the request address.
	VariationOptions catalog.OptionIDs `json:"variationOptions"`
	// Selection is the fully determined initial selection.
	Selection catalog.OptionIDs `json:"selection"`
	Resolved  PageResolution    `json:"resolved"`
}

// ShowProduct loads the product behind slug and resolves the requested
// selection against it.
func (s *ProductService) ShowProduct(ctx context.Context, slug string, requested catalog.OptionIDs) (*ProductPage, error) {
	product, err := s.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if requested == nil {
		requested = catalog.OptionIDs{}
	}

	selection := catalog.InitSelection(product, requested)
	res := catalog.Resolve(product, selection)

	page := &ProductPage{
		Product:          product,
		VariationOptions: requested,
		Selection:        selection.OptionIDMap(),
		Resolved: PageResolution{
			Price:           res.Price,
			Quantity:        res.Quantity,
			QuantityChoices: res.Quantity.QuantityChoices(),
			LowStockMessage: res.Quantity.LowStockMessage(),
			Images:          res.Images,
		},
	}
	if res.Variation != nil {
		id := res.Variation.ID
		page.Resolved.VariationID = &id
	}
	return page, nil
}

// GetProductBySlug returns a product snapshot, from cache when possible.
func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if s.cache != nil {
		p, err := s.cache.GetBySlug(ctx, slug)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Str("slug", slug).Msg("Product cache read failed")
		}
	}

	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "slug "+slug)
	}
	s.store(ctx, p)
	return p, nil
}

// GetProductByID returns a product snapshot, from cache when possible.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	if s.cache != nil {
		p, err := s.cache.GetByID(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Int("product_id", id).Msg("Product cache read failed")
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("id %d", id))
	}
	s.store(ctx, p)
	return p, nil
}

// WarmCache reloads the most recently updated products into the cache and
// returns how many were stored.
func (s *ProductService) WarmCache(ctx context.Context, limit int) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	slugs, err := s.repo.ListRecentSlugs(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list products: %w", err)
	}

	warmed := 0
	for _, slug := range slugs {
		if ctx.Err() != nil {
			return warmed, ctx.Err()
		}
		p, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			log.Warn().Err(err).Str("slug", slug).Msg("Skipping product during cache warm-up")
			continue
		}
		if s.store(ctx, p) {
			warmed++
		}
	}
	return warmed, nil
}

// store signs image URLs and caches p. It reports whether caching succeeded.
func (s *ProductService) store(ctx context.Context, p *models.Product) bool {
	storage.SignProduct(ctx, s.signer, p)

	if s.cache == nil {
		return false
	}
	if err := s.cache.Set(ctx, p); err != nil {
		log.Warn().Err(err).Int("product_id", p.ID).Msg("Product cache write failed")
		return false
	}
	return true
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", utils.ErrProductNotFound, what)
	}
	return err
}
