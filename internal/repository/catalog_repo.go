package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/gtd_catalog/internal/models"
)

// CatalogRepository loads product snapshots with their variation data.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type imageRow struct {
	models.Image
	ProductID sql.NullInt64 `db:"product_id"`
	OptionID  sql.NullInt64 `db:"option_id"`
}

type variationRow struct {
	ID        int     `db:"id"`
	ProductID int     `db:"product_id"`
	OptionIDs []byte  `db:"variation_type_option_ids"`
	Price     float64 `db:"price"`
	Quantity  *int    `db:"quantity"`
}

const productColumns = `id, title, slug, price, quantity, description, short_description, is_active, updated_at`

// GetBySlug returns an active product by slug with types, options, images
// and variations. It returns sql.ErrNoRows when the product does not exist.
func (r *CatalogRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	q := `SELECT ` + productColumns + ` FROM products WHERE slug = $1 AND is_active = true LIMIT 1`
	if err := r.db.GetContext(ctx, &p, q, slug); err != nil {
		return nil, err
	}
	if err := r.loadVariationData(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns an active product by id. See GetBySlug.
func (r *CatalogRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active = true LIMIT 1`
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	if err := r.loadVariationData(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListRecentSlugs returns slugs of active products, most recently updated first.
func (r *CatalogRepository) ListRecentSlugs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	var slugs []string
	const q = `SELECT slug FROM products WHERE is_active = true ORDER BY updated_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &slugs, q, limit); err != nil {
		return nil, err
	}
	return slugs, nil
}

func (r *CatalogRepository) loadVariationData(ctx context.Context, p *models.Product) error {
	var types []models.VariationType
	const typesQ = `SELECT id, product_id, name, type FROM variation_types
        WHERE product_id = $1 ORDER BY position, id`
	if err := r.db.SelectContext(ctx, &types, typesQ, p.ID); err != nil {
		return fmt.Errorf("failed to load variation types: %w", err)
	}

	typeIDs := make([]int64, 0, len(types))
	for _, t := range types {
		typeIDs = append(typeIDs, int64(t.ID))
	}

	var options []models.VariationTypeOption
	if len(typeIDs) > 0 {
		const optionsQ = `SELECT id, variation_type_id, name FROM variation_type_options
            WHERE variation_type_id = ANY($1) ORDER BY position, id`
		if err := r.db.SelectContext(ctx, &options, optionsQ, pq.Array(typeIDs)); err != nil {
			return fmt.Errorf("failed to load variation options: %w", err)
		}
	}

	optionIDs := make([]int64, 0, len(options))
	for _, op := range options {
		optionIDs = append(optionIDs, int64(op.ID))
	}

	var images []imageRow
	const imagesQ = `SELECT id, product_id, option_id, thumb, small, large FROM images
        WHERE product_id = $1 OR option_id = ANY($2) ORDER BY position, id`
	if err := r.db.SelectContext(ctx, &images, imagesQ, p.ID, pq.Array(optionIDs)); err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}

	var variations []variationRow
	const variationsQ = `SELECT id, product_id, variation_type_option_ids, price, quantity
        FROM product_variations WHERE product_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &variations, variationsQ, p.ID); err != nil {
		return fmt.Errorf("failed to load variations: %w", err)
	}

	return assembleProduct(p, types, options, images, variations)
}

// assembleProduct nests flat rows into p, keeping query order.
func assembleProduct(p *models.Product, types []models.VariationType, options []models.VariationTypeOption, images []imageRow, variations []variationRow) error {
	optionImages := make(map[int][]models.Image)
	p.Images = nil
	for _, img := range images {
		switch {
		case img.OptionID.Valid:
			id := int(img.OptionID.Int64)
			optionImages[id] = append(optionImages[id], img.Image)
		case img.ProductID.Valid && int(img.ProductID.Int64) == p.ID:
			p.Images = append(p.Images, img.Image)
		}
	}

	optionsByType := make(map[int][]models.VariationTypeOption)
	for _, op := range options {
		op.Images = optionImages[op.ID]
		if op.Images == nil {
			op.Images = []models.Image{}
		}
		optionsByType[op.VariationTypeID] = append(optionsByType[op.VariationTypeID], op)
	}

	p.VariationTypes = make([]models.VariationType, 0, len(types))
	for _, t := range types {
		t.Options = optionsByType[t.ID]
		p.VariationTypes = append(p.VariationTypes, t)
	}

	p.Variations = make([]models.Variation, 0, len(variations))
	for _, row := range variations {
		v := models.Variation{ID: row.ID, ProductID: row.ProductID, Price: row.Price, Quantity: row.Quantity}
		if err := decodeOptionIDs(row.OptionIDs, &v.OptionIDs); err != nil {
			return fmt.Errorf("variation %d: %w", row.ID, err)
		}
		p.Variations = append(p.Variations, v)
	}

	if p.Images == nil {
		p.Images = []models.Image{}
	}
	return nil
}

// decodeOptionIDs accepts a JSON array of ids, given as numbers or strings.
func decodeOptionIDs(raw []byte, out *[]int) error {
	if len(raw) == 0 {
		*out = []int{}
		return nil
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err == nil {
		*out = ids
		return nil
	}
	var strs []json.Number
	if err := json.Unmarshal(raw, &strs); err != nil {
		return fmt.Errorf("invalid option id list: %w", err)
	}
	ids = make([]int, 0, len(strs))
	for _, s := range strs {
		n, err := s.Int64()
		if err != nil {
			return fmt.Errorf("invalid option id %q: %w", s, err)
		}
		ids = append(ids, int(n))
	}
	*out = ids
	return nil
}
