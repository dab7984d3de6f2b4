package catalog

import (
	"github.com/GTDGit/gtd_catalog/internal/models"
)

// Resolution is the display data derived from a product and a selection.
type Resolution struct {
	Price     float64           `json:"price"`
	Quantity  Stock             `json:"quantity"`
	Images    []models.Image    `json:"images"`
	Variation *models.Variation `json:"variation,omitempty"`
}

// Matched reports whether a concrete variation was resolved.
func (r Resolution) Matched() bool { return r.Variation != nil }

// Resolver resolves selections for one product, reusing its variation index.
type Resolver struct {
	product *models.Product
	index   *Index
}

// NewResolver indexes product's variations once.
func NewResolver(product *models.Product) *Resolver {
	return &Resolver{product: product, index: NewIndex(product.Variations)}
}

// Product returns the snapshot the resolver was built from.
func (r *Resolver) Product() *models.Product { return r.product }

// Index returns the variation index.
func (r *Resolver) Index() *Index { return r.index }

// Resolve derives price, stock and images for s. Partial selections and
// unknown combinations fall back to the product's own price and quantity.
func (r *Resolver) Resolve(s Selection) Resolution {
	res := Resolution{
		Price:    r.product.Price,
		Quantity: StockOf(r.product.Quantity),
		Images:   ResolveImages(r.product, s),
	}
	if v, ok := r.Match(s); ok {
		res.Price = v.Price
		res.Quantity = StockOf(v.Quantity)
		res.Variation = &v
	}
	return res
}

// Match returns the variation for s. Every declared variation type must
// have a choice; otherwise nothing matches.
func (r *Resolver) Match(s Selection) (models.Variation, bool) {
	types := r.product.VariationTypes
	if len(types) == 0 || s.Len() < len(types) {
		return models.Variation{}, false
	}
	ids := make([]int, 0, len(types))
	for _, vt := range types {
		op, ok := s.Option(vt.ID)
		if !ok {
			return models.Variation{}, false
		}
		ids = append(ids, op.ID)
	}
	return r.index.Lookup(ids)
}

// Resolve is a convenience for one-off resolution without keeping a Resolver.
func Resolve(product *models.Product, s Selection) Resolution {
	return NewResolver(product).Resolve(s)
}

// ResolveImages walks the selection in declared type order. The first chosen
// option carrying images supplies the whole set; images from other options
// are not merged. Without any, the product images are used.
func ResolveImages(product *models.Product, s Selection) []models.Image {
	for _, vt := range product.VariationTypes {
		if op, ok := s.Option(vt.ID); ok && len(op.Images) > 0 {
			return op.Images
		}
	}
	return product.Images
}
