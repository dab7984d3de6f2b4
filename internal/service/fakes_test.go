package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/GTDGit/gtd_catalog/internal/cache"
	"github.com/GTDGit/gtd_catalog/internal/models"
)

func intPtr(n int) *int { return &n }

// shirt has Color (Red 11, Blue 12) and Size (S 21, M 22); only {Red, S}
// is a stocked variation.
func shirt() *models.Product {
	return &models.Product{
		ID:       7,
		Title:    "Shirt",
		Slug:     "shirt",
		Price:    15,
		Quantity: intPtr(50),
		Images:   []models.Image{{ID: 1, Thumb: "products/shirt-t.jpg"}},
		VariationTypes: []models.VariationType{
			{ID: 1, Name: "Color", Kind: models.VariationKindImage, Options: []models.VariationTypeOption{
				{ID: 11, Name: "Red"},
				{ID: 12, Name: "Blue", Images: []models.Image{{ID: 2, Thumb: "options/blue-t.jpg"}}},
			}},
			{ID: 2, Name: "Size", Kind: models.VariationKindSelect, Options: []models.VariationTypeOption{
				{ID: 21, Name: "S"},
				{ID: 22, Name: "M"},
			}},
		},
		Variations: []models.Variation{
			{ID: 100, ProductID: 7, OptionIDs: []int{11, 21}, Price: 20, Quantity: intPtr(3)},
			{ID: 101, ProductID: 7, OptionIDs: []int{12, 22}, Price: 22, Quantity: intPtr(0)},
		},
	}
}

type fakeCatalog struct {
	products map[string]*models.Product
	slugs    []string
	err      error
	calls    int
}

func newFakeCatalog(products ...*models.Product) *fakeCatalog {
	f := &fakeCatalog{products: map[string]*models.Product{}}
	for _, p := range products {
		f.products[p.Slug] = p
		f.slugs = append(f.slugs, p.Slug)
	}
	return f
}

func (f *fakeCatalog) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[slug]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id int) (*models.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCatalog) ListRecentSlugs(_ context.Context, limit int) ([]string, error) {
	if limit < len(f.slugs) {
		return f.slugs[:limit], nil
	}
	return f.slugs, nil
}

type fakeCache struct {
	mu     sync.Mutex
	bySlug map[string]*models.Product
	byID   map[int]*models.Product
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{bySlug: map[string]*models.Product{}, byID: map[int]*models.Product{}}
}

func (c *fakeCache) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.bySlug[slug]; ok {
		return p, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *fakeCache) GetByID(_ context.Context, id int) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.byID[id]; ok {
		return p, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *fakeCache) Set(_ context.Context, p *models.Product) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bySlug[p.Slug] = p
	c.byID[p.ID] = p
	return nil
}

type prefixSigner string

func (s prefixSigner) URL(_ context.Context, key string) (string, error) {
	return string(s) + key, nil
}

type fakeCarts struct {
	items []models.CartItem
	err   error
}

func (f *fakeCarts) Add(_ context.Context, item *models.CartItem) error {
	if f.err != nil {
		return f.err
	}
	item.ID = len(f.items) + 1
	f.items = append(f.items, *item)
	return nil
}

type fakeCustomers struct {
	byEmail map[string]*models.Customer
}

func (f *fakeCustomers) GetByEmail(_ context.Context, email string) (*models.Customer, error) {
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCustomers) Create(_ context.Context, c *models.Customer) error {
	if _, ok := f.byEmail[c.Email]; ok {
		return errors.New("duplicate email")
	}
	c.ID = len(f.byEmail) + 1
	f.byEmail[c.Email] = c
	return nil
}
