package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/models"
)

func intPtr(n int) *int { return &n }

func shirt() *models.Product {
	return &models.Product{
		ID:       7,
		Title:    "Shirt",
		Price:    15,
		Quantity: intPtr(50),
		Images:   []models.Image{{ID: 1}},
		VariationTypes: []models.VariationType{
			{ID: 1, Name: "Color", Kind: models.VariationKindImage, Options: []models.VariationTypeOption{
				{ID: 11, Name: "Red"},
				{ID: 12, Name: "Blue", Images: []models.Image{{ID: 2}}},
			}},
			{ID: 2, Name: "Size", Kind: models.VariationKindRadio, Options: []models.VariationTypeOption{
				{ID: 21, Name: "S"},
				{ID: 22, Name: "M"},
			}},
		},
		Variations: []models.Variation{
			{ID: 100, OptionIDs: []int{11, 21}, Price: 20, Quantity: intPtr(3)},
		},
	}
}

type visit struct {
	url     string
	options catalog.OptionIDs
	opts    VisitOptions
	reply   chan visitReply
}

type visitReply struct {
	product *models.Product
	err     error
}

// gatedNavigator hands every Visit to the test, which decides when and how
// it completes.
type gatedNavigator struct {
	visits chan *visit
}

func newGatedNavigator() *gatedNavigator {
	return &gatedNavigator{visits: make(chan *visit, 16)}
}

func (n *gatedNavigator) Visit(ctx context.Context, pageURL string, options catalog.OptionIDs, opts VisitOptions) (*models.Product, error) {
	v := &visit{url: pageURL, options: options, opts: opts, reply: make(chan visitReply, 1)}
	n.visits <- v
	select {
	case r := <-v.reply:
		return r.product, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type recordingCart struct {
	mu       sync.Mutex
	requests []CartRequest
	fail     error
}

func (c *recordingCart) AddToCart(_ context.Context, req CartRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	return c.fail
}

var errOffline = errors.New("offline")
