package storefront

import (
	"context"
	"sync"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/models"
)

// View is a render snapshot of a product page.
type View struct {
	Title           string            `json:"title"`
	Price           float64           `json:"price"`
	Quantity        catalog.Stock     `json:"quantity"`
	QuantityChoices []int             `json:"quantityChoices"`
	LowStockMessage string            `json:"lowStockMessage,omitempty"`
	Images          []models.Image    `json:"images"`
	Selected        catalog.OptionIDs `json:"selected"`
	OrderQuantity   int               `json:"orderQuantity"`
	VariationID     *int              `json:"variationId,omitempty"`
	URL             string            `json:"url"`
}

// Page is the state of one product page. All mutations go through its
// methods, which serialise on a mutex; network effects run in the background.
type Page struct {
	mu         sync.Mutex
	path       string
	resolver   *catalog.Resolver
	selection  catalog.Selection
	resolution catalog.Resolution
	quantity   int
	syncErr    error

	sync *Sync
	cart *CartSubmitter
}

// NewPage opens a page at path for product, seeding the selection from
// requested (usually decoded from the address). Seeding does not trigger a
// soft navigation.
func NewPage(path string, product *models.Product, requested catalog.OptionIDs, syncer *Sync, cart *CartSubmitter) *Page {
	p := &Page{
		path:     path,
		resolver: catalog.NewResolver(product),
		quantity: 1,
		sync:     syncer,
		cart:     cart,
	}
	p.selection, _ = catalog.Reduce(product, catalog.NewSelection(), catalog.Initialized{Requested: requested})
	p.resolveLocked()
	return p
}

// Choose applies an explicit shopper choice. It returns false when the
// choice was invalid or did not change anything.
func (p *Page) Choose(ctx context.Context, typeID, optionID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, changed := catalog.Reduce(p.resolver.Product(), p.selection, catalog.OptionChosen{TypeID: typeID, OptionID: optionID})
	if !changed {
		return false
	}
	p.selection = next
	p.resolveLocked()

	if p.sync != nil {
		p.sync.Push(ctx, p.path, next.OptionIDMap(), p.applyRefresh, p.recordSyncError)
	}
	return true
}

// SetQuantity sets the order quantity within the current bounds.
func (p *Page) SetQuantity(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.resolution.Quantity.ValidateQuantity(n); err != nil {
		return err
	}
	p.quantity = n
	return nil
}

// AddToCart submits the current selection and quantity. On failure the page
// state is unchanged and the call may be repeated.
func (p *Page) AddToCart(ctx context.Context) error {
	p.mu.Lock()
	productID := p.resolver.Product().ID
	ids := p.selection.OptionIDMap()
	stock := p.resolution.Quantity
	quantity := p.quantity
	p.mu.Unlock()

	if p.cart == nil {
		return ErrCartSubmit
	}
	return p.cart.Submit(ctx, productID, ids, stock, quantity)
}

// Selection returns the current selection.
func (p *Page) Selection() catalog.Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selection
}

// URL returns the shareable address of the current selection.
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return catalog.PageURL(p.path, p.selection.OptionIDMap())
}

// SyncError returns the error of the last failed soft navigation, if the
// failure belongs to the latest push.
func (p *Page) SyncError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.syncErr
}

// View returns a render snapshot.
func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := p.resolution
	v := View{
		Title:           p.resolver.Product().Title,
		Price:           res.Price,
		Quantity:        res.Quantity,
		QuantityChoices: res.Quantity.QuantityChoices(),
		LowStockMessage: res.Quantity.LowStockMessage(),
		Images:          res.Images,
		Selected:        p.selection.OptionIDMap(),
		OrderQuantity:   p.quantity,
		URL:             catalog.PageURL(p.path, p.selection.OptionIDMap()),
	}
	if res.Variation != nil {
		id := res.Variation.ID
		v.VariationID = &id
	}
	return v
}

func (p *Page) resolveLocked() {
	p.resolution = p.resolver.Resolve(p.selection)
	if limit := p.resolution.Quantity.Orderable(); p.quantity > limit {
		p.quantity = max(limit, 1)
	}
}

// applyRefresh swaps in the product returned by a soft navigation. The
// current selection is carried over; choices the new snapshot no longer
// offers fall back to the first option of their type.
func (p *Page) applyRefresh(token uint64, product *models.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.sync.IsCurrent(token) {
		return
	}
	p.resolver = catalog.NewResolver(product)
	p.selection = catalog.InitSelection(product, p.selection.OptionIDMap())
	p.syncErr = nil
	p.resolveLocked()
}

func (p *Page) recordSyncError(token uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sync.IsCurrent(token) {
		p.syncErr = err
	}
}
