package catalog

import "github.com/GTDGit/gtd_catalog/internal/models"

// Event is a selection transition on a product page.
type Event interface {
	apply(product *models.Product, s Selection) (Selection, bool)
}

// Initialized seeds the selection from the page address. It never asks for a
// soft navigation.
type Initialized struct {
	Requested OptionIDs
}

func (e Initialized) apply(product *models.Product, _ Selection) (Selection, bool) {
	return InitSelection(product, e.Requested), false
}

// OptionChosen is an explicit shopper choice.
type OptionChosen struct {
	TypeID   int
	OptionID int
}

func (e OptionChosen) apply(product *models.Product, s Selection) (Selection, bool) {
	vt, ok := product.FindType(e.TypeID)
	if !ok {
		return s, false
	}
	op, ok := vt.FindOption(e.OptionID)
	if !ok {
		return s, false
	}
	if cur, ok := s.Option(e.TypeID); ok && cur.ID == op.ID {
		return s, false
	}
	return s.Choose(e.TypeID, op), true
}

// Reduce applies e to s. changed is true when the new selection must be
// pushed to the address and refreshed from the server.
func Reduce(product *models.Product, s Selection, e Event) (next Selection, changed bool) {
	if product == nil || e == nil {
		return s, false
	}
	return e.apply(product, s)
}
