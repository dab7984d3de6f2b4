package catalog

import (
	"sort"

	"github.com/GTDGit/gtd_catalog/internal/models"
)

// Selection holds the option chosen for each variation type.
// It is an immutable value: Choose returns a new Selection.
type Selection struct {
	chosen map[int]models.VariationTypeOption
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{}
}

// Choose returns a copy of s with typeID set to option.
func (s Selection) Choose(typeID int, option models.VariationTypeOption) Selection {
	next := make(map[int]models.VariationTypeOption, len(s.chosen)+1)
	for k, v := range s.chosen {
		next[k] = v
	}
	next[typeID] = option
	return Selection{chosen: next}
}

// Option returns the option chosen for typeID.
func (s Selection) Option(typeID int) (models.VariationTypeOption, bool) {
	op, ok := s.chosen[typeID]
	return op, ok
}

// Len returns the number of types with a choice.
func (s Selection) Len() int {
	return len(s.chosen)
}

// TypeIDs returns the chosen type ids in ascending order.
func (s Selection) TypeIDs() []int {
	ids := make([]int, 0, len(s.chosen))
	for typeID := range s.chosen {
		ids = append(ids, typeID)
	}
	sort.Ints(ids)
	return ids
}

// OptionIDMap maps each chosen type id to its option id.
func (s Selection) OptionIDMap() OptionIDs {
	out := make(OptionIDs, len(s.chosen))
	for typeID, op := range s.chosen {
		out[typeID] = op.ID
	}
	return out
}

// OptionIDs returns the chosen option ids sorted ascending.
func (s Selection) OptionIDs() []int {
	ids := make([]int, 0, len(s.chosen))
	for _, op := range s.chosen {
		ids = append(ids, op.ID)
	}
	sort.Ints(ids)
	return ids
}

// Equal reports whether both selections choose the same option ids.
func (s Selection) Equal(other Selection) bool {
	return s.OptionIDMap().Equal(other.OptionIDMap())
}

// InitSelection builds a complete selection for product from requested
// choices, typically decoded from the page address. Each declared type takes
// the requested option when it belongs to that type and its first option
// otherwise. Types without options are left unselected.
func InitSelection(product *models.Product, requested OptionIDs) Selection {
	s := NewSelection()
	if product == nil {
		return s
	}
	for i := range product.VariationTypes {
		vt := &product.VariationTypes[i]
		if len(vt.Options) == 0 {
			continue
		}
		option := vt.Options[0]
		if id, ok := requested[vt.ID]; ok {
			if op, found := vt.FindOption(id); found {
				option = op
			}
		}
		s = s.Choose(vt.ID, option)
	}
	return s
}
