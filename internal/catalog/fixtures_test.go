package catalog

import "github.com/GTDGit/gtd_catalog/internal/models"

func intPtr(n int) *int { return &n }

// shirt has Color (Red 11, Blue 12) and Size (S 21, M 22) with a single
// variation {Red, S}.
func shirt() *models.Product {
	return &models.Product{
		ID:       1,
		Title:    "Shirt",
		Slug:     "shirt",
		Price:    15,
		Quantity: intPtr(50),
		Images:   []models.Image{{ID: 1, Thumb: "p-t", Small: "p-s", Large: "p-l"}},
		VariationTypes: []models.VariationType{
			{ID: 1, Name: "Color", Kind: models.VariationKindImage, Options: []models.VariationTypeOption{
				{ID: 11, Name: "Red"},
				{ID: 12, Name: "Blue", Images: []models.Image{{ID: 2, Thumb: "b-t"}}},
			}},
			{ID: 2, Name: "Size", Kind: models.VariationKindRadio, Options: []models.VariationTypeOption{
				{ID: 21, Name: "S", Images: []models.Image{{ID: 3, Thumb: "s-t"}}},
				{ID: 22, Name: "M"},
			}},
		},
		Variations: []models.Variation{
			{ID: 100, OptionIDs: []int{21, 11}, Price: 20, Quantity: intPtr(3)},
		},
	}
}

func choose(p *models.Product, pairs ...int) Selection {
	s := NewSelection()
	for i := 0; i+1 < len(pairs); i += 2 {
		vt, _ := p.FindType(pairs[i])
		op, _ := vt.FindOption(pairs[i+1])
		s = s.Choose(pairs[i], op)
	}
	return s
}
