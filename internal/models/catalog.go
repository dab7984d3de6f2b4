package models

import "time"

// VariationKind enumerates how a variation type is presented to the shopper.
type VariationKind string

const (
	VariationKindSelect VariationKind = "Select"
	VariationKindRadio  VariationKind = "Radio"
	VariationKindImage  VariationKind = "Image"
)

// Valid reports whether k is one of the supported kinds.
func (k VariationKind) Valid() bool {
	switch k {
	case VariationKindSelect, VariationKindRadio, VariationKindImage:
		return true
	}
	return false
}

// Image is a product or option image with its three rendered sizes.
type Image struct {
	ID    int    `db:"id" json:"id"`
	Thumb string `db:"thumb" json:"thumb"`
	Small string `db:"small" json:"small"`
	Large string `db:"large" json:"large"`
}

// VariationTypeOption is one concrete value of a variation type (e.g. Red).
type VariationTypeOption struct {
	ID              int     `db:"id" json:"id"`
	VariationTypeID int     `db:"variation_type_id" json:"-"`
	Name            string  `db:"name" json:"name"`
	Images          []Image `db:"-" json:"images"`
}

// VariationType is a configurable axis of a product (e.g. Color, Size).
type VariationType struct {
	ID        int                   `db:"id" json:"id"`
	ProductID int                   `db:"product_id" json:"-"`
	Name      string                `db:"name" json:"name"`
	Kind      VariationKind         `db:"type" json:"type"`
	Options   []VariationTypeOption `db:"-" json:"options"`
}

// FindOption returns the option with the given id declared on this type.
func (t *VariationType) FindOption(optionID int) (VariationTypeOption, bool) {
	for _, op := range t.Options {
		if op.ID == optionID {
			return op, true
		}
	}
	return VariationTypeOption{}, false
}

// Variation is one sellable combination of one option per variation type.
// A nil Quantity means unlimited stock.
type Variation struct {
	ID        int     `db:"id" json:"id"`
	ProductID int     `db:"product_id" json:"-"`
	OptionIDs []int   `db:"-" json:"variation_type_option_ids"`
	Price     float64 `db:"price" json:"price"`
	Quantity  *int    `db:"quantity" json:"quantity"`
}

// Product is the read-only catalog snapshot handed to a product page.
type Product struct {
	ID               int             `db:"id" json:"id"`
	Title            string          `db:"title" json:"title"`
	Slug             string          `db:"slug" json:"slug"`
	Price            float64         `db:"price" json:"price"`
	Quantity         *int            `db:"quantity" json:"quantity"`
	Description      string          `db:"description" json:"description"`
	ShortDescription string          `db:"short_description" json:"short_description"`
	IsActive         bool            `db:"is_active" json:"-"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
	Images           []Image         `db:"-" json:"images"`
	VariationTypes   []VariationType `db:"-" json:"variationTypes"`
	Variations       []Variation     `db:"-" json:"variations"`
}

// FindType returns the variation type with the given id declared on the product.
func (p *Product) FindType(typeID int) (*VariationType, bool) {
	for i := range p.VariationTypes {
		if p.VariationTypes[i].ID == typeID {
			return &p.VariationTypes[i], true
		}
	}
	return nil, false
}
