package storefront

import (
	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/models"
)

// envelope mirrors the API response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// PagePayload is the data section of a product page response.
type PagePayload struct {
	Product          *models.Product   `json:"product"`
	VariationOptions catalog.OptionIDs `json:"variationOptions"`
}
