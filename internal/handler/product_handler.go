package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/service"
	"github.com/GTDGit/gtd_catalog/internal/utils"
)

// HeaderSoftNavigation marks a page request issued by a selection change.
const HeaderSoftNavigation = "X-Soft-Navigation"

// ProductHandler serves product pages.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Show returns the product behind :slug together with the decoded initial
// selection and its resolution. Soft navigations carry the same payload.
func (h *ProductHandler) Show(c *gin.Context) {
	slug := c.Param("slug")
	requested := catalog.DecodeQuery(c.Request.URL.Query())

	page, err := h.productService.ShowProduct(c.Request.Context(), slug, requested)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to load product page")
		utils.ErrorFrom(c, err, "Failed to load product")
		return
	}

	if c.GetHeader(HeaderSoftNavigation) == "true" {
		c.Header(HeaderSoftNavigation, "true")
		c.Header("Vary", HeaderSoftNavigation)
	}

	utils.Success(c, 200, "Product retrieved successfully", page)
}
