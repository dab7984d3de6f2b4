package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/middleware"
	"github.com/GTDGit/gtd_catalog/internal/service"
	"github.com/GTDGit/gtd_catalog/internal/utils"
)

// CartHandler accepts add-to-cart submissions.
type CartHandler struct {
	cartService *service.CartService
	timeout     time.Duration
}

// NewCartHandler constructs a CartHandler. A positive timeout bounds each
// submission.
func NewCartHandler(cartService *service.CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{cartService: cartService, timeout: timeout}
}

type addToCartRequest struct {
	OptionIDs catalog.OptionIDs `json:"options_ids"`
	Quantity  int               `json:"quantity" binding:"required"`
}

// Store handles POST /cart/:productId.
func (h *CartHandler) Store(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	item, err := h.cartService.AddToCart(ctx, service.AddToCartInput{
		CustomerID: middleware.CustomerID(c),
		ProductID:  productID,
		OptionIDs:  req.OptionIDs,
		Quantity:   req.Quantity,
	})
	if err != nil {
		utils.ErrorFrom(c, err, "Failed to add item to cart")
		return
	}

	utils.Success(c, 201, "Item added to cart", gin.H{
		"id":          item.ID,
		"product_id":  item.ProductID,
		"options_ids": req.OptionIDs,
		"quantity":    item.Quantity,
		"price":       item.Price,
	})
}
