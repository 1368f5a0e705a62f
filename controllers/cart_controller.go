package controllers

import (
	"errors"
	"net/http"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/services"
	"github.com/gin-gonic/gin"
)

// AddToCartRequest represents the request body for adding a product to the cart
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest represents the request body for changing a line's quantity
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

var errNoSessionStore = errors.New("session store is not configured")

// loadCart reads the caller's cart from the session store
func loadCart(c *gin.Context, identity models.Identity) (*models.Cart, bool) {
	store := services.GetSessionStore()
	if store == nil {
		respondError(c, errNoSessionStore)
		return nil, false
	}
	cart, err := store.GetCart(c.Request.Context(), identity.SessionID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return cart, true
}

// saveCart writes the cart back if an operation changed it
func saveCart(c *gin.Context, identity models.Identity, cart *models.Cart) bool {
	if cart == nil || !cart.Dirty {
		return true
	}
	if err := services.GetSessionStore().SaveCart(c.Request.Context(), identity.SessionID, cart); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// cartOperation runs fn against the caller's cart and responds with the priced cart
func cartOperation(c *gin.Context, fn func(svc *services.CartService, cart *models.Cart) (*models.Cart, error)) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	cart, ok := loadCart(c, identity)
	if !ok {
		return
	}

	svc := newCartService()
	cart, err := fn(svc, cart)
	if err != nil {
		respondError(c, err)
		return
	}
	if !saveCart(c, identity, cart) {
		return
	}
	respondData(c, http.StatusOK, svc.Summarize(cart))
}

// GetCart handles GET /api/v1/cart
func GetCart(c *gin.Context) {
	cartOperation(c, func(svc *services.CartService, cart *models.Cart) (*models.Cart, error) {
		return svc.Get(cart), nil
	})
}

// AddToCart handles POST /api/v1/cart/items
func AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	cartOperation(c, func(svc *services.CartService, cart *models.Cart) (*models.Cart, error) {
		return svc.Add(c.Request.Context(), cart, req.ProductID, req.Quantity)
	})
}

// UpdateCartItem handles PUT /api/v1/cart/items/:productId
func UpdateCartItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	cartOperation(c, func(svc *services.CartService, cart *models.Cart) (*models.Cart, error) {
		return svc.SetQuantity(cart, productID, *req.Quantity)
	})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:productId
func RemoveCartItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	cartOperation(c, func(svc *services.CartService, cart *models.Cart) (*models.Cart, error) {
		return svc.Remove(cart, productID)
	})
}

// ClearCart handles DELETE /api/v1/cart
func ClearCart(c *gin.Context) {
	cartOperation(c, func(svc *services.CartService, cart *models.Cart) (*models.Cart, error) {
		return svc.Clear(cart), nil
	})
}
