package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/services"
	"github.com/gin-gonic/gin"
)

// CreateOrderRequest represents the request body for checking out the cart
type CreateOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// UpdateStatusRequest carries a new order or payment status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignOrderRequest names the delivery man for an order
type AssignOrderRequest struct {
	DeliveryManID uint `json:"delivery_man_id" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - turns the caller's cart into an order
func CreateOrder(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	cart, ok := loadCart(c, identity)
	if !ok {
		return
	}

	order, err := newOrderService().CreateOrder(c.Request.Context(), identity.ID, cart, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	// The order is committed; a stale cart is only an inconvenience
	if err := services.GetSessionStore().SaveCart(c.Request.Context(), identity.SessionID, cart); err != nil {
		slog.WarnContext(c.Request.Context(), "failed to clear cart after checkout", "order_id", order.ID, "error", err)
	}

	respondData(c, http.StatusCreated, order)
}

// ListMyOrders handles GET /api/v1/orders - the caller's orders, newest first
func ListMyOrders(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	orders, err := newOrderService().ListCustomerOrders(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

// GetMyOrder handles GET /api/v1/orders/:id
func GetMyOrder(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := newOrderService().GetCustomerOrder(c.Request.Context(), identity.ID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// ListAssignedOrders handles GET /api/v1/delivery/orders
func ListAssignedOrders(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	orders, err := newOrderService().ListAgentOrders(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

// GetAssignedOrder handles GET /api/v1/delivery/orders/:id
func GetAssignedOrder(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := newOrderService().GetAgentOrder(c.Request.Context(), identity.ID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PUT /api/v1/delivery/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	updateAssignedOrder(c, (*services.OrderService).UpdateOrderStatus)
}

// UpdatePaymentStatus handles PUT /api/v1/delivery/orders/:id/payment
func UpdatePaymentStatus(c *gin.Context) {
	updateAssignedOrder(c, (*services.OrderService).UpdatePaymentStatus)
}

type statusUpdate func(*services.OrderService, context.Context, uint, uint, string) (*models.Order, error)

func updateAssignedOrder(c *gin.Context, apply statusUpdate) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	order, err := apply(newOrderService(), c.Request.Context(), identity.ID, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// ListAllOrders handles GET /api/v1/admin/orders?status=
func ListAllOrders(c *gin.Context) {
	orders, err := newOrderService().ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

// GetAnyOrder handles GET /api/v1/admin/orders/:id
func GetAnyOrder(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := newOrderService().GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// AssignOrder handles PUT /api/v1/admin/orders/:id/assign
func AssignOrder(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	order, err := newOrderService().AssignDeliveryAgent(c.Request.Context(), orderID, req.DeliveryManID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}
