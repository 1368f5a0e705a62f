package controllers

import (
	"net/http"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
	"github.com/fashionmart/storefront-api/services"
	"github.com/gin-gonic/gin"
)

// CreateDeliveryManRequest represents the request body for a new delivery man
type CreateDeliveryManRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// UpdateDeliveryManStatusRequest activates or deactivates a delivery man
type UpdateDeliveryManStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Active Inactive"`
}

// ListCustomers handles GET /api/v1/admin/customers
func ListCustomers(c *gin.Context) {
	customers, err := newStore().ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	respondData(c, http.StatusOK, customers)
}

// GetCustomer handles GET /api/v1/admin/customers/:id - the customer with their orders
func GetCustomer(c *gin.Context) {
	customerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	customer, err := newStore().GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		if repository.IsNotFound(err) {
			respondError(c, &services.Error{Kind: services.KindNotFound, Message: "customer not found"})
			return
		}
		respondError(c, err)
		return
	}

	orders, err := newOrderService().ListCustomerOrders(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"customer": customer,
		"orders":   orders,
	})
}

// CreateDeliveryMan handles POST /api/v1/admin/delivery-men
func CreateDeliveryMan(c *gin.Context) {
	var req CreateDeliveryManRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	agent, err := newAuthService().CreateDeliveryMan(c.Request.Context(), services.DeliveryManRegistration{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, agent)
}

// ListDeliveryMen handles GET /api/v1/admin/delivery-men
func ListDeliveryMen(c *gin.Context) {
	agents, err := newStore().ListDeliveryMen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if agents == nil {
		agents = []models.DeliveryMan{}
	}
	respondData(c, http.StatusOK, agents)
}

// UpdateDeliveryManStatus handles PUT /api/v1/admin/delivery-men/:id/status
func UpdateDeliveryManStatus(c *gin.Context) {
	agentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateDeliveryManStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	store := newStore()
	if err := store.UpdateDeliveryManStatus(c.Request.Context(), agentID, req.Status); err != nil {
		if repository.IsNotFound(err) {
			respondError(c, &services.Error{Kind: services.KindNotFound, Message: "delivery man not found"})
			return
		}
		respondError(c, err)
		return
	}

	agent, err := store.GetDeliveryMan(c.Request.Context(), agentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, agent)
}

// GetDashboard handles GET /api/v1/admin/dashboard
func GetDashboard(c *gin.Context) {
	dashboard, err := services.NewDashboardService(newStore()).Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, dashboard)
}
