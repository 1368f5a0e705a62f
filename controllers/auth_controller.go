package controllers

import (
	"log/slog"
	"net/http"

	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/services"
	"github.com/gin-gonic/gin"
)

// LoginRequest represents the credentials for any account kind
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterCustomerRequest represents the request body for customer sign-up
type RegisterCustomerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Number   string `json:"number"`
	Road     string `json:"road"`
	Area     string `json:"area"`
	City     string `json:"city"`
	District string `json:"district"`
}

// RegisterCustomer handles POST /api/v1/auth/customer/register
func RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	customer, err := newAuthService().RegisterCustomer(c.Request.Context(), services.CustomerRegistration{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Number:   req.Number,
		Road:     req.Road,
		Area:     req.Area,
		City:     req.City,
		District: req.District,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, customer)
}

// CustomerLogin handles POST /api/v1/auth/customer/login
func CustomerLogin(c *gin.Context) {
	login(c, models.IdentityCustomer)
}

// DeliveryManLogin handles POST /api/v1/auth/agent/login
func DeliveryManLogin(c *gin.Context) {
	login(c, models.IdentityDeliveryMan)
}

// AdminLogin handles POST /api/v1/auth/admin/login
func AdminLogin(c *gin.Context) {
	login(c, models.IdentityAdmin)
}

func login(c *gin.Context, kind models.IdentityKind) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	session, err := newAuthService().Login(c.Request.Context(), kind, req.Username, req.Password)
	if err != nil {
		if services.KindOf(err) == services.KindUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    string(services.KindUnauthorized),
					"message": "Invalid username or password",
				},
			})
			return
		}
		respondError(c, err)
		return
	}

	slog.InfoContext(c.Request.Context(), "login", "kind", kind, "account_id", session.Identity.ID)
	respondData(c, http.StatusOK, session)
}

// Logout handles POST /api/v1/auth/logout. It drops the session's cart.
func Logout(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	if store := services.GetSessionStore(); store != nil {
		if err := store.ClearCart(c.Request.Context(), identity.SessionID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

// Me handles GET /api/v1/auth/me
func Me(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, identity)
}
