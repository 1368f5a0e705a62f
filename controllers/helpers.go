package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fashionmart/storefront-api/config"
	"github.com/fashionmart/storefront-api/middleware"
	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
	"github.com/fashionmart/storefront-api/services"
	"github.com/gin-gonic/gin"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindNotFound:            http.StatusNotFound,
	services.KindUnauthorized:        http.StatusForbidden,
	services.KindValidation:          http.StatusBadRequest,
	services.KindInsufficientStock:   http.StatusConflict,
	services.KindEmptyCart:           http.StatusBadRequest,
	services.KindDuplicateReview:     http.StatusConflict,
	services.KindConcurrencyConflict: http.StatusConflict,
	services.KindAlreadyExists:       http.StatusConflict,
	services.KindPersistence:         http.StatusInternalServerError,
}

// respondError writes the error envelope for a service failure.
// Persistence failures are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := "An internal error occurred"
	if kind == services.KindPersistence {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
	} else {
		var svcErr *services.Error
		if errors.As(err, &svcErr) {
			message = svcErr.Message
		}
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    string(kind),
			"message": message,
		},
	})
}

// respondInvalid writes a 400 for a request that failed binding
func respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    string(services.KindValidation),
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// paramID parses a positive numeric path parameter, writing a 400 if it is not one
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    string(services.KindValidation),
				"message": "Invalid " + name,
			},
		})
		return 0, false
	}
	return uint(id), true
}

// currentIdentity returns the authenticated caller, writing a 401 if there is none
func currentIdentity(c *gin.Context) (models.Identity, bool) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    string(services.KindUnauthorized),
				"message": "Could not extract user information",
			},
		})
		return models.Identity{}, false
	}
	return identity, true
}

func newStore() *repository.Store {
	return repository.New(config.GetDB(), config.GetConfig().DBTimeout)
}

func newOrderService() *services.OrderService {
	cfg := config.GetConfig()
	return services.NewOrderService(newStore(), cfg.DeliveryCharge, cfg.PaymentMethods, services.GetNotifier())
}

func newCartService() *services.CartService {
	return services.NewCartService(newStore(), config.GetConfig().DeliveryCharge)
}

func newCatalogService() *services.CatalogService {
	return services.NewCatalogService(newStore(), services.GetImageService())
}

func newAuthService() *services.AuthService {
	return services.NewAuthService(newStore(), config.GetConfig())
}
