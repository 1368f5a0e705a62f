package routes

import (
	"slices"
	"time"

	"github.com/fashionmart/storefront-api/config"
	"github.com/fashionmart/storefront-api/controllers"
	"github.com/fashionmart/storefront-api/middleware"
	"github.com/fashionmart/storefront-api/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with every /api/v1 route
func NewRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), corsMiddleware(cfg))

	auth := middleware.EnsureValidToken(cfg)
	customer := middleware.RequireKind(models.IdentityCustomer)
	agent := middleware.RequireKind(models.IdentityDeliveryMan)
	admin := middleware.RequireKind(models.IdentityAdmin)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		v1.POST("/auth/customer/register", controllers.RegisterCustomer)
		v1.POST("/auth/customer/login", controllers.CustomerLogin)
		v1.POST("/auth/agent/login", controllers.DeliveryManLogin)
		v1.POST("/auth/admin/login", controllers.AdminLogin)
		v1.POST("/auth/logout", auth, controllers.Logout)
		v1.GET("/auth/me", auth, controllers.Me)

		v1.GET("/products", controllers.ListProducts)
		v1.GET("/products/categories", controllers.ListCategories)
		v1.GET("/products/:id", controllers.GetProduct)
		v1.GET("/products/:id/reviews", controllers.ListReviews)
		v1.POST("/products/:id/reviews", auth, customer, controllers.CreateReview)
	}

	shop := v1.Group("", auth, customer)
	{
		shop.GET("/cart", controllers.GetCart)
		shop.POST("/cart/items", controllers.AddToCart)
		shop.PUT("/cart/items/:productId", controllers.UpdateCartItem)
		shop.DELETE("/cart/items/:productId", controllers.RemoveCartItem)
		shop.DELETE("/cart", controllers.ClearCart)

		shop.POST("/orders", controllers.CreateOrder)
		shop.GET("/orders", controllers.ListMyOrders)
		shop.GET("/orders/:id", controllers.GetMyOrder)
	}

	delivery := v1.Group("/delivery", auth, agent)
	{
		delivery.GET("/orders", controllers.ListAssignedOrders)
		delivery.GET("/orders/:id", controllers.GetAssignedOrder)
		delivery.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
		delivery.PUT("/orders/:id/payment", controllers.UpdatePaymentStatus)
	}

	back := v1.Group("/admin", auth, admin)
	{
		back.GET("/dashboard", controllers.GetDashboard)

		back.POST("/products", controllers.CreateProduct)
		back.PUT("/products/:id", controllers.UpdateProduct)
		back.DELETE("/products/:id", controllers.DeleteProduct)
		back.POST("/products/:id/image", controllers.UploadProductImage)

		back.GET("/customers", controllers.ListCustomers)
		back.GET("/customers/:id", controllers.GetCustomer)

		back.POST("/delivery-men", controllers.CreateDeliveryMan)
		back.GET("/delivery-men", controllers.ListDeliveryMen)
		back.PUT("/delivery-men/:id/status", controllers.UpdateDeliveryManStatus)

		back.GET("/orders", controllers.ListAllOrders)
		back.GET("/orders/:id", controllers.GetAnyOrder)
		back.PUT("/orders/:id/assign", controllers.AssignOrder)
	}

	return router
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 0 || slices.Contains(cfg.CORSOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	return cors.New(corsConfig)
}
