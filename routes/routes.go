package routes

import (
	"github.com/emporio-digital/storefront/controllers"
	"github.com/emporio-digital/storefront/utils"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	// Webhook endpoint lives outside the versioned API group: the payment
	// provider authenticates with an HMAC signature, not a bearer token.
	router.POST("/webhooks/payment", controllers.PaymentWebhook)

	api := router.Group("/v1")
	{
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
