package routes

import (
	"github.com/emporio-digital/storefront/controllers"
	"github.com/emporio-digital/storefront/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all customer-facing routes
func initUserRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		// Cart
		user.GET("/cart", controllers.GetCart)
		user.POST("/cart", controllers.AddToCart)
		user.PUT("/cart/:productId", controllers.UpdateCartItem)
		user.DELETE("/cart/:productId", controllers.RemoveFromCart)

		// Address book
		user.GET("/addresses", controllers.ListAddresses)
		user.POST("/addresses", controllers.CreateAddress)
		user.PUT("/addresses/:id", controllers.UpdateAddress)
		user.DELETE("/addresses/:id", controllers.DeleteAddress)

		// Checkout
		user.POST("/checkout/shipping-quote", controllers.QuoteShippingOptions)
		user.GET("/checkout/coupon", controllers.ValidateCouponCode)
		user.POST("/orders", controllers.PlaceOrder)
		user.POST("/checkout/payment/initiate", controllers.InitiatePayment)

		// Orders
		user.GET("/orders", controllers.ListOrders)
		user.GET("/orders/:id", controllers.GetOrder)
		user.GET("/orders/:id/invoice", controllers.DownloadInvoice)
		user.POST("/orders/:id/cancel", controllers.CancelOrder)
		user.POST("/orders/:id/request-refund", controllers.RequestRefund)
	}
}
