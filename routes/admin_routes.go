package routes

import (
	"github.com/emporio-digital/storefront/controllers"
	"github.com/emporio-digital/storefront/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		// Product management
		admin.POST("/products", controllers.AdminCreateProduct)
		admin.PUT("/products/:id", controllers.AdminUpdateProduct)

		// Coupon management
		admin.POST("/coupons", controllers.CreateCoupon)
		admin.GET("/coupons", controllers.ListCoupons)
		admin.DELETE("/coupons/:id", controllers.DeleteCoupon)

		// Order management
		admin.GET("/orders", controllers.AdminListOrders)
		admin.GET("/orders/:id", controllers.AdminGetOrder)
		admin.PATCH("/orders/:id/status", controllers.AdminUpdateOrderStatus)

		// Refund resolution
		admin.GET("/refund-requests", controllers.AdminListRefundRequests)
		admin.POST("/orders/:id/refund-review", controllers.AdminResolveRefund)

		// Reports
		admin.GET("/reports/sales/export", controllers.DownloadSalesReportExcel)
	}
}
