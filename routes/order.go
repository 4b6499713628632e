package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/NiccAngelo/my-shopify/controllers/order"
	"github.com/NiccAngelo/my-shopify/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.RequireAuth)
	{
		orders.POST("", orderControllers.CreateOrderHandler(db))
		orders.GET("", orderControllers.GetUserOrdersHandler(db))
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(db))

		admin := orders.Group("")
		admin.Use(middleware.RequireAdmin)
		{
			// Live feed of new orders for the admin dashboard.
			admin.GET("/ws", orderControllers.OrderWebSocketHandler)
			admin.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(db))
		}
	}
}
