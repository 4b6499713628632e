package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NiccAngelo/my-shopify/cache"
	productcontroller "github.com/NiccAngelo/my-shopify/controllers/product"
	"github.com/NiccAngelo/my-shopify/middleware"
)

// SetupProductRoutes registers the catalog endpoints. Reads are public;
// writes require a token.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB, pc *cache.ProductCache) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(db, pc))
		products.GET("/:id", productcontroller.GetProductByID(db))

		protected := products.Group("")
		protected.Use(middleware.RequireAuth)
		{
			protected.POST("", productcontroller.CreateProduct(db, pc))
			protected.PUT("/:id", productcontroller.UpdateProduct(db, pc))
			protected.DELETE("/:id", productcontroller.DeleteProduct(db, pc))
		}
	}
}
