package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NiccAngelo/my-shopify/cache"
	"github.com/NiccAngelo/my-shopify/models"
)

// GetProducts lists products, optionally filtered by category and a
// case-insensitive name search, newest first. Results are served from the
// listing cache when it holds a fresh copy.
func GetProducts(db *gorm.DB, pc *cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Query("category")
		search := c.Query("search")

		if products, ok := pc.Get(c.Request.Context(), category, search); ok {
			c.JSON(http.StatusOK, products)
			return
		}

		query := db.Model(&models.Product{})

		if category != "" && category != "All" {
			query = query.Where("category = ?", category)
		}
		if search != "" {
			likePattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ?", likePattern)
		}

		var products []models.Product
		if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		pc.Set(c.Request.Context(), category, search, products)
		c.JSON(http.StatusOK, products)
	}
}
