package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/NiccAngelo/my-shopify/controllers/user"
	"github.com/NiccAngelo/my-shopify/middleware"
)

func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", userControllers.Register(db))
		auth.POST("/login", userControllers.Login(db))
		auth.GET("/me", middleware.RequireAuth, userControllers.GetProfile(db))
	}
}
