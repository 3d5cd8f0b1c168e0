package server

import (
	"github.com/gin-gonic/gin"

	"archiveserver/database"
	"archiveserver/server/middleware"
)

// NewRouter собирает gin-роутер каталога: публичные просмотр и поиск,
// административное редактирование под токеном, экспорт
func NewRouter(db *database.CatalogDB, cfg *Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimit(cfg.RateLimitRPS))

	h := NewHandler(db, cfg)

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/search", h.Search)
		api.GET("/export", h.Export)
		api.GET("/:kind/:id", h.View)

		admin := api.Group("")
		admin.Use(h.AdminRequired())
		{
			admin.POST("/:kind", h.Create)
			admin.PUT("/:kind/:id", h.Update)
			admin.DELETE("/:kind/:id", h.Delete)
		}
	}

	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}

	return router
}
