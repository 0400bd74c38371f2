package api

import (
	"github.com/JustJay7/court-case-lookup/internal/lookup"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all application routes. gatherer may be nil to
// leave /metrics unmounted.
func SetupRoutes(router *gin.Engine, service *lookup.Service, gatherer prometheus.Gatherer, logger *logger.Logger) {
	h := NewHandlers(service, logger)

	api := router.Group("/api")
	{
		api.POST("/search", h.SearchCase)
		api.GET("/history", h.History)
		api.GET("/history/:id", h.HistoryEntry)
		api.GET("/health", h.HealthCheck)
		api.GET("/download", h.Download)

		api.GET("/courts", h.Courts)
		api.GET("/case", h.GetCase)
		api.DELETE("/case", h.DeleteCase)
		api.GET("/cache/stats", h.CacheStats)
		api.DELETE("/cache", h.ClearCache)
	}

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}
