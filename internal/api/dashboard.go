package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/khana/backend/internal/service"
)

// DashboardHandler serves collection summaries
type DashboardHandler struct {
	recipes service.IRecipeService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(recipes service.IRecipeService) *DashboardHandler {
	return &DashboardHandler{recipes: recipes}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/stats", h.GetStats)
	}
}

// GetStats returns recipe counts for the whole collection
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.recipes.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
