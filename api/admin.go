package api

import (
	"net/http"

	"github.com/Domenick1991/skybook/internal/backend"
	"github.com/Domenick1991/skybook/internal/service/admin"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service admin.StatsUseCase
}

func NewAdminHandler(service admin.StatsUseCase) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/admin/stats", RequireAdmin(), h.stats)
}

func (h *AdminHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, backend.AdminStatsResponse{Stats: stats})
}
