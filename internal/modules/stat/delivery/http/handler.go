package http

import (
	"net/http"

	statService "anoa.com/weddingsalon/internal/modules/stat/service"
	"anoa.com/weddingsalon/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

// GetDressStatistics serves GET /histogram and GET /api/stats.
func (h *StatHandler) GetDressStatistics(c *gin.Context) {
	stats, err := h.statService.GetDressStatistics(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
