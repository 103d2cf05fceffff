package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMemePairs godoc
// @Summary      Get trending meme token pairs
// @Description  Returns high-liquidity meme pairs from the DEX pair search, filtered by liquidity and volume cutoffs
// @Tags         meme
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/meme [get]
func (h *Handler) GetMemePairs(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-meme-pairs")
	defer span.End()

	pairs, err := h.scanService.GetMemePairs(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pairs": pairs})
}
