package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetScanHistory godoc
// @Summary      Get recent scan snapshots
// @Description  Returns counters from recently persisted scans, newest first
// @Tags         scans
// @Produce      json
// @Param        limit  query  int  false  "Number of snapshots (default 20)"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/scans/history [get]
func (h *Handler) GetScanHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-scan-history")
	defer span.End()

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	snapshots, err := h.scanService.History(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}

// RefreshScan godoc
// @Summary      Force a scan refresh
// @Description  Fetches pools from the aggregator now and replaces the cached scan
// @Tags         scans
// @Produce      json
// @Success      200  {object}  domain.ScanResult
// @Failure      502  {object}  map[string]string
// @Router       /api/scans/refresh [post]
func (h *Handler) RefreshScan(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-scan")
	defer span.End()

	result, err := h.scanService.RefreshScan(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
