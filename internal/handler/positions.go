package handler

import (
	"net/http"

	"yield-radar/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type openPositionRequest struct {
	Project string  `json:"project" binding:"required"`
	Chain   string  `json:"chain" binding:"required"`
	APY     float64 `json:"apy" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
}

// GetPositions godoc
// @Summary      List simulated positions for a session
// @Description  Returns the session's positions with values accrued to now
// @Tags         positions
// @Produce      json
// @Param        X-Session-ID  header  string  true  "Dashboard session id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/positions [get]
func (h *Handler) GetPositions(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-positions")
	defer span.End()

	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
		return
	}

	positions, err := h.walletService.Positions(ctx, session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions})
}

// OpenPosition godoc
// @Summary      Open a simulated position
// @Description  Stakes part of the connected wallet's balance into an opportunity
// @Tags         positions
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string  true  "Dashboard session id"
// @Param        request  body  openPositionRequest  true  "Position to open"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/positions [post]
func (h *Handler) OpenPosition(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.open-position")
	defer span.End()

	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
		return
	}

	var req openPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(
		attribute.String("position.project", req.Project),
		attribute.Float64("position.amount", req.Amount),
	)

	opp := domain.Opportunity{Project: req.Project, Chain: req.Chain, APY: req.APY}
	position, txHash, err := h.walletService.OpenPosition(ctx, session, opp, req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"position": position, "tx_hash": txHash})
}

// ClosePosition godoc
// @Summary      Close a simulated position
// @Description  Exits the position and credits the accrued value back to the wallet it was opened from
// @Tags         positions
// @Produce      json
// @Param        X-Session-ID  header  string  true  "Dashboard session id"
// @Param        id  path  string  true  "Position id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/positions/{id}/close [post]
func (h *Handler) ClosePosition(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.close-position")
	defer span.End()

	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
		return
	}
	id := c.Param("id")
	span.SetAttributes(attribute.String("position.id", id))

	position, txHash, err := h.walletService.ClosePosition(ctx, session, id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": position, "tx_hash": txHash})
}

// GetPortfolio godoc
// @Summary      Get the session's portfolio summary
// @Description  Aggregates invested amount, current value, and PnL across active positions
// @Tags         positions
// @Produce      json
// @Param        X-Session-ID  header  string  true  "Dashboard session id"
// @Success      200  {object}  domain.Portfolio
// @Failure      400  {object}  map[string]string
// @Router       /api/portfolio [get]
func (h *Handler) GetPortfolio(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-portfolio")
	defer span.End()

	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
		return
	}

	summary, err := h.walletService.Portfolio(ctx, session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
