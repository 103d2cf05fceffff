package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskAdvisor godoc
// @Summary      Ask the yield advisor
// @Description  Answers a question about current opportunities using the LLM, grounded in the latest scan. Returns 503 when no OpenAI key is configured.
// @Tags         advisor
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string  true  "Dashboard session id"
// @Param        request  body  askRequest  true  "Question for the advisor"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/advisor/ask [post]
func (h *Handler) AskAdvisor(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.ask-advisor")
	defer span.End()

	if h.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisor disabled: no OpenAI API key configured"})
		return
	}

	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is empty"})
		return
	}

	reply, err := h.advisor.Ask(ctx, session, req.Question)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
