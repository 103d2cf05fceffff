package handler

import (
	"net/http"

	"yield-radar/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetWallets godoc
// @Summary      List simulated wallets for a session
// @Description  Returns all wallet integrations with their connection state and balances
// @Tags         wallets
// @Produce      json
// @Param        X-Session-ID  header  string  true  "Dashboard session id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/wallets [get]
func (h *Handler) GetWallets(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-wallets")
	defer span.End()

	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
		return
	}

	wallets, err := h.walletService.Wallets(ctx, session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": wallets})
}

// ConnectWallet godoc
// @Summary      Connect a simulated wallet
// @Description  Generates a plausible address and starting balance for the wallet kind
// @Tags         wallets
// @Produce      json
// @Param        X-Session-ID  header  string  true  "Dashboard session id"
// @Param        kind  path  string  true  "Wallet kind: metamask, phantom, sui, or tao"
// @Success      200  {object}  domain.Wallet
// @Failure      400  {object}  map[string]string
// @Router       /api/wallets/{kind}/connect [post]
func (h *Handler) ConnectWallet(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.connect-wallet")
	defer span.End()

	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
		return
	}
	kind := domain.WalletKind(c.Param("kind"))
	span.SetAttributes(attribute.String("wallet.kind", string(kind)))

	wallet, err := h.walletService.Connect(ctx, session, kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wallet)
}

// DisconnectWallet godoc
// @Summary      Disconnect a simulated wallet
// @Tags         wallets
// @Produce      json
// @Param        X-Session-ID  header  string  true  "Dashboard session id"
// @Param        kind  path  string  true  "Wallet kind: metamask, phantom, sui, or tao"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/wallets/{kind}/disconnect [post]
func (h *Handler) DisconnectWallet(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.disconnect-wallet")
	defer span.End()

	session := sessionID(c)
	if session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
		return
	}
	kind := domain.WalletKind(c.Param("kind"))

	if err := h.walletService.Disconnect(ctx, session, kind); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
}
