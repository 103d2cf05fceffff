package handler

import (
	"yield-radar/internal/advisor"
	"yield-radar/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer        trace.Tracer
	scanService   *service.ScanService
	walletService *service.WalletService
	advisor       *advisor.AdvisorService
}

func New(tracer trace.Tracer, scanService *service.ScanService, walletService *service.WalletService, advisorService *advisor.AdvisorService) *Handler {
	return &Handler{
		tracer:        tracer,
		scanService:   scanService,
		walletService: walletService,
		advisor:       advisorService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/opportunities", h.GetOpportunities)
	r.GET("/api/opportunities/top", h.GetTopPicks)
	r.GET("/api/meme", h.GetMemePairs)
	r.GET("/api/scans/history", h.GetScanHistory)
	r.POST("/api/scans/refresh", h.RefreshScan)
	r.GET("/api/wallets", h.GetWallets)
	r.POST("/api/wallets/:kind/connect", h.ConnectWallet)
	r.POST("/api/wallets/:kind/disconnect", h.DisconnectWallet)
	r.GET("/api/positions", h.GetPositions)
	r.POST("/api/positions", h.OpenPosition)
	r.POST("/api/positions/:id/close", h.ClosePosition)
	r.GET("/api/portfolio", h.GetPortfolio)
	r.POST("/api/advisor/ask", h.AskAdvisor)
}
