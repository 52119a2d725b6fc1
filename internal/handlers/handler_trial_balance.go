package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// trialBalanceHandler handles the ledger audit endpoint.
type trialBalanceHandler struct {
	trialBalanceService portssvc.TrialBalanceSvcFacade
}

// newTrialBalanceHandler creates a new trialBalanceHandler.
func newTrialBalanceHandler(trialBalance portssvc.TrialBalanceSvcFacade) *trialBalanceHandler {
	return &trialBalanceHandler{trialBalanceService: trialBalance}
}

// audit runs the full trial-balance audit: aggregate equality, numbering
// continuity and hash-chain verification over the whole ledger.
func (h *trialBalanceHandler) audit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.trialBalanceService.Audit(c.Request.Context())
	if err != nil {
		logger.Error("Failed to run trial balance audit", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run trial balance audit"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// registerTrialBalanceRoutes registers the audit route
func registerTrialBalanceRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTrialBalanceHandler(services.TrialBalance)
	group.GET("/trial-balance", h.audit)
}
