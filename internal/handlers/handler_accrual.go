package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accrualHandler handles HTTP requests for cut-off prorating and
// regularisation records.
type accrualHandler struct {
	accrualService portssvc.AccrualSvcFacade
}

// newAccrualHandler creates a new accrualHandler.
func newAccrualHandler(accrual portssvc.AccrualSvcFacade) *accrualHandler {
	return &accrualHandler{accrualService: accrual}
}

// prorate computes the carry-forward share of a period-straddling amount.
// CCA/PCA use day-based prorating; FNP/FAE are flat estimates.
func (h *accrualHandler) prorate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	prorateReq := dto.ProrationRequest{}
	if err := c.ShouldBindJSON(&prorateReq); err != nil {
		logger.Error("Failed to bind JSON for Prorate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var carryForward = h.accrualService.EstimateFlat(prorateReq.Amount)
	if prorateReq.Type == domain.RegularisationCCA || prorateReq.Type == domain.RegularisationPCA {
		period := domain.Period{Start: prorateReq.PeriodStart, End: prorateReq.PeriodEnd}
		carryForward = h.accrualService.ProrateCarryForward(prorateReq.Amount, period, prorateReq.CutoffDate)
	}

	c.JSON(http.StatusOK, dto.ProrationResponse{Type: prorateReq.Type, CarryForward: carryForward})
}

// createRegularisation records a proposed regularisation.
func (h *accrualHandler) createRegularisation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateRegularisationRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for CreateRegularisation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	operator := middleware.GetOperatorFromCtx(c.Request.Context())

	reg, err := h.accrualService.CreateRegularisation(c.Request.Context(), createReq, operator)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Regularisation rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create regularisation", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create regularisation"})
		return
	}

	logger.Info("Regularisation created", slog.String("regularisation_id", reg.RegularisationID), slog.String("type", string(reg.Type)))
	c.JSON(http.StatusCreated, dto.ToRegularisationResponse(reg))
}

// listRegularisations returns every recorded regularisation.
func (h *accrualHandler) listRegularisations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	regs, err := h.accrualService.ListRegularisations(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list regularisations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list regularisations"})
		return
	}

	responses := make([]dto.RegularisationResponse, len(regs))
	for i := range regs {
		responses[i] = dto.ToRegularisationResponse(&regs[i])
	}
	c.JSON(http.StatusOK, gin.H{"regularisations": responses})
}

// postRegularisations turns proposed records into balanced ledger entries.
func (h *accrualHandler) postRegularisations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	postReq := dto.PostRegularisationsRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		logger.Error("Failed to bind JSON for PostRegularisations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	operator := middleware.GetOperatorFromCtx(c.Request.Context())

	result := h.accrualService.PostRegularisations(c.Request.Context(), postReq, operator)
	logger.Info("Regularisation posting completed", slog.Int("succeeded", result.Succeeded), slog.Int("failed", len(result.Failures)))
	c.JSON(http.StatusOK, result)
}

// registerAccrualRoutes registers accrual and regularisation routes
func registerAccrualRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAccrualHandler(services.Accrual)

	group.POST("/accruals/prorate", h.prorate)

	regularisations := group.Group("/regularisations")
	{
		regularisations.POST("", h.createRegularisation)
		regularisations.GET("", h.listRegularisations)
		regularisations.POST("/post", h.postRegularisations)
	}
}
