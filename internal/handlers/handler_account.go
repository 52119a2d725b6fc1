package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles chart-of-accounts and fiscal-year reads.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(account portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: account}
}

// getAccount retrieves one account by its code.
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found", slog.String("account_code", code))
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to get account", slog.String("error", err.Error()), slog.String("account_code", code))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts returns the whole chart of accounts.
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	responses := make([]dto.AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = dto.ToAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, gin.H{"accounts": responses})
}

// getAccountBalance recomputes an account balance from the full movement
// history.
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	balance, err := h.accountService.CalculateAccountBalance(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found", slog.String("account_code", code))
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to calculate account balance", slog.String("error", err.Error()), slog.String("account_code", code))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate account balance"})
		return
	}

	c.JSON(http.StatusOK, balance)
}

// listFiscalYears returns every posting period.
func (h *accountHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	years, err := h.accountService.ListFiscalYears(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list fiscal years", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fiscal years"})
		return
	}

	responses := make([]dto.FiscalYearResponse, len(years))
	for i := range years {
		responses[i] = dto.ToFiscalYearResponse(&years[i])
	}
	c.JSON(http.StatusOK, gin.H{"fiscalYears": responses})
}

// registerAccountRoutes registers account and fiscal-year routes
func registerAccountRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAccountHandler(services.Account)

	accounts := group.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:code", h.getAccount)
		accounts.GET("/:code/balance", h.getAccountBalance)
	}
	group.GET("/fiscal-years", h.listFiscalYears)
}
