package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// entryHandler handles HTTP requests related to journal entries.
type entryHandler struct {
	ledgerService   portssvc.LedgerSvcFacade
	workflowService portssvc.WorkflowSvcFacade
	reversalService portssvc.ReversalSvcFacade
}

// newEntryHandler creates a new entryHandler.
func newEntryHandler(ledger portssvc.LedgerSvcFacade, workflow portssvc.WorkflowSvcFacade, reversal portssvc.ReversalSvcFacade) *entryHandler {
	return &entryHandler{
		ledgerService:   ledger,
		workflowService: workflow,
		reversalService: reversal,
	}
}

// admitEntry proposes one candidate entry for admission into the ledger.
func (h *entryHandler) admitEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateEntryRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for AdmitEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	admitted, err := h.ledgerService.Admit(c.Request.Context(), createReq.ToDomain(), portssvc.AdmitOptions{})
	if err != nil {
		var rejection *apperrors.RejectionError
		if errors.As(err, &rejection) {
			logger.Warn("Entry rejected", slog.Int("violations", len(rejection.Violations)))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Entry rejected", "violations": rejection.Violations})
			return
		}
		logger.Error("Failed to admit entry", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to admit entry"})
		return
	}

	logger.Info("Entry admitted", slog.String("entry_id", admitted.EntryID), slog.String("entry_number", admitted.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(admitted))
}

// admitBatch admits several candidate entries strictly in order.
func (h *entryHandler) admitBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	batchReq := dto.BatchAdmitRequest{}
	if err := c.ShouldBindJSON(&batchReq); err != nil {
		logger.Error("Failed to bind JSON for AdmitBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.ledgerService.AdmitBatch(c.Request.Context(), batchReq.ToDomainSlice(), portssvc.AdmitOptions{})

	logger.Info("Batch admission completed", slog.Int("succeeded", result.Succeeded), slog.Int("failed", len(result.Failures)))
	c.JSON(http.StatusOK, result)
}

// getEntry retrieves an entry with its lines by ID.
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Entry not found", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		logger.Error("Failed to get entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries returns a page of entries in ledger order.
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListEntriesParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	page, err := h.ledgerService.ListEntries(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// nextPieceNumber previews the next piece number of a journal.
func (h *entryHandler) nextPieceNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalCode := c.Param("journalCode")

	number, err := h.ledgerService.NextPieceNumber(c.Request.Context(), journalCode)
	if err != nil {
		logger.Error("Failed to compute next piece number", slog.String("error", err.Error()), slog.String("journal_code", journalCode))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute next piece number"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"journalCode": journalCode, "nextNumber": number})
}

// validateEntry moves a draft entry to validated after re-running validation.
func (h *entryHandler) validateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	operator := middleware.GetOperatorFromCtx(c.Request.Context())

	verdict, err := h.workflowService.ValidateEntry(c.Request.Context(), entryID, operator)
	if err != nil {
		respondWorkflowError(c, logger, err, entryID, "validate")
		return
	}
	if !verdict.IsValid {
		logger.Warn("Entry failed validation", slog.String("entry_id", entryID), slog.Int("errors", len(verdict.Errors)))
		c.JSON(http.StatusUnprocessableEntity, verdict)
		return
	}

	logger.Info("Entry validated", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, verdict)
}

// postEntry moves a validated entry to its terminal posted status.
func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	operator := middleware.GetOperatorFromCtx(c.Request.Context())

	if err := h.workflowService.PostEntry(c.Request.Context(), entryID, operator); err != nil {
		respondWorkflowError(c, logger, err, entryID, "post")
		return
	}

	logger.Info("Entry posted", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// returnToDraft moves a validated entry back to draft.
func (h *entryHandler) returnToDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	operator := middleware.GetOperatorFromCtx(c.Request.Context())

	if err := h.workflowService.ReturnToDraft(c.Request.Context(), entryID, operator); err != nil {
		respondWorkflowError(c, logger, err, entryID, "return to draft")
		return
	}

	logger.Info("Entry returned to draft", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// validateBatch applies the validate transition to several entries.
func (h *entryHandler) validateBatch(c *gin.Context) {
	h.runBatchWorkflow(c, h.workflowService.ValidateEntries)
}

// postBatch applies the post transition to several entries.
func (h *entryHandler) postBatch(c *gin.Context) {
	h.runBatchWorkflow(c, h.workflowService.PostEntries)
}

func (h *entryHandler) runBatchWorkflow(c *gin.Context, op func(ctx context.Context, entryIDs []string, userID string) dto.BatchResult) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	batchReq := dto.BatchWorkflowRequest{}
	if err := c.ShouldBindJSON(&batchReq); err != nil {
		logger.Error("Failed to bind JSON for batch workflow", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	operator := middleware.GetOperatorFromCtx(c.Request.Context())

	result := op(c.Request.Context(), batchReq.EntryIDs, operator)
	logger.Info("Batch workflow completed", slog.Int("succeeded", result.Succeeded), slog.Int("failed", len(result.Failures)))
	c.JSON(http.StatusOK, result)
}

// reverseEntry admits a compensating entry against a validated or posted one.
func (h *entryHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	reverseReq := dto.ReverseEntryRequest{}
	if err := c.ShouldBindJSON(&reverseReq); err != nil {
		logger.Error("Failed to bind JSON for ReverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	operator := middleware.GetOperatorFromCtx(c.Request.Context())

	reversal, err := h.reversalService.Reverse(c.Request.Context(), entryID, reverseReq.ReversalDate, reverseReq.Reason, operator)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Entry not found for reversal", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Reversal rejected", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to reverse entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse entry"})
		return
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

// respondWorkflowError maps workflow service errors to HTTP statuses.
func respondWorkflowError(c *gin.Context, logger *slog.Logger, err error, entryID, action string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Entry not found", slog.String("entry_id", entryID))
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}
	if errors.Is(err, apperrors.ErrConflict) {
		logger.Warn("Invalid workflow transition", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	logger.Error("Failed to "+action+" entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " entry"})
}

// registerEntryRoutes registers entry specific routes
func registerEntryRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newEntryHandler(services.Ledger, services.Workflow, services.Reversal)

	entries := group.Group("/entries")
	{
		entries.POST("", h.admitEntry)
		entries.POST("/batch", h.admitBatch)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/validate", h.validateEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/return-to-draft", h.returnToDraft)
		entries.POST("/:entryID/reverse", h.reverseEntry)
		entries.POST("/batch-validate", h.validateBatch)
		entries.POST("/batch-post", h.postBatch)
	}
	group.GET("/journals/:journalCode/next-number", h.nextPieceNumber)
}
