package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	"github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	"github.com/Oss53pa/atlas-finance/internal/core/services"
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/handlers"
	"github.com/Oss53pa/atlas-finance/internal/platform/config"
	"github.com/Oss53pa/atlas-finance/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// EntryHandlerTestSuite drives the entry routes end to end over the in-memory
// repositories.
type EntryHandlerTestSuite struct {
	suite.Suite
	store  *memory.Store
	router *gin.Engine
}

func (suite *EntryHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.store = memory.NewStore()
	suite.seedChart()

	repos := &repositories.Container{
		Entry:          suite.store,
		Account:        suite.store,
		FiscalYear:     suite.store,
		Audit:          suite.store,
		Regularisation: suite.store,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{}, services.NewServiceContainer(repos))
}

func (suite *EntryHandlerTestSuite) seedChart() {
	ctx := context.Background()
	for _, a := range []domain.Account{
		{Code: "601100", Name: "Achats de marchandises", Class: 6, AccountType: domain.Expense, NormalSide: domain.DebitSide, IsActive: true},
		{Code: "401100", Name: "Fournisseurs", Class: 4, AccountType: domain.Liability, NormalSide: domain.CreditSide, IsActive: true},
	} {
		suite.Require().NoError(suite.store.SaveAccount(ctx, a))
	}
	suite.Require().NoError(suite.store.SaveFiscalYear(ctx, domain.FiscalYear{
		Code:      "FY2025",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}))
}

func (suite *EntryHandlerTestSuite) performRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *EntryHandlerTestSuite) admitEntryBody(amount string) map[string]any {
	return map[string]any{
		"journalCode": "AC",
		"entryDate":   "2025-03-15T00:00:00Z",
		"label":       "Achat marchandises",
		"lines": []map[string]any{
			{"accountCode": "601100", "debit": amount, "credit": "0.00"},
			{"accountCode": "401100", "debit": "0.00", "credit": amount},
		},
	}
}

func (suite *EntryHandlerTestSuite) TestAdmitEntry_Created() {
	w := suite.performRequest(http.MethodPost, "/api/v1/entries", suite.admitEntryBody("150.00"))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("AC-000001", resp.EntryNumber)
	suite.Equal(domain.StatusDraft, resp.Status)
	suite.Equal("150.00", resp.TotalDebit.String())
	suite.NotEmpty(resp.Hash)
}

func (suite *EntryHandlerTestSuite) TestAdmitEntry_RejectedWithViolations() {
	body := suite.admitEntryBody("150.00")
	body["lines"].([]map[string]any)[1]["credit"] = "149.00"

	w := suite.performRequest(http.MethodPost, "/api/v1/entries", body)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error      string   `json:"error"`
		Violations []string `json:"violations"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Entry rejected", resp.Error)
	suite.Require().Len(resp.Violations, 1)
	suite.Contains(resp.Violations[0], "unbalanced")
}

func (suite *EntryHandlerTestSuite) TestAdmitEntry_BadJournalCode() {
	body := suite.admitEntryBody("150.00")
	body["journalCode"] = "ac!"

	w := suite.performRequest(http.MethodPost, "/api/v1/entries", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *EntryHandlerTestSuite) TestGetEntry_NotFound() {
	w := suite.performRequest(http.MethodGet, "/api/v1/entries/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *EntryHandlerTestSuite) TestWorkflowRoundTrip() {
	w := suite.performRequest(http.MethodPost, "/api/v1/entries", suite.admitEntryBody("99.50"))
	suite.Require().Equal(http.StatusCreated, w.Code)
	var admitted dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &admitted))

	w = suite.performRequest(http.MethodPost, fmt.Sprintf("/api/v1/entries/%s/validate", admitted.EntryID), nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.performRequest(http.MethodPost, fmt.Sprintf("/api/v1/entries/%s/post", admitted.EntryID), nil)
	suite.Equal(http.StatusNoContent, w.Code)

	// Posted is terminal.
	w = suite.performRequest(http.MethodPost, fmt.Sprintf("/api/v1/entries/%s/return-to-draft", admitted.EntryID), nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *EntryHandlerTestSuite) TestReverseEntry() {
	w := suite.performRequest(http.MethodPost, "/api/v1/entries", suite.admitEntryBody("200.00"))
	suite.Require().Equal(http.StatusCreated, w.Code)
	var admitted dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &admitted))
	suite.Require().Equal(http.StatusOK, suite.performRequest(http.MethodPost, fmt.Sprintf("/api/v1/entries/%s/validate", admitted.EntryID), nil).Code)

	w = suite.performRequest(http.MethodPost, fmt.Sprintf("/api/v1/entries/%s/reverse", admitted.EntryID), map[string]any{
		"reversalDate": "2025-03-31T00:00:00Z",
		"reason":       "Erreur de saisie",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var reversal dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &reversal))
	suite.Equal(admitted.EntryNumber, reversal.Reference)
	suite.Equal("200.00", reversal.Lines[0].Credit.String())

	// Reversing twice is a conflict.
	w = suite.performRequest(http.MethodPost, fmt.Sprintf("/api/v1/entries/%s/reverse", admitted.EntryID), map[string]any{
		"reversalDate": "2025-03-31T00:00:00Z",
		"reason":       "encore",
	})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *EntryHandlerTestSuite) TestNextPieceNumber() {
	w := suite.performRequest(http.MethodGet, "/api/v1/journals/VE/next-number", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("VE-000001", resp["nextNumber"])
}

func (suite *EntryHandlerTestSuite) TestListEntries_Paginated() {
	for _, amount := range []string{"10.00", "20.00", "30.00"} {
		suite.Require().Equal(http.StatusCreated, suite.performRequest(http.MethodPost, "/api/v1/entries", suite.admitEntryBody(amount)).Code)
	}

	w := suite.performRequest(http.MethodGet, "/api/v1/entries?limit=2", nil)
	suite.Equal(http.StatusOK, w.Code)

	var page dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Len(page.Entries, 2)
	suite.Require().NotNil(page.NextToken)

	w = suite.performRequest(http.MethodGet, "/api/v1/entries?limit=2&nextToken="+url.QueryEscape(*page.NextToken), nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Len(page.Entries, 1)
}

func TestEntryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EntryHandlerTestSuite))
}
