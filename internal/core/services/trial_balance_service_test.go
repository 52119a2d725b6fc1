package services_test

import (
	"context"
	"testing"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/core/services"
	"github.com/Oss53pa/atlas-finance/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type TrialBalanceServiceTestSuite struct {
	suite.Suite
	store   *memory.Store
	ledger  portssvc.LedgerSvcFacade
	auditor portssvc.TrialBalanceSvcFacade
}

func (suite *TrialBalanceServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	seedChart(suite.store)
	validator := services.NewValidationService(suite.store, suite.store)
	suite.ledger = services.NewLedgerService(suite.store, validator)
	suite.auditor = services.NewTrialBalanceService(suite.store)
}

func (suite *TrialBalanceServiceTestSuite) admit(entry domain.JournalEntry) *domain.JournalEntry {
	admitted, err := suite.ledger.Admit(context.Background(), entry, portssvc.AdmitOptions{})
	suite.Require().NoError(err)
	return admitted
}

func (suite *TrialBalanceServiceTestSuite) purchase(amount string) domain.JournalEntry {
	return domain.JournalEntry{
		JournalCode: "AC",
		EntryDate:   date(2025, 3, 15),
		Label:       "Achat marchandises",
		Lines: []domain.JournalLine{
			line("601100", amount, "0.00"),
			line("401100", "0.00", amount),
		},
	}
}

func (suite *TrialBalanceServiceTestSuite) TestAudit_EmptyLedger() {
	report, err := suite.auditor.Audit(context.Background())

	suite.Require().NoError(err)
	suite.Equal(0, report.EntryCount)
	suite.True(report.Balanced)
	suite.True(report.ChainIntact)
	suite.Empty(report.Accounts)
	suite.Empty(report.NumberingGaps)
}

func (suite *TrialBalanceServiceTestSuite) TestAudit_BalancedLedger() {
	suite.admit(suite.purchase("150.00"))
	suite.admit(suite.purchase("50.00"))
	suite.admit(domain.JournalEntry{
		JournalCode: "VE",
		EntryDate:   date(2025, 3, 20),
		Label:       "Vente client",
		Lines: []domain.JournalLine{
			line("411100", "300.00", "0.00"),
			line("701100", "0.00", "300.00"),
		},
	})

	report, err := suite.auditor.Audit(context.Background())

	suite.Require().NoError(err)
	suite.Equal(3, report.EntryCount)
	suite.True(report.Balanced)
	suite.True(report.ChainIntact)
	suite.Equal("500.00", report.TotalDebit.String())
	suite.Equal("500.00", report.TotalCredit.String())
	suite.Empty(report.NumberingGaps)

	// Per-account lines come out sorted by account code.
	suite.Require().Len(report.Accounts, 4)
	suite.Equal("401100", report.Accounts[0].AccountCode)
	suite.Equal("-200.00", report.Accounts[0].Balance.String())
	suite.Equal("411100", report.Accounts[1].AccountCode)
	suite.Equal("300.00", report.Accounts[1].Balance.String())
	suite.Equal("601100", report.Accounts[2].AccountCode)
	suite.Equal("200.00", report.Accounts[2].Balance.String())
	suite.Equal("701100", report.Accounts[3].AccountCode)
	suite.Equal("-300.00", report.Accounts[3].Balance.String())
}

func (suite *TrialBalanceServiceTestSuite) TestAudit_NumberingGap() {
	first := suite.purchase("10.00")
	first.EntryNumber = "AC-000001"
	suite.admit(first)
	third := suite.purchase("20.00")
	third.EntryNumber = "AC-000003"
	suite.admit(third)

	report, err := suite.auditor.Audit(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(report.NumberingGaps, 1)
	suite.Equal("AC", report.NumberingGaps[0].JournalCode)
	suite.Equal([]int{2}, report.NumberingGaps[0].MissingSequences)
}

func (suite *TrialBalanceServiceTestSuite) TestAudit_TamperedEntryBreaksChain() {
	suite.admit(suite.purchase("10.00"))
	tampered := suite.admit(suite.purchase("20.00"))
	suite.admit(suite.purchase("30.00"))

	suite.Require().True(suite.store.CorruptEntryLabel(tampered.EntryID, "Achat maquillé"))

	report, err := suite.auditor.Audit(context.Background())

	suite.Require().NoError(err)
	suite.False(report.ChainIntact)
	suite.Equal(tampered.EntryNumber, report.FirstBrokenEntry)
	// The totals still balance: tampering is caught by the chain, not the sums.
	suite.True(report.Balanced)
}

func TestTrialBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TrialBalanceServiceTestSuite))
}
