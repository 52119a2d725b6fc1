package services_test

import (
	"context"
	"testing"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/core/services"
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/repositories/memory"
	"github.com/Oss53pa/atlas-finance/internal/utils/hashchain"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	store  *memory.Store
	ledger portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	seedChart(suite.store)
	validator := services.NewValidationService(suite.store, suite.store)
	suite.ledger = services.NewLedgerService(suite.store, validator)
}

func (suite *LedgerServiceTestSuite) purchase(amount string) domain.JournalEntry {
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

// cashIn funds the till: debit 571000, credit 701100.
func (suite *LedgerServiceTestSuite) cashIn(amount string) domain.JournalEntry {
	return domain.JournalEntry{
		JournalCode: "CA",
		EntryDate:   date(2025, 3, 1),
		Label:       "Vente au comptant",
		Lines: []domain.JournalLine{
			line("571000", amount, "0.00"),
			line("701100", "0.00", amount),
		},
	}
}

// cashOut spends from the till: debit 601100, credit 571000.
func (suite *LedgerServiceTestSuite) cashOut(amount string) domain.JournalEntry {
	return domain.JournalEntry{
		JournalCode: "CA",
		EntryDate:   date(2025, 3, 2),
		Label:       "Achat au comptant",
		Lines: []domain.JournalLine{
			line("601100", amount, "0.00"),
			line("571000", "0.00", amount),
		},
	}
}

func (suite *LedgerServiceTestSuite) TestAdmit_FirstEntryChainsFromGenesis() {
	ctx := context.Background()

	admitted, err := suite.ledger.Admit(ctx, suite.purchase("150.00"), portssvc.AdmitOptions{})

	suite.Require().NoError(err)
	suite.Require().NotNil(admitted)
	suite.NotEmpty(admitted.EntryID)
	suite.Equal("AC-000001", admitted.EntryNumber)
	suite.Equal(domain.StatusDraft, admitted.Status)
	suite.Equal("150.00", admitted.TotalDebit.String())
	suite.Equal("150.00", admitted.TotalCredit.String())
	suite.Equal(hashchain.GenesisHash, admitted.PreviousHash)
	suite.Equal(hashchain.Compute(admitted.ChainPayload(), hashchain.GenesisHash), admitted.Hash)
}

func (suite *LedgerServiceTestSuite) TestAdmit_SecondEntryChainsFromFirst() {
	ctx := context.Background()

	first, err := suite.ledger.Admit(ctx, suite.purchase("150.00"), portssvc.AdmitOptions{})
	suite.Require().NoError(err)
	second, err := suite.ledger.Admit(ctx, suite.purchase("99.50"), portssvc.AdmitOptions{})
	suite.Require().NoError(err)

	suite.Equal("AC-000002", second.EntryNumber)
	suite.Equal(first.Hash, second.PreviousHash)
	suite.NotEqual(first.Hash, second.Hash)
}

func (suite *LedgerServiceTestSuite) TestAdmit_RejectsUnbalanced() {
	ctx := context.Background()
	entry := suite.purchase("150.00")
	entry.Lines[1] = line("401100", "0.00", "149.00")

	_, err := suite.ledger.Admit(ctx, entry, portssvc.AdmitOptions{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var rejection *apperrors.RejectionError
	suite.Require().ErrorAs(err, &rejection)
	suite.Contains(rejection.Violations[0], "unbalanced")

	// No write occurs for a rejected candidate.
	entries, err := suite.store.ListAllEntriesOrdered(ctx)
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *LedgerServiceTestSuite) TestAdmit_RejectsDuplicateNumber() {
	ctx := context.Background()
	first := suite.purchase("150.00")
	first.EntryNumber = "AC-000042"
	_, err := suite.ledger.Admit(ctx, first, portssvc.AdmitOptions{})
	suite.Require().NoError(err)

	duplicate := suite.purchase("75.00")
	duplicate.EntryNumber = "AC-000042"
	_, err = suite.ledger.Admit(ctx, duplicate, portssvc.AdmitOptions{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var rejection *apperrors.RejectionError
	suite.Require().ErrorAs(err, &rejection)
	suite.Contains(rejection.Violations[0], "already used in journal AC")
}

func (suite *LedgerServiceTestSuite) TestAdmit_SameNumberDifferentJournalsAllowed() {
	ctx := context.Background()
	first := suite.purchase("150.00")
	first.EntryNumber = "AC-000001"
	_, err := suite.ledger.Admit(ctx, first, portssvc.AdmitOptions{})
	suite.Require().NoError(err)

	other := suite.cashIn("80.00")
	other.EntryNumber = "CA-000001"
	_, err = suite.ledger.Admit(ctx, other, portssvc.AdmitOptions{})

	suite.NoError(err)
}

func (suite *LedgerServiceTestSuite) TestAdmit_CashFloorRejectsOverdraw() {
	ctx := context.Background()

	_, err := suite.ledger.Admit(ctx, suite.cashOut("100.00"), portssvc.AdmitOptions{})

	suite.Require().Error(err)
	var rejection *apperrors.RejectionError
	suite.Require().ErrorAs(err, &rejection)
	suite.Contains(rejection.Violations[0], "cash account 571000 would go negative")
	suite.Contains(rejection.Violations[0], "-100.00")
}

func (suite *LedgerServiceTestSuite) TestAdmit_CashFloorAllowsWithinBalance() {
	ctx := context.Background()
	_, err := suite.ledger.Admit(ctx, suite.cashIn("200.00"), portssvc.AdmitOptions{})
	suite.Require().NoError(err)

	_, err = suite.ledger.Admit(ctx, suite.cashOut("150.00"), portssvc.AdmitOptions{})
	suite.Require().NoError(err)

	// 50.00 left in the till; spending 50.01 more must fail.
	_, err = suite.ledger.Admit(ctx, suite.cashOut("50.01"), portssvc.AdmitOptions{})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// Exactly emptying the till is allowed: the floor is zero, not positive.
	_, err = suite.ledger.Admit(ctx, suite.cashOut("50.00"), portssvc.AdmitOptions{})
	suite.NoError(err)
}

func (suite *LedgerServiceTestSuite) TestAdmit_TrustedStillChecksCashFloor() {
	ctx := context.Background()

	_, err := suite.ledger.Admit(ctx, suite.cashOut("10.00"), portssvc.AdmitOptions{TrustedSystemEntry: true})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestNextPieceNumber() {
	ctx := context.Background()

	number, err := suite.ledger.NextPieceNumber(ctx, "VE")
	suite.Require().NoError(err)
	suite.Equal("VE-000001", number)

	_, err = suite.ledger.Admit(ctx, suite.purchase("10.00"), portssvc.AdmitOptions{})
	suite.Require().NoError(err)

	number, err = suite.ledger.NextPieceNumber(ctx, "AC")
	suite.Require().NoError(err)
	suite.Equal("AC-000002", number)
}

func (suite *LedgerServiceTestSuite) TestAdmitBatch_ContinuesPastFailure() {
	ctx := context.Background()
	bad := suite.purchase("100.00")
	bad.Lines[1] = line("401100", "0.00", "99.00")

	result := suite.ledger.AdmitBatch(ctx, []domain.JournalEntry{
		suite.purchase("10.00"),
		bad,
		suite.purchase("20.00"),
	}, portssvc.AdmitOptions{})

	suite.Equal(2, result.Succeeded)
	suite.Require().Len(result.Failures, 1)
	suite.Equal("1", result.Failures[0].ID)

	entries, err := suite.store.ListAllEntriesOrdered(ctx)
	suite.Require().NoError(err)
	suite.Len(entries, 2)
	// The entry after the failure still chains to the one before it.
	suite.Equal(entries[0].Hash, entries[1].PreviousHash)
}

func (suite *LedgerServiceTestSuite) TestListEntries_Pagination() {
	ctx := context.Background()
	for _, amount := range []string{"10.00", "20.00", "30.00"} {
		_, err := suite.ledger.Admit(ctx, suite.purchase(amount), portssvc.AdmitOptions{})
		suite.Require().NoError(err)
	}

	page, err := suite.ledger.ListEntries(ctx, dto.ListEntriesParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Len(page.Entries, 2)
	suite.Require().NotNil(page.NextToken)

	rest, err := suite.ledger.ListEntries(ctx, dto.ListEntriesParams{Limit: 2, NextToken: page.NextToken})
	suite.Require().NoError(err)
	suite.Len(rest.Entries, 1)
	suite.Nil(rest.NextToken)
	suite.Equal("AC-000003", rest.Entries[0].EntryNumber)
}

func (suite *LedgerServiceTestSuite) TestGetEntryByID_NotFound() {
	_, err := suite.ledger.GetEntryByID(context.Background(), "missing")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
