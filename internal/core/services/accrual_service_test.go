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
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
	"github.com/stretchr/testify/suite"
)

type AccrualServiceTestSuite struct {
	suite.Suite
	store   *memory.Store
	accrual portssvc.AccrualSvcFacade
	userID  string
}

func (suite *AccrualServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	seedChart(suite.store)
	validator := services.NewValidationService(suite.store, suite.store)
	ledger := services.NewLedgerService(suite.store, validator)
	suite.accrual = services.NewAccrualService(suite.store, ledger)
	suite.userID = "comptable-1"
}

func (suite *AccrualServiceTestSuite) TestProrateCarryForward_StraddlingPeriod() {
	// Insurance premium covering 2025-07-01 to 2026-06-30, closing on
	// 2025-12-31. 365 days total, 182 carried over (inclusive counts), one
	// half-to-even rounding at the end: 12,000,000 * 182/365 = 5,983,561.6438...
	amount := money.MustFromString("12000000.00")
	period := domain.Period{Start: date(2025, 7, 1), End: date(2026, 6, 30)}

	carried := suite.accrual.ProrateCarryForward(amount, period, date(2025, 12, 31))

	suite.Equal("5983561.64", carried.String())
}

func (suite *AccrualServiceTestSuite) TestProrateCarryForward_PeriodEndsBeforeCutoff() {
	amount := money.MustFromString("1200.00")
	period := domain.Period{Start: date(2025, 1, 1), End: date(2025, 12, 31)}

	carried := suite.accrual.ProrateCarryForward(amount, period, date(2025, 12, 31))

	suite.True(carried.IsZero())
}

func (suite *AccrualServiceTestSuite) TestProrateCarryForward_PeriodStartsAfterCutoff() {
	amount := money.MustFromString("1200.00")
	period := domain.Period{Start: date(2026, 2, 1), End: date(2026, 4, 30)}

	carried := suite.accrual.ProrateCarryForward(amount, period, date(2025, 12, 31))

	suite.Equal("1200.00", carried.String())
}

func (suite *AccrualServiceTestSuite) TestEstimateFlat() {
	amount := money.MustFromString("4500.00")
	suite.Equal("4500.00", suite.accrual.EstimateFlat(amount).String())
}

func (suite *AccrualServiceTestSuite) createCCA(autoReverse bool) *domain.Regularisation {
	reg, err := suite.accrual.CreateRegularisation(context.Background(), dto.CreateRegularisationRequest{
		Type:                  domain.RegularisationCCA,
		Label:                 "Assurance flotte 2025-2026",
		Amount:                money.MustFromString("5983561.64"),
		ChargeAccount:         "601100",
		OriginPeriodStart:     date(2025, 7, 1),
		OriginPeriodEnd:       date(2026, 6, 30),
		ImputationPeriodStart: date(2026, 1, 1),
		ImputationPeriodEnd:   date(2026, 6, 30),
		AutoReverse:           autoReverse,
	}, suite.userID)
	suite.Require().NoError(err)
	return reg
}

func (suite *AccrualServiceTestSuite) TestCreateRegularisation() {
	reg := suite.createCCA(false)

	suite.NotEmpty(reg.RegularisationID)
	suite.Equal(domain.RegularisationCCA, reg.Type)
	suite.Equal("476000", reg.AccrualAccount)
	suite.Equal("601100", reg.ChargeAccount)
	suite.Equal(domain.RegularisationProposed, reg.Status)
	suite.Equal(suite.userID, reg.CreatedBy)

	stored, err := suite.store.FindRegularisationByID(context.Background(), reg.RegularisationID)
	suite.Require().NoError(err)
	suite.Equal(reg.RegularisationID, stored.RegularisationID)
}

func (suite *AccrualServiceTestSuite) TestCreateRegularisation_UnknownType() {
	_, err := suite.accrual.CreateRegularisation(context.Background(), dto.CreateRegularisationRequest{
		Type:          domain.RegularisationType("XXX"),
		Label:         "bad",
		Amount:        money.MustFromString("10.00"),
		ChargeAccount: "601100",
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccrualServiceTestSuite) TestPostRegularisations_CCA() {
	ctx := context.Background()
	reg := suite.createCCA(false)

	result := suite.accrual.PostRegularisations(ctx, dto.PostRegularisationsRequest{
		RegularisationIDs: []string{reg.RegularisationID},
		PostingDate:       date(2025, 12, 31),
	}, suite.userID)

	suite.Equal(1, result.Succeeded)
	suite.Empty(result.Failures)

	entries, err := suite.store.ListAllEntriesOrdered(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	entry := entries[0]
	suite.Equal("OD", entry.JournalCode)
	suite.Equal("OD-000001", entry.EntryNumber)
	suite.Equal(domain.StatusValidated, entry.Status)
	suite.Equal(reg.RegularisationID, entry.Reference)

	// CCA debits the regularisation account and credits the charge account.
	suite.Require().Len(entry.Lines, 2)
	suite.Equal("476000", entry.Lines[0].AccountCode)
	suite.Equal("5983561.64", entry.Lines[0].Debit.String())
	suite.Equal("601100", entry.Lines[1].AccountCode)
	suite.Equal("5983561.64", entry.Lines[1].Credit.String())

	stored, err := suite.store.FindRegularisationByID(ctx, reg.RegularisationID)
	suite.Require().NoError(err)
	suite.Equal(domain.RegularisationPosted, stored.Status)
}

func (suite *AccrualServiceTestSuite) TestPostRegularisations_PCAReversesSides() {
	ctx := context.Background()
	reg, err := suite.accrual.CreateRegularisation(ctx, dto.CreateRegularisationRequest{
		Type:                  domain.RegularisationPCA,
		Label:                 "Loyer facturé d'avance",
		Amount:                money.MustFromString("3000.00"),
		ChargeAccount:         "701100",
		OriginPeriodStart:     date(2025, 12, 1),
		OriginPeriodEnd:       date(2026, 2, 28),
		ImputationPeriodStart: date(2026, 1, 1),
		ImputationPeriodEnd:   date(2026, 2, 28),
	}, suite.userID)
	suite.Require().NoError(err)
	suite.Equal("477000", reg.AccrualAccount)

	result := suite.accrual.PostRegularisations(ctx, dto.PostRegularisationsRequest{
		RegularisationIDs: []string{reg.RegularisationID},
		PostingDate:       date(2025, 12, 31),
	}, suite.userID)
	suite.Equal(1, result.Succeeded)

	entries, err := suite.store.ListAllEntriesOrdered(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)

	// PCA debits the revenue account and credits the regularisation account.
	suite.Equal("477000", entries[0].Lines[0].AccountCode)
	suite.Equal("3000.00", entries[0].Lines[0].Credit.String())
	suite.Equal("701100", entries[0].Lines[1].AccountCode)
	suite.Equal("3000.00", entries[0].Lines[1].Debit.String())
}

func (suite *AccrualServiceTestSuite) TestPostRegularisations_AutoReverse() {
	ctx := context.Background()
	reg := suite.createCCA(true)

	result := suite.accrual.PostRegularisations(ctx, dto.PostRegularisationsRequest{
		RegularisationIDs: []string{reg.RegularisationID},
		PostingDate:       date(2025, 12, 31),
	}, suite.userID)
	suite.Equal(1, result.Succeeded)

	entries, err := suite.store.ListAllEntriesOrdered(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)

	accrual, reversal := entries[0], entries[1]
	suite.Equal(date(2025, 12, 31), accrual.EntryDate)
	suite.Equal(date(2026, 1, 1), reversal.EntryDate)
	suite.Contains(reversal.Label, "extourne")

	// The reversal mirrors the accrual entry line by line.
	suite.Require().Len(reversal.Lines, 2)
	suite.Equal(accrual.Lines[0].AccountCode, reversal.Lines[0].AccountCode)
	suite.True(accrual.Lines[0].Debit.Equal(reversal.Lines[0].Credit))
	suite.True(accrual.Lines[1].Credit.Equal(reversal.Lines[1].Debit))
}

func (suite *AccrualServiceTestSuite) TestPostRegularisations_AlreadyPosted() {
	ctx := context.Background()
	reg := suite.createCCA(false)
	req := dto.PostRegularisationsRequest{
		RegularisationIDs: []string{reg.RegularisationID},
		PostingDate:       date(2025, 12, 31),
	}
	suite.Equal(1, suite.accrual.PostRegularisations(ctx, req, suite.userID).Succeeded)

	result := suite.accrual.PostRegularisations(ctx, req, suite.userID)

	suite.Equal(0, result.Succeeded)
	suite.Require().Len(result.Failures, 1)
	suite.Equal(reg.RegularisationID, result.Failures[0].ID)
	suite.Contains(result.Failures[0].Error, "only proposed records can be posted")
}

func (suite *AccrualServiceTestSuite) TestPostRegularisations_NotFound() {
	result := suite.accrual.PostRegularisations(context.Background(), dto.PostRegularisationsRequest{
		RegularisationIDs: []string{"missing"},
		PostingDate:       date(2025, 12, 31),
	}, suite.userID)

	suite.Equal(0, result.Succeeded)
	suite.Require().Len(result.Failures, 1)
}

func TestAccrualServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccrualServiceTestSuite))
}
