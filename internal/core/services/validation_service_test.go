package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/core/services"
	"github.com/Oss53pa/atlas-finance/internal/repositories/memory"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
	"github.com/stretchr/testify/suite"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// line builds a single-sided journal line.
func line(accountCode, debit, credit string) domain.JournalLine {
	return domain.JournalLine{
		AccountCode: accountCode,
		Debit:       money.MustFromString(debit),
		Credit:      money.MustFromString(credit),
	}
}

// seedChart loads the reference data shared by the service suites: a minimal
// chart of accounts and an open 2025 fiscal year plus a closed 2020 one.
func seedChart(store *memory.Store) {
	ctx := context.Background()
	accounts := []domain.Account{
		{Code: "601100", Name: "Achats de marchandises", Class: 6, AccountType: domain.Expense, NormalSide: domain.DebitSide, IsActive: true},
		{Code: "701100", Name: "Ventes de marchandises", Class: 7, AccountType: domain.Revenue, NormalSide: domain.CreditSide, IsActive: true},
		{Code: "401100", Name: "Fournisseurs", Class: 4, AccountType: domain.Liability, NormalSide: domain.CreditSide, IsActive: true},
		{Code: "411100", Name: "Clients", Class: 4, AccountType: domain.Asset, NormalSide: domain.DebitSide, Reconcilable: true, IsActive: true},
		{Code: "571000", Name: "Caisse", Class: 5, AccountType: domain.Asset, NormalSide: domain.DebitSide, IsActive: true},
		{Code: "521000", Name: "Banques", Class: 5, AccountType: domain.Asset, NormalSide: domain.DebitSide, IsActive: true},
		{Code: "606000", Name: "Fournitures (compte gelé)", Class: 6, AccountType: domain.Expense, NormalSide: domain.DebitSide, IsActive: false},
		{Code: "476000", Name: "Charges constatées d'avance", Class: 4, AccountType: domain.Asset, NormalSide: domain.DebitSide, IsActive: true},
		{Code: "477000", Name: "Produits constatés d'avance", Class: 4, AccountType: domain.Liability, NormalSide: domain.CreditSide, IsActive: true},
	}
	for _, a := range accounts {
		_ = store.SaveAccount(ctx, a)
	}
	_ = store.SaveFiscalYear(ctx, domain.FiscalYear{
		Code: "FY2025", StartDate: date(2025, 1, 1), EndDate: date(2025, 12, 31),
	})
	_ = store.SaveFiscalYear(ctx, domain.FiscalYear{
		Code: "FY2020", StartDate: date(2020, 1, 1), EndDate: date(2020, 12, 31), IsClosed: true,
	})
}

type ValidationServiceTestSuite struct {
	suite.Suite
	store     *memory.Store
	validator portssvc.EntryValidatorSvc
}

func (suite *ValidationServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	seedChart(suite.store)
	suite.validator = services.NewValidationService(suite.store, suite.store)
}

func (suite *ValidationServiceTestSuite) balancedEntry() domain.JournalEntry {
	return domain.JournalEntry{
		JournalCode: "AC",
		EntryDate:   date(2025, 3, 15),
		Label:       "Achat marchandises mars",
		Lines: []domain.JournalLine{
			line("601100", "150.00", "0.00"),
			line("401100", "0.00", "150.00"),
		},
	}
}

func (suite *ValidationServiceTestSuite) TestValidate_Success() {
	entry := suite.balancedEntry()

	result, err := suite.validator.Validate(context.Background(), &entry)

	suite.Require().NoError(err)
	suite.True(result.IsValid)
	suite.Empty(result.Errors)
	suite.Empty(result.Warnings)
}

func (suite *ValidationServiceTestSuite) TestValidateShape_TooFewLines() {
	entry := suite.balancedEntry()
	entry.Lines = entry.Lines[:1]

	result := suite.validator.ValidateShape(&entry)

	suite.False(result.IsValid)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "at least 2 lines")
}

func (suite *ValidationServiceTestSuite) TestValidateShape_BothSidesSet() {
	entry := suite.balancedEntry()
	entry.Lines[0] = line("601100", "150.00", "150.00")
	entry.Lines[1] = line("401100", "150.00", "150.00")

	result := suite.validator.ValidateShape(&entry)

	suite.False(result.IsValid)
	suite.Len(result.Errors, 2)
	suite.Contains(result.Errors[0], "cannot both be set")
}

func (suite *ValidationServiceTestSuite) TestValidateShape_BothZero() {
	entry := suite.balancedEntry()
	entry.Lines[0] = line("601100", "0.00", "0.00")

	result := suite.validator.ValidateShape(&entry)

	suite.False(result.IsValid)
	suite.Contains(result.Errors[0], "both zero")
}

func (suite *ValidationServiceTestSuite) TestValidateShape_NegativeAmount() {
	entry := suite.balancedEntry()
	entry.Lines[0] = line("601100", "-150.00", "0.00")
	entry.Lines[1] = line("401100", "0.00", "-150.00")

	result := suite.validator.ValidateShape(&entry)

	suite.False(result.IsValid)
	// One violation per negative side, plus no imbalance (both sides sum to -150).
	suite.Contains(result.Errors[0], "is negative")
	suite.Contains(result.Errors[1], "is negative")
}

func (suite *ValidationServiceTestSuite) TestValidateShape_Unbalanced() {
	entry := suite.balancedEntry()
	entry.Lines[1] = line("401100", "0.00", "149.99")

	result := suite.validator.ValidateShape(&entry)

	suite.False(result.IsValid)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "unbalanced")
	suite.Contains(result.Errors[0], "0.01")
}

func (suite *ValidationServiceTestSuite) TestValidateShape_OneCentOffLargeAmounts() {
	entry := suite.balancedEntry()
	entry.Lines[0] = line("601100", "500000.00", "0.00")
	entry.Lines[1] = line("401100", "0.00", "500000.01")

	result := suite.validator.ValidateShape(&entry)

	suite.False(result.IsValid)
	suite.Contains(result.Errors[0], "unbalanced")
}

func (suite *ValidationServiceTestSuite) TestValidate_NoFiscalYear() {
	entry := suite.balancedEntry()
	entry.EntryDate = date(2030, 6, 1)

	result, err := suite.validator.Validate(context.Background(), &entry)

	suite.Require().NoError(err)
	suite.False(result.IsValid)
	suite.Contains(result.Errors[0], "no fiscal year covers entry date 2030-06-01")
}

func (suite *ValidationServiceTestSuite) TestValidate_ClosedFiscalYear() {
	entry := suite.balancedEntry()
	entry.EntryDate = date(2020, 6, 1)

	result, err := suite.validator.Validate(context.Background(), &entry)

	suite.Require().NoError(err)
	suite.False(result.IsValid)
	suite.Contains(result.Errors[0], "fiscal year FY2020")
	suite.Contains(result.Errors[0], "is closed")
}

func (suite *ValidationServiceTestSuite) TestValidate_OverlappingFiscalYears() {
	_ = suite.store.SaveFiscalYear(context.Background(), domain.FiscalYear{
		Code: "FY2025B", StartDate: date(2025, 3, 1), EndDate: date(2026, 2, 28),
	})
	entry := suite.balancedEntry()

	result, err := suite.validator.Validate(context.Background(), &entry)

	suite.Require().NoError(err)
	suite.False(result.IsValid)
	suite.Contains(result.Errors[0], "overlapping fiscal years")
}

func (suite *ValidationServiceTestSuite) TestValidate_UnknownAccount() {
	entry := suite.balancedEntry()
	entry.Lines[0].AccountCode = "999999"

	result, err := suite.validator.Validate(context.Background(), &entry)

	suite.Require().NoError(err)
	suite.False(result.IsValid)
	suite.Contains(result.Errors[0], "unknown account code 999999")
}

func (suite *ValidationServiceTestSuite) TestValidate_InactiveAccount() {
	entry := suite.balancedEntry()
	entry.Lines[0].AccountCode = "606000"

	result, err := suite.validator.Validate(context.Background(), &entry)

	suite.Require().NoError(err)
	suite.False(result.IsValid)
	suite.Contains(result.Errors[0], "account 606000 is inactive")
}

func (suite *ValidationServiceTestSuite) TestValidate_AccumulatesAllViolations() {
	entry := suite.balancedEntry()
	entry.EntryDate = date(2030, 1, 1)
	entry.Lines[0] = line("999999", "100.00", "0.00")
	entry.Lines[1] = line("401100", "0.00", "90.00")

	result, err := suite.validator.Validate(context.Background(), &entry)

	suite.Require().NoError(err)
	suite.False(result.IsValid)
	// Imbalance, missing fiscal year and unknown account all reported at once.
	suite.Len(result.Errors, 3)
}

func (suite *ValidationServiceTestSuite) TestValidate_WarningsDoNotBlock() {
	entry := suite.balancedEntry()
	entry.Label = ""

	result, err := suite.validator.Validate(context.Background(), &entry)

	suite.Require().NoError(err)
	suite.True(result.IsValid)
	suite.Require().Len(result.Warnings, 1)
	suite.Contains(result.Warnings[0], "label is empty")
}

func TestValidationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ValidationServiceTestSuite))
}
