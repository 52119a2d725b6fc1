package repositories

import (
	"context"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/core/domain"
)

// AccountRepositoryFacade provides lookup over the chart of accounts. The
// chart itself is maintained by an external module; the core only reads it,
// plus a save used for provisioning and tests.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// FiscalYearRepositoryFacade provides lookup over posting periods.
type FiscalYearRepositoryFacade interface {
	SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error
	// FindYearsCovering returns every fiscal year whose bounds contain the
	// date. The validator requires exactly one.
	FindYearsCovering(ctx context.Context, date time.Time) ([]domain.FiscalYear, error)
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)
}

// AuditRepositoryFacade is the write-only audit log sink. Records are never
// read back by the core.
type AuditRepositoryFacade interface {
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error
}

// RegularisationRepositoryFacade persists accrual-engine output.
type RegularisationRepositoryFacade interface {
	SaveRegularisation(ctx context.Context, reg domain.Regularisation) error
	FindRegularisationByID(ctx context.Context, id string) (*domain.Regularisation, error)
	ListRegularisations(ctx context.Context) ([]domain.Regularisation, error)
	UpdateRegularisationStatus(ctx context.Context, id string, status domain.RegularisationStatus, updatedBy string, updatedAt time.Time) error
}

// Container bundles every repository facade for service wiring.
type Container struct {
	Entry          EntryRepositoryFacade
	Account        AccountRepositoryFacade
	FiscalYear     FiscalYearRepositoryFacade
	Audit          AuditRepositoryFacade
	Regularisation RegularisationRepositoryFacade
}
