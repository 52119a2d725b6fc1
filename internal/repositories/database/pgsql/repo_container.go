package pgsql

import (
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryContainer wires every pgsql repository over one pool.
func NewRepositoryContainer(dbPool *pgxpool.Pool) *portsrepo.Container {
	return &portsrepo.Container{
		Entry:          newPgxEntryRepository(dbPool),
		Account:        newPgxAccountRepository(dbPool),
		FiscalYear:     newPgxFiscalYearRepository(dbPool),
		Audit:          newPgxAuditRepository(dbPool),
		Regularisation: newPgxRegularisationRepository(dbPool),
	}
}
