package services

import (
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
)

// NewServiceContainer wires every core service over a repository container.
// The ledger gateway is shared: reversal and accrual postings re-enter the
// same serialized admission path as user-submitted entries.
func NewServiceContainer(repos *portsrepo.Container) *portssvc.ServiceContainer {
	validator := NewValidationService(repos.Account, repos.FiscalYear)
	ledger := NewLedgerService(repos.Entry, validator)

	return &portssvc.ServiceContainer{
		Validator:    validator,
		Ledger:       ledger,
		Workflow:     NewWorkflowService(repos.Entry, repos.Audit, validator),
		Reversal:     NewReversalService(repos.Entry, repos.Audit, ledger),
		Accrual:      NewAccrualService(repos.Regularisation, ledger),
		TrialBalance: NewTrialBalanceService(repos.Entry),
		Account:      NewAccountService(repos.Account, repos.FiscalYear, repos.Entry),
	}
}
