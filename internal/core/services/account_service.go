package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/dto"
)

// accountService exposes chart-of-accounts and fiscal-year reads. Both are
// reference data owned by external modules; the core only consumes them.
type accountService struct {
	accountRepo    portsrepo.AccountRepositoryFacade
	fiscalYearRepo portsrepo.FiscalYearRepositoryFacade
	entryRepo      portsrepo.EntryRepositoryFacade
}

// NewAccountService creates the reference-data read service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, fiscalYearRepo portsrepo.FiscalYearRepositoryFacade, entryRepo portsrepo.EntryRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:    accountRepo,
		fiscalYearRepo: fiscalYearRepo,
		entryRepo:      entryRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CalculateAccountBalance recomputes the account's running balance from the
// full movement history.
func (s *accountService) CalculateAccountBalance(ctx context.Context, accountCode string) (*dto.AccountBalanceResponse, error) {
	if _, err := s.GetAccountByCode(ctx, accountCode); err != nil {
		return nil, err
	}
	debit, credit, err := s.entryRepo.SumAccountMovements(ctx, accountCode)
	if err != nil {
		return nil, fmt.Errorf("failed to sum movements of account %s: %w", accountCode, err)
	}
	return &dto.AccountBalanceResponse{
		AccountCode: accountCode,
		TotalDebit:  debit,
		TotalCredit: credit,
		Balance:     debit.Sub(credit),
	}, nil
}

func (s *accountService) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	years, err := s.fiscalYearRepo.ListFiscalYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	return years, nil
}
