// Package memory provides in-memory repository implementations, used in dev
// mode (no PGSQL_URL configured) and by the service test suites.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
	"github.com/Oss53pa/atlas-finance/internal/utils/pagination"
)

// Store holds the whole ledger state behind one RWMutex. Entries keep a
// monotonically increasing storage sequence so the scan order (entry date,
// creation time, storage order) is total and stable.
type Store struct {
	mu      sync.RWMutex
	nextSeq int

	entries         []storedEntry
	accounts        map[string]domain.Account
	fiscalYears     map[string]domain.FiscalYear
	regularisations map[string]domain.Regularisation
	auditLog        []domain.AuditRecord
}

type storedEntry struct {
	seq   int
	entry domain.JournalEntry
}

// NewStore creates an empty in-memory ledger store.
func NewStore() *Store {
	return &Store{
		accounts:        make(map[string]domain.Account),
		fiscalYears:     make(map[string]domain.FiscalYear),
		regularisations: make(map[string]domain.Regularisation),
	}
}

// NewContainer bundles one Store behind every repository facade.
func NewContainer() *portsrepo.Container {
	s := NewStore()
	return &portsrepo.Container{
		Entry:          s,
		Account:        s,
		FiscalYear:     s,
		Audit:          s,
		Regularisation: s,
	}
}

var (
	_ portsrepo.EntryRepositoryFacade          = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade        = (*Store)(nil)
	_ portsrepo.FiscalYearRepositoryFacade     = (*Store)(nil)
	_ portsrepo.AuditRepositoryFacade          = (*Store)(nil)
	_ portsrepo.RegularisationRepositoryFacade = (*Store)(nil)
)

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	clone := e
	clone.Lines = make([]domain.JournalLine, len(e.Lines))
	copy(clone.Lines, e.Lines)
	if e.ReversalOfID != nil {
		v := *e.ReversalOfID
		clone.ReversalOfID = &v
	}
	if e.ReversedByID != nil {
		v := *e.ReversedByID
		clone.ReversedByID = &v
	}
	return clone
}

// scanOrder sorts stored entries by entry date, then creation time, then
// storage sequence. This is the chain order.
func (s *Store) scanOrder() []storedEntry {
	ordered := make([]storedEntry, len(s.entries))
	copy(ordered, s.entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].entry, ordered[j].entry
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return ordered[i].seq < ordered[j].seq
	})
	return ordered
}

// --- EntryRepositoryFacade ---

func (s *Store) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stored := range s.entries {
		if stored.entry.EntryID == entry.EntryID {
			return apperrors.ErrDuplicate
		}
	}
	s.nextSeq++
	s.entries = append(s.entries, storedEntry{seq: s.nextSeq, entry: cloneEntry(entry)})
	return nil
}

func (s *Store) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, stored := range s.entries {
		if stored.entry.EntryID == entryID {
			clone := cloneEntry(stored.entry)
			return &clone, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindEntryByNumber(_ context.Context, journalCode, entryNumber string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, stored := range s.entries {
		if stored.entry.JournalCode == journalCode && stored.entry.EntryNumber == entryNumber {
			clone := cloneEntry(stored.entry)
			return &clone, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindLastEntry(_ context.Context) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ordered := s.scanOrder()
	if len(ordered) == 0 {
		return nil, apperrors.ErrNotFound
	}
	clone := cloneEntry(ordered[len(ordered)-1].entry)
	return &clone, nil
}

func (s *Store) ListEntries(_ context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := s.scanOrder()
	start := 0
	if nextToken != nil {
		afterDate, afterCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		for i, stored := range ordered {
			e := stored.entry
			if e.EntryDate.After(afterDate) || (e.EntryDate.Equal(afterDate) && e.CreatedAt.After(afterCreated)) {
				start = i
				break
			}
			start = i + 1
		}
	}

	end := start + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	page := make([]domain.JournalEntry, 0, end-start)
	for _, stored := range ordered[start:end] {
		page = append(page, cloneEntry(stored.entry))
	}

	var token *string
	if end < len(ordered) && len(page) > 0 {
		last := page[len(page)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return page, token, nil
}

func (s *Store) ListAllEntriesOrdered(_ context.Context) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ordered := s.scanOrder()
	entries := make([]domain.JournalEntry, len(ordered))
	for i, stored := range ordered {
		entries[i] = cloneEntry(stored.entry)
	}
	return entries, nil
}

func (s *Store) MaxSequenceForJournal(_ context.Context, journalCode string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maxSeq := 0
	prefix := journalCode + "-"
	for _, stored := range s.entries {
		if stored.entry.JournalCode != journalCode {
			continue
		}
		suffix, found := strings.CutPrefix(stored.entry.EntryNumber, prefix)
		if !found {
			continue
		}
		if seq, err := strconv.Atoi(suffix); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

func (s *Store) SumAccountMovements(_ context.Context, accountCode string) (money.Amount, money.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	debit, credit := money.Zero(), money.Zero()
	for _, stored := range s.entries {
		for _, line := range stored.entry.Lines {
			if line.AccountCode == accountCode {
				debit = debit.Add(line.Debit)
				credit = credit.Add(line.Credit)
			}
		}
	}
	return debit, credit, nil
}

func (s *Store) UpdateEntryStatus(_ context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].entry.EntryID == entryID {
			s.entries[i].entry.Status = status
			s.entries[i].entry.LastUpdatedBy = updatedBy
			s.entries[i].entry.LastUpdatedAt = updatedAt
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (s *Store) MarkEntryReversed(_ context.Context, entryID string, reversedByID string, reason string, updatedBy string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].entry.EntryID == entryID {
			s.entries[i].entry.Reversed = true
			s.entries[i].entry.ReversedByID = &reversedByID
			s.entries[i].entry.ReversalReason = reason
			s.entries[i].entry.LastUpdatedBy = updatedBy
			s.entries[i].entry.LastUpdatedAt = updatedAt
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// --- AccountRepositoryFacade ---

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Code] = account
	return nil
}

func (s *Store) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (s *Store) FindAccountsByCodes(_ context.Context, codes []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make(map[string]domain.Account, len(codes))
	for _, code := range codes {
		if account, ok := s.accounts[code]; ok {
			found[code] = account
		}
	}
	return found, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.accounts))
	for code := range s.accounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	accounts := make([]domain.Account, 0, len(codes))
	for _, code := range codes {
		accounts = append(accounts, s.accounts[code])
	}
	return accounts, nil
}

// --- FiscalYearRepositoryFacade ---

func (s *Store) SaveFiscalYear(_ context.Context, year domain.FiscalYear) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fiscalYears[year.Code] = year
	return nil
}

func (s *Store) FindYearsCovering(_ context.Context, date time.Time) ([]domain.FiscalYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var covering []domain.FiscalYear
	for _, year := range s.fiscalYears {
		if year.Covers(date) {
			covering = append(covering, year)
		}
	}
	sort.Slice(covering, func(i, j int) bool { return covering[i].Code < covering[j].Code })
	return covering, nil
}

func (s *Store) ListFiscalYears(_ context.Context) ([]domain.FiscalYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	years := make([]domain.FiscalYear, 0, len(s.fiscalYears))
	for _, year := range s.fiscalYears {
		years = append(years, year)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Code < years[j].Code })
	return years, nil
}

// --- AuditRepositoryFacade ---

func (s *Store) SaveAuditRecord(_ context.Context, record domain.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLog = append(s.auditLog, record)
	return nil
}

// AuditRecords returns a copy of the audit log, oldest first. Test helper;
// the core itself never reads the sink back.
func (s *Store) AuditRecords() []domain.AuditRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.AuditRecord, len(s.auditLog))
	copy(records, s.auditLog)
	return records
}

// --- RegularisationRepositoryFacade ---

func (s *Store) SaveRegularisation(_ context.Context, reg domain.Regularisation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regularisations[reg.RegularisationID] = reg
	return nil
}

func (s *Store) FindRegularisationByID(_ context.Context, id string) (*domain.Regularisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.regularisations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &reg, nil
}

func (s *Store) ListRegularisations(_ context.Context) ([]domain.Regularisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	regs := make([]domain.Regularisation, 0, len(s.regularisations))
	for _, reg := range s.regularisations {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].CreatedAt.Before(regs[j].CreatedAt) })
	return regs, nil
}

func (s *Store) UpdateRegularisationStatus(_ context.Context, id string, status domain.RegularisationStatus, updatedBy string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.regularisations[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	reg.Status = status
	reg.LastUpdatedBy = updatedBy
	reg.LastUpdatedAt = updatedAt
	s.regularisations[id] = reg
	return nil
}

// CorruptEntryLabel rewrites the stored label of an entry without recomputing
// any hash. Test helper for exercising tamper detection.
func (s *Store) CorruptEntryLabel(entryID string, label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].entry.EntryID == entryID {
			s.entries[i].entry.Label = label
			return true
		}
	}
	return false
}
