package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	portssvc "github.com/Oss53pa/atlas-finance/internal/core/ports/services"
	"github.com/Oss53pa/atlas-finance/internal/dto"
	"github.com/Oss53pa/atlas-finance/internal/middleware"
	"github.com/Oss53pa/atlas-finance/internal/utils/hashchain"
	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

// trialBalanceService is the read-only batch verifier over the whole ledger:
// aggregate debit/credit equality, per-journal numbering continuity and full
// hash-chain recomputation.
type trialBalanceService struct {
	entryRepo portsrepo.EntryRepositoryFacade
}

// NewTrialBalanceService creates the ledger auditor.
func NewTrialBalanceService(entryRepo portsrepo.EntryRepositoryFacade) portssvc.TrialBalanceSvcFacade {
	return &trialBalanceService{entryRepo: entryRepo}
}

var _ portssvc.TrialBalanceSvcFacade = (*trialBalanceService)(nil)

// Audit scans the ledger once, in chain order, and builds the full report.
func (s *trialBalanceService) Audit(ctx context.Context) (*dto.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, err := s.entryRepo.ListAllEntriesOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger for audit: %w", err)
	}

	report := &dto.TrialBalanceReport{EntryCount: len(entries)}

	type movement struct{ debit, credit money.Amount }
	perAccount := make(map[string]movement)
	perJournal := make(map[string][]int)
	links := make([]hashchain.Link, len(entries))

	for i := range entries {
		entry := &entries[i]
		report.TotalDebit = report.TotalDebit.Add(entry.TotalDebit)
		report.TotalCredit = report.TotalCredit.Add(entry.TotalCredit)

		for _, line := range entry.Lines {
			m := perAccount[line.AccountCode]
			m.debit = m.debit.Add(line.Debit)
			m.credit = m.credit.Add(line.Credit)
			perAccount[line.AccountCode] = m
		}

		if seq, ok := parseSequence(entry.JournalCode, entry.EntryNumber); ok {
			perJournal[entry.JournalCode] = append(perJournal[entry.JournalCode], seq)
		}

		links[i] = hashchain.Link{
			Payload:      entry.ChainPayload(),
			PreviousHash: entry.PreviousHash,
			Hash:         entry.Hash,
		}
	}

	report.Balanced = report.TotalDebit.Equal(report.TotalCredit)

	codes := make([]string, 0, len(perAccount))
	for code := range perAccount {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		m := perAccount[code]
		report.Accounts = append(report.Accounts, dto.AccountBalanceLine{
			AccountCode: code,
			TotalDebit:  m.debit,
			TotalCredit: m.credit,
			Balance:     m.debit.Sub(m.credit),
		})
	}

	report.NumberingGaps = numberingGaps(perJournal)

	if broken := hashchain.Verify(links); broken >= 0 {
		report.ChainIntact = false
		report.FirstBrokenEntry = entries[broken].EntryNumber
		logger.Warn("Hash chain broken", slog.String("first_broken_entry", report.FirstBrokenEntry))
	} else {
		report.ChainIntact = true
	}

	logger.Info("Trial balance audit completed",
		slog.Int("entries", report.EntryCount),
		slog.Bool("balanced", report.Balanced),
		slog.Bool("chain_intact", report.ChainIntact),
	)
	return report, nil
}

// parseSequence extracts the numeric sequence from a piece number like
// "AC-000042".
func parseSequence(journalCode, entryNumber string) (int, bool) {
	suffix, found := strings.CutPrefix(entryNumber, journalCode+"-")
	if !found {
		return 0, false
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}

// numberingGaps reports every hole between 1 and the highest minted sequence,
// per journal.
func numberingGaps(perJournal map[string][]int) []dto.NumberingGap {
	journals := make([]string, 0, len(perJournal))
	for code := range perJournal {
		journals = append(journals, code)
	}
	sort.Strings(journals)

	var gaps []dto.NumberingGap
	for _, code := range journals {
		seqs := perJournal[code]
		present := make(map[int]struct{}, len(seqs))
		maxSeq := 0
		for _, seq := range seqs {
			present[seq] = struct{}{}
			if seq > maxSeq {
				maxSeq = seq
			}
		}
		var missing []int
		for i := 1; i <= maxSeq; i++ {
			if _, ok := present[i]; !ok {
				missing = append(missing, i)
			}
		}
		if len(missing) > 0 {
			gaps = append(gaps, dto.NumberingGap{JournalCode: code, MissingSequences: missing})
		}
	}
	return gaps
}
