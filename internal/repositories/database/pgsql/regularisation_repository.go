package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	"github.com/Oss53pa/atlas-finance/internal/models"
	"github.com/Oss53pa/atlas-finance/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const regularisationColumns = `
	regularisation_id, type, label, amount, accrual_account, charge_account,
	origin_period_start, origin_period_end, imputation_period_start, imputation_period_end,
	auto_reverse, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRegularisationRepository struct {
	BaseRepository
}

// newPgxRegularisationRepository creates the accrual-proposal repository.
func newPgxRegularisationRepository(pool *pgxpool.Pool) portsrepo.RegularisationRepositoryFacade {
	return &PgxRegularisationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRegularisationRepository implements portsrepo.RegularisationRepositoryFacade
var _ portsrepo.RegularisationRepositoryFacade = (*PgxRegularisationRepository)(nil)

// SaveRegularisation inserts a new regularisation proposal.
func (r *PgxRegularisationRepository) SaveRegularisation(ctx context.Context, reg domain.Regularisation) error {
	m := mapping.ToModelRegularisation(reg)
	query := `
		INSERT INTO regularisations (
			regularisation_id, type, label, amount, accrual_account, charge_account,
			origin_period_start, origin_period_end, imputation_period_start, imputation_period_end,
			auto_reverse, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RegularisationID, string(m.Type), m.Label, m.Amount, m.AccrualAccount, m.ChargeAccount,
		m.OriginPeriodStart, m.OriginPeriodEnd, m.ImputationPeriodStart, m.ImputationPeriodEnd,
		m.AutoReverse, string(m.Status),
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save regularisation "+m.RegularisationID, err)
	}
	return nil
}

// FindRegularisationByID retrieves a regularisation by its ID.
func (r *PgxRegularisationRepository) FindRegularisationByID(ctx context.Context, id string) (*domain.Regularisation, error) {
	query := `SELECT` + regularisationColumns + ` FROM regularisations WHERE regularisation_id = $1;`
	m, err := scanRegularisation(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find regularisation by ID "+id, err)
	}
	reg := mapping.ToDomainRegularisation(*m)
	return &reg, nil
}

// ListRegularisations returns every regularisation, oldest first.
func (r *PgxRegularisationRepository) ListRegularisations(ctx context.Context) ([]domain.Regularisation, error) {
	query := `SELECT` + regularisationColumns + ` FROM regularisations ORDER BY created_at, regularisation_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list regularisations", err)
	}
	defer rows.Close()

	var regs []domain.Regularisation
	for rows.Next() {
		m, err := scanRegularisation(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan regularisation row", err)
		}
		regs = append(regs, mapping.ToDomainRegularisation(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate regularisation rows", err)
	}
	return regs, nil
}

// UpdateRegularisationStatus flips a proposal's status after posting.
func (r *PgxRegularisationRepository) UpdateRegularisationStatus(ctx context.Context, id string, status domain.RegularisationStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE regularisations
		SET status = $2, last_updated_by = $3, last_updated_at = $4
		WHERE regularisation_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, id, string(status), updatedBy, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of regularisation "+id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanRegularisation(row pgx.Row) (*models.Regularisation, error) {
	var m models.Regularisation
	err := row.Scan(
		&m.RegularisationID,
		&m.Type,
		&m.Label,
		&m.Amount,
		&m.AccrualAccount,
		&m.ChargeAccount,
		&m.OriginPeriodStart,
		&m.OriginPeriodEnd,
		&m.ImputationPeriodStart,
		&m.ImputationPeriodEnd,
		&m.AutoReverse,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
