package pgsql

import (
	"context"
	"time"

	"github.com/Oss53pa/atlas-finance/internal/apperrors"
	"github.com/Oss53pa/atlas-finance/internal/core/domain"
	portsrepo "github.com/Oss53pa/atlas-finance/internal/core/ports/repositories"
	"github.com/Oss53pa/atlas-finance/internal/models"
	"github.com/Oss53pa/atlas-finance/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fiscalYearColumns = `
	code, start_date, end_date, is_closed,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalYearRepository struct {
	BaseRepository
}

// newPgxFiscalYearRepository creates the posting-period repository.
func newPgxFiscalYearRepository(pool *pgxpool.Pool) portsrepo.FiscalYearRepositoryFacade {
	return &PgxFiscalYearRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFiscalYearRepository implements portsrepo.FiscalYearRepositoryFacade
var _ portsrepo.FiscalYearRepositoryFacade = (*PgxFiscalYearRepository)(nil)

// SaveFiscalYear upserts a fiscal year by code.
func (r *PgxFiscalYearRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error {
	m := mapping.ToModelFiscalYear(year)
	query := `
		INSERT INTO fiscal_years (code, start_date, end_date, is_closed,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			is_closed = EXCLUDED.is_closed,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.Code, m.StartDate, m.EndDate, m.IsClosed,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save fiscal year "+m.Code, err)
	}
	return nil
}

// FindYearsCovering returns every fiscal year whose bounds contain the date.
func (r *PgxFiscalYearRepository) FindYearsCovering(ctx context.Context, date time.Time) ([]domain.FiscalYear, error) {
	query := `SELECT` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY code;
	`
	return r.queryYears(ctx, query, date)
}

// ListFiscalYears returns every fiscal year ordered by code.
func (r *PgxFiscalYearRepository) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	query := `SELECT` + fiscalYearColumns + ` FROM fiscal_years ORDER BY code;`
	return r.queryYears(ctx, query)
}

func (r *PgxFiscalYearRepository) queryYears(ctx context.Context, query string, args ...any) ([]domain.FiscalYear, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fiscal years", err)
	}
	defer rows.Close()

	var years []domain.FiscalYear
	for rows.Next() {
		m, err := scanFiscalYear(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fiscal year row", err)
		}
		years = append(years, mapping.ToDomainFiscalYear(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate fiscal year rows", err)
	}
	return years, nil
}

func scanFiscalYear(row pgx.Row) (*models.FiscalYear, error) {
	var m models.FiscalYear
	err := row.Scan(
		&m.Code,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
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
