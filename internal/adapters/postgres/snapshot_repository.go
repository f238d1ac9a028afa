package postgres

import (
	"context"
	"errors"
	"fmt"

	"ratesync/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository persists the confirmed subset of the rate state
// in a single-row table. Pending fields and the USD auxiliary rate are
// never written here.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func (r *SnapshotRepository) Load(ctx context.Context) (domain.PersistedRateState, error) {
	const q = `
		select current_currency, native_currency, conversion_rate, conversion_date
		from rate_snapshots where id = 1;
	`

	var snap domain.PersistedRateState
	if err := r.pool.QueryRow(ctx, q).Scan(
		&snap.CurrentCurrency,
		&snap.NativeCurrency,
		&snap.ConversionRate,
		&snap.ConversionDate,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PersistedRateState{}, domain.ErrSnapshotNotFound
		}
		return domain.PersistedRateState{}, fmt.Errorf("failed to load rate snapshot: %w", err)
	}
	return snap, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, snap domain.PersistedRateState) error {
	const q = `
		insert into rate_snapshots (id, current_currency, native_currency, conversion_rate, conversion_date, updated_at)
		values (1, $1, $2, $3, $4, now())
		on conflict (id) do update
		  set current_currency = excluded.current_currency,
		      native_currency  = excluded.native_currency,
		      conversion_rate  = excluded.conversion_rate,
		      conversion_date  = excluded.conversion_date,
		      updated_at       = now();
	`

	if _, err := r.pool.Exec(ctx, q,
		snap.CurrentCurrency,
		snap.NativeCurrency,
		snap.ConversionRate,
		snap.ConversionDate,
	); err != nil {
		return fmt.Errorf("failed to save rate snapshot: %w", err)
	}
	return nil
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}
