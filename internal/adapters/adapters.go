package adapters

import (
	"context"

	"ratesync/internal/domain"
)

// RateClient fetches the conversion rate from the base asset into the
// quote currency, optionally with the auxiliary USD rate. Failures are
// transient from the caller's point of view.
type RateClient interface {
	GetConversionRate(ctx context.Context, quote string, base string, includeUSD bool) (domain.RateQuote, error)
}

// SnapshotRepository stores the confirmed subset of the rate state.
type SnapshotRepository interface {
	Load(ctx context.Context) (domain.PersistedRateState, error)
	Save(ctx context.Context, snap domain.PersistedRateState) error
}
