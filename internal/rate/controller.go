package rate

import (
	"context"
	"fmt"
	"time"

	"ratesync/internal/adapters"
	"ratesync/internal/bus"
	"ratesync/internal/domain"
	"ratesync/internal/metrics"
	"ratesync/internal/state"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Bus surface of the controller.
const (
	ActionGetState         = "rate-controller.get-state"
	ActionSetQuoteCurrency = "rate-controller.set-quote-currency"
	ActionSetBaseAsset     = "rate-controller.set-base-asset"
	EventStateChanged      = "rate-controller.state-changed"
)

const defaultFetchTimeout = 15 * time.Second

// Controller coordinates all rate refreshes. It is the only writer of
// the confirmed rate fields: every fetch-and-commit cycle runs inside
// a FIFO-fair exclusive lock, so cycles never overlap and commit in
// admission order. Currency-change requests write their pending field
// outside the lock and trigger an out-of-band refresh.
type Controller struct {
	store        *state.Store
	client       adapters.RateClient
	includeUSD   bool
	fetchTimeout time.Duration
	lock         *queueLock
	metrics      *metrics.Metrics

	// dispatch runs the out-of-band refresh triggered by a
	// currency-change request.
	dispatch func(fn func())
}

func NewController(store *state.Store, client adapters.RateClient, includeUSD bool, m *metrics.Metrics) *Controller {
	return &Controller{
		store:        store,
		client:       client,
		includeUSD:   includeUSD,
		fetchTimeout: defaultFetchTimeout,
		lock:         newQueueLock(),
		metrics:      m,
		dispatch:     func(fn func()) { go fn() },
	}
}

// Refresh runs one fetch-and-commit cycle: snapshot the currency
// selection, fetch the rate for the effective pair (pending values win
// over confirmed ones), and on success commit a full replacement that
// also clears both pending fields. On failure nothing is committed, so
// pending fields stay set and a later cycle retries the same pair.
//
// Known gap, kept deliberately: the commit replaces the whole snapshot
// from the pre-fetch view, so a pending write that lands while a fetch
// is in flight gets cleared by that fetch's commit without being
// resolved. The writer's own triggered refresh is queued behind the
// lock and picks the newest values up immediately after.
func (c *Controller) Refresh(ctx context.Context) error {
	release := c.lock.acquire()
	defer release()

	start := time.Now()
	if c.metrics != nil {
		c.metrics.RefreshAttemptsTotal.Inc()
	}

	snap := c.store.Snapshot()
	quote, base := snap.EffectivePair()

	reqCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	q, err := c.client.GetConversionRate(reqCtx, quote, base, c.includeUSD)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RefreshFailuresTotal.Inc()
		}
		return fmt.Errorf("failed to fetch rate for pair %q/%q: %w", base, quote, err)
	}

	c.store.Replace(domain.RateState{
		ConversionDate:    q.ConversionDate,
		ConversionRate:    q.ConversionRate,
		CurrentCurrency:   quote,
		NativeCurrency:    base,
		USDConversionRate: q.USDConversionRate,
	})

	if c.metrics != nil {
		c.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}
	return nil
}

// refreshQuietly is the swallow-and-log wrapper shared by both trigger
// paths. A failed refresh keeps the previous confirmed rate and the
// pending fields; the next tick or request retries.
func (c *Controller) refreshQuietly(ctx context.Context, execID string) {
	if err := c.Refresh(ctx); err != nil {
		logrus.WithError(err).Warnf("Rate refresh %s failed, keeping previous rate", execID)
	}
}

// SetQuoteCurrency records the requested quote currency as pending —
// synchronously, with a change notification — and dispatches a refresh
// without waiting for the next poll tick. It returns the post-write
// snapshot; the fetch settles later.
func (c *Controller) SetQuoteCurrency(code string) domain.RateState {
	snap := c.store.Apply(func(st *domain.RateState) {
		st.PendingCurrentCurrency = code
	})
	if c.metrics != nil {
		c.metrics.CurrencySwitchTotal.WithLabelValues("quote").Inc()
	}
	c.dispatch(func() { c.refreshQuietly(context.Background(), uuid.NewString()) })
	return snap
}

// SetBaseAsset is the base-asset counterpart of SetQuoteCurrency. Two
// back-to-back requests may both be pending at once; a single refresh
// resolves them together.
func (c *Controller) SetBaseAsset(symbol string) domain.RateState {
	snap := c.store.Apply(func(st *domain.RateState) {
		st.PendingNativeCurrency = symbol
	})
	if c.metrics != nil {
		c.metrics.CurrencySwitchTotal.WithLabelValues("base").Inc()
	}
	c.dispatch(func() { c.refreshQuietly(context.Background(), uuid.NewString()) })
	return snap
}

// AttachBus registers the controller's actions and republishes every
// store change as a state-changed event.
func (c *Controller) AttachBus(b *bus.Bus) error {
	if err := b.RegisterAction(ActionGetState, func(ctx context.Context, payload any) (any, error) {
		return c.store.Snapshot(), nil
	}); err != nil {
		return err
	}
	if err := b.RegisterAction(ActionSetQuoteCurrency, func(ctx context.Context, payload any) (any, error) {
		code, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("action %s expects a string payload, got %T", ActionSetQuoteCurrency, payload)
		}
		return c.SetQuoteCurrency(code), nil
	}); err != nil {
		return err
	}
	if err := b.RegisterAction(ActionSetBaseAsset, func(ctx context.Context, payload any) (any, error) {
		symbol, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("action %s expects a string payload, got %T", ActionSetBaseAsset, payload)
		}
		return c.SetBaseAsset(symbol), nil
	}); err != nil {
		return err
	}

	c.store.Subscribe(func(snap domain.RateState) {
		b.Publish(EventStateChanged, snap)
	})
	return nil
}
