package domain

// RateState is the shared snapshot owned by the state store. Confirmed
// fields (CurrentCurrency, NativeCurrency, ConversionRate,
// ConversionDate, USDConversionRate) are written only by the update
// coordinator's commit; the pending fields are optimistic writes made
// by currency-change requests and are cleared by the next successful
// commit.
type RateState struct {
	// ConversionDate is the epoch-millisecond timestamp of the last
	// successful fetch. Valid only together with ConversionRate.
	ConversionDate int64 `json:"conversion_date"`

	// ConversionRate converts one unit of the base asset into the
	// quote currency.
	ConversionRate float64 `json:"conversion_rate"`

	// CurrentCurrency is the confirmed quote currency code,
	// lower-case ISO 4217 style.
	CurrentCurrency string `json:"current_currency"`

	// NativeCurrency is the confirmed base-asset symbol.
	NativeCurrency string `json:"native_currency"`

	// Pending fields hold a requested-but-unconfirmed replacement for
	// the confirmed value above. Empty means no switch is outstanding.
	PendingCurrentCurrency string `json:"pending_current_currency,omitempty"`
	PendingNativeCurrency  string `json:"pending_native_currency,omitempty"`

	// USDConversionRate is the auxiliary base-asset-to-USD rate,
	// present only when extended mode is enabled.
	USDConversionRate *float64 `json:"usd_conversion_rate,omitempty"`
}

// EffectivePair resolves the pair a refresh should target: a pending
// value wins over its confirmed counterpart.
func (s RateState) EffectivePair() (quote, base string) {
	quote = s.CurrentCurrency
	if s.PendingCurrentCurrency != "" {
		quote = s.PendingCurrentCurrency
	}
	base = s.NativeCurrency
	if s.PendingNativeCurrency != "" {
		base = s.PendingNativeCurrency
	}
	return quote, base
}

// Persisted returns the subset of the state that survives restarts.
// Pending fields and the USD auxiliary rate are deliberately excluded.
func (s RateState) Persisted() PersistedRateState {
	return PersistedRateState{
		ConversionDate:  s.ConversionDate,
		ConversionRate:  s.ConversionRate,
		CurrentCurrency: s.CurrentCurrency,
		NativeCurrency:  s.NativeCurrency,
	}
}

// PersistedRateState is the confirmed subset of RateState stored by the
// snapshot repository.
type PersistedRateState struct {
	ConversionDate  int64   `json:"conversion_date"`
	ConversionRate  float64 `json:"conversion_rate"`
	CurrentCurrency string  `json:"current_currency"`
	NativeCurrency  string  `json:"native_currency"`
}

// RateQuote is the result of a single rate-source fetch.
type RateQuote struct {
	// ConversionDate is stamped by the client at fetch time, epoch ms.
	ConversionDate int64
	ConversionRate float64
	// USDConversionRate is set only when the fetch asked for it.
	USDConversionRate *float64
}

// DefaultRateState is the snapshot a controller starts from before any
// configuration overrides or persisted snapshot are applied.
func DefaultRateState() RateState {
	return RateState{
		CurrentCurrency: "usd",
		NativeCurrency:  "eth",
	}
}
