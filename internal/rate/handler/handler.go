package handler

import (
	"encoding/json"
	"net/http"

	"ratesync/internal/bus"
	"ratesync/internal/domain"
)

// Handler exposes the controller's bus actions over HTTP. It holds no
// state of its own; everything goes through the messenger.
type Handler struct {
	bus *bus.Bus
}

func NewRateHandler(b *bus.Bus) *Handler {
	return &Handler{bus: b}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

type RateStateResponse struct {
	ConversionDate         int64    `json:"conversion_date"`
	ConversionRate         float64  `json:"conversion_rate"`
	CurrentCurrency        string   `json:"current_currency"`
	NativeCurrency         string   `json:"native_currency"`
	PendingCurrentCurrency string   `json:"pending_current_currency,omitempty"`
	PendingNativeCurrency  string   `json:"pending_native_currency,omitempty"`
	USDConversionRate      *float64 `json:"usd_conversion_rate,omitempty"`
}

func toResponse(s domain.RateState) RateStateResponse {
	return RateStateResponse{
		ConversionDate:         s.ConversionDate,
		ConversionRate:         s.ConversionRate,
		CurrentCurrency:        s.CurrentCurrency,
		NativeCurrency:         s.NativeCurrency,
		PendingCurrentCurrency: s.PendingCurrentCurrency,
		PendingNativeCurrency:  s.PendingNativeCurrency,
		USDConversionRate:      s.USDConversionRate,
	}
}

func writeState(w http.ResponseWriter, statusCode int, s domain.RateState) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(toResponse(s))
}
