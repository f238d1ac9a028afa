package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ratesync/internal/bus"
	"ratesync/internal/domain"
	"ratesync/internal/rate"

	"github.com/stretchr/testify/require"
)

type errorJSON struct {
	Error string `json:"error"`
}

func newBusWithState(t *testing.T, snap domain.RateState) *bus.Bus {
	t.Helper()
	b := bus.New()
	require.NoError(t, b.RegisterAction(rate.ActionGetState, func(ctx context.Context, payload any) (any, error) {
		return snap, nil
	}))
	return b
}

// --- GetRate ---

func TestHandler_GetRate_Success(t *testing.T) {
	usd := 1.07
	snap := domain.RateState{
		ConversionDate:    1000,
		ConversionRate:    0.91,
		CurrentCurrency:   "eur",
		NativeCurrency:    "eth",
		USDConversionRate: &usd,
	}
	h := NewRateHandler(newBusWithState(t, snap))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rate", nil)
	rec := httptest.NewRecorder()
	h.GetRate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got RateStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "eur", got.CurrentCurrency)
	require.Equal(t, "eth", got.NativeCurrency)
	require.InDelta(t, 0.91, got.ConversionRate, 1e-9)
	require.Equal(t, int64(1000), got.ConversionDate)
	require.NotNil(t, got.USDConversionRate)
}

func TestHandler_GetRate_ActionError(t *testing.T) {
	b := bus.New()
	require.NoError(t, b.RegisterAction(rate.ActionGetState, func(ctx context.Context, payload any) (any, error) {
		return nil, errors.New("boom")
	}))
	h := NewRateHandler(b)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rate", nil)
	rec := httptest.NewRecorder()
	h.GetRate(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

// --- SetQuoteCurrency ---

func TestHandler_SetQuoteCurrency_Accepted(t *testing.T) {
	b := bus.New()
	var gotPayload any
	require.NoError(t, b.RegisterAction(rate.ActionSetQuoteCurrency, func(ctx context.Context, payload any) (any, error) {
		gotPayload = payload
		return domain.RateState{CurrentCurrency: "usd", PendingCurrentCurrency: payload.(string)}, nil
	}))
	h := NewRateHandler(b)

	body := bytes.NewBufferString(`{"code": " EUR "}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rate/quote-currency", body)
	rec := httptest.NewRecorder()
	h.SetQuoteCurrency(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "eur", gotPayload, "code is normalized before dispatch")

	var got RateStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "eur", got.PendingCurrentCurrency)
	require.Equal(t, "usd", got.CurrentCurrency)
}

func TestHandler_SetQuoteCurrency_InvalidBody(t *testing.T) {
	h := NewRateHandler(bus.New())

	for _, body := range []string{`{`, `{"unknown": "x"}`, ``} {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/rate/quote-currency", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		h.SetQuoteCurrency(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHandler_SetQuoteCurrency_ValidationError(t *testing.T) {
	h := NewRateHandler(bus.New())

	body := bytes.NewBufferString(`{"code": "eu1"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rate/quote-currency", body)
	rec := httptest.NewRecorder()
	h.SetQuoteCurrency(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got errorJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, rate.ErrCodeInvalid.Error(), got.Error)
}

func TestHandler_SetQuoteCurrency_ActionError(t *testing.T) {
	b := bus.New()
	require.NoError(t, b.RegisterAction(rate.ActionSetQuoteCurrency, func(ctx context.Context, payload any) (any, error) {
		return nil, errors.New("boom")
	}))
	h := NewRateHandler(b)

	body := bytes.NewBufferString(`{"code": "eur"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rate/quote-currency", body)
	rec := httptest.NewRecorder()
	h.SetQuoteCurrency(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_SetQuoteCurrency_UnexpectedResultType(t *testing.T) {
	b := bus.New()
	require.NoError(t, b.RegisterAction(rate.ActionSetQuoteCurrency, func(ctx context.Context, payload any) (any, error) {
		return "not a state", nil
	}))
	h := NewRateHandler(b)

	body := bytes.NewBufferString(`{"code": "eur"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rate/quote-currency", body)
	rec := httptest.NewRecorder()
	h.SetQuoteCurrency(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var got errorJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "failed to request quote currency switch", got.Error)
}

// --- SetBaseAsset ---

func TestHandler_SetBaseAsset_Accepted(t *testing.T) {
	b := bus.New()
	var gotPayload any
	require.NoError(t, b.RegisterAction(rate.ActionSetBaseAsset, func(ctx context.Context, payload any) (any, error) {
		gotPayload = payload
		return domain.RateState{NativeCurrency: "eth", PendingNativeCurrency: payload.(string)}, nil
	}))
	h := NewRateHandler(b)

	body := bytes.NewBufferString(`{"symbol": "BTC"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rate/base-asset", body)
	rec := httptest.NewRecorder()
	h.SetBaseAsset(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "btc", gotPayload)

	var got RateStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "btc", got.PendingNativeCurrency)
}

func TestHandler_SetBaseAsset_UnexpectedResultType(t *testing.T) {
	b := bus.New()
	require.NoError(t, b.RegisterAction(rate.ActionSetBaseAsset, func(ctx context.Context, payload any) (any, error) {
		return nil, nil
	}))
	h := NewRateHandler(b)

	body := bytes.NewBufferString(`{"symbol": "btc"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rate/base-asset", body)
	rec := httptest.NewRecorder()
	h.SetBaseAsset(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_SetBaseAsset_MissingSymbol(t *testing.T) {
	h := NewRateHandler(bus.New())

	body := bytes.NewBufferString(`{"symbol": ""}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rate/base-asset", body)
	rec := httptest.NewRecorder()
	h.SetBaseAsset(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got errorJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, rate.ErrCodeRequired.Error(), got.Error)
}
