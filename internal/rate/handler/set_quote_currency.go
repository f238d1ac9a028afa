package handler

import (
	"encoding/json"
	"net/http"

	"ratesync/internal/domain"
	"ratesync/internal/rate"

	"github.com/sirupsen/logrus"
)

type SetQuoteCurrencyRequest struct {
	Code string `json:"code"`
}

// SetQuoteCurrency accepts the switch and returns the post-write
// snapshot with the pending marker set. The fetch settles out of band;
// 202 reflects that.
func (h *Handler) SetQuoteCurrency(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 256)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req SetQuoteCurrencyRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := rate.NormalizeCode(req.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bus.Call(r.Context(), rate.ActionSetQuoteCurrency, code)
	if err != nil {
		msg := "failed to request quote currency switch"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "SetQuoteCurrency", "code": code}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	snap, ok := result.(domain.RateState)
	if !ok {
		logrus.WithField("handler", "SetQuoteCurrency").Errorf("unexpected action result type %T", result)
		writeError(w, http.StatusInternalServerError, "failed to request quote currency switch")
		return
	}

	writeState(w, http.StatusAccepted, snap)
}
