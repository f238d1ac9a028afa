package handler

import (
	"encoding/json"
	"net/http"

	"ratesync/internal/domain"
	"ratesync/internal/rate"

	"github.com/sirupsen/logrus"
)

type SetBaseAssetRequest struct {
	Symbol string `json:"symbol"`
}

func (h *Handler) SetBaseAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 256)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req SetBaseAssetRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	symbol, err := rate.NormalizeCode(req.Symbol)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bus.Call(r.Context(), rate.ActionSetBaseAsset, symbol)
	if err != nil {
		msg := "failed to request base asset switch"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "SetBaseAsset", "symbol": symbol}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	snap, ok := result.(domain.RateState)
	if !ok {
		logrus.WithField("handler", "SetBaseAsset").Errorf("unexpected action result type %T", result)
		writeError(w, http.StatusInternalServerError, "failed to request base asset switch")
		return
	}

	writeState(w, http.StatusAccepted, snap)
}
