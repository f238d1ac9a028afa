package handler

import (
	"net/http"

	"ratesync/internal/domain"
	"ratesync/internal/rate"

	"github.com/sirupsen/logrus"
)

func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	result, err := h.bus.Call(r.Context(), rate.ActionGetState, nil)
	if err != nil {
		msg := "failed to read rate state"
		logrus.WithError(err).WithField("handler", "GetRate").Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	snap, ok := result.(domain.RateState)
	if !ok {
		logrus.WithField("handler", "GetRate").Errorf("unexpected action result type %T", result)
		writeError(w, http.StatusInternalServerError, "failed to read rate state")
		return
	}

	writeState(w, http.StatusOK, snap)
}
