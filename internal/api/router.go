package api

import (
	"ratesync/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(rateHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Handle("/metrics", promhttp.Handler())

	router.Get("/api/v1/rate", rateHandler.GetRate)
	router.Put("/api/v1/rate/quote-currency", rateHandler.SetQuoteCurrency)
	router.Put("/api/v1/rate/base-asset", rateHandler.SetBaseAsset)
	return router
}
