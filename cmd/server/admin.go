package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/haulquote/internal/ratestore"
	"github.com/Simplici0/haulquote/internal/ratetable"
)

type marketsViewData struct {
	baseViewData
	Default string
	Markets []string
}

type ratesViewData struct {
	baseViewData
	Exists bool
	Form   rateForm
}

func (s *server) handleAdminRatesIndex(w http.ResponseWriter, r *http.Request) {
	markets, err := s.store.Markets(r.Context())
	if err != nil {
		s.logger.Error("list markets", zap.Error(err))
		http.Error(w, "failed to load markets", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "admin_markets.html", marketsViewData{Default: s.defaultMarket, Markets: markets})
}

// handleAdminRatesForm shows the stored rates of a market. Unknown markets get
// the stock rates so a new market can be created from the same form.
func (s *server) handleAdminRatesForm(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")
	if !marketNamePattern.MatchString(market) {
		http.Error(w, "invalid market name", http.StatusBadRequest)
		return
	}

	exists := true
	rates, err := s.store.Get(r.Context(), market)
	switch {
	case errors.Is(err, ratestore.ErrMarketNotFound):
		exists = false
		rates = ratetable.Default()
	case err != nil:
		s.logger.Error("load rate table", zap.String("market", market), zap.Error(err))
		http.Error(w, "failed to load rate table", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "admin_rates.html", ratesViewData{
		Exists: exists,
		Form:   rateFormFromSpec(market, rates.Spec()),
	})
}

func (s *server) handleAdminRatesSubmit(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")
	if !marketNamePattern.MatchString(market) {
		http.Error(w, "invalid market name", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := readRateForm(r, market)
	_, exists := s.catalog.Get(market)

	rates, validationErr := buildTable(form)
	if validationErr != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		s.renderTemplate(w, "admin_rates.html", ratesViewData{
			baseViewData: baseViewData{ErrorMessage: validationErr.Error()},
			Exists:       exists,
			Form:         form,
		})
		return
	}

	if err := s.store.Save(r.Context(), market, rates); err != nil {
		s.logger.Error("save rate table", zap.String("market", market), zap.Error(err))
		http.Error(w, "failed to save rate table", http.StatusInternalServerError)
		return
	}
	s.catalog.Put(market, rates)
	s.logger.Info("rate table saved", zap.String("market", market))

	s.renderTemplate(w, "admin_rates.html", ratesViewData{
		baseViewData: baseViewData{SuccessMessage: "Rates saved."},
		Exists:       true,
		Form:         rateFormFromSpec(market, rates.Spec()),
	})
}

func buildTable(form rateForm) (*ratetable.Table, error) {
	spec, err := form.spec()
	if err != nil {
		return nil, err
	}
	rates, err := ratetable.New(spec)
	if err != nil {
		return nil, fmt.Errorf("rates rejected: %w", err)
	}
	return rates, nil
}
