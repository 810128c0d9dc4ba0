package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Simplici0/haulquote/internal/pricing"
	"github.com/Simplici0/haulquote/internal/ratestore"
	"github.com/Simplici0/haulquote/internal/ratetable"
	"github.com/Simplici0/haulquote/internal/season"
	"github.com/Simplici0/haulquote/internal/view"
)

const setErrorMessageEvent = "set-error-message"

var validate = validator.New(validator.WithRequiredStructEnabled())

type quoteView struct {
	Job       pricing.JobContext
	Result    pricing.Result
	Style     view.Style
	Breakdown []pricing.Slice
}

type calculatorViewData struct {
	baseViewData
	Markets     []string
	Form        calculatorForm
	LoadSizes   []ratetable.LoadSize
	Regions     []ratetable.Region
	Adjustments []ratetable.Adjustment
	Quote       *quoteView
	Season      season.Month
}

// tableFor resolves a market name against the catalog.
func (s *server) tableFor(market string) (*ratetable.Table, error) {
	if market == "" {
		market = s.defaultMarket
	}
	t, ok := s.catalog.Get(market)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ratestore.ErrMarketNotFound, market)
	}
	return t, nil
}

func (s *server) quote(market string, costs pricing.CostInputs, job pricing.JobContext) (*quoteView, error) {
	rates, err := s.tableFor(market)
	if err != nil {
		return nil, err
	}
	result, err := pricing.ComputeQuote(costs, job, rates)
	if err != nil {
		return nil, err
	}
	return &quoteView{
		Job:       job,
		Result:    result,
		Style:     view.StyleFor(pricing.Classify(result.MarginPercent)),
		Breakdown: pricing.Breakdown(costs, result),
	}, nil
}

func (s *server) calculatorData(form calculatorForm) calculatorViewData {
	return calculatorViewData{
		Markets:     s.catalog.Markets(),
		Form:        form,
		LoadSizes:   ratetable.LoadSizes(),
		Regions:     ratetable.Regions(),
		Adjustments: ratetable.Adjustments(),
		Season:      season.ForMonth(s.now().Month()),
	}
}

func (s *server) handleCalculator(w http.ResponseWriter, r *http.Request) {
	form := defaultCalculatorForm(s.defaultMarket)
	data := s.calculatorData(form)

	costs, job, err := form.parse()
	if err == nil {
		data.Quote, err = s.quote(form.Market, costs, job)
	}
	if err != nil {
		s.logger.Error("quote default form", zap.Error(err))
		data.ErrorMessage = err.Error()
	}

	s.renderTemplate(w, "calculator.html", data)
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.showError(w, r, http.StatusBadRequest, errors.New("invalid form"))
		return
	}

	form := readCalculatorForm(r, s.defaultMarket)
	data := s.calculatorData(form)

	costs, job, err := form.parse()
	if err == nil {
		data.Quote, err = s.quote(form.Market, costs, job)
	}
	if err != nil {
		status := quoteErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("calculate quote", zap.String("market", form.Market), zap.Error(err))
		}
		if htmx.IsHTMX(r) {
			s.showError(w, r, status, err)
			return
		}
		data.ErrorMessage = err.Error()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		s.renderTemplate(w, "calculator.html", data)
		return
	}

	if htmx.IsHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := htmx.NewResponse().
			AddTrigger(htmx.TriggerDetail(setErrorMessageEvent, "")).
			Write(w); err != nil {
			s.logger.Error("write htmx headers", zap.Error(err))
		}
		s.renderNamed(w, "calculator.html", "result", data)
		return
	}
	s.renderTemplate(w, "calculator.html", data)
}

// showError answers htmx requests with an event the page turns into a banner,
// leaving the current result in place.
func (s *server) showError(w http.ResponseWriter, r *http.Request, code int, err error) {
	if !htmx.IsHTMX(r) {
		http.Error(w, err.Error(), code)
		return
	}
	if werr := htmx.NewResponse().
		StatusCode(code).
		Reswap(htmx.SwapNone).
		AddTrigger(htmx.TriggerDetail(setErrorMessageEvent, err.Error())).
		Write(w); werr != nil {
		s.logger.Error("write htmx error response", zap.Int("status", code), zap.Error(werr))
	}
}

func quoteErrorStatus(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ratestore.ErrMarketNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type quoteRequest struct {
	Market      string             `json:"market" validate:"omitempty,max=64"`
	Costs       pricing.CostInputs `json:"costs"`
	LoadSize    string             `json:"load_size" validate:"required"`
	Region      string             `json:"region" validate:"required"`
	Adjustments []string           `json:"adjustments" validate:"omitempty,max=4,dive,required"`
}

// Bind satisfies [render.Binder].
func (q *quoteRequest) Bind(r *http.Request) error {
	return validate.Struct(q)
}

type quoteResponse struct {
	Market      string                 `json:"market"`
	LoadSize    ratetable.LoadSize     `json:"load_size"`
	Region      ratetable.Region       `json:"region"`
	Adjustments []ratetable.Adjustment `json:"adjustments"`
	Result      pricing.Result         `json:"result"`
	Margin      pricing.Health         `json:"margin_health"`
	Health      view.Style             `json:"health"`
	Breakdown   []pricing.Slice        `json:"breakdown"`
	Season      season.Month           `json:"season"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *server) renderAPIError(w http.ResponseWriter, r *http.Request, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var inputErr *pricing.InvalidInputError
	if errors.As(err, &inputErr) {
		resp.Field = inputErr.Field
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func (s *server) handleAPIQuote(w http.ResponseWriter, r *http.Request) {
	req := &quoteRequest{}
	if err := render.Bind(r, req); err != nil {
		s.renderAPIError(w, r, http.StatusBadRequest, err)
		return
	}

	job, err := pricing.ParseJobContext(req.LoadSize, req.Region, req.Adjustments)
	if err != nil {
		s.renderAPIError(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	market := req.Market
	if market == "" {
		market = s.defaultMarket
	}
	q, err := s.quote(market, req.Costs, job)
	if err != nil {
		status := quoteErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("api quote", zap.String("market", market), zap.Error(err))
		}
		s.renderAPIError(w, r, status, err)
		return
	}

	render.JSON(w, r, quoteResponse{
		Market:      market,
		LoadSize:    job.LoadSize,
		Region:      job.Region,
		Adjustments: job.Adjustments.Flags(),
		Result:      q.Result,
		Margin:      pricing.Classify(q.Result.MarginPercent),
		Health:      q.Style,
		Breakdown:   q.Breakdown,
		Season:      season.ForMonth(s.now().Month()),
	})
}

type marketsResponse struct {
	Default string   `json:"default"`
	Markets []string `json:"markets"`
}

func (s *server) handleAPIMarkets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, marketsResponse{Default: s.defaultMarket, Markets: s.catalog.Markets()})
}

type marketResponse struct {
	Market string         `json:"market"`
	Rates  ratetable.Spec `json:"rates"`
}

func (s *server) handleAPIMarket(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")
	t, err := s.tableFor(market)
	if err != nil {
		s.renderAPIError(w, r, http.StatusNotFound, err)
		return
	}
	render.JSON(w, r, marketResponse{Market: market, Rates: t.Spec()})
}

type seasonsResponse struct {
	Current season.Month   `json:"current"`
	Months  []season.Month `json:"months"`
}

func (s *server) handleAPISeasons(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, seasonsResponse{
		Current: season.ForMonth(s.now().Month()),
		Months:  season.Calendar(),
	})
}
