package main

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Simplici0/haulquote/internal/ratestore"
	"github.com/Simplici0/haulquote/internal/ratetable"
	"github.com/Simplici0/haulquote/internal/view"
)

const requestIDHeader = "X-Request-ID"

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"calculator.html", "admin_rates.html", "admin_markets.html"}

type server struct {
	store         *ratestore.Store
	catalog       *ratetable.Catalog
	logger        *zap.Logger
	defaultMarket string
	templates     map[string]*template.Template
	now           func() time.Time
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

func newServer(store *ratestore.Store, catalog *ratetable.Catalog, logger *zap.Logger, defaultMarket string) (*server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &server{
		store:         store,
		catalog:       catalog,
		logger:        logger,
		defaultMarket: defaultMarket,
		templates:     templates,
		now:           time.Now,
	}, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"money":           view.Money,
		"wholeMoney":      view.WholeMoney,
		"percent":         view.Percent,
		"loadSizeLabel":   view.LoadSizeLabel,
		"regionLabel":     view.RegionLabel,
		"adjustmentLabel": view.AdjustmentLabel,
	}

	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/result.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		out[page] = t
	}
	return out, nil
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	s.renderNamed(w, page, "layout.html", data)
}

func (s *server) renderNamed(w http.ResponseWriter, page, name string, data any) {
	templates, ok := s.templates[page]
	if !ok {
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("render template", zap.String("page", page), zap.String("name", name), zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

// requestID tags every request with an id, reusing one supplied by a proxy.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("request_id", r.Header.Get(requestIDHeader)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
