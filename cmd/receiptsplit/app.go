package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/receiptsplit/internal/auth"
	"github.com/mmynk/receiptsplit/internal/config"
	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/metrics"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/preferences"
	"github.com/mmynk/receiptsplit/internal/sanitizer"
	"github.com/mmynk/receiptsplit/internal/service"
	"github.com/mmynk/receiptsplit/internal/storage"
	"github.com/mmynk/receiptsplit/internal/storage/sqlite"
)

// app holds the long-lived components shared by the commands.
type app struct {
	cfg        *config.Config
	store      storage.Store
	prefs      *preferences.Store
	metrics    *metrics.Metrics
	gemini     *extraction.GeminiExtractor
	extraction *extraction.Service
	jwt        *auth.JWTManager
}

func newApp(cfg *config.Config) (*app, error) {
	store, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Info("Storage initialized", "database", cfg.Storage.Path)

	a := &app{
		cfg:   cfg,
		store: store,
		prefs: preferences.NewStore(cfg.Preferences.Path),
	}
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New()
	}

	catalog := extraction.DefaultCatalog()
	a.gemini = extraction.NewGeminiExtractor(cfg.Gemini.APIKey, catalog)
	a.extraction = extraction.NewService(a.gemini,
		extraction.WithCatalog(catalog),
		extraction.WithSanitizer(sanitizer.New(sanitizer.Options{
			RoundOffThreshold: cfg.Sanitizer.RoundOffThreshold,
			Epsilon:           cfg.Sanitizer.Epsilon,
		})),
		extraction.WithPreferences(a.prefs),
		extraction.WithMetrics(a.metrics),
		extraction.WithTimeout(cfg.GeminiTimeout()),
	)
	if cfg.Gemini.APIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set, receipt scanning is disabled")
	}

	if cfg.Auth.Secret != "" {
		a.jwt, err = auth.NewJWTManager(cfg.Auth.Secret, cfg.TokenTTL())
		if err != nil {
			store.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.gemini.Close(); err != nil {
		slog.Warn("Failed to close Gemini client", "error", err)
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}

// router serves the connect services, the REST upload and model routes and
// the metrics endpoint. API routes require a bearer token when a secret is
// configured.
func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS)

	var interceptors []connect.Interceptor
	if a.jwt != nil {
		interceptors = append(interceptors, middleware.RequireAuth(a.jwt))
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor(a.metrics))
	opts := connect.WithInterceptors(interceptors...)

	r.Mount(service.NewPeopleServiceHandler(service.NewPeopleService(a.store), opts))
	r.Mount(service.NewReceiptServiceHandler(service.NewReceiptService(a.store), opts))
	r.Mount(service.NewSplitServiceHandler(service.NewSplitService(a.store), opts))
	r.Mount(service.NewModelServiceHandler(service.NewModelService(a.extraction, a.prefs), opts))

	r.Route("/api", func(r chi.Router) {
		if a.jwt != nil {
			r.Use(middleware.RequireAuthHTTP(a.jwt))
		}
		service.NewOCRHandlers(a.extraction, a.prefs, a.cfg.MaxUploadBytes()).Routes(r)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if a.metrics != nil {
		r.Handle("/metrics", a.metrics.Handler())
	}
	return r
}
