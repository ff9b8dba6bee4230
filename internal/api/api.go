// Package api serves forecasts, plans, explanations and budgets over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// requestTimeout bounds a single request, including model evaluation and store reads.
const requestTimeout = 30 * time.Second

// Routes returns the router with all endpoints.
//
//   - GET /healthz
//   - GET /users/{userID}/forecast?days=7
//   - GET /users/{userID}/plan?start=YYYY-MM-DD&end=YYYY-MM-DD&target_hours=20
//   - GET /users/{userID}/explain?top=8
//   - GET /users/{userID}/budget?period=week&target_hours=20
func Routes(baseCfg *contract.Config, planner contract.Planner) chi.Router {
	h := &Handler{baseCfg: baseCfg, planner: planner}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/users/{userID}", func(ur chi.Router) {
		ur.Get("/forecast", h.ServeForecast)
		ur.Get("/plan", h.ServePlan)
		ur.Get("/explain", h.ServeExplain)
		ur.Get("/budget", h.ServeBudget)
	})
	return r
}

// Server is the HTTP front of a planner.
type Server struct {
	srv *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(addr string, baseCfg *contract.Config, planner contract.Planner) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           Routes(baseCfg, planner),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("http server shutting down", "addr", s.srv.Addr)
		return s.srv.Shutdown(shutdownCtx)
	}
}
