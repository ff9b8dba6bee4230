package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/core"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
	"github.com/go-chi/chi/v5"
)

// Handler holds the dependencies of the HTTP endpoints.
type Handler struct {
	baseCfg *contract.Config
	planner contract.Planner
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes {"error": message, "kind": kind}.
func Error(w http.ResponseWriter, status int, kind, message string) {
	body := map[string]string{"error": message}
	if kind != "" {
		body["kind"] = kind
	}
	JSON(w, status, body)
}

// StatusFor maps a planner error to an HTTP status.
func StatusFor(err error) int {
	switch core.KindOf(err) {
	case core.KindInvalidRange:
		return http.StatusBadRequest
	case core.KindInsufficientHistory:
		return http.StatusUnprocessableEntity
	case core.KindModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail reports a planner error by kind and message. Causes are only logged.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	kind, msg := core.Describe(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "id", RequestIDFrom(r.Context()), "path", r.URL.Path, "error", err)
		Error(w, status, string(kind), "internal error")
		return
	}
	logger.Debug("request rejected", "id", RequestIDFrom(r.Context()), "path", r.URL.Path, "error", err)
	Error(w, status, string(kind), msg)
}

func badRequest(w http.ResponseWriter, format string, args ...any) {
	Error(w, http.StatusBadRequest, string(core.KindInvalidRange), fmt.Sprintf(format, args...))
}

// queryInt reads an integer query parameter, def when absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// queryFloat reads a float query parameter, def when absent.
func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

// ServeForecast handles GET /users/{userID}/forecast.
func (h *Handler) ServeForecast(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", h.baseCfg.HorizonDays)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	if days < 1 || days > contract.MaxHorizonDays {
		badRequest(w, "days must be between 1 and %d", contract.MaxHorizonDays)
		return
	}

	result, err := h.planner.Forecast(r.Context(), chi.URLParam(r, "userID"), days)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, result)
}

// ServePlan handles GET /users/{userID}/plan.
func (h *Handler) ServePlan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := schema.ParseDate(q.Get("start"))
	if err != nil {
		badRequest(w, "invalid start: %v", err)
		return
	}
	end, err := schema.ParseDate(q.Get("end"))
	if err != nil {
		badRequest(w, "invalid end: %v", err)
		return
	}
	target, err := queryFloat(r, "target_hours", h.baseCfg.TargetHours)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}

	plan, err := h.planner.Plan(r.Context(), chi.URLParam(r, "userID"), start, end, target)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, plan)
}

// ServeExplain handles GET /users/{userID}/explain.
func (h *Handler) ServeExplain(w http.ResponseWriter, r *http.Request) {
	top, err := queryInt(r, "top", h.baseCfg.Top)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}

	explanation, err := h.planner.Explain(r.Context(), chi.URLParam(r, "userID"), contract.ClampExplainTop(top))
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, explanation)
}

// ServeBudget handles GET /users/{userID}/budget.
func (h *Handler) ServeBudget(w http.ResponseWriter, r *http.Request) {
	period := schema.Period(strings.ToLower(r.URL.Query().Get("period")))
	if period == "" {
		period = schema.WeekPeriod
	}
	if _, ok := schema.ValidPeriods[period]; !ok {
		badRequest(w, "invalid period '%s'. must be day, week", period)
		return
	}
	target, err := queryFloat(r, "target_hours", h.baseCfg.TargetHours)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}

	budget, err := h.planner.Budget(r.Context(), chi.URLParam(r, "userID"), period, target)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, budget)
}
