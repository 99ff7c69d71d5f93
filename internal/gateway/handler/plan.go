package handler

import (
	"net/http"

	"breathefree/internal/plan"
)

// HandlePlanToday returns the daily plan for today, indexed by days since the
// quit start and wrapping over the plan horizon.
func (h *Handler) HandlePlanToday(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	_, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	engine := plan.NewEngine(rec.Plan, rec.QuitStart)
	today, ok := engine.TodayPlan()
	if !ok {
		httpError(w, http.StatusNotFound, "no plan available")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dayIndex": engine.DayIndex(),
		"plan":     today,
	})
}

// HandlePlanWeekly returns the full plan horizon.
func (h *Handler) HandlePlanWeekly(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	_, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	engine := plan.NewEngine(rec.Plan, rec.QuitStart)
	writeJSON(w, http.StatusOK, map[string]any{
		"methodology": rec.Plan.Methodology,
		"dayIndex":    engine.DayIndex(),
		"dailyPlans":  engine.WeeklyView(),
	})
}
