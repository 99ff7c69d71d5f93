package handler

import (
	"errors"
	"net/http"

	"breathefree/internal/progress"
)

// HandleProgress returns the progress aggregate with derived savings and the
// milestones earned by the current streak.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	id, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	t, err := h.tracker(id, rec)
	if err != nil {
		h.logf("load progress for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not load progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"progress":   t.Data(),
		"milestones": t.Milestones(),
	})
}

// HandleProgressResisted logs a resisted craving from the dashboard's direct
// path.
func (h *Handler) HandleProgressResisted(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	t, err := h.tracker(id, rec)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "could not load progress")
		return
	}
	if err := t.RecordCravingResisted(r.Context()); err != nil {
		h.logf("record resisted for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not save progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"progress": t.Data()})
}

// HandleProgressRelapse logs a setback from the dashboard's direct path. The
// client confirms the action first; an unconfirmed request is rejected so a
// stray tap cannot reset the streak. Any active craving episode is abandoned
// so the slip is counted once.
func (h *Handler) HandleProgressRelapse(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	var in struct {
		Confirm bool `json:"confirm"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	if !in.Confirm {
		httpError(w, http.StatusBadRequest, "relapse must be confirmed")
		return
	}
	t, err := h.tracker(id, rec)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "could not load progress")
		return
	}
	msg, err := h.cravings.Session(id, t).LogSetback(r.Context())
	if err != nil {
		if errors.Is(err, progress.ErrRelapseInFlight) {
			httpError(w, http.StatusConflict, "a relapse is already being logged")
			return
		}
		h.logf("record relapse for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not save progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  msg,
		"progress": t.Data(),
	})
}

// HandleProgressCheckIn records a clean daily check-in, advancing the streak
// that drives milestones and savings.
func (h *Handler) HandleProgressCheckIn(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	t, err := h.tracker(id, rec)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "could not load progress")
		return
	}
	if err := t.RecordSmokeFreeDay(); err != nil {
		h.logf("record smoke-free day for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not save progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"progress":   t.Data(),
		"milestones": t.Milestones(),
	})
}

// HandleProgressTally records the actual cigarette count for a tapering plan
// day.
func (h *Handler) HandleProgressTally(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	var in struct {
		DayIndex int `json:"dayIndex"`
		Count    int `json:"count"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	t, err := h.tracker(id, rec)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "could not load progress")
		return
	}
	if err := t.RecordDailyTally(in.DayIndex, in.Count); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"progress": t.Data()})
}
