package handler

import (
	"errors"
	"net/http"

	"breathefree/internal/craving"
	"breathefree/internal/progress"
)

// HandleCravingSOS opens an SOS episode and returns the urge-surfing
// exercise.
func (h *Handler) HandleCravingSOS(w http.ResponseWriter, r *http.Request) {
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
	s := h.cravings.Session(id, t)
	text, err := s.StartSOS(r.Context())
	if err != nil {
		if errors.Is(err, craving.ErrNotIdle) {
			httpError(w, http.StatusConflict, "an sos flow is already active")
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"intervention": text,
		"state":        s.State(),
	})
}

// HandleCravingDismiss closes the intervention and starts the cooldown. The
// check-in surfaces once the cooldown elapses.
func (h *Handler) HandleCravingDismiss(w http.ResponseWriter, r *http.Request) {
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
	s := h.cravings.Session(id, t)
	if err := s.Dismiss(); err != nil {
		if errors.Is(err, craving.ErrNoIntervention) {
			httpError(w, http.StatusConflict, "no intervention to dismiss")
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": s.State()})
}

// HandleCravingCheckIn answers the post-cooldown check-in. Resisted cravings
// bump the counter; relapses reset the streak and return a coach message.
func (h *Handler) HandleCravingCheckIn(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	var in struct {
		Resisted bool `json:"resisted"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	t, err := h.tracker(id, rec)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "could not load progress")
		return
	}
	s := h.cravings.Session(id, t)

	if in.Resisted {
		if err := s.ResolveResisted(r.Context()); err != nil {
			h.checkInError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"state":    s.State(),
			"progress": t.Data(),
		})
		return
	}

	msg, err := s.ResolveRelapsed(r.Context())
	if err != nil {
		h.checkInError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    s.State(),
		"message":  msg,
		"progress": t.Data(),
	})
}

func (h *Handler) checkInError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, craving.ErrNotCheckIn):
		httpError(w, http.StatusConflict, "no check-in pending")
	case errors.Is(err, progress.ErrRelapseInFlight):
		httpError(w, http.StatusConflict, "a relapse is already being logged")
	default:
		httpError(w, http.StatusInternalServerError, err.Error())
	}
}
