package handler

import (
	"errors"
	"net/http"

	"breathefree/internal/plangen"
	"breathefree/internal/profile"
	"breathefree/internal/progress"
	"breathefree/internal/repository/profilestore"
	"breathefree/internal/subscription"
)

// HandleOnboardingComplete finishes onboarding: fill profile defaults,
// generate the personalized plan, start the trial, and initialize progress.
// Failed generation leaves the account untouched so the client can retry.
func (h *Handler) HandleOnboardingComplete(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id := h.userID(r)
	if id == "" {
		httpError(w, http.StatusBadRequest, "user id is required")
		return
	}

	var p profile.Profile
	if !readJSON(w, r, &p) {
		return
	}
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.plans.Generate(r.Context(), p)
	if err != nil {
		var genErr *plangen.GenerationError
		if errors.As(err, &genErr) {
			h.logf("plan generation for %s: %v", id, err)
			httpError(w, http.StatusBadGateway, "Could not generate your personalized quit plan. Please try again.")
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := h.now()
	rec := profilestore.Record{
		UserID:       id,
		Profile:      p,
		Plan:         plan,
		QuitStart:    now,
		Subscription: subscription.NewTrial(now, h.trialDays),
	}
	if err := h.profiles.Put(rec); err != nil {
		h.logf("save record for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not save account")
		return
	}

	data := progress.NewData(p.QuitMethodology, p.SmokingProfile.CigsPerDay, plan.Horizon())
	if err := h.progresses.Save(id, data); err != nil {
		h.logf("init progress for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not initialize progress")
		return
	}

	// A repeated onboarding replaces any cached runtime for the account.
	h.dropRuntime(id)

	writeJSON(w, http.StatusOK, map[string]any{
		"profile":      p,
		"plan":         plan,
		"subscription": rec.Subscription,
		"progress":     data,
		"quitStart":    rec.QuitStart,
	})
}
