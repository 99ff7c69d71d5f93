package handler

import "net/http"

// HandleSubscription returns the subscription with derived trial state.
// Lapsed trials are downgraded to free here and the downgrade is persisted,
// so a stale trial row never reads as anything but free.
func (h *Handler) HandleSubscription(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	id, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	now := h.now()
	if expired := rec.Subscription.Expire(now); expired != rec.Subscription {
		rec.Subscription = expired
		if err := h.profiles.Put(rec); err != nil {
			h.logf("save expired trial for %s: %v", id, err)
			httpError(w, http.StatusInternalServerError, "could not save subscription")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subscription":       rec.Subscription,
		"active":             rec.Subscription.Active(now),
		"trialDaysRemaining": rec.Subscription.TrialDaysRemaining(now),
	})
}

// HandleSubscriptionUpgrade moves the account to premium.
func (h *Handler) HandleSubscriptionUpgrade(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	rec.Subscription = rec.Subscription.Upgrade()
	if err := h.profiles.Put(rec); err != nil {
		h.logf("save upgrade for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not save subscription")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subscription": rec.Subscription})
}
