// Package handler exposes the app's engineering core over HTTP. Each account
// is identified by the X-User-ID header (user_id query parameter for
// websocket clients).
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"breathefree/internal/coach"
	"breathefree/internal/craving"
	"breathefree/internal/llmclient"
	"breathefree/internal/plangen"
	"breathefree/internal/progress"
	"breathefree/internal/repository/chatstore"
	"breathefree/internal/repository/export"
	"breathefree/internal/repository/profilestore"
	"breathefree/internal/repository/progressstore"
)

type Handler struct {
	profiles   *profilestore.Store
	progresses *progressstore.Store
	chats      *chatstore.Store
	plans      *plangen.Client
	coach      *coach.Coach
	chatLLM    llmclient.Client
	cravings   *craving.Manager
	exports    export.Store
	trialDays  int
	logger     *log.Logger
	now        func() time.Time

	mu       sync.Mutex
	trackers map[string]*progress.Tracker
	sessions map[string]*coach.Session
}

type Deps struct {
	Profiles   *profilestore.Store
	Progresses *progressstore.Store
	Chats      *chatstore.Store
	Plans      *plangen.Client
	Coach      *coach.Coach
	ChatLLM    llmclient.Client
	Cravings   *craving.Manager
	Exports    export.Store
	TrialDays  int
	Logger     *log.Logger
}

func New(d Deps) *Handler {
	trialDays := d.TrialDays
	if trialDays <= 0 {
		trialDays = 7
	}
	return &Handler{
		profiles:   d.Profiles,
		progresses: d.Progresses,
		chats:      d.Chats,
		plans:      d.Plans,
		coach:      d.Coach,
		chatLLM:    d.ChatLLM,
		cravings:   d.Cravings,
		exports:    d.Exports,
		trialDays:  trialDays,
		logger:     d.Logger,
		now:        time.Now,
		trackers:   make(map[string]*progress.Tracker),
		sessions:   make(map[string]*coach.Session),
	}
}

func (h *Handler) userID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("user_id"))
}

// loadRecord resolves the account's onboarding record or writes the error
// response itself. The bool reports whether the caller may proceed.
func (h *Handler) loadRecord(w http.ResponseWriter, r *http.Request) (string, profilestore.Record, bool) {
	id := h.userID(r)
	if id == "" {
		httpError(w, http.StatusBadRequest, "user id is required")
		return "", profilestore.Record{}, false
	}
	rec, ok, err := h.profiles.Get(id)
	if err != nil {
		h.logf("load record for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not load account")
		return "", profilestore.Record{}, false
	}
	if !ok {
		httpError(w, http.StatusNotFound, "account has not completed onboarding")
		return "", profilestore.Record{}, false
	}
	return id, rec, true
}

// tracker returns the account's progress tracker, rehydrating it from the
// store on first use after a restart.
func (h *Handler) tracker(userID string, rec profilestore.Record) (*progress.Tracker, error) {
	h.mu.Lock()
	if t, ok := h.trackers[userID]; ok {
		h.mu.Unlock()
		return t, nil
	}
	h.mu.Unlock()

	d, ok, err := h.progresses.Get(userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		d = progress.NewData(rec.Profile.QuitMethodology, rec.Profile.SmokingProfile.CigsPerDay, rec.Plan.Horizon())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.trackers[userID]; ok {
		return t, nil
	}
	t := progress.NewTracker(userID, rec.Profile, d, h.coach, h.progresses)
	h.trackers[userID] = t
	return t, nil
}

func (h *Handler) session(userID string) (*coach.Session, error) {
	h.mu.Lock()
	if s, ok := h.sessions[userID]; ok {
		h.mu.Unlock()
		return s, nil
	}
	h.mu.Unlock()

	s, err := coach.OpenSession(userID, h.chatLLM, h.chats, h.logger)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.sessions[userID]; ok {
		return existing, nil
	}
	h.sessions[userID] = s
	return s, nil
}

func (h *Handler) dropRuntime(userID string) {
	h.mu.Lock()
	delete(h.trackers, userID)
	delete(h.sessions, userID)
	h.mu.Unlock()
	h.cravings.Drop(userID)
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func httpError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}
