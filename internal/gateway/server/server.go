package server

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"breathefree/internal/gateway/handler"
	"breathefree/internal/gateway/middleware"
)

// Routes mounts every endpoint on a fresh mux.
func Routes(h *handler.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/onboarding/complete", h.HandleOnboardingComplete)

	mux.HandleFunc("/plan/today", h.HandlePlanToday)
	mux.HandleFunc("/plan/weekly", h.HandlePlanWeekly)

	mux.HandleFunc("/progress", h.HandleProgress)
	mux.HandleFunc("/progress/resisted", h.HandleProgressResisted)
	mux.HandleFunc("/progress/relapse", h.HandleProgressRelapse)
	mux.HandleFunc("/progress/checkin", h.HandleProgressCheckIn)
	mux.HandleFunc("/progress/tally", h.HandleProgressTally)

	mux.HandleFunc("/craving/sos", h.HandleCravingSOS)
	mux.HandleFunc("/craving/dismiss", h.HandleCravingDismiss)
	mux.HandleFunc("/craving/checkin", h.HandleCravingCheckIn)

	mux.HandleFunc("/chat/history", h.HandleChatHistory)
	mux.HandleFunc("/chat/send", h.HandleChatSend)
	mux.HandleFunc("/chat/ws", h.HandleChatWS)

	mux.HandleFunc("/subscription", h.HandleSubscription)
	mux.HandleFunc("/subscription/upgrade", h.HandleSubscriptionUpgrade)

	mux.HandleFunc("/account/reset", h.HandleAccountReset)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

// ListenAndServe runs the mux behind CORS on an h2c-capable listener.
func ListenAndServe(port string, mux *http.ServeMux) error {
	h := middleware.CORS(mux)
	return http.ListenAndServe(port, h2c.NewHandler(h, &http2.Server{}))
}
