package profilestore

import (
	"time"

	"breathefree/internal/plan"
	"breathefree/internal/profile"
	"breathefree/internal/subscription"
)

// Record is the per-account onboarding outcome: the immutable profile, the
// generated plan, the quit start date, and the access state. It is written
// once at onboarding completion and replaced whole on change.
type Record struct {
	UserID       string                    `json:"user_id"`
	Profile      profile.Profile           `json:"profile"`
	Plan         plan.QuitPlan             `json:"plan"`
	QuitStart    time.Time                 `json:"quit_start"`
	Subscription subscription.Subscription `json:"subscription"`
}
