package subscription

import (
	"errors"
	"math"
	"time"
)

// Status gates feature visibility. Wire values are part of the stored record.
type Status string

const (
	Free    Status = "free"
	Trial   Status = "trial"
	Premium Status = "premium"
)

// Subscription is the small access-state machine. Trial always carries an
// end date; remaining trial days are computed, never stored.
type Subscription struct {
	Status  Status     `json:"status"`
	EndDate *time.Time `json:"endDate,omitempty"`
}

var ErrTrialWithoutEnd = errors.New("subscription: trial requires an end date")

// NewTrial starts a trial of the given length from now.
func NewTrial(now time.Time, days int) Subscription {
	end := now.AddDate(0, 0, days)
	return Subscription{Status: Trial, EndDate: &end}
}

// Validate enforces the trial end-date invariant.
func (s Subscription) Validate() error {
	if s.Status == Trial && s.EndDate == nil {
		return ErrTrialWithoutEnd
	}
	return nil
}

// TrialDaysRemaining computes days left on a trial, counting a partial day
// as a full one; zero for expired trials and for non-trial statuses.
func (s Subscription) TrialDaysRemaining(now time.Time) int {
	if s.Status != Trial || s.EndDate == nil {
		return 0
	}
	d := int(math.Ceil(s.EndDate.Sub(now).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// Active reports whether premium features are available: premium always,
// trial until its end date.
func (s Subscription) Active(now time.Time) bool {
	switch s.Status {
	case Premium:
		return true
	case Trial:
		return s.EndDate != nil && now.Before(*s.EndDate)
	default:
		return false
	}
}

// Upgrade moves any status to premium.
func (s Subscription) Upgrade() Subscription {
	return Subscription{Status: Premium}
}

// Expire downgrades a lapsed trial to free; other statuses are unchanged.
func (s Subscription) Expire(now time.Time) Subscription {
	if s.Status == Trial && !s.Active(now) {
		return Subscription{Status: Free}
	}
	return s
}
