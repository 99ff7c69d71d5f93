package profile

import "strings"

// Backfill values applied to incomplete onboarding profiles. These replace
// the scattered literals the onboarding screens used to invent on their own.
const (
	DefaultAge           = 30
	DefaultHeight        = 170.0
	DefaultActivityLevel = "Moderately Active"
	DefaultCigsPerPack   = 20
	DefaultPricePerPack  = 300.0
)

// WithDefaults returns a copy of the profile with missing biometric and
// pricing fields backfilled. Explicit values always win.
func (p Profile) WithDefaults() Profile {
	if p.Biometrics.Age <= 0 {
		p.Biometrics.Age = DefaultAge
	}
	if p.Biometrics.Height <= 0 {
		p.Biometrics.Height = DefaultHeight
	}
	if strings.TrimSpace(p.Biometrics.ActivityLevel) == "" {
		p.Biometrics.ActivityLevel = DefaultActivityLevel
	}
	if p.Pricing.CigsPerPack <= 0 {
		p.Pricing.CigsPerPack = DefaultCigsPerPack
	}
	if p.Pricing.PricePerPack <= 0 {
		p.Pricing.PricePerPack = DefaultPricePerPack
	}
	return p
}
