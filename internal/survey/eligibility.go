// internal/survey/eligibility.go
package survey

import "guest-engage/internal/model"

// Eligible reports whether a completed stay should trigger a post-stay
// survey. Pure; no I/O. A stay is skipped when the guest opted out, the
// booking is a staff stay, or there is no phone number to send to.
func Eligible(b model.Booking) bool {
	if b.SurveyOptOut {
		return false
	}
	if b.IsStaff {
		return false
	}
	if b.GuestPhone == "" {
		return false
	}
	return true
}
