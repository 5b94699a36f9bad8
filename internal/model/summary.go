// internal/model/summary.go
package model

import "time"

// GuestEngagementSummary is a materialized aggregate over the booking
// ledger, keyed by (tenant, phone). It is always recomputed from scratch
// and overwritten, never incremented.
type GuestEngagementSummary struct {
	TenantID           int64     `db:"tenant_id" json:"tenant_id"`
	GuestPhone         string    `db:"guest_phone" json:"guest_phone"`
	TotalStays         int       `db:"total_stays" json:"total_stays"`
	LifetimeValueCents int64     `db:"lifetime_value_cents" json:"lifetime_value_cents"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
