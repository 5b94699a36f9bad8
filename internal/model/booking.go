// internal/model/booking.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking is owned by the reservation subsystem; this service only reads it.
type Booking struct {
	ID                uuid.UUID `db:"id" json:"id"`
	TenantID          int64     `db:"tenant_id" json:"tenant_id"`
	GuestPhone        string    `db:"guest_phone" json:"guest_phone"`
	TotalRevenueCents int64     `db:"total_revenue_cents" json:"total_revenue_cents"`
	IsStaff           bool      `db:"is_staff" json:"is_staff"`
	SurveyOptOut      bool      `db:"survey_opt_out" json:"survey_opt_out"`
	CheckOutAt        time.Time `db:"check_out_at" json:"check_out_at"`
}
