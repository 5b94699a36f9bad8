// internal/model/tenant.go
package model

import "time"

// TenantContext identifies the hotel that owns a request. It is resolved
// once per request and never mutated afterwards.
type TenantContext struct {
	ID         int64  `db:"id" json:"id"`
	Slug       string `db:"slug" json:"slug"`
	Name       string `db:"name" json:"name"`
	PlanTier   string `db:"plan_tier" json:"plan_tier"`
	ThemeColor string `db:"theme_color" json:"theme_color"`
	Timezone   string `db:"timezone" json:"timezone"`

	CreatedAt time.Time `db:"created_at" json:"-"`
}
