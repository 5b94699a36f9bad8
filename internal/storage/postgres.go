// internal/storage/postgres.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"guest-engage/internal/model"
)

type Storage struct {
	DB *sql.DB
}

func NewStorage(dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &Storage{DB: db}, nil
}

// TenantByID implements tenancy.Directory. Unknown ids are a miss, not an
// error.
func (s *Storage) TenantByID(ctx context.Context, id int64) (*model.TenantContext, error) {
	return s.scanTenant(s.DB.QueryRowContext(ctx, `
		SELECT id, slug, name, plan_tier, theme_color, timezone, created_at
		FROM tenants
		WHERE id = $1
	`, id))
}

// TenantBySlug implements tenancy.Directory.
func (s *Storage) TenantBySlug(ctx context.Context, slug string) (*model.TenantContext, error) {
	return s.scanTenant(s.DB.QueryRowContext(ctx, `
		SELECT id, slug, name, plan_tier, theme_color, timezone, created_at
		FROM tenants
		WHERE slug = $1
	`, slug))
}

func (s *Storage) scanTenant(row *sql.Row) (*model.TenantContext, error) {
	var t model.TenantContext
	err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.PlanTier, &t.ThemeColor, &t.Timezone, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	return &t, nil
}

func (s *Storage) CreateTenant(ctx context.Context, t *model.TenantContext) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO tenants (slug, name, plan_tier, theme_color, timezone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.Slug, t.Name, t.PlanTier, t.ThemeColor, t.Timezone).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (s *Storage) ListTenants(ctx context.Context) ([]model.TenantContext, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, slug, name, plan_tier, theme_color, timezone, created_at
		FROM tenants
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []model.TenantContext
	for rows.Next() {
		var t model.TenantContext
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.PlanTier, &t.ThemeColor, &t.Timezone, &t.CreatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// CreateBooking exists for the reservation flow's write path and tests;
// the engagement core itself only reads bookings.
func (s *Storage) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO bookings (id, tenant_id, guest_phone, total_revenue_cents, is_staff, survey_opt_out, check_out_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, b.ID, b.TenantID, b.GuestPhone, b.TotalRevenueCents, b.IsStaff, b.SurveyOptOut, b.CheckOutAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (s *Storage) BookingByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, tenant_id, guest_phone, total_revenue_cents, is_staff, survey_opt_out, check_out_at
		FROM bookings
		WHERE id = $1
	`, id).Scan(&b.ID, &b.TenantID, &b.GuestPhone, &b.TotalRevenueCents, &b.IsStaff, &b.SurveyOptOut, &b.CheckOutAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return &b, nil
}

// ListBookings implements guestmetrics.BookingReader.
func (s *Storage) ListBookings(ctx context.Context, tenantID int64, phone string) ([]model.Booking, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, tenant_id, guest_phone, total_revenue_cents, is_staff, survey_opt_out, check_out_at
		FROM bookings
		WHERE tenant_id = $1 AND guest_phone = $2
		ORDER BY check_out_at
	`, tenantID, phone)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.TenantID, &b.GuestPhone, &b.TotalRevenueCents, &b.IsStaff, &b.SurveyOptOut, &b.CheckOutAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpsertSummary implements guestmetrics.SummaryStore. The stored row is
// overwritten with the freshly computed values, never added to.
func (s *Storage) UpsertSummary(ctx context.Context, sum model.GuestEngagementSummary) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO guest_engagement_summaries (tenant_id, guest_phone, total_stays, lifetime_value_cents, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, guest_phone)
		DO UPDATE SET total_stays = EXCLUDED.total_stays,
		              lifetime_value_cents = EXCLUDED.lifetime_value_cents,
		              updated_at = EXCLUDED.updated_at
	`, sum.TenantID, sum.GuestPhone, sum.TotalStays, sum.LifetimeValueCents, sum.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

// Summary implements guestmetrics.SummaryStore.
func (s *Storage) Summary(ctx context.Context, tenantID int64, phone string) (*model.GuestEngagementSummary, error) {
	var sum model.GuestEngagementSummary
	err := s.DB.QueryRowContext(ctx, `
		SELECT tenant_id, guest_phone, total_stays, lifetime_value_cents, updated_at
		FROM guest_engagement_summaries
		WHERE tenant_id = $1 AND guest_phone = $2
	`, tenantID, phone).Scan(&sum.TenantID, &sum.GuestPhone, &sum.TotalStays, &sum.LifetimeValueCents, &sum.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan summary: %w", err)
	}
	return &sum, nil
}
