package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"guest-engage/internal/metrics"
	"guest-engage/internal/model"
	"guest-engage/internal/tenancy"
)

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(a.Tenancy.Handler)

	// Exempt from tenant resolution (skip_resolve_prefixes)
	r.Get("/healthz", a.Health)
	r.Handle("/metrics", metrics.Handler())
	r.Mount("/swagger", httpSwagger.WrapHandler)
	r.Post("/webhooks/booking-completed", a.BookingCompletedWebhook)
	r.Post("/admin/tenants", a.CreateTenant)
	r.Delete("/admin/tenants/{id}", a.DeleteTenant)

	// Tenant-scoped
	r.Get("/guests/{phone}/summary", a.GuestSummary)
	r.Post("/bookings/{id}/complete", a.CompleteBooking)

	return r
}

// @Summary Liveness check
// @Tags Ops
// @Success 200
// @Router /healthz [get]
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type createTenantRequest struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	PlanTier   string `json:"plan_tier"`
	ThemeColor string `json:"theme_color"`
	Timezone   string `json:"timezone"`
}

// @Summary Create a tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Param body body createTenantRequest true "Tenant"
// @Success 200 {object} model.TenantContext
// @Router /admin/tenants [post]
func (a *API) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var body createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if body.Slug == "" || body.Name == "" {
		http.Error(w, "slug and name are required", http.StatusBadRequest)
		return
	}

	tc := &model.TenantContext{
		Slug:       body.Slug,
		Name:       body.Name,
		PlanTier:   body.PlanTier,
		ThemeColor: body.ThemeColor,
		Timezone:   body.Timezone,
	}
	if err := a.Storage.CreateTenant(r.Context(), tc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := a.Manager.AddTenant(tc.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	a.Log.Info("tenant created", zap.Int64("tenant_id", tc.ID), zap.String("slug", tc.Slug))
	json.NewEncoder(w).Encode(tc)
}

// @Summary Delete a tenant
// @Tags Tenants
// @Param id path int true "Tenant ID"
// @Success 204
// @Router /admin/tenants/{id} [delete]
func (a *API) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid tenant id", http.StatusBadRequest)
		return
	}

	_ = a.Manager.RemoveTenant(id)

	a.Log.Info("tenant deleted", zap.Int64("tenant_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// webhookEvent resolves its tenant out-of-band: reservation systems calling
// back here are not tenant-scoped requests.
type webhookEvent struct {
	TenantID  int64     `json:"tenant_id"`
	BookingID uuid.UUID `json:"booking_id"`
}

// @Summary Booking-completed callback from the reservation subsystem
// @Tags Bookings
// @Accept json
// @Param body body webhookEvent true "Event"
// @Success 202
// @Router /webhooks/booking-completed [post]
func (a *API) BookingCompletedWebhook(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if event.TenantID == 0 || event.BookingID == uuid.Nil {
		http.Error(w, "tenant_id and booking_id are required", http.StatusBadRequest)
		return
	}

	if err := a.Rabbit.PublishBookingCompleted(event.TenantID, event.BookingID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// @Summary Mark a booking complete and trigger engagement processing
// @Tags Bookings
// @Security ApiKeyAuth
// @Param id path string true "Booking UUID"
// @Success 202
// @Router /bookings/{id}/complete [post]
func (a *API) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	tc := tenancy.FromContext(r.Context())
	if tc == nil {
		http.Error(w, "tenant not found", http.StatusNotFound)
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}

	booking, err := a.Storage.BookingByID(r.Context(), bookingID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if booking == nil || booking.TenantID != tc.ID {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}

	if err := a.Rabbit.PublishBookingCompleted(tc.ID, bookingID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// @Summary Guest engagement summary
// @Tags Guests
// @Security ApiKeyAuth
// @Produce json
// @Param phone path string true "Guest phone number"
// @Success 200 {object} model.GuestEngagementSummary
// @Failure 404 "No aggregation has run for this guest"
// @Router /guests/{phone}/summary [get]
func (a *API) GuestSummary(w http.ResponseWriter, r *http.Request) {
	tc := tenancy.FromContext(r.Context())
	if tc == nil {
		http.Error(w, "tenant not found", http.StatusNotFound)
		return
	}

	phone := chi.URLParam(r, "phone")
	summary, err := a.Aggregator.Get(r.Context(), tc.ID, phone)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if summary == nil {
		http.Error(w, "no summary for guest", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(summary)
}
