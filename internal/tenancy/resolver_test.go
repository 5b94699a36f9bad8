package tenancy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"guest-engage/internal/auth"
	"guest-engage/internal/model"
)

type fakeDirectory struct {
	byID   map[int64]*model.TenantContext
	bySlug map[string]*model.TenantContext
}

func newFakeDirectory(tenants ...*model.TenantContext) *fakeDirectory {
	d := &fakeDirectory{
		byID:   make(map[int64]*model.TenantContext),
		bySlug: make(map[string]*model.TenantContext),
	}
	for _, t := range tenants {
		d.byID[t.ID] = t
		d.bySlug[t.Slug] = t
	}
	return d
}

func (d *fakeDirectory) TenantByID(_ context.Context, id int64) (*model.TenantContext, error) {
	return d.byID[id], nil
}

func (d *fakeDirectory) TenantBySlug(_ context.Context, slug string) (*model.TenantContext, error) {
	return d.bySlug[slug], nil
}

var (
	grand = &model.TenantContext{ID: 1, Slug: "grand", Name: "Grand Hotel"}
	palm  = &model.TenantContext{ID: 2, Slug: "palm", Name: "Palm Resort"}
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	auth.SetSecret("test-secret")
	return NewResolver(newFakeDirectory(grand, palm), zap.NewNop(), "staywise.app", "X-Tenant-Slug")
}

func TestResolveIDClaimTakesPriorityOverSlugClaim(t *testing.T) {
	r := newTestResolver(t)

	// Token names tenant 1 by id but carries palm's slug; id wins.
	token, err := auth.GenerateToken(grand.ID, palm.Slug)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/guests", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	tc := r.Resolve(req)
	require.NotNil(t, tc)
	require.Equal(t, grand.ID, tc.ID)
}

func TestResolveFallsBackToSlugClaim(t *testing.T) {
	r := newTestResolver(t)

	token, err := auth.GenerateToken(0, palm.Slug)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/guests", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	tc := r.Resolve(req)
	require.NotNil(t, tc)
	require.Equal(t, palm.ID, tc.ID)
}

func TestResolveBadTokenFallsThroughToQueryParam(t *testing.T) {
	r := newTestResolver(t)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/auth/login?tenantSlug=grand", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	tc := r.Resolve(req)
	require.NotNil(t, tc, "the chain must survive an unparseable token")
	require.Equal(t, grand.ID, tc.ID)
}

func TestResolveUnknownClaimTenantFallsThrough(t *testing.T) {
	r := newTestResolver(t)

	token, err := auth.GenerateToken(99, "gone")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "http://palm.staywise.app/guests", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	tc := r.Resolve(req)
	require.NotNil(t, tc, "an unknown id/slug is a miss, not an error")
	require.Equal(t, palm.ID, tc.ID)
}

func TestResolveSubdomain(t *testing.T) {
	r := newTestResolver(t)

	req := httptest.NewRequest(http.MethodGet, "http://grand.staywise.app/portal", nil)
	tc := r.Resolve(req)
	require.NotNil(t, tc)
	require.Equal(t, grand.ID, tc.ID)

	// Port does not get in the way.
	req = httptest.NewRequest(http.MethodGet, "http://grand.staywise.app:8080/portal", nil)
	require.NotNil(t, r.Resolve(req))
}

func TestResolveReservedSubdomainsAreSkipped(t *testing.T) {
	r := newTestResolver(t)

	for _, host := range []string{"www.staywise.app", "api.staywise.app", "staywise.app", "other.example.com"} {
		req := httptest.NewRequest(http.MethodGet, "http://"+host+"/portal", nil)
		require.Nil(t, r.Resolve(req), "host %s must not resolve", host)
	}
}

func TestResolveOverrideHeaderLoopbackOnly(t *testing.T) {
	r := newTestResolver(t)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/portal", nil)
	req.Header.Set("X-Tenant-Slug", "palm")
	tc := r.Resolve(req)
	require.NotNil(t, tc)
	require.Equal(t, palm.ID, tc.ID)

	req = httptest.NewRequest(http.MethodGet, "http://127.0.0.1:8080/portal", nil)
	req.Header.Set("X-Tenant-Slug", "palm")
	require.NotNil(t, r.Resolve(req))

	// Anything public ignores the override.
	req = httptest.NewRequest(http.MethodGet, "http://example.com/portal", nil)
	req.Header.Set("X-Tenant-Slug", "palm")
	require.Nil(t, r.Resolve(req))
}

func TestResolveNothingMatches(t *testing.T) {
	r := newTestResolver(t)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/portal", nil)
	require.Nil(t, r.Resolve(req))
}
