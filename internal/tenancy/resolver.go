// internal/tenancy/resolver.go
package tenancy

import (
	"context"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"guest-engage/internal/auth"
	"guest-engage/internal/metrics"
	"guest-engage/internal/model"
)

// Directory resolves tenants against the tenant store. Unknown ids and
// slugs return nil, nil — a miss, not an error.
type Directory interface {
	TenantByID(ctx context.Context, id int64) (*model.TenantContext, error)
	TenantBySlug(ctx context.Context, slug string) (*model.TenantContext, error)
}

// QueryParam carries a tenant slug on pre-authentication flows (login).
const QueryParam = "tenantSlug"

// Subdomains that never name a tenant.
var reservedSubdomains = map[string]bool{
	"www": true,
	"api": true,
}

type strategy struct {
	name    string
	resolve func(*http.Request) *model.TenantContext
}

// Resolver maps one inbound request to a TenantContext by trying its
// strategies in fixed priority order. The first hit wins; nothing is merged.
type Resolver struct {
	dir Directory
	log *zap.Logger

	publicSuffix   string
	overrideHeader string

	strategies []strategy
}

func NewResolver(dir Directory, log *zap.Logger, publicSuffix, overrideHeader string) *Resolver {
	r := &Resolver{
		dir:            dir,
		log:            log,
		publicSuffix:   publicSuffix,
		overrideHeader: overrideHeader,
	}
	r.strategies = []strategy{
		{"claim", r.fromClaims},
		{"query", r.fromQueryParam},
		{"subdomain", r.fromSubdomain},
		{"header", r.fromOverrideHeader},
	}
	return r
}

// Resolve returns the owning tenant, or nil when no strategy matched.
// Strategy failures of any kind degrade to a miss so the chain keeps going.
func (r *Resolver) Resolve(req *http.Request) *model.TenantContext {
	for _, s := range r.strategies {
		tc := r.tryStrategy(s, req)
		if tc != nil {
			metrics.TenantResolutions.WithLabelValues(s.name, "hit").Inc()
			return tc
		}
		metrics.TenantResolutions.WithLabelValues(s.name, "miss").Inc()
	}
	return nil
}

// tryStrategy shields the chain from a misbehaving strategy: a panic in a
// lookup degrades to "no tenant from this strategy".
func (r *Resolver) tryStrategy(s strategy, req *http.Request) (tc *model.TenantContext) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("tenant strategy panicked",
				zap.String("strategy", s.name), zap.Any("panic", rec))
			tc = nil
		}
	}()
	return s.resolve(req)
}

// fromClaims prefers the numeric tenant-id claim and falls back to the slug
// claim. Invalid or absent tokens fall through silently.
func (r *Resolver) fromClaims(req *http.Request) *model.TenantContext {
	header := req.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}

	claims := auth.ReadClaims(strings.TrimPrefix(header, "Bearer "))
	if claims == nil {
		r.log.Debug("unparseable bearer token", zap.String("path", req.URL.Path))
		return nil
	}

	if claims.TenantID > 0 {
		if tc := r.lookupByID(req.Context(), claims.TenantID); tc != nil {
			return tc
		}
	}
	if claims.TenantSlug != "" {
		return r.lookupBySlug(req.Context(), claims.TenantSlug)
	}
	return nil
}

func (r *Resolver) fromQueryParam(req *http.Request) *model.TenantContext {
	slug := req.URL.Query().Get(QueryParam)
	if slug == "" {
		return nil
	}
	return r.lookupBySlug(req.Context(), slug)
}

func (r *Resolver) fromSubdomain(req *http.Request) *model.TenantContext {
	if r.publicSuffix == "" {
		return nil
	}

	host := hostWithoutPort(req.Host)
	suffix := "." + r.publicSuffix
	if !strings.HasSuffix(host, suffix) {
		return nil
	}

	sub := strings.TrimSuffix(host, suffix)
	if sub == "" || strings.Contains(sub, ".") || reservedSubdomains[sub] {
		return nil
	}
	return r.lookupBySlug(req.Context(), sub)
}

// fromOverrideHeader honors the development override header, loopback only.
func (r *Resolver) fromOverrideHeader(req *http.Request) *model.TenantContext {
	slug := req.Header.Get(r.overrideHeader)
	if slug == "" || !isLoopbackHost(req.Host) {
		return nil
	}
	return r.lookupBySlug(req.Context(), slug)
}

func (r *Resolver) lookupByID(ctx context.Context, id int64) *model.TenantContext {
	tc, err := r.dir.TenantByID(ctx, id)
	if err != nil {
		r.log.Warn("tenant lookup by id failed", zap.Int64("tenant_id", id), zap.Error(err))
		return nil
	}
	return tc
}

func (r *Resolver) lookupBySlug(ctx context.Context, slug string) *model.TenantContext {
	tc, err := r.dir.TenantBySlug(ctx, slug)
	if err != nil {
		r.log.Warn("tenant lookup by slug failed", zap.String("slug", slug), zap.Error(err))
		return nil
	}
	return tc
}

func hostWithoutPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func isLoopbackHost(host string) bool {
	h := hostWithoutPort(host)
	if h == "localhost" {
		return true
	}
	ip := net.ParseIP(h)
	return ip != nil && ip.IsLoopback()
}
