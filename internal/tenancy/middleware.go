// internal/tenancy/middleware.go
package tenancy

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"guest-engage/internal/model"
)

type contextKey struct{}

var tenantKey contextKey

// Middleware attaches the resolved tenant to the request context before any
// handler runs, and rejects tenant-required requests that resolve to
// nothing. Two independent prefix lists drive it:
//
//   - skipResolve: never attempt resolution (health checks, metrics,
//     webhooks that carry their tenant out-of-band, admin routes);
//   - tenantOptional: resolution runs, but a miss is tolerated
//     (pre-authentication flows).
type Middleware struct {
	resolver       *Resolver
	log            *zap.Logger
	skipResolve    []string
	tenantOptional []string
}

func NewMiddleware(resolver *Resolver, log *zap.Logger, skipResolve, tenantOptional []string) *Middleware {
	return &Middleware{
		resolver:       resolver,
		log:            log,
		skipResolve:    skipResolve,
		tenantOptional: tenantOptional,
	}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasPrefix(r.URL.Path, m.skipResolve) {
			next.ServeHTTP(w, r)
			return
		}

		tc := m.resolver.Resolve(r)
		if tc == nil {
			if hasPrefix(r.URL.Path, m.tenantOptional) {
				next.ServeHTTP(w, r)
				return
			}

			m.log.Warn("no tenant for request",
				zap.String("host", r.Host), zap.String("path", r.URL.Path))
			http.Error(w, "tenant not found", http.StatusNotFound)
			return
		}

		ctx := context.WithValue(r.Context(), tenantKey, tc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext extracts the tenant attached by the middleware, nil when the
// request has none (exempt paths).
func FromContext(ctx context.Context) *model.TenantContext {
	tc, _ := ctx.Value(tenantKey).(*model.TenantContext)
	return tc
}

// WithTenant is for tests and out-of-band flows that already know the tenant.
func WithTenant(ctx context.Context, tc *model.TenantContext) context.Context {
	return context.WithValue(ctx, tenantKey, tc)
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
