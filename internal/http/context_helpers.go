package httpx

import (
	"context"

	domainauth "github.com/seclens/dashgate/internal/domain/auth"
)

// sessionKey is an unexported context key type for the authenticated session.
type sessionKey struct{}

// SetSessionInContext stores the authenticated session in the context.
// The strategy's authentication phase is the only writer.
func SetSessionInContext(ctx context.Context, sess *domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the authenticated session, or nil when the
// authentication phase reported the request unauthenticated.
func SessionFromContext(ctx context.Context) *domainauth.Session {
	if sess, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok {
		return sess
	}
	return nil
}

// tenantKey is an unexported context key type for the selected tenant.
type tenantKey struct{}

// SetTenantInContext stores the tenant selection in the context.
func SetTenantInContext(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenant)
}

// TenantFromContext returns the selected tenant, or empty string.
func TenantFromContext(ctx context.Context) string {
	if tenant, ok := ctx.Value(tenantKey{}).(string); ok {
		return tenant
	}
	return ""
}
