package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Shobuki/gfchristmastwebsite/models"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// PrincipalContextKey is the key used to store the principal in the request context.
const PrincipalContextKey ContextKey = "principal"

// PrincipalType is the trust level a request was granted.
type PrincipalType string

const (
	// PrincipalAdmin identifies a personal admin session.
	PrincipalAdmin PrincipalType = "admin"
	// PrincipalPublic identifies the shared public token: a capability, not
	// a per-user identity.
	PrincipalPublic PrincipalType = "public"
)

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	Type  PrincipalType
	Admin *models.Admin // set when Type == PrincipalAdmin
}

func (p Principal) IsAdmin() bool {
	return p.Type == PrincipalAdmin && p.Admin != nil
}

// Authorizer is the per-request auth gate: it maps a bearer token (header or
// ?token= query parameter) to a principal, or denies.
type Authorizer struct {
	Sessions    repository.SessionRepository
	PublicToken string
}

// BearerToken extracts the token from the Authorization header, falling back
// to the token query parameter.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
			return parts[1]
		}
	}
	return r.URL.Query().Get("token")
}

// Authorize resolves the request's token. allowPublic grants the shared-token
// principal; otherwise only a live admin session passes.
func (a *Authorizer) Authorize(r *http.Request, allowPublic bool) (Principal, bool) {
	token := BearerToken(r)
	if token == "" {
		return Principal{}, false
	}
	if allowPublic && a.PublicToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(a.PublicToken)) == 1 {
		return Principal{Type: PrincipalPublic}, true
	}
	admin, err := a.Sessions.GetAdminByToken(token)
	if err != nil {
		return Principal{}, false
	}
	return Principal{Type: PrincipalAdmin, Admin: admin}, true
}

func (a *Authorizer) middleware(allowPublic bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := a.Authorize(r, allowPublic)
		if !ok {
			writeUnauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin guards mutation endpoints: only admin sessions pass.
func (a *Authorizer) RequireAdmin(next http.Handler) http.Handler {
	return a.middleware(false, next)
}

// AllowPublic guards viewer-facing endpoints: the shared public token or an
// admin session passes.
func (a *Authorizer) AllowPublic(next http.Handler) http.Handler {
	return a.middleware(true, next)
}

// PrincipalFromContext retrieves the principal stored by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(PrincipalContextKey).(Principal)
	return principal, ok
}
