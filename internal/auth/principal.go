// ABOUTME: Resolved principal variants and context propagation helpers
// ABOUTME: Provides WithPrincipal/FromContext for handlers downstream of the engine

package auth

import (
	"context"
)

// PrincipalKind distinguishes the two resolved-identity shapes.
type PrincipalKind string

const (
	// KindSelected is a fully authenticated identity: the user chose (or was
	// uniquely resolved to) a specific application account.
	KindSelected PrincipalKind = "selected"

	// KindExternal is the pre-selection shape: externally verified, carrying
	// only the default role until a selection is made. Never cached.
	KindExternal PrincipalKind = "external"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Kind       PrincipalKind
	AccountID  string   // set when Kind is KindSelected
	ExternalID string   // always set
	Roles      []string // ordered, deduplicated role names
}

// SelectedPrincipal builds the authenticated principal for a chosen account.
func SelectedPrincipal(accountID, externalID string, roles []string) *Principal {
	return &Principal{
		Kind:       KindSelected,
		AccountID:  accountID,
		ExternalID: externalID,
		Roles:      roles,
	}
}

// ExternalPrincipal builds the pre-selection principal for an externally
// verified identity.
func ExternalPrincipal(externalID string) *Principal {
	roles := make([]string, len(unauthenticatedRoles))
	copy(roles, unauthenticatedRoles)
	return &Principal{
		Kind:       KindExternal,
		ExternalID: externalID,
		Roles:      roles,
	}
}

// Name returns the identity presented to the application: the account id
// once selected, the external id before that.
func (p *Principal) Name() string {
	if p.Kind == KindSelected {
		return p.AccountID
	}
	return p.ExternalID
}

// HasRole returns true if the principal carries the named role.
func (p *Principal) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// principalContextKey is the key type for storing a Principal in context.Context.
type principalContextKey struct{}

// WithPrincipal returns a new context with the principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// FromContext retrieves the principal from the context, returning nil if not
// present.
func FromContext(ctx context.Context) *Principal {
	val := ctx.Value(principalContextKey{})
	if val == nil {
		return nil
	}
	p, ok := val.(*Principal)
	if !ok {
		return nil
	}
	return p
}

// MustFromContext retrieves the principal from the context, panicking if not
// present.
func MustFromContext(ctx context.Context) *Principal {
	p := FromContext(ctx)
	if p == nil {
		panic("auth: Principal not found in context")
	}
	return p
}
