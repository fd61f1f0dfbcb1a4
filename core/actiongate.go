package core

import "fmt"

// ActionGate is the host-facing adapter the lending protocol consults
// immediately before executing a liquidation. Purely advisory: it never
// mutates state, it only accepts or rejects the acting identity.
type ActionGate struct {
	auth *AuthorizationGate
}

// NewActionGate builds a gate over auth.
func NewActionGate(auth *AuthorizationGate) *ActionGate {
	return &ActionGate{auth: auth}
}

// BeforeAction reports whether actor may liquidate subject right now.
// Returns nil when the subject is unrestricted (no leader in the previous
// window) or when actor is the authorized leader; ErrUnauthorizedActor
// otherwise.
func (g *ActionGate) BeforeAction(subject, actor Identity) error {
	authorized, _ := g.auth.AuthorizedActor(subject)
	if authorized == NoIdentity || actor == authorized {
		return nil
	}
	return fmt.Errorf("%w: %s holds the right on %s", ErrUnauthorizedActor, authorized, subject)
}

// AfterAction is the host dispatcher's post-action notification. The
// auction takes no interest in it; it exists so the host can drive both
// sides of its dispatch cycle through one adapter.
func (g *ActionGate) AfterAction(subject, actor Identity) {}
