// Package guard decides whether the current user may see a role-restricted
// view. It holds no state of its own and is re-evaluated on every
// navigation against the session's current value.
package guard

import "github.com/fullstacktime/projectman/internal/core/domain"

// Decision is the outcome of evaluating a guarded route.
type Decision int

const (
	// Allow renders the guarded content unchanged.
	Allow Decision = iota
	// RedirectLogin sends an unauthenticated visitor to the login view.
	RedirectLogin
	// RedirectHome sends an authenticated user whose role is not accepted
	// to the neutral default view instead of a dedicated forbidden page.
	RedirectHome
)

// Check is a pure function of the current user and the roles a route
// accepts.
func Check(user *domain.User, allowed ...domain.Role) Decision {
	if user == nil {
		return RedirectLogin
	}
	for _, r := range allowed {
		if user.Role == r {
			return Allow
		}
	}
	return RedirectHome
}
