// ABOUTME: Guard layer deciding whether protected or premium content may render
// ABOUTME: Pure decisions over session state; the TUI router acts on them

package gate

import "github.com/plumecompta/lettre-cli/internal/session"

// Decision is the outcome of a gate check
type Decision int

const (
	// Wait means the session is still being verified; no redirect decision
	// may be made yet.
	Wait Decision = iota
	Allow
	RedirectLogin
	RedirectUpgrade
)

// String returns the string representation of a Decision
func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUpgrade:
		return "redirect-upgrade"
	default:
		return "unknown"
	}
}

// Protected gates content that requires an authenticated session
func Protected(state session.State) Decision {
	switch state {
	case session.StateLoading:
		return Wait
	case session.StateAuthenticated:
		return Allow
	default:
		return RedirectLogin
	}
}

// Premium gates content that additionally requires the entitlement flag.
// The auth check always runs first: an unauthenticated user is sent to
// login, never straight to the upgrade path.
func Premium(state session.State, premium bool) Decision {
	if d := Protected(state); d != Allow {
		return d
	}
	if !premium {
		return RedirectUpgrade
	}
	return Allow
}
