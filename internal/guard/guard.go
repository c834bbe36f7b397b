// Package guard gates navigation on session validity.
package guard

// LoginRoute is where unauthenticated access is redirected.
const LoginRoute = "/login"

// Session is the slice of the session manager the guard consults. The
// read itself performs lazy expiry cleanup when the session is stale.
type Session interface {
	IsLoggedIn() bool
}

// Decision is the guard verdict for one navigation attempt.
type Decision struct {
	// Allowed reports whether the protected view may load.
	Allowed bool
	// RedirectTo is the route to send the caller to when not allowed.
	RedirectTo string
}

// Check returns allow for an authenticated session, otherwise a redirect
// instruction to the login view. It has no side effects of its own.
func Check(s Session) Decision {
	if s.IsLoggedIn() {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: LoginRoute}
}
