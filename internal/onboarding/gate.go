package onboarding

// Decision is the outcome of a gate check.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Allowed is the decision letting the request through.
var Allowed = Decision{Allow: true}

// RedirectTo builds a decision sending the caller to path.
func RedirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// ResolveAccess decides whether a user at userStatus may open the requested
// step. Finished creators may revisit anything, everyone may go back to a
// step at or before their own, and skipping forward redirects to the step
// the user is actually on. Unknown statuses are treated as the first step.
func (t *Table) ResolveAccess(userStatus, requested Status) Decision {
	userStatus = t.Normalize(userStatus)
	requested = t.Normalize(requested)

	if userStatus == t.Terminal() {
		return Allowed
	}
	if t.Order(requested) <= t.Order(userStatus) {
		return Allowed
	}
	return RedirectTo(t.Path(userStatus))
}

// ResolveAccess runs the check against the default table.
func ResolveAccess(userStatus, requested Status) Decision {
	return defaultTable.ResolveAccess(userStatus, requested)
}
