// Package onboarding holds the step-gate of the waitlist setup wizard: the
// ordered step table, the access decision for step-gated routes, the
// one-directional status advancement used by the step save handlers and the
// cookie that mirrors the persisted status for fast-path checks.
package onboarding

import "strings"

// Status is the position of a creator in the onboarding wizard.
type Status string

const (
	StatusProfile   Status = "profile"
	StatusCourse    Status = "course"
	StatusContent   Status = "content"
	StatusPrice     Status = "price"
	StatusCompleted Status = "completed"
)

// ParseStatus maps a persisted or client supplied value to a Status.
// Empty, unknown and future values fall back to StatusProfile so a garbled
// value can never open a later step.
func ParseStatus(raw string) Status {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := defaultTable.index[s]; ok {
		return s
	}
	return StatusProfile
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	_, ok := defaultTable.index[s]
	return ok
}

func (s Status) String() string { return string(s) }
