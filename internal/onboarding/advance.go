package onboarding

// Save describes a completed step save as seen by the advancement logic.
type Save struct {
	// Step is the wizard step whose data was persisted.
	Step Status
	// Complete is the step's required-field predicate on the persisted data.
	Complete bool
	// Publish marks the explicit go-live action of the price step.
	Publish bool
}

// Advance returns the status a user at current moves to after s. Status
// only ever moves one step forward and only when the user is on the saved
// step: editing an earlier step, or a step ahead of current, leaves it
// unchanged. Leaving the step before the terminal one requires Publish, so a
// draft price never goes live.
func (t *Table) Advance(current Status, s Save) Status {
	current = t.Normalize(current)
	if _, known := t.index[s.Step]; !known || !s.Complete || current != s.Step {
		return current
	}
	next := t.Next(current)
	if next == t.Terminal() && !s.Publish {
		return current
	}
	return next
}

// Advance runs the advancement against the default table.
func Advance(current Status, s Save) Status {
	return defaultTable.Advance(current, s)
}
