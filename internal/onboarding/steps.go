package onboarding

import "strings"

// Step is one row of the step table.
type Step struct {
	Status Status
	Path   string
}

// Table is the ordered, immutable step table. It is built once and shared by
// the gate, the advancement logic, the middleware and the handlers.
type Table struct {
	steps []Step
	index map[Status]int
	paths map[string]Status
}

var defaultTable = NewTable([]Step{
	{Status: StatusProfile, Path: "/profile"},
	{Status: StatusCourse, Path: "/wait-list/setup/course"},
	{Status: StatusContent, Path: "/wait-list/setup/content"},
	{Status: StatusPrice, Path: "/wait-list/setup/price"},
	{Status: StatusCompleted, Path: "/dashboard"},
})

// DefaultTable returns the wizard's step table.
func DefaultTable() *Table { return defaultTable }

// NewTable builds a table from steps in wizard order. The first step is the
// fail-closed fallback and the last one is terminal.
func NewTable(steps []Step) *Table {
	t := &Table{
		steps: make([]Step, len(steps)),
		index: make(map[Status]int, len(steps)),
		paths: make(map[string]Status, len(steps)),
	}
	copy(t.steps, steps)
	for i, s := range t.steps {
		t.index[s.Status] = i
		t.paths[s.Path] = s.Status
	}
	return t
}

// Steps returns a copy of the table rows in order.
func (t *Table) Steps() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// First returns the earliest step's status.
func (t *Table) First() Status { return t.steps[0].Status }

// Terminal returns the last step's status.
func (t *Table) Terminal() Status { return t.steps[len(t.steps)-1].Status }

// Normalize maps statuses the table does not know to the first step.
func (t *Table) Normalize(s Status) Status {
	if _, ok := t.index[s]; ok {
		return s
	}
	return t.First()
}

// Order returns the position of s, unknown statuses counting as the first step.
func (t *Table) Order(s Status) int {
	return t.index[t.Normalize(s)]
}

// Path returns the canonical route of s.
func (t *Table) Path(s Status) string {
	return t.steps[t.Order(s)].Path
}

// Next returns the status following s. The terminal status has no successor
// and maps to itself.
func (t *Table) Next(s Status) Status {
	i := t.Order(s)
	if i+1 >= len(t.steps) {
		return t.steps[i].Status
	}
	return t.steps[i+1].Status
}

// AtOrBefore returns s and every status preceding it, in order.
func (t *Table) AtOrBefore(s Status) []Status {
	i := t.Order(s)
	out := make([]Status, 0, i+1)
	for _, step := range t.steps[:i+1] {
		out = append(out, step.Status)
	}
	return out
}

// Lookup resolves a request path to the step it belongs to. Trailing slashes
// and query strings are ignored; paths outside the wizard are not gated.
func (t *Table) Lookup(path string) (Status, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	s, ok := t.paths[path]
	return s, ok
}
