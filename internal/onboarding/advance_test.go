package onboarding

import "testing"

func TestAdvanceStateMachine(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		save    Save
		want    Status
	}{
		{name: "profile save", current: StatusProfile, save: Save{Step: StatusProfile, Complete: true}, want: StatusCourse},
		{name: "course save", current: StatusCourse, save: Save{Step: StatusCourse, Complete: true}, want: StatusContent},
		{name: "content save", current: StatusContent, save: Save{Step: StatusContent, Complete: true}, want: StatusPrice},
		{name: "price draft stays", current: StatusPrice, save: Save{Step: StatusPrice, Complete: true}, want: StatusPrice},
		{name: "price publish completes", current: StatusPrice, save: Save{Step: StatusPrice, Complete: true, Publish: true}, want: StatusCompleted},
		{name: "incomplete course", current: StatusCourse, save: Save{Step: StatusCourse}, want: StatusCourse},
		{name: "incomplete publish", current: StatusPrice, save: Save{Step: StatusPrice, Publish: true}, want: StatusPrice},
		{name: "editing past step", current: StatusPrice, save: Save{Step: StatusProfile, Complete: true}, want: StatusPrice},
		{name: "completed edits course", current: StatusCompleted, save: Save{Step: StatusCourse, Complete: true}, want: StatusCompleted},
		{name: "completed republishes", current: StatusCompleted, save: Save{Step: StatusPrice, Complete: true, Publish: true}, want: StatusCompleted},
		{name: "save ahead of current", current: StatusProfile, save: Save{Step: StatusContent, Complete: true}, want: StatusProfile},
		{name: "publish ahead of current", current: StatusCourse, save: Save{Step: StatusPrice, Complete: true, Publish: true}, want: StatusCourse},
		{name: "garbled current", current: "zzz", save: Save{Step: StatusProfile, Complete: true}, want: StatusCourse},
		{name: "unknown step", current: StatusProfile, save: Save{Step: "zzz", Complete: true}, want: StatusProfile},
		{name: "terminal step save", current: StatusCompleted, save: Save{Step: StatusCompleted, Complete: true, Publish: true}, want: StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Advance(tt.current, tt.save); got != tt.want {
				t.Fatalf("Advance(%s, %+v) = %s, want %s", tt.current, tt.save, got, tt.want)
			}
		})
	}
}

func TestAdvanceNeverRegresses(t *testing.T) {
	table := DefaultTable()
	for _, current := range allStatuses {
		for _, step := range allStatuses {
			for _, complete := range []bool{false, true} {
				for _, publish := range []bool{false, true} {
					got := table.Advance(current, Save{Step: step, Complete: complete, Publish: publish})
					if table.Order(got) < table.Order(current) {
						t.Fatalf("Advance(%s, %s) regressed to %s", current, step, got)
					}
					if table.Order(got) > table.Order(current)+1 {
						t.Fatalf("Advance(%s, %s) skipped to %s", current, step, got)
					}
				}
			}
		}
	}
}

func TestAdvanceIsIdempotentPerStep(t *testing.T) {
	for _, step := range []Status{StatusProfile, StatusCourse, StatusContent, StatusPrice} {
		save := Save{Step: step, Complete: true, Publish: true}
		once := Advance(step, save)
		twice := Advance(once, save)
		if once != twice {
			t.Fatalf("second %s save moved status from %s to %s", step, once, twice)
		}
	}
}

func TestAdvanceWalkthrough(t *testing.T) {
	status := StatusProfile
	for _, save := range []Save{
		{Step: StatusProfile, Complete: true},
		{Step: StatusCourse, Complete: true},
		{Step: StatusContent, Complete: true},
		{Step: StatusPrice, Complete: true},
		{Step: StatusPrice, Complete: true, Publish: true},
	} {
		status = Advance(status, save)
	}
	if status != StatusCompleted {
		t.Fatalf("walkthrough ended at %s", status)
	}
}
