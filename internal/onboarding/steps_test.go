package onboarding

import (
	"reflect"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := map[string]Status{
		"profile":    StatusProfile,
		"course":     StatusCourse,
		" Content ":  StatusContent,
		"PRICE":      StatusPrice,
		"completed":  StatusCompleted,
		"":           StatusProfile,
		"published":  StatusProfile,
		"completed!": StatusProfile,
	}
	for raw, want := range tests {
		if got := ParseStatus(raw); got != want {
			t.Errorf("ParseStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestTableNextAndTerminal(t *testing.T) {
	table := DefaultTable()
	want := map[Status]Status{
		StatusProfile:   StatusCourse,
		StatusCourse:    StatusContent,
		StatusContent:   StatusPrice,
		StatusPrice:     StatusCompleted,
		StatusCompleted: StatusCompleted,
		"bogus":         StatusCourse,
	}
	for from, to := range want {
		if got := table.Next(from); got != to {
			t.Errorf("Next(%q) = %q, want %q", from, got, to)
		}
	}
	if table.First() != StatusProfile || table.Terminal() != StatusCompleted {
		t.Fatalf("unexpected bounds %q..%q", table.First(), table.Terminal())
	}
}

func TestTableAtOrBefore(t *testing.T) {
	table := DefaultTable()
	got := table.AtOrBefore(StatusContent)
	want := []Status{StatusProfile, StatusCourse, StatusContent}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AtOrBefore(content) = %v, want %v", got, want)
	}
	if got := table.AtOrBefore("nope"); !reflect.DeepEqual(got, []Status{StatusProfile}) {
		t.Fatalf("AtOrBefore(unknown) = %v", got)
	}
}

func TestTableLookup(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		path  string
		want  Status
		gated bool
	}{
		{path: "/profile", want: StatusProfile, gated: true},
		{path: "/wait-list/setup/price/", want: StatusPrice, gated: true},
		{path: "/wait-list/setup/content?tab=faq", want: StatusContent, gated: true},
		{path: "/dashboard", want: StatusCompleted, gated: true},
		{path: "/wait-list/my-course", gated: false},
		{path: "/", gated: false},
	}
	for _, tt := range tests {
		got, ok := table.Lookup(tt.path)
		if ok != tt.gated || (ok && got != tt.want) {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.gated)
		}
	}
}

func TestStepsReturnsCopy(t *testing.T) {
	table := DefaultTable()
	steps := table.Steps()
	steps[0].Path = "/hacked"
	if table.Path(StatusProfile) != "/profile" {
		t.Fatal("Steps leaked the table's backing slice")
	}
}
