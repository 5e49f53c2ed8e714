package onboarding

import "testing"

var allStatuses = []Status{StatusProfile, StatusCourse, StatusContent, StatusPrice, StatusCompleted}

func TestResolveAccessCompletedAllowsEverything(t *testing.T) {
	for _, requested := range allStatuses {
		if got := ResolveAccess(StatusCompleted, requested); !got.Allow {
			t.Fatalf("completed user denied %s: %+v", requested, got)
		}
	}
}

func TestResolveAccessMatrix(t *testing.T) {
	table := DefaultTable()
	for _, user := range allStatuses {
		for _, requested := range allStatuses {
			got := table.ResolveAccess(user, requested)
			switch {
			case user == StatusCompleted, table.Order(requested) <= table.Order(user):
				if !got.Allow || got.RedirectTo != "" {
					t.Errorf("ResolveAccess(%s, %s) = %+v, want allow", user, requested, got)
				}
			default:
				want := table.Path(user)
				if got.Allow || got.RedirectTo != want {
					t.Errorf("ResolveAccess(%s, %s) = %+v, want redirect to %s", user, requested, got, want)
				}
			}
		}
	}
}

func TestResolveAccessIsDeterministic(t *testing.T) {
	for _, user := range allStatuses {
		for _, requested := range allStatuses {
			first := ResolveAccess(user, requested)
			for i := 0; i < 5; i++ {
				if again := ResolveAccess(user, requested); again != first {
					t.Fatalf("ResolveAccess(%s, %s) changed: %+v then %+v", user, requested, first, again)
				}
			}
		}
	}
}

func TestResolveAccessUnknownStatusFailsClosed(t *testing.T) {
	tests := []struct {
		name      string
		user      Status
		requested Status
		want      Decision
	}{
		{name: "empty user, profile requested", user: "", requested: StatusProfile, want: Allowed},
		{name: "empty user, course requested", user: "", requested: StatusCourse, want: RedirectTo("/profile")},
		{name: "future status, price requested", user: "archived", requested: StatusPrice, want: RedirectTo("/profile")},
		{name: "future status, dashboard requested", user: "COMPLETED", requested: StatusCompleted, want: RedirectTo("/profile")},
		{name: "garbled requested counts as profile", user: StatusCourse, requested: "???", want: Allowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveAccess(tt.user, tt.requested); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveAccessScenarios(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		name string
		user Status
		path string
		want Decision
	}{
		{name: "new user skipping to content", user: StatusCourse, path: "/wait-list/setup/content", want: RedirectTo("/wait-list/setup/course")},
		{name: "price user back to profile", user: StatusPrice, path: "/profile", want: Allowed},
		{name: "completed user edits course", user: StatusCompleted, path: "/wait-list/setup/course", want: Allowed},
		{name: "profile user opens dashboard", user: StatusProfile, path: "/dashboard", want: RedirectTo("/profile")},
		{name: "price user opens dashboard before publishing", user: StatusPrice, path: "/dashboard", want: RedirectTo("/wait-list/setup/price")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requested, ok := table.Lookup(tt.path)
			if !ok {
				t.Fatalf("path %s not in table", tt.path)
			}
			if got := table.ResolveAccess(tt.user, requested); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
