package services

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
)

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Jane.Doe", "jane.doe"},
		{"  jane__doe ", "jane.doe"},
		{"._jane_.", "jane"},
		{"jané döe!", "jande"},
		{"a..b__c", "a.b.c"},
	}
	for _, tt := range tests {
		if got := NormalizeHandle(tt.in); got != tt.want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHandleFromFullName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Jane Doe", "jane.doe"},
		{"  ", "user"},
		{"Ana-María O'Neil", "ana.mar.a.o.neil"},
		{"Al", "al.user"},
		{"J", "j.user"},
		{"Jo Li", "jo.li"},
	}
	for _, tt := range tests {
		got := HandleFromFullName(tt.in)
		if got != tt.want {
			t.Errorf("HandleFromFullName(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if err := validHandle(got); err != nil {
			t.Errorf("HandleFromFullName(%q) = %q is not a valid handle: %v", tt.in, got, err)
		}
	}
}

func TestSaveProfileShortNameGetsValidHandle(t *testing.T) {
	db, svc := newTestDB(t)
	u := newTestUser(t, db, "al@example.com")
	profiles := NewProfileService(db, svc)

	resp, _, err := profiles.Save(u.ID, &dto.ProfileRequest{FullName: strPtr("Al")}, false)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := validHandle(resp.Handle); err != nil {
		t.Fatalf("persisted handle %q: %v", resp.Handle, err)
	}
}

func TestSaveProfileAdvancesToCourse(t *testing.T) {
	db, svc := newTestDB(t)
	u := newTestUser(t, db, "jane@example.com")
	profiles := NewProfileService(db, svc)

	resp, status, err := profiles.Save(u.ID, &dto.ProfileRequest{
		FullName: strPtr("Jane Doe"),
		Bio:      strPtr("Teaches sourdough"),
	}, false)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if status != onboarding.StatusCourse || resp.OnboardingStatus != "course" {
		t.Fatalf("status = %q / %q", status, resp.OnboardingStatus)
	}
	if resp.Handle != "jane.doe" {
		t.Fatalf("derived handle = %q", resp.Handle)
	}
	if !progressOf(t, db, u.ID).ProfileDone {
		t.Fatal("profile flag not set")
	}
}

func TestSaveProfileValidation(t *testing.T) {
	db, svc := newTestDB(t)
	u := newTestUser(t, db, "val@example.com")
	profiles := NewProfileService(db, svc)

	tests := []struct {
		name    string
		req     dto.ProfileRequest
		partial bool
		field   string
		wantErr error
	}{
		{"missing full name", dto.ProfileRequest{}, false, "full_name", nil},
		{"short handle", dto.ProfileRequest{FullName: strPtr("Jo"), Handle: strPtr("jo")}, false, "handle", nil},
		{"bad image", dto.ProfileRequest{FullName: strPtr("Jo"), Image: strPtr("ftp://x")}, false, "image", nil},
		{"reserved handle", dto.ProfileRequest{FullName: strPtr("Jo"), Handle: strPtr("Admin")}, false, "", ErrHandleReserved},
		{"empty patch", dto.ProfileRequest{}, true, "", ErrNoFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := profiles.Save(u.ID, &tt.req, tt.partial)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			v, ok := AsValidation(err)
			if !ok || v.Field != tt.field {
				t.Fatalf("err = %v, want validation error on %q", err, tt.field)
			}
		})
	}

	if statusOf(t, db, u.ID) != "profile" {
		t.Fatal("rejected saves must not advance status")
	}
}

func TestEnsureUniqueHandleAppendsSuffix(t *testing.T) {
	db, svc := newTestDB(t)
	profiles := NewProfileService(db, svc)

	first := newTestUser(t, db, "a@example.com")
	if _, _, err := profiles.Save(first.ID, &dto.ProfileRequest{FullName: strPtr("Sam Lee")}, false); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := newTestUser(t, db, "b@example.com")
	resp, _, err := profiles.Save(second.ID, &dto.ProfileRequest{FullName: strPtr("Sam Lee")}, false)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if resp.Handle != "sam.lee1" {
		t.Fatalf("handle = %q, want sam.lee1", resp.Handle)
	}
}

func TestPatchProfileKeepsLaterStatus(t *testing.T) {
	db, svc := newTestDB(t)
	u := newTestUser(t, db, "later@example.com")
	profiles := NewProfileService(db, svc)
	if _, _, err := profiles.Save(u.ID, &dto.ProfileRequest{FullName: strPtr("Later User")}, false); err != nil {
		t.Fatalf("save: %v", err)
	}
	setStatus(t, db, u.ID, "price")

	_, status, err := profiles.Save(u.ID, &dto.ProfileRequest{Bio: strPtr("new bio")}, true)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if status != onboarding.StatusPrice {
		t.Fatalf("status = %q, want price", status)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", u.ID)
	if deref(reloaded.Bio) != "new bio" || deref(reloaded.FullName) != "Later User" {
		t.Fatalf("patch wrote %+v", reloaded)
	}
}
