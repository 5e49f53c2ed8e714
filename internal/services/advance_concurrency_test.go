package services

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/testutil"
	"gorm.io/gorm"
)

// countStatusMoves counts UPDATEs on users that changed a row.
func countStatusMoves(t *testing.T, db *gorm.DB) *int64 {
	t.Helper()
	var moves int64
	err := db.Callback().Update().After("gorm:update").Register("test:count_status_moves", func(d *gorm.DB) {
		if d.Statement.Table == "users" && d.Error == nil && d.RowsAffected > 0 {
			atomic.AddInt64(&moves, 1)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	return &moves
}

func TestConcurrentSavesAdvanceAtMostOnce(t *testing.T) {
	tests := []struct {
		name  string
		start string
		saves []onboarding.Save
		want  onboarding.Status
	}{
		{
			name:  "two tabs save the profile",
			start: "profile",
			saves: []onboarding.Save{
				{Step: onboarding.StatusProfile, Complete: true},
				{Step: onboarding.StatusProfile, Complete: true},
			},
			want: onboarding.StatusCourse,
		},
		{
			name:  "many tabs save the course",
			start: "course",
			saves: []onboarding.Save{
				{Step: onboarding.StatusCourse, Complete: true},
				{Step: onboarding.StatusCourse, Complete: true},
				{Step: onboarding.StatusCourse, Complete: true},
				{Step: onboarding.StatusCourse, Complete: true},
			},
			want: onboarding.StatusContent,
		},
		{
			name:  "draft and publish race on the price step",
			start: "price",
			saves: []onboarding.Save{
				{Step: onboarding.StatusPrice, Complete: true},
				{Step: onboarding.StatusPrice, Complete: true, Publish: true},
			},
			want: onboarding.StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewFileDB(t)
			svc := NewOnboardingService(db, onboarding.DefaultTable())
			u := newTestUser(t, db, "tabs@example.com")
			setStatus(t, db, u.ID, tt.start)
			moves := countStatusMoves(t, db)

			start := make(chan struct{})
			results := make([]onboarding.Status, len(tt.saves))
			errs := make([]error, len(tt.saves))
			var wg sync.WaitGroup
			for i, save := range tt.saves {
				wg.Add(1)
				go func(i int, save onboarding.Save) {
					defer wg.Done()
					<-start
					errs[i] = db.Transaction(func(tx *gorm.DB) error {
						var err error
						results[i], err = svc.Advance(tx, u.ID, save)
						return err
					})
				}(i, save)
			}
			close(start)
			wg.Wait()

			for i, err := range errs {
				if err != nil {
					t.Fatalf("save #%d: %v", i, err)
				}
				if r := results[i]; r.String() != tt.start && r != tt.want {
					t.Fatalf("save #%d returned %q, want %q or %q", i, r, tt.start, tt.want)
				}
			}
			if got := atomic.LoadInt64(moves); got != 1 {
				t.Fatalf("status moved %d times, want exactly once", got)
			}
			if got := statusOf(t, db, u.ID); got != tt.want.String() {
				t.Fatalf("status = %q, want %q", got, tt.want)
			}

			p := progressOf(t, db, u.ID)
			done := map[onboarding.Status]bool{
				onboarding.StatusProfile: p.ProfileDone,
				onboarding.StatusCourse:  p.CourseDone,
				onboarding.StatusContent: p.ContentDone,
				onboarding.StatusPrice:   p.PriceDone,
			}
			step := tt.saves[0].Step
			for s, flag := range done {
				if flag != (s == step) {
					t.Fatalf("%s done = %v; only %s should be marked", s, flag, step)
				}
			}
		})
	}
}
