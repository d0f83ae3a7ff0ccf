package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cesargomez89/soundhall/internal/domain"
)

func TestPartitionByAge(t *testing.T) {
	now := testNow
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	tests := []struct {
		name  string
		times []time.Time
		want  AgeBuckets
	}{
		{"empty", nil, AgeBuckets{}},
		{"just created", []time.Time{now}, AgeBuckets{1, 0, 0, 0, 0}},
		{"just under half day", []time.Time{ago(12*time.Hour - time.Nanosecond)}, AgeBuckets{1, 0, 0, 0, 0}},
		{"exactly half day", []time.Time{ago(12 * time.Hour)}, AgeBuckets{0, 1, 0, 0, 0}},
		{"exactly one day", []time.Time{ago(24 * time.Hour)}, AgeBuckets{0, 0, 1, 0, 0}},
		{"exactly one week", []time.Time{ago(7 * 24 * time.Hour)}, AgeBuckets{0, 0, 0, 1, 0}},
		{"exactly three weeks", []time.Time{ago(21 * 24 * time.Hour)}, AgeBuckets{0, 0, 0, 0, 1}},
		{"ancient", []time.Time{ago(365 * 24 * time.Hour)}, AgeBuckets{0, 0, 0, 0, 1}},
		{"future", []time.Time{now.Add(time.Hour)}, AgeBuckets{1, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PartitionByAge(now, tt.times); got != tt.want {
				t.Errorf("PartitionByAge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartitionByAge_SumsToTotal(t *testing.T) {
	var times []time.Time
	for h := 0; h < 24*30; h += 5 {
		times = append(times, testNow.Add(-time.Duration(h)*time.Hour))
	}

	buckets := PartitionByAge(testNow, times)
	sum := 0
	for _, n := range buckets {
		sum += n
	}
	if sum != len(times) {
		t.Errorf("Expected buckets to sum to %d, got %d (%v)", len(times), sum, buckets)
	}
}

func TestAdminService_RetrieveTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, u := range []struct {
		name string
		age  time.Duration
	}{
		{"fresh", time.Hour},
		{"halfday", 13 * time.Hour},
		{"old", 30 * 24 * time.Hour},
	} {
		user := &domain.User{
			Username:     u.name,
			Email:        u.name + "@example.com",
			PasswordHash: "x",
			CreatedAt:    testNow.Add(-u.age),
		}
		if err := env.db.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	got, err := env.admin.RetrieveTime(ctx, domain.CategoryUser)
	if err != nil {
		t.Fatalf("RetrieveTime failed: %v", err)
	}
	if want := (AgeBuckets{1, 1, 0, 0, 1}); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}

	empty, err := env.admin.RetrieveTime(ctx, domain.CategoryPlaylist)
	if err != nil {
		t.Fatalf("RetrieveTime failed: %v", err)
	}
	if empty != (AgeBuckets{}) {
		t.Errorf("Expected no playlists, got %v", empty)
	}

	if _, err := env.admin.RetrieveTime(ctx, domain.Category("Genre")); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
}
