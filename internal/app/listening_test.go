package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cesargomez89/soundhall/internal/domain"
	"github.com/cesargomez89/soundhall/internal/metrics"
)

func TestListeningService_RecordPlay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addUser(t, "alice", true)
	env.addUser(t, "bob", false)
	album := env.addAlbum(t, "alice", "First", testNow)
	hit := env.addTrack(t, album, "Hit")
	other := env.addTrack(t, album, "Other")

	before := testutil.ToFloat64(metrics.PlaysTotal)

	for i := 0; i < 3; i++ {
		env.play(t, "bob", hit.ID, testNow.Add(time.Duration(i)*time.Minute))
	}
	env.play(t, "bob", other.ID, testNow.Add(10*time.Minute))

	if got := testutil.ToFloat64(metrics.PlaysTotal) - before; got != 4 {
		t.Errorf("Expected 4 plays counted, got %v", got)
	}

	most, err := env.db.MostPlayed(ctx, "bob", 6)
	if err != nil {
		t.Fatalf("MostPlayed failed: %v", err)
	}
	if names := trackNames(most); len(names) != 2 || names[0] != "Hit" {
		t.Errorf("Expected Hit to rank first, got %v", names)
	}

	recent, err := env.db.RecentlyPlayed(ctx, "bob", 6)
	if err != nil {
		t.Fatalf("RecentlyPlayed failed: %v", err)
	}
	if names := trackNames(recent); len(names) != 2 || names[0] != "Other" {
		t.Errorf("Expected Other to be most recent, got %v", names)
	}

	if _, err := env.listening.RecordPlay(ctx, "bob", 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown track, got %v", err)
	}
}

func TestListeningService_Rate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addUser(t, "alice", true)
	env.addUser(t, "bob", false)
	track := env.addTrack(t, env.addAlbum(t, "alice", "First", testNow), "Song")

	created := testutil.ToFloat64(metrics.RatingsTotal.WithLabelValues("created"))
	updated := testutil.ToFloat64(metrics.RatingsTotal.WithLabelValues("updated"))

	env.rate(t, "bob", track.ID, 2)
	env.rate(t, "bob", track.ID, 5)

	n, err := env.db.CountRatings(ctx, track.ID, "bob")
	if err != nil {
		t.Fatalf("CountRatings failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected one rating row, got %d", n)
	}

	avg, err := env.ratings.TrackRating(ctx, track.ID)
	if err != nil {
		t.Fatalf("TrackRating failed: %v", err)
	}
	if avg != 5 {
		t.Errorf("Expected the second rating to replace the first, got %v", avg)
	}

	if got := testutil.ToFloat64(metrics.RatingsTotal.WithLabelValues("created")) - created; got != 1 {
		t.Errorf("Expected 1 created rating, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.RatingsTotal.WithLabelValues("updated")) - updated; got != 1 {
		t.Errorf("Expected 1 updated rating, got %v", got)
	}

	if err := env.listening.Rate(ctx, "bob", 9999, 3); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown track, got %v", err)
	}
}
