package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
)

func TestFeedService_Home(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addUser(t, "alice", true)
	env.addUser(t, "bob", false)

	var albums []*domain.Album
	for i := 0; i < 7; i++ {
		albums = append(albums, env.addAlbum(t, "alice", fmt.Sprintf("A%d", i), testNow.Add(time.Duration(i-7)*time.Hour)))
	}
	var tracks []*domain.Track
	for i := 0; i < 8; i++ {
		album := albums[0]
		if i < len(albums) {
			album = albums[i]
		}
		tr := env.addTrack(t, album, fmt.Sprintf("T%d", i))
		env.rate(t, "bob", tr.ID, i+1)
		tracks = append(tracks, tr)
	}

	env.play(t, "bob", tracks[0].ID, testNow.Add(1*time.Minute))
	env.play(t, "bob", tracks[1].ID, testNow.Add(2*time.Minute))
	env.play(t, "bob", tracks[0].ID, testNow.Add(3*time.Minute))

	feed, err := env.feed.Home(ctx, "bob")
	if err != nil {
		t.Fatalf("Home failed: %v", err)
	}

	if feed.Username != "bob" || feed.Creator {
		t.Errorf("Unexpected identity in feed: %s creator=%v", feed.Username, feed.Creator)
	}

	if got := trackNames(feed.RecentlyPlayed); len(got) != 2 || got[0] != "T0" || got[1] != "T1" {
		t.Errorf("Expected recently played [T0 T1], got %v", got)
	}
	if got := trackNames(feed.MostPlayed); len(got) != 2 || got[0] != "T0" {
		t.Errorf("Expected T0 to be most played, got %v", got)
	}

	if len(feed.HighestRated) != constants.FeedSize {
		t.Fatalf("Expected %d highest rated, got %d", constants.FeedSize, len(feed.HighestRated))
	}
	if feed.HighestRated[0].Name != "T7" || feed.HighestRated[0].Rating != 8 {
		t.Errorf("Expected T7 (8) first, got %s (%v)", feed.HighestRated[0].Name, feed.HighestRated[0].Rating)
	}
	if last := feed.HighestRated[constants.FeedSize-1]; last.Name != "T2" {
		t.Errorf("Expected T2 last, got %s", last.Name)
	}

	if len(feed.RecentAlbums) != constants.FeedSize {
		t.Fatalf("Expected %d recent albums, got %d", constants.FeedSize, len(feed.RecentAlbums))
	}
	if feed.RecentAlbums[0].Name != "A6" {
		t.Errorf("Expected newest album A6 first, got %s", feed.RecentAlbums[0].Name)
	}
	for _, a := range feed.RecentAlbums {
		if a.Name == "A0" {
			t.Error("Oldest album should not be in the feed")
		}
	}
}

func TestFeedService_HomeUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.feed.Home(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFeedService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addUser(t, "alice", true)
	env.addUser(t, "nightowl", true)
	env.addUser(t, "bob", false)

	moves := env.addAlbum(t, "alice", "Night Moves", testNow)
	fall := env.addTrack(t, moves, "Nightfall")
	two := env.addTrack(t, moves, "Night Two")
	env.addTrack(t, moves, "Daybreak")
	env.addTrack(t, env.addAlbum(t, "nightowl", "Other", testNow), "Sunrise")

	env.rate(t, "bob", fall.ID, 2)
	env.rate(t, "bob", two.ID, 5)

	if _, err := env.catalog.CreatePlaylist(ctx, "bob", PlaylistInput{Name: "Night drive", TrackIDs: []int64{fall.ID}}); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if _, err := env.catalog.CreatePlaylist(ctx, "bob", PlaylistInput{Name: "Morning"}); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}

	res, err := env.feed.Search(ctx, "night")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got := ratedTrackNames(res.Tracks); len(got) != 2 || got[0] != "Night Two" || got[1] != "Nightfall" {
		t.Errorf("Expected tracks [Night Two Nightfall], got %v", got)
	}
	if len(res.Albums) != 1 || res.Albums[0].Name != "Night Moves" || res.Albums[0].Rating != 3.5 {
		t.Errorf("Unexpected albums: %+v", res.Albums)
	}
	if len(res.Artists) != 1 || res.Artists[0].Username != "nightowl" {
		t.Errorf("Unexpected artists: %+v", res.Artists)
	}
	if len(res.Playlists) != 1 || res.Playlists[0].Name != "Night drive" {
		t.Errorf("Unexpected playlists: %+v", res.Playlists)
	}

	none, err := env.feed.Search(ctx, "zzz")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(none.Tracks)+len(none.Albums)+len(none.Artists)+len(none.Playlists) != 0 {
		t.Errorf("Expected no results, got %+v", none)
	}
}
