package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
	"github.com/cesargomez89/soundhall/internal/logger"
	"github.com/cesargomez89/soundhall/internal/storage"
	"github.com/cesargomez89/soundhall/internal/store"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db        *store.DB
	media     *storage.MediaStore
	ratings   *Aggregator
	accounts  *AccountService
	listening *ListeningService
	catalog   *CatalogService
	feed      *FeedService
	admin     *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	db, err := store.NewSQLiteDB(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
	})

	log := logger.Discard()
	clock := func() time.Time { return testNow }
	media := storage.NewMediaStore(filepath.Join(dir, "media"))
	ratings := NewAggregator(db)

	env := &testEnv{
		db:        db,
		media:     media,
		ratings:   ratings,
		accounts:  NewAccountService(db, log),
		listening: NewListeningService(db, log),
		catalog:   NewCatalogService(db, media, ratings, log),
		feed:      NewFeedService(db, ratings, log),
		admin:     NewAdminService(db, ratings, log),
	}
	env.accounts.HashCost = bcrypt.MinCost
	env.accounts.Now = clock
	env.listening.Now = clock
	env.catalog.Now = clock
	env.admin.Now = clock
	return env
}

func (e *testEnv) addUser(t *testing.T, username string, creator bool) *domain.User {
	t.Helper()
	ctx := context.Background()
	user := &domain.User{
		Username:       username,
		Email:          username + "@example.com",
		PasswordHash:   "x",
		ProfilePicture: constants.DefaultProfilePicture,
		CreatedAt:      testNow,
	}
	if err := e.db.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	if creator {
		if _, err := e.accounts.RegisterCreator(ctx, username); err != nil {
			t.Fatalf("RegisterCreator(%s) failed: %v", username, err)
		}
		user.Creator = true
	}
	return user
}

func (e *testEnv) addAlbum(t *testing.T, artist, name string, createdAt time.Time) *domain.Album {
	t.Helper()
	album := &domain.Album{
		Name:         name,
		ArtistName:   artist,
		AlbumPicture: constants.DefaultAlbumPicture,
		CreatedAt:    createdAt,
	}
	if err := e.db.CreateAlbum(context.Background(), album); err != nil {
		t.Fatalf("CreateAlbum(%s) failed: %v", name, err)
	}
	return album
}

func (e *testEnv) addTrack(t *testing.T, album *domain.Album, name string) *domain.Track {
	t.Helper()
	track := &domain.Track{
		Name:       name,
		ArtistName: album.ArtistName,
		AlbumID:    album.ID,
		TrackImage: constants.DefaultTrackPicture,
		CreatedAt:  testNow,
	}
	if err := e.db.CreateTrack(context.Background(), track); err != nil {
		t.Fatalf("CreateTrack(%s) failed: %v", name, err)
	}
	return track
}

func (e *testEnv) rate(t *testing.T, username string, trackID int64, value int) {
	t.Helper()
	if err := e.listening.Rate(context.Background(), username, trackID, value); err != nil {
		t.Fatalf("Rate(%s, %d, %d) failed: %v", username, trackID, value, err)
	}
}

func (e *testEnv) play(t *testing.T, username string, trackID int64, at time.Time) {
	t.Helper()
	e.listening.Now = func() time.Time { return at }
	if _, err := e.listening.RecordPlay(context.Background(), username, trackID); err != nil {
		t.Fatalf("RecordPlay(%s, %d) failed: %v", username, trackID, err)
	}
}

func trackNames(tracks []domain.Track) []string {
	names := make([]string, len(tracks))
	for i, tr := range tracks {
		names[i] = tr.Name
	}
	return names
}

func ratedTrackNames(tracks []domain.RatedTrack) []string {
	names := make([]string, len(tracks))
	for i, tr := range tracks {
		names[i] = tr.Name
	}
	return names
}
