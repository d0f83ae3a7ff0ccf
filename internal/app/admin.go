package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cesargomez89/soundhall/internal/domain"
	"github.com/cesargomez89/soundhall/internal/logger"
	"github.com/cesargomez89/soundhall/internal/store"
)

// Dashboard is everything the admin overview lists.
type Dashboard struct {
	Users     []domain.User        `json:"users"`
	Artists   []domain.RatedArtist `json:"artists"`
	Tracks    []domain.RatedTrack  `json:"tracks"`
	Albums    []domain.RatedAlbum  `json:"albums"`
	Plays     []domain.PlayEvent   `json:"plays"`
	Playlists []domain.Playlist    `json:"playlists"`
}

type AdminService struct {
	Repo    *store.DB
	Ratings *Aggregator
	Logger  *logger.Logger
	Now     func() time.Time
}

func NewAdminService(repo *store.DB, ratings *Aggregator, log *logger.Logger) *AdminService {
	return &AdminService{Repo: repo, Ratings: ratings, Logger: log.WithComponent("admin"), Now: time.Now}
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	artists, err := s.ratedArtists(ctx)
	if err != nil {
		return nil, err
	}
	tracks, err := s.ratedTracks(ctx)
	if err != nil {
		return nil, err
	}
	albums, err := s.ratedAlbums(ctx)
	if err != nil {
		return nil, err
	}
	plays, err := s.Repo.ListPlays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plays: %w", err)
	}
	playlists, err := s.Repo.ListPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	return &Dashboard{
		Users:     users,
		Artists:   artists,
		Tracks:    tracks,
		Albums:    albums,
		Plays:     plays,
		Playlists: playlists,
	}, nil
}

// Detail lists every row of one category. Tracks, albums and artists come
// rated and ranked.
func (s *AdminService) Detail(ctx context.Context, category domain.Category) (any, error) {
	switch category {
	case domain.CategoryUser:
		return s.Repo.ListUsers(ctx)
	case domain.CategoryArtist:
		return s.ratedArtists(ctx)
	case domain.CategoryAlbum:
		return s.ratedAlbums(ctx)
	case domain.CategoryTrack:
		return s.ratedTracks(ctx)
	case domain.CategoryPlaylist:
		return s.Repo.ListPlaylists(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
}

// RetrieveTime buckets the creation times of a category by age relative to
// now. The bucket counts always add up to the number of rows.
func (s *AdminService) RetrieveTime(ctx context.Context, category domain.Category) (AgeBuckets, error) {
	times, err := s.Repo.CreationTimes(ctx, category)
	if err != nil {
		return AgeBuckets{}, err
	}
	return PartitionByAge(s.Now(), times), nil
}

func (s *AdminService) ratedArtists(ctx context.Context) ([]domain.RatedArtist, error) {
	artists, err := s.Repo.ListArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return s.Ratings.RateArtists(ctx, artists)
}

func (s *AdminService) ratedAlbums(ctx context.Context) ([]domain.RatedAlbum, error) {
	albums, err := s.Repo.ListAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return s.Ratings.RateAlbums(ctx, albums)
}

func (s *AdminService) ratedTracks(ctx context.Context) ([]domain.RatedTrack, error) {
	tracks, err := s.Repo.ListTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return s.Ratings.RateTracks(ctx, tracks)
}
