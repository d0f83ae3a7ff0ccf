package app

import (
	"context"
	"fmt"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
	"github.com/cesargomez89/soundhall/internal/logger"
	"github.com/cesargomez89/soundhall/internal/store"
)

type HomeFeed struct {
	Username       string              `json:"username"`
	RecentlyPlayed []domain.Track      `json:"recently_played"`
	MostPlayed     []domain.Track      `json:"most_played"`
	HighestRated   []domain.RatedTrack `json:"highest_rated"`
	RecentAlbums   []domain.Album      `json:"recent_albums"`
	Creator        bool                `json:"creator"`
}

type SearchResults struct {
	Term      string               `json:"term"`
	Tracks    []domain.RatedTrack  `json:"tracks"`
	Albums    []domain.RatedAlbum  `json:"albums"`
	Artists   []domain.RatedArtist `json:"artists"`
	Playlists []domain.Playlist    `json:"playlists"`
}

type FeedService struct {
	Repo    *store.DB
	Ratings *Aggregator
	Logger  *logger.Logger
}

func NewFeedService(repo *store.DB, ratings *Aggregator, log *logger.Logger) *FeedService {
	return &FeedService{Repo: repo, Ratings: ratings, Logger: log.WithComponent("feed")}
}

// Home builds the listener's home view.
func (s *FeedService) Home(ctx context.Context, username string) (*HomeFeed, error) {
	user, err := s.Repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	recent, err := s.Repo.RecentlyPlayed(ctx, username, constants.FeedSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load recently played: %w", err)
	}

	most, err := s.Repo.MostPlayed(ctx, username, constants.FeedSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load most played: %w", err)
	}

	all, err := s.Repo.ListTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	rated, err := s.Ratings.RateTracks(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to rate catalog: %w", err)
	}
	if len(rated) > constants.FeedSize {
		rated = rated[:constants.FeedSize]
	}

	albums, err := s.Repo.RecentAlbums(ctx, constants.FeedSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent albums: %w", err)
	}

	return &HomeFeed{
		Username:       user.Username,
		Creator:        user.Creator,
		RecentlyPlayed: recent,
		MostPlayed:     most,
		HighestRated:   rated,
		RecentAlbums:   albums,
	}, nil
}

// Search matches the term as a substring of track, album and playlist names
// and artist usernames. Each rated category is ranked on its own.
func (s *FeedService) Search(ctx context.Context, term string) (*SearchResults, error) {
	tracks, err := s.Repo.SearchTracks(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}
	ratedTracks, err := s.Ratings.RateTracks(ctx, tracks)
	if err != nil {
		return nil, err
	}

	albums, err := s.Repo.SearchAlbums(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search albums: %w", err)
	}
	ratedAlbums, err := s.Ratings.RateAlbums(ctx, albums)
	if err != nil {
		return nil, err
	}

	artists, err := s.Repo.SearchArtists(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}
	ratedArtists, err := s.Ratings.RateArtists(ctx, artists)
	if err != nil {
		return nil, err
	}

	playlists, err := s.Repo.SearchPlaylists(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search playlists: %w", err)
	}

	s.Logger.Debug("Search completed", "term", term,
		"tracks", len(ratedTracks), "albums", len(ratedAlbums),
		"artists", len(ratedArtists), "playlists", len(playlists))

	return &SearchResults{
		Term:      term,
		Tracks:    ratedTracks,
		Albums:    ratedAlbums,
		Artists:   ratedArtists,
		Playlists: playlists,
	}, nil
}
