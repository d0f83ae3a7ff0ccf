package app

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
	"github.com/cesargomez89/soundhall/internal/store"
)

// TrackAverage is the mean of a track's ratings rounded to two decimals,
// or 0 when it has none.
func TrackAverage(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	// summed as float64 so extreme values cannot wrap around
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return roundRating(sum / float64(len(values)))
}

// ParentAverage averages track averages for an album or artist. Only tracks
// with an average strictly above zero take part, so an unrated or zero-rated
// track neither raises nor lowers its parent.
func ParentAverage(trackAverages []float64) float64 {
	var total float64
	var count int
	for _, avg := range trackAverages {
		if avg > 0 {
			total += avg
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return roundRating(total / float64(count))
}

func roundRating(v float64) float64 {
	scale := math.Pow10(constants.RatingDecimal)
	return math.Round(v*scale) / scale
}

// RankDescending orders items by rating, highest first. Equal ratings keep
// their input order.
func RankDescending[T any](items []T, rating func(T) float64) {
	sort.SliceStable(items, func(i, j int) bool {
		return rating(items[i]) > rating(items[j])
	})
}

// Aggregator computes ratings on read from the stored rating rows.
type Aggregator struct {
	Repo *store.DB
}

func NewAggregator(repo *store.DB) *Aggregator {
	return &Aggregator{Repo: repo}
}

func (a *Aggregator) trackAverages(ctx context.Context, tracks []domain.Track) ([]float64, error) {
	ids := make([]int64, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	byTrack, err := a.Repo.RatingsForTracks(ctx, ids)
	if err != nil {
		return nil, err
	}
	avgs := make([]float64, len(tracks))
	for i, t := range tracks {
		avgs[i] = TrackAverage(byTrack[t.ID])
	}
	return avgs, nil
}

// TrackRating is the average rating of a single track.
func (a *Aggregator) TrackRating(ctx context.Context, trackID int64) (float64, error) {
	values, err := a.Repo.RatingValues(ctx, trackID)
	if err != nil {
		return 0, fmt.Errorf("failed to load ratings for track %d: %w", trackID, err)
	}
	return TrackAverage(values), nil
}

// RateTracks attaches average ratings and ranks the result.
func (a *Aggregator) RateTracks(ctx context.Context, tracks []domain.Track) ([]domain.RatedTrack, error) {
	avgs, err := a.trackAverages(ctx, tracks)
	if err != nil {
		return nil, err
	}
	rated := make([]domain.RatedTrack, len(tracks))
	for i, t := range tracks {
		rated[i] = domain.RatedTrack{Track: t, Rating: avgs[i]}
	}
	RankDescending(rated, func(t domain.RatedTrack) float64 { return t.Rating })
	return rated, nil
}

func (a *Aggregator) AlbumRating(ctx context.Context, albumID int64) (float64, error) {
	tracks, err := a.Repo.ListTracksByAlbum(ctx, albumID)
	if err != nil {
		return 0, err
	}
	avgs, err := a.trackAverages(ctx, tracks)
	if err != nil {
		return 0, err
	}
	return ParentAverage(avgs), nil
}

// ArtistRating averages over every track of the artist, across albums.
func (a *Aggregator) ArtistRating(ctx context.Context, username string) (float64, error) {
	tracks, err := a.Repo.ListTracksByArtist(ctx, username)
	if err != nil {
		return 0, err
	}
	avgs, err := a.trackAverages(ctx, tracks)
	if err != nil {
		return 0, err
	}
	return ParentAverage(avgs), nil
}

func (a *Aggregator) RateAlbums(ctx context.Context, albums []domain.Album) ([]domain.RatedAlbum, error) {
	rated := make([]domain.RatedAlbum, len(albums))
	for i, al := range albums {
		rating, err := a.AlbumRating(ctx, al.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to rate album %d: %w", al.ID, err)
		}
		rated[i] = domain.RatedAlbum{Album: al, Rating: rating}
	}
	RankDescending(rated, func(a domain.RatedAlbum) float64 { return a.Rating })
	return rated, nil
}

func (a *Aggregator) RateArtists(ctx context.Context, artists []domain.Artist) ([]domain.RatedArtist, error) {
	rated := make([]domain.RatedArtist, len(artists))
	for i, ar := range artists {
		rating, err := a.ArtistRating(ctx, ar.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to rate artist %s: %w", ar.Username, err)
		}
		rated[i] = domain.RatedArtist{Artist: ar, Rating: rating}
	}
	RankDescending(rated, func(a domain.RatedArtist) float64 { return a.Rating })
	return rated, nil
}
