package app

import (
	"context"
	"time"

	"github.com/cesargomez89/soundhall/internal/domain"
	"github.com/cesargomez89/soundhall/internal/logger"
	"github.com/cesargomez89/soundhall/internal/metrics"
	"github.com/cesargomez89/soundhall/internal/store"
)

// ListeningService records what users play and how they rate it.
type ListeningService struct {
	Repo   *store.DB
	Logger *logger.Logger
	Now    func() time.Time
}

func NewListeningService(repo *store.DB, log *logger.Logger) *ListeningService {
	return &ListeningService{Repo: repo, Logger: log.WithComponent("listening"), Now: time.Now}
}

// RecordPlay appends a play event for an existing track.
func (s *ListeningService) RecordPlay(ctx context.Context, username string, trackID int64) (*domain.PlayEvent, error) {
	if _, err := s.Repo.GetTrack(ctx, trackID); err != nil {
		return nil, err
	}

	event := &domain.PlayEvent{
		TrackID:  trackID,
		Username: username,
		PlayedAt: s.Now().UTC(),
	}
	if err := s.Repo.RecordPlay(ctx, event); err != nil {
		return nil, err
	}

	metrics.RecordPlay()
	s.Logger.WithUser(username).Info("Play recorded", "track_id", trackID)
	return event, nil
}

// Rate stores the user's rating for a track, replacing any earlier one.
// The value is not range checked.
func (s *ListeningService) Rate(ctx context.Context, username string, trackID int64, value int) error {
	if _, err := s.Repo.GetTrack(ctx, trackID); err != nil {
		return err
	}

	created, err := s.Repo.SetRating(ctx, trackID, username, value)
	if err != nil {
		return err
	}

	metrics.RecordRating(created)
	s.Logger.WithUser(username).Info("Rating saved", "track_id", trackID, "rating", value, "created", created)
	return nil
}
