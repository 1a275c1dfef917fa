package app

import (
	"context"
	"errors"

	"lsb-music/internal/model"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSongNotFound     = errors.New("song not found")
)

// CatalogueReader is the read-only query surface over the reference data.
type CatalogueReader interface {
	LookupExercise(ctx context.Context, id string) (*model.Exercise, error)
	LookupSong(ctx context.Context, ref string) (*model.Song, error)
	SongsForExercise(ctx context.Context, exerciseID string) ([]model.SongRecommendation, error)
	ListExercises(ctx context.Context, phase float64, nameFilter string) ([]model.Exercise, error)
	SearchExercisesBySong(ctx context.Context, query string) ([]model.Exercise, error)
}

// CatalogueCache keeps hot lookups out of MySQL. Any cache failure falls
// through to the repository.
type CatalogueCache interface {
	GetSong(ctx context.Context, ref string) (*model.Song, bool, error)
	SetSong(ctx context.Context, song model.Song) error
	GetSongsForExercise(ctx context.Context, exerciseID string) ([]model.SongRecommendation, bool, error)
	SetSongsForExercise(ctx context.Context, exerciseID string, songs []model.SongRecommendation) error
}

type CatalogueService struct {
	reader CatalogueReader
	cache  CatalogueCache
}

func NewCatalogueService(reader CatalogueReader, cache CatalogueCache) *CatalogueService {
	return &CatalogueService{reader: reader, cache: cache}
}

func (s *CatalogueService) LookupExercise(ctx context.Context, id string) (*model.Exercise, error) {
	exercise, err := s.reader.LookupExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}
	return exercise, nil
}

func (s *CatalogueService) LookupSong(ctx context.Context, ref string) (*model.Song, error) {
	if s.cache != nil {
		if cached, hit, err := s.cache.GetSong(ctx, ref); err == nil && hit {
			return cached, nil
		}
	}

	song, err := s.reader.LookupSong(ctx, ref)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, ErrSongNotFound
	}
	if s.cache != nil {
		_ = s.cache.SetSong(ctx, *song)
	}
	return song, nil
}

func (s *CatalogueService) SongsForExercise(ctx context.Context, exerciseID string) ([]model.SongRecommendation, error) {
	if s.cache != nil {
		if cached, hit, err := s.cache.GetSongsForExercise(ctx, exerciseID); err == nil && hit {
			return cached, nil
		}
	}

	songs, err := s.reader.SongsForExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSongsForExercise(ctx, exerciseID, songs)
	}
	return songs, nil
}

func (s *CatalogueService) ListExercises(ctx context.Context, phase float64, nameFilter string) ([]model.Exercise, error) {
	return s.reader.ListExercises(ctx, phase, nameFilter)
}

func (s *CatalogueService) SearchExercisesBySong(ctx context.Context, query string) ([]model.Exercise, error) {
	return s.reader.SearchExercisesBySong(ctx, query)
}
