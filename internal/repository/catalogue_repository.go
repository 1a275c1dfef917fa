package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"lsb-music/internal/model"
)

// CatalogueRepository is read-only: the exercise/song reference data is
// imported out of band and never mutated by this service.
type CatalogueRepository struct {
	db *gorm.DB
}

func NewCatalogueRepository(db *gorm.DB) *CatalogueRepository {
	return &CatalogueRepository{db: db}
}

func (r *CatalogueRepository) LookupExercise(ctx context.Context, id string) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.db.WithContext(ctx).First(&exercise, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup exercise failed: %w", err)
	}
	return &exercise, nil
}

func (r *CatalogueRepository) LookupSong(ctx context.Context, ref string) (*model.Song, error) {
	var song model.Song
	err := r.db.WithContext(ctx).First(&song, "music_ref = ?", ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup song failed: %w", err)
	}
	return &song, nil
}

// SongsForExercise returns the mapped songs for one exercise, strongest
// recommendation first.
func (r *CatalogueRepository) SongsForExercise(ctx context.Context, exerciseID string) ([]model.SongRecommendation, error) {
	var songs []model.SongRecommendation
	err := r.db.WithContext(ctx).
		Model(&model.Song{}).
		Select("songs.*, exercise_song_mappings.recommendation, exercise_song_mappings.specific_comment").
		Joins("JOIN exercise_song_mappings ON exercise_song_mappings.music_ref = songs.music_ref").
		Where("exercise_song_mappings.exercise_id = ?", exerciseID).
		Order("exercise_song_mappings.recommendation DESC").
		Scan(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("list songs for exercise failed: %w", err)
	}
	return songs, nil
}

// ListExercises filters by phase (0 = all phases) and an optional
// case-insensitive name fragment, ordered the way the selector displays them.
func (r *CatalogueRepository) ListExercises(ctx context.Context, phase float64, nameFilter string) ([]model.Exercise, error) {
	query := r.db.WithContext(ctx).Model(&model.Exercise{})
	if phase > 0 {
		query = query.Where("phase = ?", phase)
	}
	if nameFilter != "" {
		query = query.Where("UPPER(name) LIKE ?", "%"+strings.ToUpper(nameFilter)+"%")
	}

	var exercises []model.Exercise
	if err := query.Order("phase, id").Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("list exercises failed: %w", err)
	}
	return exercises, nil
}

// SearchExercisesBySong finds exercises mapped to songs whose title or artist
// matches the query fragment.
func (r *CatalogueRepository) SearchExercisesBySong(ctx context.Context, query string) ([]model.Exercise, error) {
	pattern := "%" + strings.ToUpper(query) + "%"
	var exercises []model.Exercise
	err := r.db.WithContext(ctx).
		Model(&model.Exercise{}).
		Distinct("exercises.*").
		Joins("JOIN exercise_song_mappings ON exercise_song_mappings.exercise_id = exercises.id").
		Joins("JOIN songs ON songs.music_ref = exercise_song_mappings.music_ref").
		Where("UPPER(songs.title) LIKE ? OR UPPER(songs.artist) LIKE ?", pattern, pattern).
		Order("exercises.phase, exercises.id").
		Find(&exercises).Error
	if err != nil {
		return nil, fmt.Errorf("search exercises by song failed: %w", err)
	}
	return exercises, nil
}
