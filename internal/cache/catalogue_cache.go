package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"lsb-music/internal/model"
)

// CatalogueCache keeps song lookups and per-exercise song lists in redis. The
// catalogue is read-only at runtime, so entries only expire, they are never
// written through; Invalidate exists for out-of-band catalogue reloads.
type CatalogueCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewCatalogueCache(client *redisv9.Client, ttl time.Duration) *CatalogueCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CatalogueCache{client: client, ttl: ttl}
}

func (c *CatalogueCache) GetSong(ctx context.Context, ref string) (*model.Song, bool, error) {
	raw, err := c.client.Get(ctx, c.songKey(ref)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get song failed: %w", err)
	}

	var song model.Song
	if err := json.Unmarshal([]byte(raw), &song); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached song failed: %w", err)
	}
	return &song, true, nil
}

func (c *CatalogueCache) SetSong(ctx context.Context, song model.Song) error {
	payload, err := json.Marshal(song)
	if err != nil {
		return fmt.Errorf("marshal song cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.songKey(song.MusicRef), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set song failed: %w", err)
	}
	return nil
}

func (c *CatalogueCache) GetSongsForExercise(ctx context.Context, exerciseID string) ([]model.SongRecommendation, bool, error) {
	raw, err := c.client.Get(ctx, c.exerciseSongsKey(exerciseID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get exercise songs failed: %w", err)
	}

	var songs []model.SongRecommendation
	if err := json.Unmarshal([]byte(raw), &songs); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached exercise songs failed: %w", err)
	}
	return songs, true, nil
}

func (c *CatalogueCache) SetSongsForExercise(ctx context.Context, exerciseID string, songs []model.SongRecommendation) error {
	payload, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("marshal exercise songs cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.exerciseSongsKey(exerciseID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set exercise songs failed: %w", err)
	}
	return nil
}

// Invalidate drops every cached catalogue key, for use after the reference
// data is reimported.
func (c *CatalogueCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "catalogue:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete catalogue key failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan catalogue keys failed: %w", err)
	}
	return nil
}

func (c *CatalogueCache) songKey(ref string) string {
	return fmt.Sprintf("catalogue:song:%s", ref)
}

func (c *CatalogueCache) exerciseSongsKey(exerciseID string) string {
	return fmt.Sprintf("catalogue:exercise:%s:songs", exerciseID)
}
