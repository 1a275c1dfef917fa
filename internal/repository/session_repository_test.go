package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lsb-music/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Session{}, &model.SessionEntry{},
		&model.Exercise{}, &model.Song{}, &model.ExerciseSongMapping{},
	))
	return db
}

func strPtr(s string) *string { return &s }

func warmupInput() SaveInput {
	return SaveInput{
		Name: "Warmup",
		Entries: []model.SessionEntry{
			{ExerciseID: "exA", ExerciseLabel: "Exercise A [id exA]"},
			{ExerciseID: "exB", ExerciseLabel: "Exercise B [id exB]", SongRef: strPtr("songX"), Notes: "note"},
		},
	}
}

func TestSaveCreatesSession(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	result, err := repo.Save(ctx, warmupInput())
	require.NoError(t, err)
	require.NotEmpty(t, result.ID)
	assert.Equal(t, int64(1), result.Version)

	loaded, err := repo.Load(ctx, result.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Warmup", loaded.Name)
	assert.Equal(t, int64(1), loaded.Version)
	require.Len(t, loaded.Entries, 2)
	assert.Equal(t, 1, loaded.Entries[0].SequenceNumber)
	assert.Equal(t, "exA", loaded.Entries[0].ExerciseID)
	assert.Nil(t, loaded.Entries[0].SongRef)
	assert.Equal(t, 2, loaded.Entries[1].SequenceNumber)
	require.NotNil(t, loaded.Entries[1].SongRef)
	assert.Equal(t, "songX", *loaded.Entries[1].SongRef)
	assert.Equal(t, "note", loaded.Entries[1].Notes)
}

func TestSaveWithUnknownIDCreatesPreservingID(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	input := warmupInput()
	input.ID = "11111111-2222-3333-4444-555555555555"
	input.ExpectedVersion = 7 // stale caller state; no stored row, so still a create

	result, err := repo.Save(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, input.ID, result.ID)
	assert.Equal(t, int64(1), result.Version)
}

func TestVersionMonotonicity(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	result, err := repo.Save(ctx, warmupInput())
	require.NoError(t, err)

	for want := int64(2); want <= 5; want++ {
		input := warmupInput()
		input.ID = result.ID
		input.ExpectedVersion = result.Version
		result, err = repo.Save(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, want, result.Version)
	}
}

func TestSaveConflictLeavesStoredRecordUnchanged(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	created, err := repo.Save(ctx, warmupInput())
	require.NoError(t, err)

	// first writer wins, version 1 -> 2
	winner := warmupInput()
	winner.ID = created.ID
	winner.ExpectedVersion = 1
	winner.Name = "Warmup v2"
	_, err = repo.Save(ctx, winner)
	require.NoError(t, err)

	before, err := repo.Load(ctx, created.ID)
	require.NoError(t, err)

	// second writer also loaded at version 1
	loser := warmupInput()
	loser.ID = created.ID
	loser.ExpectedVersion = 1
	loser.Name = "stale edit"
	loser.Entries = nil
	_, err = repo.Save(ctx, loser)
	assert.ErrorIs(t, err, ErrVersionConflict)

	after, err := repo.Load(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, "Warmup v2", after.Name)
	assert.Equal(t, int64(2), after.Version)
}

func TestSameVersionResubmitSucceeds(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	created, err := repo.Save(ctx, warmupInput())
	require.NoError(t, err)

	input := warmupInput()
	input.ID = created.ID
	input.ExpectedVersion = created.Version

	result, err := repo.Save(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, created.Version+1, result.Version)
}

func TestEntryReplacementIsWholesale(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	created, err := repo.Save(ctx, warmupInput())
	require.NoError(t, err)

	update := SaveInput{
		ID:              created.ID,
		Name:            "Warmup",
		ExpectedVersion: created.Version,
		Entries: []model.SessionEntry{
			{ExerciseID: "exC", ExerciseLabel: "Exercise C [id exC]"},
			{ExerciseID: "exA", ExerciseLabel: "Exercise A [id exA]", Notes: "swapped in"},
			{ExerciseID: "exD", ExerciseLabel: "Exercise D [id exD]"},
		},
	}
	_, err = repo.Save(ctx, update)
	require.NoError(t, err)

	loaded, err := repo.Load(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 3)
	for i, wantID := range []string{"exC", "exA", "exD"} {
		assert.Equal(t, i+1, loaded.Entries[i].SequenceNumber)
		assert.Equal(t, wantID, loaded.Entries[i].ExerciseID)
	}

	// no orphans beyond the submitted set
	var count int64
	require.NoError(t, repo.db.Model(&model.SessionEntry{}).
		Where("session_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestSaveToEmptyEntrySet(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	created, err := repo.Save(ctx, warmupInput())
	require.NoError(t, err)

	update := SaveInput{ID: created.ID, Name: "Warmup", ExpectedVersion: created.Version}
	_, err = repo.Save(ctx, update)
	require.NoError(t, err)

	loaded, err := repo.Load(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries)
}

func TestMoveScenario(t *testing.T) {
	// save, swap the two entries, save again with expected version 1,
	// expect version 2 and the swapped order on load.
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	created, err := repo.Save(ctx, warmupInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	swapped := warmupInput()
	swapped.ID = created.ID
	swapped.ExpectedVersion = 1
	swapped.Entries = []model.SessionEntry{
		{ExerciseID: "exB", ExerciseLabel: "Exercise B [id exB]", SongRef: strPtr("songX"), Notes: "note"},
		{ExerciseID: "exA", ExerciseLabel: "Exercise A [id exA]"},
	}

	result, err := repo.Save(ctx, swapped)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Version)

	loaded, err := repo.Load(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 2)
	assert.Equal(t, "exB", loaded.Entries[0].ExerciseID)
	assert.Equal(t, "exA", loaded.Entries[1].ExerciseID)
}

func TestLoadUnknownIDReturnsNil(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	loaded, err := repo.Load(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestListOrdersByUpdatedAtWithCounts(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	first, err := repo.Save(ctx, warmupInput())
	require.NoError(t, err)

	second := warmupInput()
	second.Name = "Cooldown"
	second.Entries = second.Entries[:1]
	secondResult, err := repo.Save(ctx, second)
	require.NoError(t, err)

	// touch the first session so it becomes the most recent
	touch := warmupInput()
	touch.ID = first.ID
	touch.ExpectedVersion = first.Version
	_, err = repo.Save(ctx, touch)
	require.NoError(t, err)

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, first.ID, summaries[0].ID)
	assert.Equal(t, int64(2), summaries[0].EntryCount)
	assert.Equal(t, secondResult.ID, summaries[1].ID)
	assert.Equal(t, "Cooldown", summaries[1].Name)
	assert.Equal(t, int64(1), summaries[1].EntryCount)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	created, err := repo.Save(ctx, warmupInput())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, "never-existed"))

	loaded, err := repo.Load(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	var count int64
	require.NoError(t, repo.db.Model(&model.SessionEntry{}).
		Where("session_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)
}
