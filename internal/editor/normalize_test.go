package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lsb-music/internal/model"
)

func TestNormalizeEntryRecoversIDFromLabel(t *testing.T) {
	e := NormalizeEntry(model.SessionEntry{
		ExerciseLabel: "Circle of greeting [id 14a]",
	})
	assert.Equal(t, "14a", e.ExerciseID)
	assert.Empty(t, e.Notes)
	assert.Empty(t, e.SongRef)
}

func TestNormalizeEntryKeepsExplicitID(t *testing.T) {
	e := NormalizeEntry(model.SessionEntry{
		ExerciseID:    "7",
		ExerciseLabel: "Breathing [id 99]",
	})
	assert.Equal(t, "7", e.ExerciseID)
}

func TestNormalizeEntryNoIDInLabel(t *testing.T) {
	e := NormalizeEntry(model.SessionEntry{ExerciseLabel: "free dance"})
	assert.Empty(t, e.ExerciseID)
	assert.Equal(t, "free dance", e.Label)
}

func TestNormalizeEntryIdempotent(t *testing.T) {
	song := "M042"
	row := model.SessionEntry{
		ExerciseID:    "3b",
		ExerciseLabel: "Fluid walk [id 3b]",
		SongRef:       &song,
		Notes:         "keep it slow",
	}

	once := NormalizeEntry(row)

	roundTripped := model.SessionEntry{
		ExerciseID:    once.ExerciseID,
		ExerciseLabel: once.Label,
		SongRef:       &once.SongRef,
		Notes:         once.Notes,
	}
	twice := NormalizeEntry(roundTripped)

	assert.Equal(t, once, twice)
}
