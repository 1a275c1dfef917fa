package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsb-music/internal/model"
)

func entryIDs(s *State) []string {
	snap := s.Snapshot()
	ids := make([]string, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		ids = append(ids, e.ExerciseID)
	}
	return ids
}

func threeEntryState(t *testing.T) *State {
	t.Helper()
	s := New()
	s.Append("A", "Exercise A [id A]")
	s.Append("B", "Exercise B [id B]")
	s.Append("C", "Exercise C [id C]")
	return s
}

func TestAppendSetsDirty(t *testing.T) {
	s := New()
	assert.False(t, s.Dirty())

	s.Append("14a", "Circle of greeting [id 14a]")

	assert.True(t, s.Dirty())
	snap := s.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "14a", snap.Entries[0].ExerciseID)
	assert.Empty(t, snap.Entries[0].SongRef)
	assert.Empty(t, snap.Entries[0].Notes)
}

func TestMoveSwapsNeighbors(t *testing.T) {
	s := threeEntryState(t)

	require.NoError(t, s.Move(0, Down))
	assert.Equal(t, []string{"B", "A", "C"}, entryIDs(s))

	require.NoError(t, s.Move(2, Up))
	assert.Equal(t, []string{"B", "C", "A"}, entryIDs(s))
}

func TestMoveAtBoundaryIsNoOp(t *testing.T) {
	s := threeEntryState(t)

	require.NoError(t, s.Move(0, Up))
	require.NoError(t, s.Move(2, Down))
	assert.Equal(t, []string{"A", "B", "C"}, entryIDs(s))
}

func TestMoveInvalidIndex(t *testing.T) {
	s := threeEntryState(t)

	assert.ErrorIs(t, s.Move(-1, Down), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Move(3, Up), ErrIndexOutOfRange)
	assert.Equal(t, []string{"A", "B", "C"}, entryIDs(s))
}

func TestMoveToPosition(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		position int
		want     []string
	}{
		{"first to middle", 0, 2, []string{"B", "A", "C"}},
		{"first to end", 0, 3, []string{"B", "C", "A"}},
		{"last to front", 2, 1, []string{"C", "A", "B"}},
		{"same position", 1, 2, []string{"A", "B", "C"}},
		{"position clamped low", 2, 0, []string{"C", "A", "B"}},
		{"position clamped high", 0, 99, []string{"B", "C", "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := threeEntryState(t)
			require.NoError(t, s.MoveToPosition(tt.index, tt.position))
			assert.Equal(t, tt.want, entryIDs(s))
			assert.True(t, s.Dirty())
		})
	}
}

func TestMoveToPositionInvalidIndex(t *testing.T) {
	s := threeEntryState(t)
	assert.ErrorIs(t, s.MoveToPosition(5, 1), ErrIndexOutOfRange)
}

func TestRemove(t *testing.T) {
	s := threeEntryState(t)

	require.NoError(t, s.Remove(1))
	assert.Equal(t, []string{"A", "C"}, entryIDs(s))

	assert.ErrorIs(t, s.Remove(2), ErrIndexOutOfRange)
}

func TestSetSongPreservesNotes(t *testing.T) {
	s := threeEntryState(t)
	require.NoError(t, s.SetNotes(0, "slow tempo"))
	require.NoError(t, s.SetSong(0, "M042"))

	snap := s.Snapshot()
	assert.Equal(t, "M042", snap.Entries[0].SongRef)
	assert.Equal(t, "slow tempo", snap.Entries[0].Notes)

	// clearing the selection keeps the notes too
	require.NoError(t, s.SetSong(0, ""))
	snap = s.Snapshot()
	assert.Empty(t, snap.Entries[0].SongRef)
	assert.Equal(t, "slow tempo", snap.Entries[0].Notes)
}

func TestSetNotesPreservesSong(t *testing.T) {
	s := threeEntryState(t)
	require.NoError(t, s.SetSong(1, "M007"))
	require.NoError(t, s.SetNotes(1, "new note"))

	snap := s.Snapshot()
	assert.Equal(t, "M007", snap.Entries[1].SongRef)
	assert.Equal(t, "new note", snap.Entries[1].Notes)
}

func TestSetFieldDirtyOnlyOnChange(t *testing.T) {
	s := New()
	require.NoError(t, s.SetField(FieldName, "Warmup"))
	assert.True(t, s.Dirty())

	s.ApplySaveResult(s.Snapshot(), "id-1", 1, s.LastSaved())
	assert.False(t, s.Dirty())

	// same value again: still clean
	require.NoError(t, s.SetField(FieldName, "Warmup"))
	assert.False(t, s.Dirty())

	require.NoError(t, s.SetField(FieldDescription, "monday class"))
	assert.True(t, s.Dirty())
}

func TestSetFieldUnknown(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.SetField(Field("color"), "blue"), ErrUnknownField)
	assert.False(t, s.Dirty())
}

func TestSnapshotIsolatedFromLaterMutations(t *testing.T) {
	s := threeEntryState(t)
	snap := s.Snapshot()

	require.NoError(t, s.SetNotes(0, "changed after snapshot"))
	require.NoError(t, s.Remove(2))

	require.Len(t, snap.Entries, 3)
	assert.Empty(t, snap.Entries[0].Notes)
}

func TestHydrateClearsDirtyAndNormalizes(t *testing.T) {
	s := New()
	s.Append("X", "whatever")
	require.True(t, s.Dirty())

	song := "M001"
	s.Hydrate(model.Session{
		ID:      "abc",
		Name:    "Loaded",
		Version: 4,
	}, []model.SessionEntry{
		{SequenceNumber: 1, ExerciseID: "", ExerciseLabel: "Fluid walk [id 3b]", SongRef: &song},
		{SequenceNumber: 2, ExerciseID: "7", ExerciseLabel: "Breathing [id 7]", Notes: "gentle"},
	})

	assert.False(t, s.Dirty())
	assert.Equal(t, "abc", s.ID())
	assert.Equal(t, int64(4), s.Version())

	snap := s.Snapshot()
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "3b", snap.Entries[0].ExerciseID)
	assert.Equal(t, "M001", snap.Entries[0].SongRef)
	assert.Equal(t, "gentle", snap.Entries[1].Notes)
}

func TestApplySaveResultLifecycle(t *testing.T) {
	s := New()
	require.NoError(t, s.SetField(FieldName, "Warmup"))
	s.Append("A", "A [id A]")
	require.True(t, s.Dirty())

	s.ApplySaveResult(s.Snapshot(), "new-id", 1, s.LastSaved())
	assert.False(t, s.Dirty())
	assert.Equal(t, "new-id", s.ID())
	assert.Equal(t, int64(1), s.Version())

	require.NoError(t, s.SetNotes(0, "again"))
	assert.True(t, s.Dirty())
}

func TestApplySaveResultWithStaleSnapshotKeepsDirty(t *testing.T) {
	s := New()
	require.NoError(t, s.SetField(FieldName, "Warmup"))
	s.Append("A", "A [id A]")

	snap := s.Snapshot()

	// edit landing after the snapshot, i.e. while a save is in flight
	require.NoError(t, s.SetNotes(0, "edited mid-save"))

	s.ApplySaveResult(snap, "saved-id", 2, s.LastSaved())

	// identity and version still apply, but the unpersisted edit keeps the
	// state dirty so the next save picks it up
	assert.Equal(t, "saved-id", s.ID())
	assert.Equal(t, int64(2), s.Version())
	assert.True(t, s.Dirty())

	// a save of the current state does clear it
	s.ApplySaveResult(s.Snapshot(), "saved-id", 3, s.LastSaved())
	assert.False(t, s.Dirty())
}

func TestReset(t *testing.T) {
	s := threeEntryState(t)
	require.NoError(t, s.SetField(FieldName, "Something"))
	s.Reset()

	assert.False(t, s.Dirty())
	assert.Empty(t, s.ID())
	assert.Empty(t, s.Name())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, int64(1), s.Version())
}
