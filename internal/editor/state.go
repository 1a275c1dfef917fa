// Package editor holds the single session currently being edited: an ordered
// list of entries plus session metadata and a dirty flag. All methods are safe
// to call from the interactive caller and the autosave tick concurrently.
package editor

import (
	"errors"
	"sync"
	"time"

	"lsb-music/internal/model"
)

var ErrIndexOutOfRange = errors.New("entry index out of range")

type Direction int

const (
	Up Direction = iota
	Down
)

// Field names a session-level metadata field for SetField.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldDate        Field = "date"
	FieldTags        Field = "tags"
)

var ErrUnknownField = errors.New("unknown metadata field")

// Entry is one in-memory session slot. SongRef == "" means no song chosen yet.
type Entry struct {
	ExerciseID string
	Label      string
	SongRef    string
	Notes      string
}

// Snapshot is an immutable copy of the editor state, the exact shape the store
// saves and the export pipeline consumes. The generation records which mutation
// the copy was taken at, so a save result can tell whether the editor moved on
// while the save was in flight.
type Snapshot struct {
	ID          string
	Name        string
	Description string
	Date        string
	Tags        string
	Version     int64
	Entries     []Entry

	generation uint64
}

type State struct {
	mu sync.Mutex

	id          string
	name        string
	description string
	date        string
	tags        string
	version     int64

	entries    []Entry
	dirty      bool
	generation uint64
	lastSaved  time.Time
}

// New returns an empty draft state dated today.
func New() *State {
	return &State{
		date:    time.Now().Format("2006-01-02"),
		version: 1,
	}
}

// markDirtyLocked flags unsaved work and advances the mutation generation.
// Callers hold s.mu.
func (s *State) markDirtyLocked() {
	s.dirty = true
	s.generation++
}

func (s *State) Append(exerciseID, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{ExerciseID: exerciseID, Label: label})
	s.markDirtyLocked()
}

// Move swaps the entry at index with its neighbor. Moving past either end is
// a no-op, not an error.
func (s *State) Move(index int, dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}

	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if target < 0 || target >= len(s.entries) {
		return nil
	}

	s.entries[index], s.entries[target] = s.entries[target], s.entries[index]
	s.markDirtyLocked()
	return nil
}

// MoveToPosition removes the entry at index and reinserts it so it lands at
// the 1-based newPosition of the resulting sequence. Positions outside
// [1, len] are clamped.
func (s *State) MoveToPosition(index, newPosition int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}

	entry := s.entries[index]
	rest := append(s.entries[:index:index], s.entries[index+1:]...)

	if newPosition < 1 {
		newPosition = 1
	}
	if newPosition > len(rest)+1 {
		newPosition = len(rest) + 1
	}
	at := newPosition - 1

	s.entries = append(rest[:at:at], append([]Entry{entry}, rest[at:]...)...)
	s.markDirtyLocked()
	return nil
}

func (s *State) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	s.markDirtyLocked()
	return nil
}

// SetSong replaces the song reference of one entry, preserving its notes.
// Passing "" clears the selection.
func (s *State) SetSong(index int, songRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	s.entries[index].SongRef = songRef
	s.markDirtyLocked()
	return nil
}

func (s *State) SetNotes(index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	s.entries[index].Notes = text
	s.markDirtyLocked()
	return nil
}

// SetField updates one metadata field. The dirty flag only moves when the
// value actually changed, so redrawing a form with unchanged values does not
// trigger autosaves.
func (s *State) SetField(field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var slot *string
	switch field {
	case FieldName:
		slot = &s.name
	case FieldDescription:
		slot = &s.description
	case FieldDate:
		slot = &s.date
	case FieldTags:
		slot = &s.tags
	default:
		return ErrUnknownField
	}

	if *slot == value {
		return nil
	}
	*slot = value
	s.markDirtyLocked()
	return nil
}

// Snapshot returns a deep copy: a save can hand it to the store without
// observing mutations that land mid-save.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)

	return Snapshot{
		ID:          s.id,
		Name:        s.name,
		Description: s.description,
		Date:        s.date,
		Tags:        s.tags,
		Version:     s.version,
		Entries:     entries,
		generation:  s.generation,
	}
}

// Hydrate replaces the whole state with a freshly loaded session. Stored
// entries are normalized on the way in (see normalize.go) and the state comes
// back clean.
func (s *State) Hydrate(session model.Session, entries []model.SessionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = session.ID
	s.name = session.Name
	s.description = session.Description
	s.date = session.Date
	s.tags = session.Tags
	s.version = session.Version

	s.entries = make([]Entry, 0, len(entries))
	for _, e := range entries {
		s.entries = append(s.entries, NormalizeEntry(e))
	}

	s.dirty = false
	s.generation++ // snapshots taken before the load are stale
	s.lastSaved = time.Now()
}

// ApplySaveResult records a successful save of snap: identity and version come
// from the store's response. The dirty flag clears only if no mutation landed
// after snap was taken; an edit made while the save was in flight is not in the
// persisted snapshot, so the state stays dirty and the next save picks it up.
func (s *State) ApplySaveResult(snap Snapshot, id string, version int64, savedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.version = version
	s.lastSaved = savedAt
	if s.generation == snap.generation {
		s.dirty = false
	}
}

// Reset discards the in-memory state for a fresh draft. The stored record, if
// any, is untouched.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	s.name = ""
	s.description = ""
	s.tags = ""
	s.date = time.Now().Format("2006-01-02")
	s.version = 1
	s.entries = nil
	s.dirty = false
	s.generation++
	s.lastSaved = time.Time{}
}

func (s *State) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *State) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *State) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *State) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *State) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}
