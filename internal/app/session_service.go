package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"lsb-music/internal/editor"
	"lsb-music/internal/model"
	"lsb-music/internal/repository"
)

var (
	ErrNameRequired    = errors.New("session name is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrVersionConflict = repository.ErrVersionConflict
)

// SessionStore is the durable half of the save path. Implemented by
// repository.SessionRepository; faked in tests.
type SessionStore interface {
	Save(ctx context.Context, input repository.SaveInput) (*repository.SaveResult, error)
	Load(ctx context.Context, id string) (*model.Session, error)
	List(ctx context.Context) ([]model.SessionSummary, error)
	Delete(ctx context.Context, id string) error
}

// EventPublisher fans successful saves out to background consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event model.SessionSavedEvent) error
}

type SessionService struct {
	store     SessionStore
	publisher EventPublisher
}

func NewSessionService(store SessionStore, publisher EventPublisher) *SessionService {
	return &SessionService{store: store, publisher: publisher}
}

// Save snapshots the editor state and persists it. On success the editor
// learns its id/version and comes back clean, unless an edit landed while the
// save was in flight, in which case it stays dirty for the next save. On any
// failure it is left untouched and dirty, so no in-memory work is lost.
func (s *SessionService) Save(ctx context.Context, state *editor.State) error {
	snap := state.Snapshot()

	if strings.TrimSpace(snap.Name) == "" {
		return ErrNameRequired
	}

	result, err := s.store.Save(ctx, toSaveInput(snap))
	if err != nil {
		return err
	}

	state.ApplySaveResult(snap, result.ID, result.Version, result.UpdatedAt)

	if s.publisher != nil {
		event := model.SessionSavedEvent{
			SessionID: result.ID,
			Name:      snap.Name,
			Version:   result.Version,
			SavedAt:   result.UpdatedAt,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			// Event fan-out is best effort; the save already committed.
			log.Printf("publish session saved event failed: %v", err)
		}
	}
	return nil
}

// Load hydrates the editor with a stored session, normalizing legacy entries.
func (s *SessionService) Load(ctx context.Context, id string, state *editor.State) error {
	session, err := s.store.Load(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	state.Hydrate(*session, session.Entries)
	return nil
}

// Get returns a stored session without touching any editor state, for
// read-only consumers (the HTTP surface, the export worker).
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) List(ctx context.Context) ([]model.SessionSummary, error) {
	return s.store.List(ctx)
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// SaveSnapshot persists a snapshot arriving from a remote client (no local
// editor involved), e.g. the HTTP save endpoint. Same validation and
// concurrency rules as Save.
func (s *SessionService) SaveSnapshot(ctx context.Context, snap editor.Snapshot) (*repository.SaveResult, error) {
	if strings.TrimSpace(snap.Name) == "" {
		return nil, ErrNameRequired
	}

	result, err := s.store.Save(ctx, toSaveInput(snap))
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := model.SessionSavedEvent{
			SessionID: result.ID,
			Name:      snap.Name,
			Version:   result.Version,
			SavedAt:   result.UpdatedAt,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("publish session saved event failed: %v", err)
		}
	}
	return result, nil
}

func toSaveInput(snap editor.Snapshot) repository.SaveInput {
	entries := make([]model.SessionEntry, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		row := model.SessionEntry{
			ExerciseID:    e.ExerciseID,
			ExerciseLabel: e.Label,
			Notes:         e.Notes,
		}
		if e.SongRef != "" {
			ref := e.SongRef
			row.SongRef = &ref
		}
		entries = append(entries, row)
	}
	return repository.SaveInput{
		ID:              snap.ID,
		Name:            strings.TrimSpace(snap.Name),
		Description:     snap.Description,
		Date:            snap.Date,
		Tags:            snap.Tags,
		ExpectedVersion: snap.Version,
		Entries:         entries,
	}
}
