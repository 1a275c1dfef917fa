package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lsb-music/internal/model"
)

// ErrVersionConflict means the stored session moved past the version the
// caller loaded. Nothing is written; the caller must reload before saving.
var ErrVersionConflict = errors.New("session was modified elsewhere; reload before saving")

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// SaveInput is the full snapshot a save persists: metadata plus the complete
// ordered entry set. ExpectedVersion is the version the caller loaded (ignored
// on create).
type SaveInput struct {
	ID              string
	Name            string
	Description     string
	Date            string
	Tags            string
	ExpectedVersion int64
	Entries         []model.SessionEntry
}

type SaveResult struct {
	ID        string
	Version   int64
	UpdatedAt time.Time
}

// Save persists one session atomically. Empty id, or an id with no stored row,
// creates; otherwise it updates under the optimistic version check and replaces
// the entry set wholesale. On any error the transaction rolls back and the
// stored record is unchanged.
//
// The version check is a guarded update: the metadata row only moves when its
// stored version is still <= the version the caller loaded, so two writers
// racing on the same id cannot both win.
func (r *SessionRepository) Save(ctx context.Context, input SaveInput) (*SaveResult, error) {
	var result *SaveResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		if input.ID == "" {
			created, err := createSession(tx, input, uuid.NewString(), now)
			if err != nil {
				return err
			}
			result = created
			return nil
		}

		update := tx.Model(&model.Session{}).
			Where("id = ? AND version <= ?", input.ID, input.ExpectedVersion).
			Updates(map[string]interface{}{
				"name":        input.Name,
				"description": input.Description,
				"date":        input.Date,
				"tags":        input.Tags,
				"version":     gorm.Expr("version + 1"),
				"updated_at":  now,
			})
		if update.Error != nil {
			return fmt.Errorf("update session metadata failed: %w", update.Error)
		}

		if update.RowsAffected == 0 {
			var stored model.Session
			err := tx.First(&stored, "id = ?", input.ID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Caller-supplied id with no stored row: create, keeping the id.
				created, createErr := createSession(tx, input, input.ID, now)
				if createErr != nil {
					return createErr
				}
				result = created
				return nil
			}
			if err != nil {
				return fmt.Errorf("load stored session failed: %w", err)
			}
			return ErrVersionConflict
		}

		var stored model.Session
		if err := tx.First(&stored, "id = ?", input.ID).Error; err != nil {
			return fmt.Errorf("reload saved session failed: %w", err)
		}

		if err := tx.Where("session_id = ?", input.ID).Delete(&model.SessionEntry{}).Error; err != nil {
			return fmt.Errorf("clear session entries failed: %w", err)
		}
		if err := insertEntries(tx, input.ID, input.Entries); err != nil {
			return err
		}

		result = &SaveResult{ID: input.ID, Version: stored.Version, UpdatedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func createSession(tx *gorm.DB, input SaveInput, id string, now time.Time) (*SaveResult, error) {
	session := model.Session{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Date:        input.Date,
		Tags:        input.Tags,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session failed: %w", err)
	}
	if err := insertEntries(tx, id, input.Entries); err != nil {
		return nil, err
	}
	return &SaveResult{ID: id, Version: 1, UpdatedAt: now}, nil
}

// insertEntries writes the submitted set with fresh sequence numbers 1..k in
// submission order.
func insertEntries(tx *gorm.DB, sessionID string, entries []model.SessionEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]model.SessionEntry, len(entries))
	for i, e := range entries {
		rows[i] = e
		rows[i].SessionID = sessionID
		rows[i].SequenceNumber = i + 1
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert session entries failed: %w", err)
	}
	return nil
}

// Load returns the session and its entries ordered by sequence number, or
// (nil, nil) when the id is unknown. Absence is a normal outcome here.
func (r *SessionRepository) Load(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session failed: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Where("session_id = ?", id).
		Order("sequence_number ASC").
		Find(&session.Entries).Error; err != nil {
		return nil, fmt.Errorf("load session entries failed: %w", err)
	}
	return &session, nil
}

// List returns summaries for every stored session, most recently touched
// first. Entry sets are counted, never loaded.
func (r *SessionRepository) List(ctx context.Context) ([]model.SessionSummary, error) {
	var summaries []model.SessionSummary
	err := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Select("sessions.id, sessions.name, sessions.date, sessions.updated_at, COUNT(session_entries.session_id) AS entry_count").
		Joins("LEFT JOIN session_entries ON session_entries.session_id = sessions.id").
		Group("sessions.id, sessions.name, sessions.date, sessions.updated_at").
		Order("sessions.updated_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions failed: %w", err)
	}
	return summaries, nil
}

// Delete removes the session and its entries in one transaction. Deleting an
// unknown id succeeds.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&model.SessionEntry{}).Error; err != nil {
			return fmt.Errorf("delete session entries failed: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&model.Session{}).Error; err != nil {
			return fmt.Errorf("delete session failed: %w", err)
		}
		return nil
	})
	return err
}
