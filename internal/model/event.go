package model

import "time"

// SessionSavedEvent is published after every successful save so background
// consumers (playlist export) can react without sitting on the save path.
type SessionSavedEvent struct {
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	Version   int64     `json:"version"`
	SavedAt   time.Time `json:"saved_at"`
}
