package model

// SessionEntry is one ordered slot of a session: an exercise, an optional song
// and free-text notes. Entries are replaced wholesale on every save, so the
// primary key is (session_id, sequence_number) and sequence numbers are always
// contiguous from 1.
type SessionEntry struct {
	SessionID      string  `gorm:"type:char(36);primaryKey" json:"session_id"`
	SequenceNumber int     `gorm:"primaryKey" json:"sequence_number"`
	ExerciseID     string  `gorm:"size:32;not null" json:"exercise_id"`
	ExerciseLabel  string  `gorm:"size:255" json:"exercise_label"`
	SongRef        *string `gorm:"size:32" json:"song_ref"`
	Notes          string  `gorm:"type:text" json:"notes"`
}
