package model

import "time"

type Session struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Date        string    `gorm:"size:10" json:"date"`
	Tags        string    `gorm:"size:255" json:"tags"`
	Version     int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Entries []SessionEntry `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`
}

// SessionSummary is the lightweight row returned by list queries. It never
// carries entry bodies, only the count.
type SessionSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Date       string    `json:"date"`
	UpdatedAt  time.Time `json:"updated_at"`
	EntryCount int64     `json:"entry_count"`
}
