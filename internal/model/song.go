package model

type Song struct {
	MusicRef     string `gorm:"size:32;primaryKey" json:"music_ref"`
	CollectionCD string `gorm:"size:64" json:"collection_cd"`
	Filename     string `gorm:"size:255" json:"filename"`
	Title        string `gorm:"size:255" json:"title"`
	Artist       string `gorm:"size:255" json:"artist"`
	Duration     string `gorm:"size:16" json:"duration"`
	BPM          int    `json:"bpm"`
}

// SongRecommendation is a song joined with its mapping row for one exercise.
type SongRecommendation struct {
	Song
	Recommendation  string `json:"recommendation"`
	SpecificComment string `json:"specific_comment"`
}
