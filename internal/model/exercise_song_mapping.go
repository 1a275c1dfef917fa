package model

// ExerciseSongMapping is the read-only many-to-many mapping between catalogue
// exercises and songs, including the curator's recommendation strength.
type ExerciseSongMapping struct {
	ExerciseID      string `gorm:"size:32;primaryKey" json:"exercise_id"`
	MusicRef        string `gorm:"size:32;primaryKey" json:"music_ref"`
	Recommendation  string `gorm:"size:32" json:"recommendation"`
	SpecificComment string `gorm:"type:text" json:"specific_comment"`
}
