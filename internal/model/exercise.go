package model

type Exercise struct {
	ID        string  `gorm:"size:32;primaryKey" json:"id"`
	Phase     float64 `json:"phase"`
	Category  string  `gorm:"size:64;index" json:"category"`
	Name      string  `gorm:"size:255" json:"name"`
	ShortName string  `gorm:"size:128" json:"short_name"`
	AKA       string  `gorm:"size:255" json:"aka"`
}
