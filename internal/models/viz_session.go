package models

import "time"

// VizSession persists one visualization workflow: the serialized history
// log plus the current-artifact pointer, keyed by a caller-chosen name.
type VizSession struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null;uniqueIndex"`
	Provider    string `gorm:"size:50"`
	ModelKey    string `gorm:"size:255"`
	HistoryJSON string `gorm:"type:text"`
	CurrentSeq  uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
