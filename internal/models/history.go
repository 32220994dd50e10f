package models

import "time"

// HistoryEntry is one produced artifact in a session's workflow history.
// Seq is a stable absolute sequence number: eviction of older entries never
// renumbers the survivors, so a Seq handed out once stays meaningful.
type HistoryEntry struct {
	Seq       uint64    `json:"seq"`
	Request   string    `json:"request"`
	Artifact  Artifact  `json:"artifact"`
	CreatedAt time.Time `json:"createdAt"`
}
