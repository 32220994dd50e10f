package pipeline

import (
	"time"

	"chartchat/internal/models"
)

// History is the append-only, bounded workflow log of one session.
// Sequence numbers are stable absolute IDs: eviction drops the oldest
// entry without renumbering the rest, so a handed-out Seq either resolves
// to the same entry forever or to nothing at all.
//
// Not safe for concurrent use; the owning session serializes access.
type History struct {
	capacity int
	entries  []models.HistoryEntry
	lastSeq  uint64
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{capacity: capacity}
}

// Append assigns the next sequence number and stores the artifact. When
// the log would exceed capacity, exactly one oldest entry is evicted.
func (h *History) Append(request string, artifact models.Artifact) models.HistoryEntry {
	h.lastSeq++
	entry := models.HistoryEntry{
		Seq:       h.lastSeq,
		Request:   request,
		Artifact:  artifact,
		CreatedAt: time.Now().UTC(),
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[1:]
	}
	return entry
}

// Get resolves a stable sequence number. Evicted or never-assigned
// sequences report false.
func (h *History) Get(seq uint64) (models.HistoryEntry, bool) {
	for _, entry := range h.entries {
		if entry.Seq == seq {
			return entry, true
		}
	}
	return models.HistoryEntry{}, false
}

func (h *History) Len() int {
	return len(h.entries)
}

// Bounds returns the oldest and newest live sequence numbers, zero when empty.
func (h *History) Bounds() (oldest, newest uint64) {
	if len(h.entries) == 0 {
		return 0, 0
	}
	return h.entries[0].Seq, h.entries[len(h.entries)-1].Seq
}

// Entries returns a copy of the live log, oldest first.
func (h *History) Entries() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Restore replaces the log with previously persisted entries, keeping the
// capacity bound and continuing sequence numbering after the newest entry.
func (h *History) Restore(entries []models.HistoryEntry) {
	if len(entries) > h.capacity {
		entries = entries[len(entries)-h.capacity:]
	}
	h.entries = make([]models.HistoryEntry, len(entries))
	copy(h.entries, entries)
	h.lastSeq = 0
	if len(entries) > 0 {
		h.lastSeq = entries[len(entries)-1].Seq
	}
}
