package pipeline

import (
	"testing"

	"chartchat/internal/models"
	"chartchat/internal/utils"
)

func TestHistoryAppendAssignsSequentialIDs(t *testing.T) {
	h := NewHistory(10)

	first := h.Append("initial visualization", models.Artifact{State: models.ArtifactValid})
	second := h.Append("make it blue", models.Artifact{State: models.ArtifactRepaired})

	utils.Equal(t, first.Seq, uint64(1))
	utils.Equal(t, second.Seq, uint64(2))
	utils.Equal(t, h.Len(), 2)
}

// Eviction drops the oldest entry without renumbering: a handed-out Seq
// keeps resolving to the same entry, or to nothing once evicted.
func TestHistoryEvictionKeepsSequenceNumbersStable(t *testing.T) {
	h := NewHistory(2)

	h.Append("first", models.Artifact{Code: "a"})
	h.Append("second", models.Artifact{Code: "b"})
	h.Append("third", models.Artifact{Code: "c"})

	utils.Equal(t, h.Len(), 2)
	if _, ok := h.Get(1); ok {
		t.Fatal("evicted entry still resolves")
	}
	entry, ok := h.Get(3)
	utils.Equal(t, ok, true)
	utils.Equal(t, entry.Artifact.Code, "c")

	oldest, newest := h.Bounds()
	utils.Equal(t, oldest, uint64(2))
	utils.Equal(t, newest, uint64(3))
}

func TestHistoryGetUnknownSequence(t *testing.T) {
	h := NewHistory(4)
	h.Append("first", models.Artifact{})

	_, ok := h.Get(99)
	utils.Equal(t, ok, false)
}

func TestHistoryEntriesReturnsACopy(t *testing.T) {
	h := NewHistory(4)
	h.Append("first", models.Artifact{Code: "a"})

	entries := h.Entries()
	entries[0].Artifact.Code = "mutated"

	entry, _ := h.Get(1)
	utils.Equal(t, entry.Artifact.Code, "a")
}

func TestHistoryRestoreContinuesNumbering(t *testing.T) {
	h := NewHistory(10)
	h.Restore([]models.HistoryEntry{
		{Seq: 4, Request: "first", Artifact: models.Artifact{Code: "a"}},
		{Seq: 5, Request: "second", Artifact: models.Artifact{Code: "b"}},
	})

	next := h.Append("third", models.Artifact{Code: "c"})

	utils.Equal(t, next.Seq, uint64(6))
	utils.Equal(t, h.Len(), 3)
}

func TestHistoryRestoreClampsToCapacity(t *testing.T) {
	h := NewHistory(2)
	h.Restore([]models.HistoryEntry{
		{Seq: 1}, {Seq: 2}, {Seq: 3},
	})

	utils.Equal(t, h.Len(), 2)
	oldest, newest := h.Bounds()
	utils.Equal(t, oldest, uint64(2))
	utils.Equal(t, newest, uint64(3))
}
