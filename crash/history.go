package crash

import "kellyServer/game"

// History keeps the most recent resolved rounds, newest first.
type History struct {
	limit   int
	nextID  int64
	entries []game.CrashHistoryEntry
}

func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{limit: limit, nextID: 1, entries: make([]game.CrashHistoryEntry, 0, limit)}
}

// Add assigns the next id to entry, prepends it and evicts the oldest entry
// once the limit is exceeded.
func (h *History) Add(entry game.CrashHistoryEntry) game.CrashHistoryEntry {
	entry.ID = h.nextID
	h.nextID++

	h.entries = append([]game.CrashHistoryEntry{entry}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	return entry
}

// Entries returns a copy of the history, newest first.
func (h *History) Entries() []game.CrashHistoryEntry {
	out := make([]game.CrashHistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int { return len(h.entries) }
