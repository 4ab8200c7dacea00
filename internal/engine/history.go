package engine

import "github.com/username/goviet-ime/internal/keys"

// HistoryEntry records, after one completed keystroke, the raw keys of
// the current syllable so far and the resulting render, kept for
// observability and for a host that wants to inspect
// recent composition activity. Neither ESC-restore nor English
// auto-restore reads the ring; both derive what they need from the
// live buffer, since that is always the most recent state anyway.
type HistoryEntry struct {
	Raw    []keys.Key
	Output string
}


// historyRing is a fixed-capacity ring buffer of HistoryEntry, oldest
// entries evicted first.
type historyRing struct {
	entries []HistoryEntry
	cap     int
	next    int
	full    bool
}

func newHistoryRing(capacity int) *historyRing {
	return &historyRing{entries: make([]HistoryEntry, capacity), cap: capacity}
}

func (h *historyRing) push(e HistoryEntry) {
	if h.cap == 0 {
		return
	}
	h.entries[h.next] = e
	h.next = (h.next + 1) % h.cap
	if h.next == 0 {
		h.full = true
	}
}

func (h *historyRing) clear() {
	h.entries = make([]HistoryEntry, h.cap)
	h.next = 0
	h.full = false
}

// snapshot returns the held entries in oldest-to-newest order.
func (h *historyRing) snapshot() []HistoryEntry {
	if !h.full {
		out := make([]HistoryEntry, h.next)
		copy(out, h.entries[:h.next])
		return out
	}
	out := make([]HistoryEntry, h.cap)
	copy(out, h.entries[h.next:])
	copy(out[h.cap-h.next:], h.entries[:h.next])
	return out
}
