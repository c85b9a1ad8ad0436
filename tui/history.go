// Package tui provides a Bubble Tea terminal UI for the Boneyard engine.
package tui

import "strings"

// History keeps the most recent commands in a fixed-size ring and lets
// the player step back through them. Whatever was typed before the first
// step back acts as a prefix filter and is restored on the way out.
type History struct {
	ring  []string
	start int // index of the oldest entry
	size  int
	pos   int // steps back from the newest entry; 0 while editing
	draft string
}

// NewHistory creates a history holding at most capacity commands.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{ring: make([]string, capacity)}
}

// Len returns the number of stored commands.
func (h *History) Len() int {
	return h.size
}

// back returns the entry k steps back from the newest (1 is the newest).
func (h *History) back(k int) string {
	return h.ring[(h.start+h.size-k)%len(h.ring)]
}

// Push records a command and stops browsing. Repeating the newest entry
// is not recorded again.
func (h *History) Push(cmd string) {
	h.Reset()
	if h.size > 0 && h.back(1) == cmd {
		return
	}
	if h.size < len(h.ring) {
		h.ring[(h.start+h.size)%len(h.ring)] = cmd
		h.size++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Back steps to the next older command starting with the draft. At the
// oldest match it stays put. ok is false when nothing matches at all.
func (h *History) Back(draft string) (cmd string, ok bool) {
	if h.pos == 0 {
		h.draft = draft
	}
	for k := h.pos + 1; k <= h.size; k++ {
		if strings.HasPrefix(h.back(k), h.draft) {
			h.pos = k
			return h.back(k), true
		}
	}
	if h.pos > 0 {
		return h.back(h.pos), true
	}
	return "", false
}

// Forward steps to the next newer matching command. Past the newest it
// returns the draft and stops browsing. ok is false when not browsing.
func (h *History) Forward() (cmd string, ok bool) {
	if h.pos == 0 {
		return "", false
	}
	for k := h.pos - 1; k >= 1; k-- {
		if strings.HasPrefix(h.back(k), h.draft) {
			h.pos = k
			return h.back(k), true
		}
	}
	draft := h.draft
	h.Reset()
	return draft, true
}

// Reset stops browsing and forgets the draft.
func (h *History) Reset() {
	h.pos = 0
	h.draft = ""
}
