// Package tui provides a Bubble Tea terminal UI for the TowerCore engine:
// a live board, an event log, a status bar and a command line.
package tui

// History is a fixed-size ring of submitted commands with a browse cursor.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	size   int
	cursor int // -1 when not browsing, otherwise 0 (oldest) .. size-1
}

// NewHistory creates a history holding at most max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{ring: make([]string, max), cursor: -1}
}

// Len returns the number of stored commands.
func (h *History) Len() int { return h.size }

func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push records cmd, dropping the oldest entry when full. Repeating the
// newest command is a no-op.
func (h *History) Push(cmd string) {
	if h.size > 0 && h.at(h.size-1) == cmd {
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

// Prev steps back to an older command. It stays on the oldest one.
func (h *History) Prev() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.size - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next steps forward. Past the newest command it returns false and the
// caller should restore an empty prompt.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.size {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor ends browsing.
func (h *History) ResetCursor() {
	h.cursor = -1
}
