package shell

// EntryKind classifies a History Log line for rendering.
type EntryKind int

const (
	EntryInput EntryKind = iota
	EntryOutput
	EntryError
)

// String returns the kind name.
func (k EntryKind) String() string {
	switch k {
	case EntryInput:
		return "input"
	case EntryOutput:
		return "output"
	case EntryError:
		return "error"
	}
	return "unknown"
}

// Entry is one History Log line.
type Entry struct {
	Kind EntryKind
	Text string
}

// Input returns an input-echo entry.
func Input(text string) Entry { return Entry{Kind: EntryInput, Text: text} }

// Output returns an output entry.
func Output(text string) Entry { return Entry{Kind: EntryOutput, Text: text} }

// Error returns an error entry.
func Error(text string) Entry { return Entry{Kind: EntryError, Text: text} }

func outputs(lines ...string) []Entry {
	out := make([]Entry, len(lines))
	for i, l := range lines {
		out[i] = Output(l)
	}
	return out
}

// History is the append-only display log. Reset is the only way to shrink it.
type History struct {
	entries []Entry
}

// Append adds entries at the end.
func (h *History) Append(entries ...Entry) {
	h.entries = append(h.entries, entries...)
}

// Reset replaces the log with an empty sequence.
func (h *History) Reset() {
	h.entries = nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the log in display order.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
