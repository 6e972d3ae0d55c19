package legend

import "github.com/dgallion1/linecolors/internal/pdftext"

// Entry is one extracted line with its legend background colour.
type Entry struct {
	Line  string
	Color pdftext.Color
}

// ColorMap maps line identifiers to colours. The first colour recorded for a
// line wins; entries keep their insertion order.
type ColorMap struct {
	index   map[string]int
	entries []Entry
}

func NewColorMap() *ColorMap {
	return &ColorMap{index: make(map[string]int)}
}

func (m *ColorMap) Contains(line string) bool {
	_, ok := m.index[line]
	return ok
}

// Add records line -> c unless line is already present. It reports whether
// the entry was added.
func (m *ColorMap) Add(line string, c pdftext.Color) bool {
	if m.Contains(line) {
		return false
	}
	m.index[line] = len(m.entries)
	m.entries = append(m.entries, Entry{Line: line, Color: c})
	return true
}

func (m *ColorMap) Get(line string) (pdftext.Color, bool) {
	i, ok := m.index[line]
	if !ok {
		return pdftext.Color{}, false
	}
	return m.entries[i].Color, true
}

// Entries returns a copy of all entries in insertion order.
func (m *ColorMap) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *ColorMap) Len() int {
	return len(m.entries)
}
