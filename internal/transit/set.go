package transit

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/linecolors/internal/feed"
	"github.com/dgallion1/linecolors/internal/legend"
	"github.com/dgallion1/linecolors/internal/pdftext"
)

// State is a step of the assembly. Steps run once each, in declaration order.
type State string

const (
	StateSeeded     State = "seeded"
	StateOverridden State = "overridden"
	StateJoined     State = "joined"
	StateExpanded   State = "expanded"
	StateSorted     State = "sorted"
)

// ErrOutOfOrder is returned when an assembly step is run in the wrong state.
var ErrOutOfOrder = errors.New("assembly step out of order")

// Suffixes mark additional services on an existing line.
var Suffixes = []string{"V", "W"}

// Network answers route lookups against the operator's route table.
type Network interface {
	AgencyFor(line string) (feed.Agency, bool)
	HasRoute(shortName string) bool
}

// Set is the mutable collection of lines during assembly. Identifiers are
// unique within a Set.
type Set struct {
	state State
	lines []Line
	log   *slog.Logger
}

// Seed builds a Set from legend colours.
func Seed(entries []legend.Entry, log *slog.Logger) *Set {
	s := &Set{state: StateSeeded, log: log}
	for _, e := range entries {
		s.lines = append(s.lines, Line{
			ID:              e.Line,
			BackgroundColor: e.Color.Hex(),
			TextColor:       DefaultTextColor,
			Source:          SourcePDF,
		})
	}
	s.log.Info("lines seeded", "lines", len(s.lines))
	return s
}

// Assemble runs every step in order.
func Assemble(entries []legend.Entry, manual []feed.ManualColor, network Network, log *slog.Logger) (*Set, error) {
	s := Seed(entries, log)
	if err := s.Override(manual); err != nil {
		return nil, err
	}
	if err := s.Join(network); err != nil {
		return nil, err
	}
	if err := s.Expand(network); err != nil {
		return nil, err
	}
	if err := s.Sort(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Set) State() State {
	return s.state
}

// Lines returns a copy of the current lines.
func (s *Set) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Set) advance(from, to State) error {
	if s.state != from {
		return fmt.Errorf("%w: %s requires %s, set is %s", ErrOutOfOrder, to, from, s.state)
	}
	s.state = to
	return nil
}

// Override applies curated colours. A manual entry replaces any line with
// the same identifier and is appended at the end.
func (s *Set) Override(manual []feed.ManualColor) error {
	if err := s.advance(StateSeeded, StateOverridden); err != nil {
		return err
	}
	replaced := 0
	for _, m := range manual {
		for _, c := range []string{m.Background, m.Text, m.Border} {
			if c == "" {
				continue
			}
			if _, err := pdftext.ParseHex(c); err != nil {
				s.log.Warn("manual colour is not a hex colour", "line", m.Line, "value", c)
			}
		}

		n := len(s.lines)
		s.lines = removeLine(s.lines, m.Line)
		replaced += n - len(s.lines)
		s.lines = append(s.lines, Line{
			ID:              m.Line,
			BackgroundColor: m.Background,
			TextColor:       m.Text,
			BorderColor:     m.Border,
			Source:          SourceCSV,
		})
	}
	s.log.Info("manual colours applied", "manual", len(manual), "replaced", replaced, "lines", len(s.lines))
	return nil
}

// Join attaches the operating agency to every line the network knows.
// Unknown lines keep a nil Agency.
func (s *Set) Join(network Network) error {
	if err := s.advance(StateOverridden, StateJoined); err != nil {
		return err
	}
	joined := 0
	for i := range s.lines {
		a, ok := network.AgencyFor(s.lines[i].ID)
		if !ok {
			continue
		}
		s.lines[i].Agency = &a
		joined++
	}
	s.log.Info("lines joined", "joined", joined, "unmatched", len(s.lines)-joined)
	return nil
}

// Expand adds a copy of a line for each suffix variant the network runs,
// directly after the line itself. Variants already present are left alone.
func (s *Set) Expand(network Network) error {
	if err := s.advance(StateJoined, StateExpanded); err != nil {
		return err
	}
	present := make(map[string]bool, len(s.lines))
	for _, l := range s.lines {
		present[l.ID] = true
	}

	out := make([]Line, 0, len(s.lines))
	added := 0
	for _, l := range s.lines {
		out = append(out, l)
		for _, suffix := range Suffixes {
			id := l.ID + suffix
			if present[id] || !network.HasRoute(id) {
				continue
			}
			variant := l
			variant.ID = id
			out = append(out, variant)
			present[id] = true
			added++
		}
	}
	s.lines = out
	s.log.Info("suffix variants added", "added", added, "lines", len(s.lines))
	return nil
}

// Sort orders lines numerically by the digits of their identifier. Lines
// starting with a letter go last; identifiers without a usable number go
// first. The sort is stable.
func (s *Set) Sort() error {
	if err := s.advance(StateExpanded, StateSorted); err != nil {
		return err
	}
	sort.SliceStable(s.lines, func(i, j int) bool {
		return lessKey(sortKey(s.lines[i].ID), sortKey(s.lines[j].ID))
	})
	return nil
}

type key struct {
	rank  int // 0 no number, 1 numeric, 2 letter
	value int
}

func sortKey(id string) key {
	if r, _ := utf8.DecodeRuneInString(id); unicode.IsLetter(r) {
		return key{rank: 2}
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, id)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return key{rank: 0}
	}
	return key{rank: 1, value: n}
}

func lessKey(a, b key) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return a.value < b.value
}

func removeLine(lines []Line, id string) []Line {
	out := lines[:0]
	for _, l := range lines {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}
