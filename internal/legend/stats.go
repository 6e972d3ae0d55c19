package legend

import (
	"log/slog"
	"maps"
)

// Stats counts what the extractor saw and why candidates were dropped.
type Stats struct {
	Documents     int            `json:"documents"`
	Glyphs        int            `json:"glyphs"`
	Runs          int            `json:"runs"`
	LineStartRuns int            `json:"line_start_runs"`
	Candidates    int            `json:"candidates"`
	Accepted      int            `json:"accepted"`
	Rejected      map[Reason]int `json:"rejected"`
}

func (s *Stats) reject(r Reason) {
	if s.Rejected == nil {
		s.Rejected = make(map[Reason]int)
	}
	s.Rejected[r]++
}

// Snapshot returns a copy safe to hand out.
func (s Stats) Snapshot() Stats {
	s.Rejected = maps.Clone(s.Rejected)
	return s
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("documents", s.Documents),
		slog.Int("glyphs", s.Glyphs),
		slog.Int("runs", s.Runs),
		slog.Int("line_start_runs", s.LineStartRuns),
		slog.Int("candidates", s.Candidates),
		slog.Int("accepted", s.Accepted),
	}
	for _, r := range []Reason{ReasonShape, ReasonWhitespace, ReasonDuplicate, ReasonInvalid, ReasonIgnoredColor, ReasonNoPosition} {
		if n := s.Rejected[r]; n > 0 {
			attrs = append(attrs, slog.Int("rejected_"+string(r), n))
		}
	}
	return slog.GroupValue(attrs...)
}
