package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/dgallion1/linecolors/internal/report"
	"github.com/dgallion1/linecolors/internal/transit"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	lines := s.result.Lines
	if r.URL.Query().Get("joined") == "true" {
		lines = []transit.Line{}
		for _, l := range s.result.Lines {
			if l.Joined() {
				lines = append(lines, l)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lines": lines,
		"count": len(lines),
	})
}

func (s *Server) handleLine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lineID")
	for _, l := range s.result.Lines {
		if l.ID == id {
			writeJSON(w, http.StatusOK, l)
			return
		}
	}
	jsonError(w, "line not found: "+id, http.StatusNotFound)
}

func (s *Server) handleLinesCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Write(s.result.CSV)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"unmatched": s.result.Diagnostics.Unmatched,
		"missing":   s.result.Diagnostics.Missing,
		"stats":     s.result.Stats.Snapshot(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.html)
}

func (s *Server) handleReportDOCX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := report.WriteDOCX(&buf, s.result.Network, s.result.Lines, s.result.Diagnostics); err != nil {
		s.log.Error("render docx", "error", err)
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", `attachment; filename="report.docx"`)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
