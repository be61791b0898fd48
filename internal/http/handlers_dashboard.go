package http

import (
	"encoding/json"
	"net/http"
	"time"

	"casaspese/internal/log"
)

// handleDashboardSummary serves GET /dashboard/summary?year=&month=.
// The summary is never cached: the feed must reflect every payment as soon
// as it lands.
func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	p := parsePeriod(r)

	// A summary request is also when the client notices a new month.
	s.rollover.Check(r.Context(), time.Now())

	sum, err := s.dashboard.Summary(r.Context(), p)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard summary failed",
			log.FieldPeriod, p.Key(), log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"alerts": s.rollover.Alerts()})
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "alert id required")
		return
	}

	s.rollover.Dismiss(req.ID)
	s.logger.InfoContext(r.Context(), "Alert dismissed", log.FieldAlertID, req.ID)
	w.WriteHeader(http.StatusNoContent)
}
