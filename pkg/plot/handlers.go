package plot

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/StudioSol/set"
	"github.com/impulsehq/impulse/pkg/core"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleIndex handles the main page request
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	charts := s.provider.List()

	// Get requested chart or redirect to the first available one
	chartID := r.URL.Query().Get("chart")
	if chartID == "" && len(charts) > 0 {
		http.Redirect(w, r, fmt.Sprintf("/?chart=%s", charts[0].ID), http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	err := s.indexHTML.Execute(w, map[string]interface{}{
		"chart":  chartID,
		"charts": charts,
	})
	if err != nil {
		s.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleData handles chart data requests
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	chartID := r.URL.Query().Get("chart")
	if chartID == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	chart, err := s.provider.Get(chartID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	data, err := s.provider.Refresh(r.Context(), chartID)
	if err != nil {
		// A superseded refresh carries no renderable payload; the winning
		// request delivers the data.
		if errors.Is(err, core.ErrStaleRefresh) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.log.Error("Chart refresh failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	impulses := chart.ValidImpulses()

	// Distinct metric names, in display order
	metrics := set.NewLinkedHashSetString()
	for _, impulse := range impulses {
		metrics.Add(impulse.Expression)
	}
	metricNames := make([]string, 0, metrics.Length())
	for name := range metrics.Iter() {
		metricNames = append(metricNames, name)
	}

	w.Header().Set("Content-Type", "application/json")
	response := map[string]interface{}{
		"chart":    chart,
		"series":   data.Series,
		"has_data": data.HasData,
		"options":  BuildOptions(chart),
		"legend":   Legend(impulses),
		"metrics":  metricNames,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.Error("JSON encoding failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// tooltipRequest is the hovered-point payload sent by the chart widget
type tooltipRequest struct {
	Series     string         `json:"series"`
	X          *int64         `json:"x"`
	Y          *float64       `json:"y"`
	Dimensions map[string]any `json:"dimensions"`
	Duration   bool           `json:"duration"`
}

// handleTooltip formats a hovered point for display
func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req tooltipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid tooltip request", http.StatusBadRequest)
		return
	}

	tooltip := RenderTooltip(req.Series, req.X, req.Y, req.Dimensions, req.Duration)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tooltip); err != nil {
		s.log.Error("JSON encoding failed: ", err)
	}
}
