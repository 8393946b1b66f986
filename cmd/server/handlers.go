package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/himanishpuri/MyoDNA/pkg/logger"
	"github.com/himanishpuri/MyoDNA/pkg/myodna"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// Server encapsulates the HTTP server and its dependencies. The
// matcher has no internal locking, so every handler that touches the
// service holds mu.
type Server struct {
	service myodna.Service
	config  *ServerConfig
	log     myodna.Logger
	mu      sync.Mutex
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Bind           string
	DataRoot       string
	JournalPath    string
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service myodna.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "MyoDNA API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":      "GET /health",
			"metrics":     "GET /api/health/metrics",
			"labels":      "GET /api/labels",
			"addSample":   "POST /api/labels/{label}/samples",
			"deleteLabel": "DELETE /api/labels/{label}",
			"match":       "POST /api/match",
			"history":     "GET /api/history",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/health/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	infos := s.service.ListLabels()
	totals, err := s.service.EventTotals()
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("Failed to count journal events: %v", err)
		totals = nil
	}

	signals := 0
	for _, info := range infos {
		signals += info.Samples
	}

	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:         "healthy",
		DataRoot:       s.config.DataRoot,
		LabelCount:     len(infos),
		SignalCount:    signals,
		JournalEnabled: s.config.JournalPath != "",
		EventCounts:    totals,
	})
}

// handleListLabels handles GET /api/labels
func (s *Server) handleListLabels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	infos := s.service.ListLabels()
	s.mu.Unlock()

	labelDTOs := make([]LabelDTO, len(infos))
	for i, info := range infos {
		labelDTOs[i] = LabelDTO{
			Label:   info.Label,
			Samples: info.Samples,
		}
	}

	s.respondJSON(w, http.StatusOK, ListLabelsResponse{
		Labels: labelDTOs,
		Count:  len(labelDTOs),
	})
}

// handleAddSample handles POST /api/labels/{label}/samples
func (s *Server) handleAddSample(w http.ResponseWriter, r *http.Request, label string) {
	var req AddSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Error("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.log.Info("Adding signal for label %q (%d samples)", label, len(req.Signal))

	s.mu.Lock()
	ok := s.service.SaveSignal(label, signal.Signal(req.Signal))
	stored := s.service.SignalCount(label)
	s.mu.Unlock()

	if !ok {
		s.log.Error("Failed to save signal for label %q", label)
		s.respondError(w, http.StatusInternalServerError, "Failed to save signal")
		return
	}

	s.log.Info("Saved signal under %q (%d stored)", label, stored)
	s.respondJSON(w, http.StatusCreated, AddSampleResponse{
		Message: "Signal added successfully",
		Label:   label,
		Stored:  stored,
	})
}

// handleDeleteLabel handles DELETE /api/labels/{label}
func (s *Server) handleDeleteLabel(w http.ResponseWriter, r *http.Request, label string) {
	s.mu.Lock()
	// Count before deletion for the report.
	count := s.service.SignalCount(label)
	ok := s.service.DeleteSignal(label)
	s.mu.Unlock()

	if !ok {
		s.log.Warn("Label not found for deletion: %q", label)
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Label %q not found", label))
		return
	}

	s.log.Info("Deleted label %q (%d signals)", label, count)
	s.respondJSON(w, http.StatusOK, DeleteLabelResponse{
		Message: "Label deleted successfully",
		Label:   label,
		Removed: count,
	})
}

// handleMatchSignal handles POST /api/match
func (s *Server) handleMatchSignal(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Error("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.Signal) >= SignalWarningThreshold {
		s.log.Warn("Large signal received: %d samples", len(req.Signal))
	}

	s.mu.Lock()
	result := s.service.BestMatch(signal.Signal(req.Signal))
	s.mu.Unlock()

	resp := MatchResponse{
		Label:          result.Label,
		Known:          result.Known(),
		Compared:       result.Compared,
		LengthMismatch: result.LengthMismatch,
		NonFinite:      result.NonFinite,
	}
	if result.Known() {
		distance := result.Distance
		resp.Distance = &distance
	}

	s.log.Info("Match complete: %s (compared %d)", result.Label, result.Compared)
	s.respondJSON(w, http.StatusOK, resp)
}

// handleHistoryEvents handles GET /api/history
func (s *Server) handleHistoryEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	s.mu.Lock()
	events, err := s.service.History(limit)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("Failed to read history: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	eventDTOs := make([]EventDTO, len(events))
	for i, event := range events {
		eventDTOs[i] = EventDTO{
			ID:        event.ID,
			Kind:      event.Kind,
			Label:     event.Label,
			Compared:  event.Compared,
			Accepted:  event.Accepted,
			CreatedAt: event.CreatedAt,
		}
		if event.Distance >= 0 {
			distance := event.Distance
			eventDTOs[i].Distance = &distance
		}
	}

	s.respondJSON(w, http.StatusOK, HistoryResponse{
		Events: eventDTOs,
		Count:  len(eventDTOs),
	})
}

// handleLabels routes requests to /api/labels
func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleListLabels(w, r)
}

// handleLabel routes requests to /api/labels/{label} and
// /api/labels/{label}/samples
func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	rest := r.URL.Path[len("/api/labels/"):]
	if rest == "" {
		s.respondError(w, http.StatusBadRequest, "Label required")
		return
	}

	if strings.HasSuffix(rest, "/samples") {
		label := strings.TrimSuffix(rest, "/samples")
		if label == "" || strings.Contains(label, "/") {
			s.respondError(w, http.StatusBadRequest, "Invalid label")
			return
		}
		if r.Method != http.MethodPost {
			s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		s.handleAddSample(w, r, label)
		return
	}

	if strings.Contains(rest, "/") {
		s.respondError(w, http.StatusBadRequest, "Invalid label")
		return
	}
	if r.Method != http.MethodDelete {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleDeleteLabel(w, r, rest)
}

// handleMatch routes requests to /api/match
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleMatchSignal(w, r)
}

// handleHistory routes requests to /api/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleHistoryEvents(w, r)
}
