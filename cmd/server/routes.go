package main

import (
	"net/http"
	"strings"

	"github.com/himanishpuri/MyoDNA/pkg/logger"
)

// setupRoutes registers all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Root endpoint
	mux.HandleFunc("/", s.handleRoot)

	// Health endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/health/metrics", s.handleMetrics)

	// Label management endpoints
	mux.HandleFunc("/api/labels", s.handleLabels)
	mux.HandleFunc("/api/labels/", s.handleLabel)

	// Match and history endpoints
	mux.HandleFunc("/api/match", s.handleMatch)
	mux.HandleFunc("/api/history", s.handleHistory)

	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	return corsMiddleware(s.config.AllowedOrigins)(handler)
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				allowed = true
			} else {
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						allowed = true
						break
					}
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
				w.Header().Set("Access-Control-Max-Age", "3600")
			}

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs all HTTP requests with their response status
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		log := logger.GetLogger()
		log.Debug("%s %s from %s", r.Method, r.URL.Path, getClientIP(r))

		next.ServeHTTP(wrapped, r)

		log.Info("%s %s -> %d", r.Method, r.URL.Path, wrapped.statusCode)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can hold a chain; the first entry is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Start starts the HTTP server
func (s *Server) Start() error {
	handler := s.setupRoutes()

	s.log.Info("🚀 MyoDNA server starting on %s", s.config.Bind)
	s.log.Info("   Dataset: %s", s.config.DataRoot)
	if s.config.JournalPath != "" {
		s.log.Info("   Journal: %s", s.config.JournalPath)
	} else {
		s.log.Info("   Journal: disabled")
	}
	s.log.Info("   CORS Origins: %v", s.config.AllowedOrigins)
	s.log.Info("Endpoints:")
	s.log.Info("   GET    /health                        - Health check")
	s.log.Info("   GET    /api/health/metrics            - Dataset metrics")
	s.log.Info("   GET    /api/labels                    - List gesture labels")
	s.log.Info("   POST   /api/labels/{label}/samples    - Add a reference signal")
	s.log.Info("   DELETE /api/labels/{label}            - Delete a label")
	s.log.Info("   POST   /api/match                     - Match a signal")
	s.log.Info("   GET    /api/history                   - Recent journal events")

	return http.ListenAndServe(s.config.Bind, handler)
}
