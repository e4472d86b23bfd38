package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	app_service "pulsechain-cluster-analyzer/internal/application/service"
	"pulsechain-cluster-analyzer/internal/domain/entity"
	"pulsechain-cluster-analyzer/internal/domain/service"
	"pulsechain-cluster-analyzer/internal/infrastructure/logger"
)

// Server exposes the cluster analysis over HTTP
type Server struct {
	analysisService service.ClusterAnalysisService
	logger          *logger.Logger
}

// NewServer creates a new API server
func NewServer(analysisService service.ClusterAnalysisService, logger *logger.Logger) *Server {
	return &Server{
		analysisService: analysisService,
		logger:          logger.WithComponent("api-server"),
	}
}

// Handler returns the HTTP handler for the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/clusters", s.handleClusters)
	return mux
}

// handleHealth serves the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleClusters runs a cluster analysis for the requested token
func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	token := strings.ToLower(r.URL.Query().Get("token"))
	if !isValidAddress(token) {
		s.writeError(w, http.StatusBadRequest, "invalid or missing token address")
		return
	}

	options := &entity.ClusteringOptions{
		TokenAddress:    token,
		TopHoldersCount: queryInt(r, "holders"),
		DaysBack:        queryInt(r, "days"),
	}

	analysis, err := s.analysisService.AnalyzeWalletClusters(r.Context(), options)
	if err != nil {
		if errors.Is(err, app_service.ErrNoTokenHolders) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("Cluster analysis failed",
			zap.String("token", token),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "cluster analysis failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(analysis); err != nil {
		s.logger.Error("Failed to encode analysis response", zap.Error(err))
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// queryInt parses an optional integer query parameter, zero when absent or
// malformed (the service substitutes configured defaults)
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// isValidAddress checks the 0x-prefixed 40-hex-char address format
func isValidAddress(address string) bool {
	if len(address) != 42 || !strings.HasPrefix(address, "0x") {
		return false
	}
	for _, char := range address[2:] {
		if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'f')) {
			return false
		}
	}
	return true
}
