package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/arxinspect/internal/config"
	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/packet"
	"github.com/muurk/arxinspect/internal/version"
)

// maxRequestBody caps the size of a /api/decode request body
const maxRequestBody = 64 << 10

// Request sources, as they appear in logs and capture files
const (
	sourcePage      = "http-page"
	sourceAPI       = "http-api"
	sourceWebSocket = "websocket"
)

// Handler returns the HTTP handler serving every route, wrapped with
// request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/decode", s.decodeHandler)
	mux.HandleFunc("/api/models", s.modelsHandler)
	mux.HandleFunc("/api/fields", s.fieldsHandler)
	mux.HandleFunc("/api/version", s.versionHandler)
	mux.HandleFunc("/ws", s.websocketHandler)
	mux.HandleFunc("/", s.pageHandler)
	return logRequests(mux)
}

// decodeHandler handles POST /api/decode
func (s *Server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req DecodeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	opts, err := s.options(req.Layout)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := s.decodeText(sourceAPI, r.RemoteAddr, req.Packet, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ModelInfo is one entry of GET /api/models
type ModelInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// modelsHandler handles GET /api/models
func (s *Server) modelsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	table := packet.BuiltinModels().Merge(s.config.Options.Models)
	models := make([]ModelInfo, 0, len(table))
	for _, code := range config.SortedModelCodes(table) {
		m := table[code]
		models = append(models, ModelInfo{Code: config.FormatModelCode(code), Name: m.Name, Unit: m.Unit})
	}
	writeJSON(w, http.StatusOK, models)
}

// FieldInfo is one entry of GET /api/fields
type FieldInfo struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  string `json:"kind"`
}

// fieldsHandler handles GET /api/fields
func (s *Server) fieldsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	specs := packet.Fields()
	fields := make([]FieldInfo, len(specs))
	for i, spec := range specs {
		fields[i] = FieldInfo{Name: spec.Name, Start: spec.Start, End: spec.End, Kind: spec.Kind.String()}
	}
	writeJSON(w, http.StatusOK, fields)
}

// versionHandler handles GET /api/version
func (s *Server) versionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to write JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the WebSocket upgrader take over the connection
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status)
	})
}
