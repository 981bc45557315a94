// Package api provides HTTP capabilities for the ledgerline parser.
// This is a capability module that can be enabled via the CLI or used
// programmatically.
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/ledgerline/ledgerline/parser"
	"github.com/ledgerline/ledgerline/pdftext"
)

// Config holds the API server configuration
type Config struct {
	Port      string
	LogPrefix string
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:      ":8080",
		LogPrefix: "API: ",
	}
}

// Server represents the HTTP API server. It keeps one long-lived parser so
// merchant categorizations learned in one request carry into the next.
type Server struct {
	config Config
	opts   parser.Options
	parser *parser.Parser
	mux    *http.ServeMux
}

// New creates a new API server with the given configuration and parser
// options.
func New(cfg Config, opts parser.Options) *Server {
	s := &Server{
		config: cfg,
		opts:   opts,
		parser: parser.New(opts),
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up the API endpoints
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/parse", s.handleParse)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Handler returns the http.Handler for the server
// This allows the server to be used with custom http.Server configurations
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	log.Printf("%sStarting server on %s", s.config.LogPrefix, s.config.Port)
	return http.ListenAndServe(s.config.Port, s.mux)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleParse handles statement parsing requests
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	log.Printf("%sReceived request from %s", s.config.LogPrefix, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse multipart form with 32MB max memory
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Printf("%sError parsing multipart form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		log.Printf("%sError getting file from form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not get uploaded file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		log.Printf("%sError reading file bytes: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not read file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	opts := s.parseOptions(r)

	text, err := s.statementText(fileBytes, handler.Filename)
	if err != nil {
		log.Printf("%sError extracting text: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not extract text from file: "+err.Error(), http.StatusBadRequest)
		return
	}

	if opts.TextOnly {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"filename": handler.Filename,
			"text":     text,
		})
		return
	}

	result, err := s.parserFor(opts).ParseTransactions(text)
	if err != nil {
		log.Printf("%sError parsing statement: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not parse statement: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ParseOptions holds the per-request parsing options
type ParseOptions struct {
	TextOnly      bool
	NoLearning    bool
	MinConfidence float64
}

// parseOptions extracts options from the HTTP request
func (s *Server) parseOptions(r *http.Request) ParseOptions {
	opts := ParseOptions{
		TextOnly:   formFlag(r, "text_only"),
		NoLearning: formFlag(r, "no_learning"),
	}
	if raw := coalesce(r.FormValue("min_confidence"), r.URL.Query().Get("min_confidence")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			opts.MinConfidence = v
		}
	}
	return opts
}

// parserFor returns the shared parser, or a one-off parser when the
// request overrides the configured options. One-off parsers do not share
// the session learning store.
func (s *Server) parserFor(opts ParseOptions) *parser.Parser {
	if !opts.NoLearning && opts.MinConfidence == 0 {
		return s.parser
	}
	override := s.opts
	if opts.NoLearning {
		override.UseLearning = false
	}
	if opts.MinConfidence > 0 {
		override.MinConfidence = opts.MinConfidence
	}
	return parser.New(override)
}

// statementText extracts text from the uploaded file: PDF extraction for
// .pdf uploads, raw bytes for everything else.
func (s *Server) statementText(fileBytes []byte, filename string) (string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return pdftext.Text(bytes.NewReader(fileBytes))
	}
	return string(fileBytes), nil
}

// formFlag reads a boolean flag from form values or query params
func formFlag(r *http.Request, name string) bool {
	return r.FormValue(name) == "true" || r.URL.Query().Get(name) == "true"
}

// coalesce returns the first non-empty string
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
