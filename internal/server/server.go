// Package server exposes the analyzers over HTTP, including the
// streaming endpoints used by browser frontends.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"codoc/internal/analyze"
	"codoc/internal/config"
	"codoc/internal/githubapi"
	"codoc/internal/llm"
	"codoc/internal/render"
	"codoc/internal/scan"
)

const maxUploadMemory = 32 << 20 // 32MiB

// Server routes API requests to the snippet and repository analyzers.
type Server struct {
	cfg    *config.Config
	client llm.Client
}

// New builds a Server and its language-model client from cfg.
func New(cfg *config.Config) (*Server, error) {
	client, err := llm.New(cfg.LLM, cfg.Analysis.MaxPromptLength)
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, client: client}, nil
}

// NewWithClient builds a Server around an existing language-model client.
func NewWithClient(cfg *config.Config, client llm.Client) *Server {
	return &Server{cfg: cfg, client: client}
}

// Handler returns the full route table with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", corsMiddleware(s.analyzeHandler))
	mux.HandleFunc("/api/analyze/stream", corsMiddleware(s.analyzeStreamHandler))
	mux.HandleFunc("/api/readme", corsMiddleware(s.readmeHandler))
	mux.HandleFunc("/api/readme/stream", corsMiddleware(s.readmeStreamHandler))
	mux.HandleFunc("/health", corsMiddleware(healthCheckHandler))
	return mux
}

// ListenAndServe starts the HTTP server on the configured port.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	logrus.Infof("Starting server on %s...", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// corsMiddleware handles cross-origin requests and preflight OPTIONS.
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Cache-Control")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Iteration positions of the progress steps each pipeline emits. Steps
// outside the numbered phase (fetch, scan) report iteration 0.
var (
	snippetSteps = map[string]int{"analysis": 1, "optimize": 2, "alternatives": 3}
	readmeSteps  = map[string]int{"overview": 1, "tech_stack": 2, "installation": 3, "usage": 4, "contributing": 5}
)

// streamProgress forwards analyzer progress to the SSE stream, tagging
// each event with its position in the pipeline.
func streamProgress(w http.ResponseWriter, steps map[string]int, total int) analyze.Progress {
	return func(step, message string) {
		sendSSEEvent(w, ProgressEvent{
			Type:      "progress",
			Step:      step,
			Message:   message,
			Iteration: steps[step],
			Total:     total,
		})
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, "Missing 'code' field", http.StatusBadRequest)
		return
	}
	if req.Language == "" {
		req.Language = "plaintext"
	}

	analyzer := analyze.NewSnippetAnalyzer(s.client, nil)
	report, err := analyzer.Analyze(r.Context(), req.Code, req.Language)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error during analysis: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) analyzeStreamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}
	setSSEHeaders(w)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendSSEError(w, "Invalid JSON body")
		return
	}
	if req.Code == "" {
		sendSSEError(w, "Missing 'code' field")
		return
	}
	if req.Language == "" {
		req.Language = "plaintext"
	}

	progress := streamProgress(w, snippetSteps, len(snippetSteps))

	analyzer := analyze.NewSnippetAnalyzer(s.client, progress)
	report, err := analyzer.Analyze(r.Context(), req.Code, req.Language)
	if err != nil {
		sendSSEError(w, fmt.Sprintf("Error during analysis: %v", err))
		return
	}
	sendSSEResult(w, report)
}

type readmeRequest struct {
	URL       string `json:"url"`
	Verbosity string `json:"verbosity"`
}

type readmeResponse struct {
	Report   *analyze.RepoReport `json:"report"`
	Markdown string              `json:"markdown"`
}

func (s *Server) readmeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, status, err := s.generateReadme(r, nil)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) readmeStreamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}
	setSSEHeaders(w)

	progress := streamProgress(w, readmeSteps, len(readmeSteps))

	resp, _, err := s.generateReadme(r, progress)
	if err != nil {
		sendSSEError(w, err.Error())
		return
	}
	sendSSEResult(w, resp)
}

// generateReadme handles both request shapes: a JSON body naming a
// repository URL, or a multipart upload of project files.
func (s *Server) generateReadme(r *http.Request, progress analyze.Progress) (*readmeResponse, int, error) {
	analyzer := analyze.NewRepoAnalyzer(s.client, progress)

	var (
		rc        *analyze.RepoContext
		verbosity analyze.Verbosity
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req readmeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid JSON body")
		}
		if req.URL == "" {
			return nil, http.StatusBadRequest, fmt.Errorf("missing 'url' field")
		}
		verbosity = analyze.ParseVerbosity(req.Verbosity)

		gh, err := githubapi.NewClient(s.cfg.GitHub.BaseURL, "")
		if err != nil {
			return nil, http.StatusInternalServerError, fmt.Errorf("initializing GitHub client: %w", err)
		}
		rc, err = analyzer.BuildRemoteContext(r.Context(), gh, req.URL)
		if err != nil {
			return nil, http.StatusBadGateway, fmt.Errorf("fetching repository: %w", err)
		}
	} else {
		tempDir, status, err := s.extractUpload(r)
		if err != nil {
			return nil, status, err
		}
		defer os.RemoveAll(tempDir)

		verbosity = analyze.ParseVerbosity(r.FormValue("verbosity"))

		explorer := scan.NewExplorer(s.cfg.Explorer, s.cfg.Analysis.MaxDirectoryDepth)
		resolver := scan.NewResolver(tempDir, s.cfg.Analysis.MaxFileRetryAttempts)
		rc, err = analyzer.BuildLocalContext(tempDir, explorer, resolver, s.cfg.Analysis.MaxFileReadSize)
		if err != nil {
			return nil, http.StatusInternalServerError, fmt.Errorf("scanning project: %w", err)
		}
	}

	report, err := analyzer.GenerateSections(r.Context(), rc, verbosity)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("generating sections: %w", err)
	}

	return &readmeResponse{
		Report:   report,
		Markdown: render.BuildRepoMarkdown(report),
	}, http.StatusOK, nil
}

// extractUpload writes the multipart "files" entries to a temp dir,
// preserving the relative paths the client sends.
func (s *Server) extractUpload(r *http.Request) (string, int, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("error parsing multipart form")
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		return "", http.StatusBadRequest, fmt.Errorf("no files uploaded")
	}

	tempDir, err := os.MkdirTemp("", "uploaded-project-")
	if err != nil {
		return "", http.StatusInternalServerError, fmt.Errorf("error creating temporary directory")
	}

	for _, fileHeader := range files {
		if err := copyUploadedFile(tempDir, fileHeader.Filename, fileHeader); err != nil {
			os.RemoveAll(tempDir)
			return "", http.StatusInternalServerError, err
		}
	}
	return tempDir, http.StatusOK, nil
}

func copyUploadedFile(tempDir, name string, fh *multipart.FileHeader) error {
	file, err := fh.Open()
	if err != nil {
		return fmt.Errorf("error opening uploaded file")
	}
	defer file.Close()

	destPath := filepath.Join(tempDir, filepath.Clean("/"+name))
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return fmt.Errorf("error creating directory structure")
	}

	destFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("error creating file in temporary directory")
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		return fmt.Errorf("error copying file content")
	}
	return nil
}
