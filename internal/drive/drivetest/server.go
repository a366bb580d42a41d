// Package drivetest provides an in-process fake of the Drive v3 endpoints
// used by the upload sequence.
package drivetest

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Request is one call received by the fake.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	// Body is the JSON body, or the metadata part of a multipart upload.
	Body []byte
	// Media and MediaType are set for content uploads.
	Media     []byte
	MediaType string
}

// Server fakes Drive. Fail maps a step name ("create", "upload",
// "permission", "link", "delete") to the HTTP status it should answer with.
type Server struct {
	*httptest.Server

	FileID      string
	WebViewLink string
	Fail        map[string]int

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a fake that succeeds on every step.
func NewServer() *Server {
	s := &Server{
		FileID:      "1AbCdEfGhIjK",
		WebViewLink: "https://drive.google.com/file/d/1AbCdEfGhIjK/view?usp=drivesdk",
		Fail:        map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Endpoint is the base path to configure the Drive client with.
func (s *Server) Endpoint() string {
	return s.URL + "/drive/v3/"
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Steps returns the step names of the calls received so far.
func (s *Server) Steps() []string {
	var steps []string
	for _, r := range s.Requests() {
		steps = append(steps, stepOf(r.Method, r.Path))
	}
	return steps
}

func stepOf(method, path string) string {
	switch {
	case method == http.MethodPatch && strings.HasPrefix(path, "/upload/"):
		return "upload"
	case method == http.MethodPost && strings.HasSuffix(path, "/permissions"):
		return "permission"
	case method == http.MethodPost && strings.HasSuffix(path, "/files"):
		return "create"
	case method == http.MethodGet:
		return "link"
	case method == http.MethodDelete:
		return "delete"
	}
	return "unknown"
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	req := Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
	}
	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(r.Body, params["boundary"])
		if p, err := mr.NextPart(); err == nil {
			req.Body, _ = io.ReadAll(p)
		}
		if p, err := mr.NextPart(); err == nil {
			req.MediaType = p.Header.Get("Content-Type")
			req.Media, _ = io.ReadAll(p)
		}
	} else {
		req.Body, _ = io.ReadAll(r.Body)
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	step := stepOf(r.Method, r.URL.Path)
	if code, ok := s.Fail[step]; ok {
		writeJSON(w, code, map[string]any{
			"error": map[string]any{"code": code, "message": step + " rejected"},
		})
		return
	}

	switch step {
	case "create", "upload":
		writeJSON(w, http.StatusOK, map[string]any{"id": s.FileID})
	case "permission":
		writeJSON(w, http.StatusOK, map[string]any{"id": "anyoneWithLink", "role": "reader", "type": "anyone"})
	case "link":
		writeJSON(w, http.StatusOK, map[string]any{"webViewLink": s.WebViewLink})
	case "delete":
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "not found"}})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
