package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Nicki-CheckM/check-certificado/internal/apperr"
	"github.com/Nicki-CheckM/check-certificado/internal/config"
	"github.com/Nicki-CheckM/check-certificado/internal/drive"
	"github.com/Nicki-CheckM/check-certificado/internal/oauth"
	"github.com/Nicki-CheckM/check-certificado/internal/tokenstore"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	Config   *config.Config
	Google   *oauth.GoogleProvider
	Uploader *drive.Uploader
	State    *oauth.StateSigner
	Tokens   tokenstore.Store
	Log      *slog.Logger
}

// NewHandler creates a new handler instance
func NewHandler(cfg *config.Config, tokens tokenstore.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	upstream := &http.Client{Timeout: cfg.UpstreamTimeout}
	return &Handler{
		Config: cfg,
		Google: oauth.NewGoogleProvider(cfg, upstream),
		Uploader: drive.NewUploader(drive.Options{
			Endpoint:   cfg.DriveURL,
			Client:     upstream,
			Compensate: cfg.Compensate,
			Logger:     log,
		}),
		State:  oauth.NewStateSigner(cfg.StateSecret),
		Tokens: tokens,
		Log:    log,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// sendJSON sends a JSON response
func sendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func sendError(w http.ResponseWriter, statusCode int, message string) {
	sendJSON(w, statusCode, map[string]string{"error": message})
}

// sendSuccess sends a success response
func sendSuccess(w http.ResponseWriter, data interface{}) {
	sendJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// fail reports err with the status of its kind.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", "path", r.URL.Path, "kind", apperr.KindOf(err).String(), "err", err)
	}
	sendError(w, status, err.Error())
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}
