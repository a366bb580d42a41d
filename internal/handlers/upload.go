package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Nicki-CheckM/check-certificado/internal/apperr"
	"github.com/Nicki-CheckM/check-certificado/internal/models"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// UploadToDrive uploads the submitted file with the submitted token set and
// returns its share link
func (h *Handler) UploadToDrive(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UploadToDrive"
	if r.Method != http.MethodPost {
		h.fail(w, r, apperr.E(op, apperr.MethodNotAllowed, "Method Not Allowed", nil))
		return
	}

	if h.Config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, apperr.E(op, apperr.BadRequest, "file too large", nil))
			return
		}
		h.fail(w, r, apperr.E(op, apperr.BadRequest, "invalid multipart body", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, ferr := r.FormFile("file")
	// Only the multipart body counts; a token set in the URL is ignored.
	tokensField := r.PostFormValue("tokens")
	if ferr != nil || tokensField == "" {
		h.fail(w, r, apperr.E(op, apperr.BadRequest, "missing required fields: file and tokens", nil))
		return
	}
	defer file.Close()

	var tokens models.TokenSet
	if err := json.Unmarshal([]byte(tokensField), &tokens); err != nil {
		h.fail(w, r, apperr.E(op, apperr.BadRequest, "tokens is not a valid token set", nil))
		return
	}
	if tokens.AccessToken == "" {
		h.fail(w, r, apperr.E(op, apperr.BadRequest, "tokens has no access_token", nil))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, apperr.E(op, apperr.Internal, "reading file", err))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	rec, err := h.Uploader.Upload(r.Context(), &models.UploadRequest{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Content:     content,
		AccessToken: tokens.AccessToken,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, rec)
}
