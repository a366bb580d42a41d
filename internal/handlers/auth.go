package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Nicki-CheckM/check-certificado/internal/apperr"
)

// maxTokenRequest caps the /getTokens request body.
const maxTokenRequest = 64 << 10

// GetAuthURL returns the Google consent URL
func (h *Handler) GetAuthURL(w http.ResponseWriter, r *http.Request) {
	state, err := h.State.Issue()
	if err != nil {
		h.fail(w, r, apperr.E("handlers.GetAuthURL", apperr.Internal, "signing state", err))
		return
	}

	authURL, err := h.Google.GetAuthURL(state)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{"authUrl": authURL})
}

// GetTokens exchanges an authorization code and relays Google's reply
func (h *Handler) GetTokens(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetTokens"
	if r.Method != http.MethodPost {
		h.fail(w, r, apperr.E(op, apperr.MethodNotAllowed, "Method Not Allowed", nil))
		return
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTokenRequest)).Decode(&body); err != nil {
		h.fail(w, r, apperr.E(op, apperr.BadRequest, "invalid JSON body", nil))
		return
	}

	if body.Code == "" {
		h.fail(w, r, apperr.E(op, apperr.BadRequest, "missing authorization code", nil))
		return
	}

	tokens, err := h.Google.ExchangeCode(r.Context(), body.Code)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]json.RawMessage{"tokens": tokens})
}
