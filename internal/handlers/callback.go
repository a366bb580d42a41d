package handlers

import (
	"html/template"
	"net/http"

	"github.com/Nicki-CheckM/check-certificado/internal/callback"
)

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Google Drive</title>
{{if .Success}}<meta http-equiv="refresh" content="{{.RedirectSeconds}};url=/">{{end}}
</head>
<body>
<h1>Google Drive</h1>
<p id="status" data-state="{{.State}}">{{.Message}}</p>
{{if .Failed}}<a href="{{.Home}}">Return home</a>{{end}}
</body>
</html>
`))

type callbackData struct {
	State           string
	Message         string
	Success         bool
	Failed          bool
	RedirectSeconds int
	Home            string
}

// OAuthCallback is the landing page Google redirects to after consent. It
// exchanges the code, stores the token set and sends the browser home.
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	var verifier callback.StateVerifier
	if h.State != nil {
		verifier = h.State
	}
	view := callback.New(h.Google, h.Tokens, verifier, h.Log)
	defer view.Close()

	status := view.Process(r.Context(), r.URL.Query())
	_, message := view.State()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := callbackPage.Execute(w, callbackData{
		State:           status.String(),
		Message:         message,
		Success:         status == callback.Success,
		Failed:          status == callback.Failed,
		RedirectSeconds: int(callback.RedirectDelay.Seconds()),
		Home:            "/",
	}); err != nil {
		h.Log.Error("rendering callback page", "err", err)
	}
}
