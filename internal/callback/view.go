// Package callback implements the OAuth redirect landing view: it turns the
// authorization code in the callback URL into a stored token set and then
// sends the user back to the application root.
package callback

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/Nicki-CheckM/check-certificado/internal/models"
	"github.com/Nicki-CheckM/check-certificado/internal/tokenstore"
)

// RedirectDelay is how long the success message stays up.
const RedirectDelay = 2 * time.Second

// Status is the state of a View.
type Status int

const (
	Processing Status = iota
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failed:
		return "error"
	}
	return "processing"
}

const (
	msgProcessing = "Processing authentication..."
	msgSuccess    = "Authentication successful. Redirecting..."
	msgNoCode     = "Error: no authorization code received"
)

// Exchanger turns an authorization code into the provider's token JSON.
type Exchanger interface {
	ExchangeCode(ctx context.Context, code string) (json.RawMessage, error)
}

// StateVerifier checks the state parameter echoed back by the provider.
type StateVerifier interface {
	Verify(state string) error
}

// View is a single callback landing. It moves from Processing to Success
// or Failed exactly once. Failed is terminal; the user goes home manually.
type View struct {
	exchanger Exchanger
	store     tokenstore.Store
	verifier  StateVerifier
	log       *slog.Logger

	mu      sync.Mutex
	status  Status
	message string
	tokens  json.RawMessage
	timer   *time.Timer
	closed  bool
}

// New returns a View in the Processing state. verifier may be nil.
func New(exchanger Exchanger, store tokenstore.Store, verifier StateVerifier, log *slog.Logger) *View {
	if log == nil {
		log = slog.Default()
	}
	return &View{
		exchanger: exchanger,
		store:     store,
		verifier:  verifier,
		log:       log,
		status:    Processing,
		message:   msgProcessing,
	}
}

// State returns the current status and the message shown to the user.
func (v *View) State() (Status, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status, v.message
}

// Tokens returns the token set held after a successful exchange.
func (v *View) Tokens() json.RawMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tokens
}

// Process handles the query string of the callback URL. Without a code the
// view fails immediately, without calling the provider.
func (v *View) Process(ctx context.Context, query url.Values) Status {
	if msg := query.Get("error"); msg != "" {
		return v.fail("Error: " + msg)
	}
	code := query.Get("code")
	if code == "" {
		return v.fail(msgNoCode)
	}
	if v.verifier != nil {
		if err := v.verifier.Verify(query.Get("state")); err != nil {
			return v.fail("Error: " + err.Error())
		}
	}

	tokens, err := v.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		v.log.Error("oauth callback: exchanging code", "err", err)
		return v.fail("Error: " + err.Error())
	}

	if err := v.store.Save(ctx, tokenstore.Key, tokens); err != nil {
		v.log.Error("oauth callback: storing tokens", "err", err)
		return v.fail("Error: " + err.Error())
	}

	var ts models.TokenSet
	if err := json.Unmarshal(tokens, &ts); err == nil {
		v.log.Info("oauth callback: tokens stored", "key", tokenstore.Key,
			"expires", ts.Expiry(time.Now()), "refresh", ts.RefreshToken != "")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status == Processing {
		v.status = Success
		v.message = msgSuccess
		v.tokens = tokens
	}
	return v.status
}

func (v *View) fail(msg string) Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status == Processing {
		v.status = Failed
		v.message = msg
	}
	return v.status
}

// ErrNotReady is returned by ScheduleRedirect unless the view succeeded.
var ErrNotReady = errors.New("callback: redirect requires a successful exchange")

// ScheduleRedirect calls navigate once delay has passed. Close cancels a
// pending redirect.
func (v *View) ScheduleRedirect(delay time.Duration, navigate func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status != Success || v.closed {
		return ErrNotReady
	}
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(delay, func() {
		v.mu.Lock()
		closed := v.closed
		v.mu.Unlock()
		if !closed {
			navigate()
		}
	})
	return nil
}

// Close tears the view down and cancels a redirect that has not fired.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}
