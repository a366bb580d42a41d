package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/Nicki-CheckM/check-certificado/internal/callback"
	"github.com/Nicki-CheckM/check-certificado/internal/oauth"
	"github.com/Nicki-CheckM/check-certificado/internal/tokenstore"
)

var runAuthorize = &cli.Command{
	Name:  "authorize",
	Usage: "obtain a Drive token set through the browser and store it",
	Description: `authorize prints a Google consent URL and listens on the redirect
address for the callback. The token set is written to the configured
token store under the key googleDriveTokens. The redirect URI must be
registered for the OAuth client.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "redirect",
			Value: "http://localhost:8085/oauth2callback",
			Usage: "local redirect URI to listen on",
		},
	},
	Action: authorize,
}

func authorize(cmd *cli.Context) error {
	ctx := cmd.Context
	cfg := loadConfig(cmd)
	cfg.RedirectURI = cmd.String("redirect")
	if err := cfg.Validate(); err != nil {
		return err
	}

	redirect, err := url.Parse(cfg.RedirectURI)
	if err != nil {
		return fmt.Errorf("invalid redirect uri: %w", err)
	}

	store, err := tokenstore.Open(ctx, cfg.TokenStore, cfg.TokenStoreDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	google := oauth.NewGoogleProvider(cfg, nil)
	signer := oauth.NewStateSigner(uuid.NewString())
	state, err := signer.Issue()
	if err != nil {
		return err
	}
	authURL, err := google.GetAuthURL(state)
	if err != nil {
		return err
	}

	view := callback.New(google, store, signer, slog.Default())
	defer view.Close()

	done := make(chan error, 1)
	var once sync.Once
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPattern(redirect), func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			status := view.Process(r.Context(), r.URL.Query())
			_, msg := view.State()
			fmt.Fprintln(w, msg)
			if status != callback.Success {
				done <- errors.New(msg)
				return
			}
			if err := view.ScheduleRedirect(callback.RedirectDelay, func() { done <- nil }); err != nil {
				done <- err
			}
		})
	})

	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return err
	}
	httpd := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go httpd.Serve(ln)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpd.Shutdown(shutdownCtx); err != nil {
			slog.Error("callback server shutdown", "err", err)
		}
	}()

	fmt.Printf("Open this URL in your browser to authorize Drive access:\n\t%s\n", authURL)

	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		return err
	}
	fmt.Printf("Token set stored under %q.\n", tokenstore.Key)
	return nil
}

// callbackPattern is the mux pattern for the redirect URI. A URI without a
// path is served at the root.
func callbackPattern(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
