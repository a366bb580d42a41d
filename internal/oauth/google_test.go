package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicki-CheckM/check-certificado/internal/apperr"
	"github.com/Nicki-CheckM/check-certificado/internal/config"
)

func testConfig(tokenURL string) *config.Config {
	return &config.Config{
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		RedirectURI:  config.DefaultRedirectURI,
		Scopes:       config.Scopes,
		AuthURL:      config.AuthURL,
		TokenURL:     tokenURL,
	}
}

func TestGetAuthURL(t *testing.T) {
	assert := assert.New(t)

	g := NewGoogleProvider(testConfig("https://oauth2.googleapis.com/token"), nil)
	raw, err := g.GetAuthURL("")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal("accounts.google.com", u.Host)
	assert.Equal("/o/oauth2/v2/auth", u.Path)

	q := u.Query()
	assert.Equal("client-123", q.Get("client_id"))
	assert.Equal(config.DefaultRedirectURI, q.Get("redirect_uri"))
	assert.Equal("code", q.Get("response_type"))
	assert.Equal("https://www.googleapis.com/auth/drive.file", q.Get("scope"))
	assert.Equal("offline", q.Get("access_type"))
	assert.Equal("consent", q.Get("prompt"))
	assert.False(q.Has("state"))

	raw, err = g.GetAuthURL("xyz")
	require.NoError(t, err)
	u, _ = url.Parse(raw)
	assert.Equal("xyz", u.Query().Get("state"))
}

func TestGetAuthURLUnconfigured(t *testing.T) {
	g := NewGoogleProvider(&config.Config{AuthURL: config.AuthURL}, nil)
	_, err := g.GetAuthURL("")
	require.Error(t, err)
	assert.Equal(t, apperr.Configuration, apperr.KindOf(err))
}

func TestExchangeCode(t *testing.T) {
	const reply = `{"access_token":"ya29.a0","expires_in":3599,"refresh_token":"1//0g","scope":"https://www.googleapis.com/auth/drive.file","token_type":"Bearer"}`

	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
	defer srv.Close()

	g := NewGoogleProvider(testConfig(srv.URL), srv.Client())
	tokens, err := g.ExchangeCode(context.Background(), "4/0Ab-code")
	require.NoError(t, err)

	assert.Equal(t, reply, string(tokens))
	assert.Equal(t, "4/0Ab-code", form.Get("code"))
	assert.Equal(t, "client-123", form.Get("client_id"))
	assert.Equal(t, "secret-456", form.Get("client_secret"))
	assert.Equal(t, config.DefaultRedirectURI, form.Get("redirect_uri"))
	assert.Equal(t, "authorization_code", form.Get("grant_type"))
}

func TestExchangeCodeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Bad Request"}`))
	}))

	g := NewGoogleProvider(testConfig(srv.URL), srv.Client())
	_, err := g.ExchangeCode(context.Background(), "used-code")
	require.Error(t, err)
	assert.Equal(t, apperr.Upstream, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "invalid_grant")

	// Network failure once the server is gone.
	srv.Close()
	_, err = g.ExchangeCode(context.Background(), "code")
	require.Error(t, err)
	assert.Equal(t, apperr.Upstream, apperr.KindOf(err))
}

func TestExchangeCodeInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	g := NewGoogleProvider(testConfig(srv.URL), srv.Client())
	_, err := g.ExchangeCode(context.Background(), "code")
	require.Error(t, err)
	assert.Equal(t, apperr.Upstream, apperr.KindOf(err))
}

func TestStateSigner(t *testing.T) {
	assert := assert.New(t)

	var none *StateSigner
	state, err := none.Issue()
	assert.NoError(err)
	assert.Empty(state)
	assert.NoError(none.Verify("anything"))
	assert.Nil(NewStateSigner(""))

	s := NewStateSigner("top-secret")
	state, err = s.Issue()
	require.NoError(t, err)
	assert.NoError(s.Verify(state))

	assert.Error(s.Verify(""))
	assert.Error(NewStateSigner("other-secret").Verify(state))

	s.now = func() time.Time { return time.Now().Add(stateTTL + time.Minute) }
	err = s.Verify(state)
	assert.Error(err)
	assert.Equal(apperr.BadRequest, apperr.KindOf(err))
}
