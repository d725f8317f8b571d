package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"tick/internal/apperr"
)

// tokenServer counts exchange requests and answers with a fixed token.
func tokenServer(t *testing.T, exchanges *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(exchanges, 1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("bad token request: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("code") != "the-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"fresh-token","token_type":"bearer"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testFlow returns a flow on an ephemeral port whose "browser" follows the
// redirect with the query produced by callback.
func testFlow(t *testing.T, tokenURL string, callback func(state string) url.Values) *Flow {
	t.Helper()
	f := NewFlow("client-id", "client-secret", io.Discard, nil)
	f.OAuth.Endpoint = oauth2.Endpoint{
		AuthURL:   "https://auth.invalid/authorize",
		TokenURL:  tokenURL,
		AuthStyle: oauth2.AuthStyleInHeader,
	}
	f.OAuth.RedirectURL = "http://127.0.0.1:8080"
	f.Addr = "127.0.0.1:0"
	f.CallbackTimeout = 10 * time.Second
	f.OpenBrowser = func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		redirect := q.Get("redirect_uri") + "/?" + callback(q.Get("state")).Encode()
		go func() {
			resp, err := http.Get(redirect)
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
	return f
}

func TestFlow_Success(t *testing.T) {
	var exchanges int32
	srv := tokenServer(t, &exchanges)

	var scope string
	f := testFlow(t, srv.URL, func(state string) url.Values {
		return url.Values{"code": {"the-code"}, "state": {state}}
	})
	open := f.OpenBrowser
	f.OpenBrowser = func(authURL string) error {
		u, _ := url.Parse(authURL)
		scope = u.Query().Get("scope")
		return open(authURL)
	}

	token, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "fresh-token" {
		t.Errorf("expected fresh-token, got %q", token.AccessToken)
	}
	if f.State() != Authenticated {
		t.Errorf("expected Authenticated, got %s", f.State())
	}
	if atomic.LoadInt32(&exchanges) != 1 {
		t.Errorf("expected one exchange, got %d", exchanges)
	}
	if scope != "tasks:write tasks:read" {
		t.Errorf("unexpected scope %q", scope)
	}
}

func TestFlow_StrayRequestDoesNotConsumeCallback(t *testing.T) {
	var exchanges int32
	srv := tokenServer(t, &exchanges)

	f := testFlow(t, srv.URL, nil)
	strayStatus := make(chan int, 1)
	f.OpenBrowser = func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		base := q.Get("redirect_uri")
		callback := url.Values{"code": {"the-code"}, "state": {q.Get("state")}}
		go func() {
			resp, err := http.Get(base + "/favicon.ico")
			if err != nil {
				strayStatus <- 0
				return
			}
			resp.Body.Close()
			strayStatus <- resp.StatusCode
			if resp, err := http.Get(base + "/?" + callback.Encode()); err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}

	token, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "fresh-token" {
		t.Errorf("expected fresh-token, got %q", token.AccessToken)
	}
	if status := <-strayStatus; status != http.StatusNotFound {
		t.Errorf("expected 404 for the stray request, got %d", status)
	}
	if n := atomic.LoadInt32(&exchanges); n != 1 {
		t.Errorf("expected 1 exchange, got %d", n)
	}
}

func TestFlow_AccessDenied(t *testing.T) {
	var exchanges int32
	srv := tokenServer(t, &exchanges)

	f := testFlow(t, srv.URL, func(state string) url.Values {
		return url.Values{"error": {"access_denied"}, "state": {state}}
	})

	_, err := f.Run(context.Background())
	if !apperr.Is(err, apperr.AuthFlowFailed) {
		t.Fatalf("expected AUTH_FLOW_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "Authorization failed") {
		t.Errorf("expected 'Authorization failed' message, got %q", err.Error())
	}
	if f.State() != Failed {
		t.Errorf("expected Failed, got %s", f.State())
	}
	if n := atomic.LoadInt32(&exchanges); n != 0 {
		t.Errorf("expected no token exchange, got %d", n)
	}
}

func TestFlow_StateMismatch(t *testing.T) {
	var exchanges int32
	srv := tokenServer(t, &exchanges)

	f := testFlow(t, srv.URL, func(string) url.Values {
		return url.Values{"code": {"the-code"}, "state": {"forged"}}
	})

	_, err := f.Run(context.Background())
	if !apperr.Is(err, apperr.AuthFlowFailed) {
		t.Fatalf("expected AUTH_FLOW_FAILED, got %v", err)
	}
	if n := atomic.LoadInt32(&exchanges); n != 0 {
		t.Errorf("expected no token exchange, got %d", n)
	}
}

func TestFlow_ExchangeFailure(t *testing.T) {
	var exchanges int32
	srv := tokenServer(t, &exchanges)

	f := testFlow(t, srv.URL, func(state string) url.Values {
		return url.Values{"code": {"wrong-code"}, "state": {state}}
	})

	_, err := f.Run(context.Background())
	if !apperr.Is(err, apperr.AuthFlowFailed) {
		t.Fatalf("expected AUTH_FLOW_FAILED, got %v", err)
	}
	if f.State() != Failed {
		t.Errorf("expected Failed, got %s", f.State())
	}
	if n := atomic.LoadInt32(&exchanges); n != 1 {
		t.Errorf("expected exactly one exchange attempt, got %d", n)
	}
}

func TestFlow_Timeout(t *testing.T) {
	f := NewFlow("id", "secret", io.Discard, nil)
	f.Addr = "127.0.0.1:0"
	f.CallbackTimeout = 50 * time.Millisecond
	f.OpenBrowser = nil

	_, err := f.Run(context.Background())
	if !apperr.Is(err, apperr.AuthFlowFailed) {
		t.Errorf("expected AUTH_FLOW_FAILED, got %v", err)
	}
	if f.State() != Failed {
		t.Errorf("expected Failed, got %s", f.State())
	}
}

func TestFlow_NotReusable(t *testing.T) {
	f := NewFlow("id", "secret", io.Discard, nil)
	f.Addr = "127.0.0.1:0"
	f.CallbackTimeout = 10 * time.Millisecond
	f.OpenBrowser = nil
	f.Run(context.Background())

	_, err := f.Run(context.Background())
	if !apperr.Is(err, apperr.AuthFlowFailed) {
		t.Errorf("expected AUTH_FLOW_FAILED on reuse, got %v", err)
	}
}

func TestFlow_BindFailure(t *testing.T) {
	busy := httptest.NewServer(http.NotFoundHandler())
	defer busy.Close()

	f := NewFlow("id", "secret", io.Discard, nil)
	f.Addr = strings.TrimPrefix(busy.URL, "http://")
	f.OpenBrowser = func(string) error {
		t.Error("browser must not open when the listener cannot bind")
		return nil
	}

	_, err := f.Run(context.Background())
	if !apperr.Is(err, apperr.AuthFlowFailed) {
		t.Errorf("expected AUTH_FLOW_FAILED, got %v", err)
	}
}

func TestHandleCallback(t *testing.T) {
	f := &Flow{stateToken: "s1"}

	tests := []struct {
		name    string
		query   url.Values
		code    string
		wantErr bool
	}{
		{"ok", url.Values{"code": {"c"}, "state": {"s1"}}, "c", false},
		{"error param", url.Values{"error": {"access_denied"}}, "", true},
		{"missing state", url.Values{"code": {"c"}}, "", true},
		{"missing code", url.Values{"state": {"s1"}}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := f.handleCallback(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, code)
			}
		})
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")
	if _, _, err := CredentialsFromEnv(); !apperr.Is(err, apperr.AuthFlowFailed) {
		t.Errorf("expected AUTH_FLOW_FAILED, got %v", err)
	}

	t.Setenv(EnvClientID, "id")
	t.Setenv(EnvClientSecret, "secret")
	id, secret, err := CredentialsFromEnv()
	if err != nil || id != "id" || secret != "secret" {
		t.Errorf("unexpected result %q %q %v", id, secret, err)
	}
}
