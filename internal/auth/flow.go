// Package auth runs the OAuth authorization-code flow against TickTick.
package auth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tick/internal/apperr"
	"tick/internal/config"
	"tick/internal/logger"
)

const (
	// AuthURL is the TickTick authorization endpoint.
	AuthURL = "https://ticktick.com/oauth/authorize"

	// TokenURL is the TickTick token endpoint.
	TokenURL = "https://ticktick.com/oauth/token"

	// RedirectURL is the registered redirect. The listener binds its port on loopback.
	RedirectURL = "http://localhost:8080"

	// DefaultAddr is the callback listen address.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultCallbackTimeout bounds the wait for the browser redirect.
	DefaultCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Env vars holding the app credentials
	EnvClientID     = "TICKTICK_CLIENT_ID"
	EnvClientSecret = "TICKTICK_CLIENT_SECRET"
)

// Scopes requested from TickTick.
var Scopes = []string{"tasks:write", "tasks:read"}

// State is the position of a Flow in its lifecycle.
type State int

const (
	Unauthenticated State = iota
	AwaitingCallback
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AwaitingCallback:
		return "awaiting-callback"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Flow performs a single authorization. A Flow is not reusable once it has
// reached Authenticated or Failed; start a new one instead.
type Flow struct {
	// OAuth holds the client credentials, endpoints and redirect URL.
	OAuth *oauth2.Config

	// Addr is the callback listen address. A zero port binds an ephemeral port
	// and rewrites the redirect URL to match.
	Addr string

	// CallbackTimeout bounds the wait for the callback.
	CallbackTimeout time.Duration

	// OpenBrowser opens the authorization URL. Failures are not fatal.
	OpenBrowser func(url string) error

	// Prompt receives the authorization URL for manual use.
	Prompt io.Writer

	Log *zap.Logger

	mu         sync.Mutex
	state      State
	stateToken string
}

// NewFlow returns a Flow for the production endpoints.
func NewFlow(clientID, clientSecret string, prompt io.Writer, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   AuthURL,
				TokenURL:  TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
			RedirectURL: RedirectURL,
			Scopes:      Scopes,
		},
		Addr:            DefaultAddr,
		CallbackTimeout: DefaultCallbackTimeout,
		OpenBrowser:     browser.OpenURL,
		Prompt:          prompt,
		Log:             log,
	}
}

// CredentialsFromEnv reads the app credentials from the environment.
func CredentialsFromEnv() (clientID, clientSecret string, err error) {
	clientID = config.Getenv(EnvClientID, "")
	clientSecret = config.Getenv(EnvClientSecret, "")
	switch {
	case clientID == "":
		return "", "", apperr.New(apperr.AuthFlowFailed, "%s is not set", EnvClientID)
	case clientSecret == "":
		return "", "", apperr.New(apperr.AuthFlowFailed, "%s is not set", EnvClientSecret)
	}
	return clientID, clientSecret, nil
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *Flow) fail(err error) error {
	f.setState(Failed)
	f.log().Debug("authorization failed", zap.Error(err))
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Wrap(apperr.AuthFlowFailed, err, "authorization failed")
}

// Run binds the callback listener, sends the user to the authorization page,
// waits for exactly one callback and exchanges the code for a token.
func (f *Flow) Run(ctx context.Context) (*oauth2.Token, error) {
	f.mu.Lock()
	if f.state != Unauthenticated {
		f.mu.Unlock()
		return nil, apperr.New(apperr.AuthFlowFailed, "authorization flow already used (%s)", f.state)
	}
	f.stateToken = uuid.NewString()
	f.mu.Unlock()

	listener, err := net.Listen("tcp", f.addr())
	if err != nil {
		return nil, f.fail(apperr.Wrap(apperr.AuthFlowFailed, err,
			fmt.Sprintf("failed to bind %s (is another process using this port?)", f.addr())))
	}
	defer listener.Close()
	f.adoptListenerPort(listener.Addr())

	authURL := f.OAuth.AuthCodeURL(f.stateToken)
	f.setState(AwaitingCallback)

	if f.Prompt != nil {
		fmt.Fprintln(f.Prompt, "Open this URL in your browser:")
		fmt.Fprintln(f.Prompt, authURL)
	}
	if f.OpenBrowser != nil {
		if err := f.OpenBrowser(authURL); err != nil {
			f.log().Debug("could not open browser", zap.Error(err))
		}
	}

	type result struct {
		code string
		err  error
	}
	resultCh := make(chan result, 1)
	var once sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Only the redirect path counts as the callback; stray requests
		// such as /favicon.ico must not consume it.
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		handled := false
		once.Do(func() {
			handled = true
			code, err := f.handleCallback(r.URL.Query())
			if err != nil {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, "<html><body><h1>Authorization failed</h1><p>%s</p></body></html>", htmlEscape(err.Error()))
			} else {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, "<html><body><h1>Authorization successful</h1><p>You may close this window.</p></body></html>")
			}
			resultCh <- result{code: code, err: err}
		})
		if !handled {
			http.Error(w, "callback already received", http.StatusGone)
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		})
	}
	defer stop()

	timer := time.NewTimer(f.callbackTimeout())
	defer timer.Stop()

	var code string
	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, f.fail(res.err)
		}
		code = res.code
	case err := <-serveErr:
		return nil, f.fail(err)
	case <-timer.C:
		return nil, f.fail(apperr.New(apperr.AuthFlowFailed, "timed out waiting for authorization callback"))
	case <-ctx.Done():
		return nil, f.fail(apperr.Wrap(apperr.AuthFlowFailed, ctx.Err(), "authorization cancelled"))
	}

	stop()

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := f.OAuth.Exchange(exchangeCtx, code)
	if err != nil {
		return nil, f.fail(apperr.Wrap(apperr.AuthFlowFailed, err, "failed to exchange authorization code"))
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}

	f.setState(Authenticated)
	f.log().Debug("authorization complete",
		zap.String("token", logger.RedactToken(token.AccessToken)),
		zap.Time("expiry", token.Expiry))
	return token, nil
}

// handleCallback validates the redirect parameters and returns the authorization code.
func (f *Flow) handleCallback(q url.Values) (string, error) {
	if e := q.Get("error"); e != "" {
		desc := q.Get("error_description")
		if desc == "" {
			desc = e
		}
		return "", apperr.New(apperr.AuthFlowFailed, "Authorization failed: %s", desc).
			WithDetail("error", e)
	}

	f.mu.Lock()
	expected := f.stateToken
	f.mu.Unlock()
	if got := q.Get("state"); got == "" || got != expected {
		return "", apperr.New(apperr.AuthFlowFailed, "state mismatch in authorization callback")
	}

	code := q.Get("code")
	if code == "" {
		return "", apperr.New(apperr.AuthFlowFailed, "no authorization code in callback")
	}
	return code, nil
}

func (f *Flow) addr() string {
	if f.Addr == "" {
		return DefaultAddr
	}
	return f.Addr
}

func (f *Flow) callbackTimeout() time.Duration {
	if f.CallbackTimeout <= 0 {
		return DefaultCallbackTimeout
	}
	return f.CallbackTimeout
}

func (f *Flow) log() *zap.Logger {
	if f.Log == nil {
		return zap.NewNop()
	}
	return f.Log
}

// adoptListenerPort rewrites the redirect URL when an ephemeral port was requested.
func (f *Flow) adoptListenerPort(addr net.Addr) {
	_, port, err := net.SplitHostPort(f.addr())
	if err != nil || port != "0" {
		return
	}
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return
	}
	u, err := url.Parse(f.OAuth.RedirectURL)
	if err != nil {
		return
	}
	u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(tcp.Port))
	f.OAuth.RedirectURL = u.String()
}

func htmlEscape(s string) string {
	return template.HTMLEscapeString(s)
}
