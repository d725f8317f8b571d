package ticktick

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"tick/internal/apperr"
	"tick/internal/logger"
)

const (
	// DefaultBaseURL is the TickTick Open API root.
	DefaultBaseURL = "https://api.ticktick.com/open/v1"

	// RequestTimeout bounds every single HTTP exchange.
	RequestTimeout = 30 * time.Second
)

// Transport performs authenticated JSON exchanges and classifies failures.
type Transport struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      *oauth2.Token
	Log        *zap.Logger
}

// Do sends method path with body JSON-encoded (if non-nil) and decodes the
// response into out (if non-nil). A missing token fails before any network call.
func (t *Transport) Do(ctx context.Context, method, path string, body, out any) error {
	if t.Token == nil || t.Token.AccessToken == "" {
		return apperr.New(apperr.AuthRequired, "not authenticated (run: tick init)")
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.InvalidRequest, err, "failed to encode request")
		}
		reqBody = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL()+path, reqBody)
	if err != nil {
		return apperr.Wrap(apperr.InvalidRequest, err, "failed to build request")
	}
	t.Token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.httpClient().Do(req)
	if err != nil {
		t.log().Debug("request failed",
			zap.String("method", method),
			zap.String("path", logger.SanitizePath(path)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return networkError(err)
	}
	defer resp.Body.Close()

	t.log().Debug("request",
		zap.String("method", method),
		zap.String("path", logger.SanitizePath(path)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if err := googleapi.CheckResponse(resp); err != nil {
		return classify(err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.log().Debug("undecodable response", zap.String("body", logger.SanitizeBody(data)))
		return apperr.Wrap(apperr.DecodeError, err, fmt.Sprintf("failed to decode response from %s %s", method, path))
	}
	return nil
}

func (t *Transport) baseURL() string {
	if t.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(t.BaseURL, "/")
}

func (t *Transport) httpClient() *http.Client {
	if t.HTTPClient == nil {
		return http.DefaultClient
	}
	return t.HTTPClient
}

func (t *Transport) log() *zap.Logger {
	if t.Log == nil {
		return zap.NewNop()
	}
	return t.Log
}

func networkError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.NetworkError, err, "request timed out")
	}
	return apperr.Wrap(apperr.NetworkError, err, "request failed")
}

// classify maps a non-2xx response to an error code.
func classify(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return apperr.Wrap(apperr.ServerError, err, "unexpected response")
	}

	msg := remoteMessage(gerr)
	switch code := gerr.Code; {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return apperr.New(apperr.AuthExpired, "token expired or revoked (run: tick init)").
			WithDetail("status", code)
	case code == http.StatusNotFound:
		return apperr.New(apperr.NotFound, "not found").WithDetail("status", code)
	case code == http.StatusTooManyRequests:
		e := apperr.New(apperr.RateLimited, "rate limited by server")
		if d, ok := retryAfter(gerr.Header.Get("Retry-After"), time.Now()); ok {
			e.RetryAfter = d
			e.WithDetail("retryAfterSeconds", int(d.Seconds()))
		}
		return e
	case code >= 500:
		return apperr.New(apperr.ServerError, "server error (%d)", code).WithDetail("status", code)
	case code >= 400:
		if msg == "" {
			msg = fmt.Sprintf("request rejected (%d)", code)
		}
		return apperr.New(apperr.InvalidRequest, "%s", msg).WithDetail("status", code)
	default:
		return apperr.New(apperr.ServerError, "unexpected status %d", code).WithDetail("status", code)
	}
}

// remoteMessage extracts the server's error text, if it sent one.
func remoteMessage(gerr *googleapi.Error) string {
	var body struct {
		ErrorMessage string `json:"errorMessage"`
		Message      string `json:"message"`
	}
	if err := json.Unmarshal([]byte(gerr.Body), &body); err == nil {
		if body.ErrorMessage != "" {
			return body.ErrorMessage
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return gerr.Message
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(v); err == nil {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
