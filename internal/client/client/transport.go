package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/dmitrijs2005/streamstock/internal/client/session"
	"github.com/dmitrijs2005/streamstock/internal/client/token"
	"github.com/dmitrijs2005/streamstock/internal/common"
	"github.com/dmitrijs2005/streamstock/internal/logging"
	"golang.org/x/net/publicsuffix"
)

// RefreshPath is appended to the API base URL to build the refresh endpoint.
const RefreshPath = "/auth/refresh"

const maxRefreshBody = 1 << 20

type retriedKey struct{}

func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

func isRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey{}).(bool)
	return v
}

// Transport is an http.RoundTripper that attaches the area's bearer token and
// recovers from rejected tokens.
//
// Before sending it classifies the stored token (see Check). A 401 on a
// request that has not been retried triggers a single shared refresh and a
// replay; if the refresh fails the store is cleared, a logout is signalled
// and the original 401 response is returned. Areas that do not refresh end
// the session on 401 instead, and areas with ForbiddenEndsSession do the same
// on 403.
type Transport struct {
	base       http.RoundTripper
	store      *token.Store
	area       Area
	sink       session.Sink
	log        logging.Logger
	jar        http.CookieJar
	buffer     time.Duration
	timeout    time.Duration
	refreshURL string
	refresh    RefreshFunc

	refresher *Refresher
	refreshHC *http.Client
}

type TransportOption func(*Transport)

// WithBase sets the RoundTripper requests are finally sent with.
func WithBase(rt http.RoundTripper) TransportOption {
	return func(t *Transport) { t.base = rt }
}

func WithLogger(l logging.Logger) TransportOption {
	return func(t *Transport) { t.log = l }
}

// WithCookieJar shares jar with the refresh call. The refresh endpoint
// authenticates with the cookie set at login.
func WithCookieJar(jar http.CookieJar) TransportOption {
	return func(t *Transport) { t.jar = jar }
}

func WithExpiryBuffer(d time.Duration) TransportOption {
	return func(t *Transport) { t.buffer = d }
}

func WithRefreshTimeout(d time.Duration) TransportOption {
	return func(t *Transport) { t.timeout = d }
}

// WithRefreshFunc replaces the HTTP refresh call. fn only fetches the token;
// persisting it and ending the session on failure stay with the Transport.
func WithRefreshFunc(fn RefreshFunc) TransportOption {
	return func(t *Transport) { t.refresh = fn }
}

// NewTransport builds the Transport for area. baseURL is the API root the
// refresh path is appended to.
func NewTransport(baseURL string, store *token.Store, area Area, sink session.Sink, opts ...TransportOption) (*Transport, error) {
	t := &Transport{
		base:       http.DefaultTransport,
		store:      store,
		area:       area,
		sink:       sink,
		log:        logging.Nop(),
		buffer:     token.DefaultExpiryBuffer,
		timeout:    DefaultRefreshTimeout,
		refreshURL: strings.TrimRight(baseURL, "/") + RefreshPath,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.sink == nil {
		t.sink = session.Nop
	}
	if t.jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		t.jar = jar
	}
	t.refreshHC = &http.Client{Transport: t.base, Jar: t.jar}
	if t.refresh == nil {
		t.refresh = t.fetchToken
	}
	t.log = t.log.With("area", area.Name)
	t.refresher = NewRefresher(t.refreshSession, t.timeout)

	return t, nil
}

// Refresher exposes the coordinator, for diagnostics.
func (t *Transport) Refresher() *Refresher {
	return t.refresher
}

// Preflight reads the token store once and classifies the result.
func (t *Transport) Preflight(ctx context.Context) Preflight {
	snap, err := t.store.Snapshot(ctx, t.buffer)
	if err != nil {
		t.log.Warn(ctx, "token store read failed, sending anonymously", "error", err)
	}
	return Check(snap, t.area)
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	gen := t.refresher.Generation()

	pf := t.Preflight(ctx)
	if pf.Kind == PreflightRoleMismatch {
		if req.Body != nil {
			req.Body.Close()
		}
		t.log.Warn(ctx, "stored token has the wrong role", "role", pf.Role, "want", t.area.Role)
		t.endSession(ctx, "role mismatch")
		return nil, fmt.Errorf("%w: %q in %s area", ErrRoleMismatch, pf.Role, t.area.Name)
	}
	if pf.Kind == PreflightExpired {
		t.log.Debug(ctx, "access token about to expire, sending without it")
	}

	resp, err := t.send(req, pf.Token)
	if err != nil {
		return nil, err
	}
	return t.handle(req, resp, gen)
}

func (t *Transport) send(req *http.Request, tok string) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.Header.Del(common.AuthorizationHeaderName)
	if tok != "" {
		out.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}
	return t.base.RoundTrip(out)
}

func (t *Transport) handle(req *http.Request, resp *http.Response, gen uint64) (*http.Response, error) {
	ctx := req.Context()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if !t.area.RefreshOnUnauthorized {
			t.endSession(ctx, "unauthorized")
			return resp, nil
		}
		if isRetried(ctx) {
			return resp, nil
		}
		if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
			t.log.Debug(ctx, "request body cannot be replayed, not refreshing", "method", req.Method, "url", req.URL.String())
			return resp, nil
		}
		return t.refreshAndReplay(req, resp, gen)

	case http.StatusForbidden:
		if t.area.ForbiddenEndsSession {
			t.endSession(ctx, "forbidden")
		}
	}
	return resp, nil
}

func (t *Transport) refreshAndReplay(req *http.Request, resp *http.Response, gen uint64) (*http.Response, error) {
	ctx := req.Context()

	tok, err := t.refresher.Refresh(ctx, gen)
	if err != nil {
		if ctx.Err() != nil {
			drain(resp)
			return nil, ctx.Err()
		}
		return resp, nil
	}

	retry := req.Clone(withRetried(ctx))
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retry.Body = body
	}
	drain(resp)

	next, err := t.send(retry, tok)
	if err != nil {
		return nil, err
	}
	return t.handle(retry, next, gen)
}

// refreshSession runs under the Refresher: it fetches a token, stores it, and
// ends the session if either step fails.
func (t *Transport) refreshSession(ctx context.Context) (string, error) {
	t.log.Info(ctx, "refreshing access token")

	tok, err := t.refresh(ctx)
	if err == nil && token.DecodeJWT(tok) == nil {
		err = fmt.Errorf("%w: malformed access token", ErrRefreshFailed)
	}
	if err == nil {
		err = t.store.SetTokenFromJWT(ctx, tok)
	}
	if err != nil {
		t.log.Warn(ctx, "access token refresh failed", "error", err)
		t.endSession(ctx, "refresh failed")
		return "", err
	}

	t.log.Info(ctx, "access token refreshed")
	return tok, nil
}

func (t *Transport) fetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.refreshHC.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, &StatusError{Code: resp.StatusCode})
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRefreshBody)).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrRefreshFailed, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", ErrRefreshFailed)
	}
	return body.AccessToken, nil
}

func (t *Transport) endSession(ctx context.Context, reason string) {
	// the refresh deadline may already have passed
	ctx = context.WithoutCancel(ctx)
	if err := t.store.Clear(ctx); err != nil {
		t.log.Error(ctx, "failed to clear token store", "error", err)
	}
	t.log.Warn(ctx, "session ended", "reason", reason)
	t.sink.NotifyLoggedOut(ctx)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxRefreshBody))
	resp.Body.Close()
}
