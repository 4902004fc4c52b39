package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/streamstock/internal/client/session"
	"github.com/dmitrijs2005/streamstock/internal/client/token"
	"github.com/dmitrijs2005/streamstock/internal/common"
	"github.com/dmitrijs2005/streamstock/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const maxErrorBody = 64 << 10

// Config describes one area's API client.
type Config struct {
	BaseURL string
	Area    Area
	Store   *token.Store
	Sink    session.Sink
	Logger  logging.Logger

	// RequestTimeout bounds a whole call including a refresh and replay.
	// Zero means no limit.
	RequestTimeout time.Duration
	RefreshTimeout time.Duration
	ExpiryBuffer   time.Duration
	// RateLimit caps outgoing requests per second. Zero disables it.
	RateLimit float64

	// Base overrides the network RoundTripper, for tests.
	Base http.RoundTripper
}

// Client issues JSON calls against the marketplace API through an
// authenticating Transport.
type Client struct {
	baseURL   string
	area      Area
	store     *token.Store
	sink      session.Sink
	log       logging.Logger
	hc        *http.Client
	transport *Transport
	limiter   *rate.Limiter
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api base url is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("token store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Sink == nil {
		cfg.Sink = session.Nop
	}
	if cfg.ExpiryBuffer <= 0 {
		cfg.ExpiryBuffer = token.DefaultExpiryBuffer
	}
	if cfg.Base == nil {
		cfg.Base = http.DefaultTransport
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	tr, err := NewTransport(baseURL, cfg.Store, cfg.Area, cfg.Sink,
		WithBase(cfg.Base),
		WithLogger(cfg.Logger),
		WithCookieJar(jar),
		WithExpiryBuffer(cfg.ExpiryBuffer),
		WithRefreshTimeout(cfg.RefreshTimeout),
	)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   baseURL,
		area:      cfg.Area,
		store:     cfg.Store,
		sink:      cfg.Sink,
		log:       cfg.Logger,
		hc:        &http.Client{Transport: tr, Jar: jar, Timeout: cfg.RequestTimeout},
		transport: tr,
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

func (c *Client) Area() Area {
	return c.area
}

func (c *Client) Store() *token.Store {
	return c.store
}

func (c *Client) Sink() session.Sink {
	return c.sink
}

func (c *Client) Transport() *Transport {
	return c.transport
}

// HTTPClient returns the underlying authenticated http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.hc
}

// Do sends in as JSON to path and decodes a 2xx response into out. Either may
// be nil. Non-2xx responses are returned as *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, ErrRoleMismatch) || ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readStatusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func readStatusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(b, &payload) == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	} else {
		msg = strings.TrimSpace(string(b))
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}
