package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/streamstock/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/streamstock/internal/client/token"
	"github.com/dmitrijs2005/streamstock/internal/testx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSink struct{ n atomic.Int32 }

func (s *countingSink) NotifyLoggedOut(context.Context) { s.n.Add(1) }

type fixture struct {
	mux          *http.ServeMux
	srv          *httptest.Server
	store        *token.Store
	sink         *countingSink
	client       *Client
	refreshCalls atomic.Int32
	fresh        string

	mu sync.Mutex
	// refresh answers the refresh endpoint; the default hands out fresh.
	refresh http.HandlerFunc
}

func (f *fixture) setRefresh(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh = h
}

func newFixture(t *testing.T, area Area, opts ...func(*Config)) *fixture {
	t.Helper()

	f := &fixture{
		mux:   http.NewServeMux(),
		sink:  &countingSink{},
		fresh: testx.MakeToken(t, roleFor(area), time.Now().Add(2*time.Hour)),
	}
	f.mux.HandleFunc("POST "+RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		f.mu.Lock()
		h := f.refresh
		f.mu.Unlock()
		if h != nil {
			h(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": f.fresh})
	})
	f.srv = httptest.NewServer(f.mux)
	t.Cleanup(f.srv.Close)

	f.store = token.NewStore(credentials.NewMemoryRepository(), area.Name)

	cfg := Config{
		BaseURL:        f.srv.URL,
		Area:           area,
		Store:          f.store,
		Sink:           f.sink,
		RefreshTimeout: time.Second,
	}
	for _, o := range opts {
		o(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	f.client = c
	return f
}

func roleFor(a Area) string {
	if a.Role == "" {
		return "user"
	}
	return strings.ToLower(a.Role)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

type echo struct {
	Token string `json:"token"`
	Body  string `json:"body"`
}

func TestTransport_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 10
	f := newFixture(t, Customer)
	ctx := context.Background()

	stale := testx.MakeToken(t, "user", time.Now().Add(time.Hour))
	require.NoError(t, f.store.SetTokenFromJWT(ctx, stale))

	var arrived atomic.Int32
	allIn := make(chan struct{})
	f.mux.HandleFunc("GET /api/protected", func(w http.ResponseWriter, r *http.Request) {
		if bearer(r) == f.fresh {
			writeJSON(w, http.StatusOK, echo{Token: bearer(r)})
			return
		}
		if arrived.Add(1) == n {
			close(allIn)
		}
		<-allIn
		w.WriteHeader(http.StatusUnauthorized)
	})

	var wg sync.WaitGroup
	results := make([]echo, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.client.Do(ctx, http.MethodGet, "/api/protected", nil, nil, &results[i])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.refreshCalls.Load())
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, f.fresh, results[i].Token)
	}

	got, err := f.store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.fresh, got)
	assert.Zero(t, f.sink.n.Load())
}

func TestTransport_ConcurrentRefreshFailureEndsSessionOnce(t *testing.T) {
	const n = 5
	f := newFixture(t, Customer)
	ctx := context.Background()
	f.setRefresh(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, f.store.SetTokenFromJWT(ctx, testx.MakeToken(t, "user", time.Now().Add(time.Hour))))

	var arrived atomic.Int32
	allIn := make(chan struct{})
	f.mux.HandleFunc("GET /api/protected", func(w http.ResponseWriter, r *http.Request) {
		if arrived.Add(1) == n {
			close(allIn)
		}
		<-allIn
		w.WriteHeader(http.StatusUnauthorized)
	})

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.client.Do(ctx, http.MethodGet, "/api/protected", nil, nil, nil)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.refreshCalls.Load())
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Equal(t, int32(1), f.sink.n.Load())
	assert.Equal(t, int32(n), arrived.Load(), "failed refresh must not replay")
}

func TestTransport_SecondUnauthorizedIsSurfaced(t *testing.T) {
	f := newFixture(t, Customer)
	ctx := context.Background()
	require.NoError(t, f.store.SetTokenFromJWT(ctx, testx.MakeToken(t, "user", time.Now().Add(time.Hour))))

	var hits atomic.Int32
	var lastAuth atomic.Value
	f.mux.HandleFunc("GET /api/protected", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lastAuth.Store(bearer(r))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "nope"})
	})

	err := f.client.Do(ctx, http.MethodGet, "/api/protected", nil, nil, nil)

	require.ErrorIs(t, err, ErrUnauthorized)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "nope", se.Message)
	assert.Equal(t, int32(1), f.refreshCalls.Load())
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, f.fresh, lastAuth.Load())
	assert.Zero(t, f.sink.n.Load())
}

func TestTransport_RefreshFailureClearsStoreAndNotifies(t *testing.T) {
	tests := []struct {
		name    string
		refresh http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"missing token", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, map[string]string{}) }},
		{"not json", func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, "ok") }},
		{"malformed token", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"accessToken": "not-a-token"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Customer)
			f.setRefresh(tt.refresh)
			ctx := context.Background()
			require.NoError(t, f.store.SetTokenFromJWT(ctx, testx.MakeToken(t, "user", time.Now().Add(time.Hour))))
			f.mux.HandleFunc("GET /api/protected", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})

			err := f.client.Do(ctx, http.MethodGet, "/api/protected", nil, nil, nil)
			require.ErrorIs(t, err, ErrUnauthorized)

			tok, err := f.store.Token(ctx)
			require.NoError(t, err)
			assert.Empty(t, tok)
			assert.Equal(t, int32(1), f.sink.n.Load())
		})
	}
}

func TestTransport_RefreshTimeout(t *testing.T) {
	f := newFixture(t, Customer, func(c *Config) { c.RefreshTimeout = 50 * time.Millisecond })
	ctx := context.Background()
	f.setRefresh(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	require.NoError(t, f.store.SetTokenFromJWT(ctx, testx.MakeToken(t, "user", time.Now().Add(time.Hour))))
	f.mux.HandleFunc("GET /api/protected", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	start := time.Now()
	err := f.client.Do(ctx, http.MethodGet, "/api/protected", nil, nil, nil)

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, f.client.Transport().Refresher().Refreshing())
	assert.Equal(t, int32(1), f.sink.n.Load())
}

func TestTransport_ReplaysRequestBody(t *testing.T) {
	f := newFixture(t, Customer)
	ctx := context.Background()
	require.NoError(t, f.store.SetTokenFromJWT(ctx, testx.MakeToken(t, "user", time.Now().Add(time.Hour))))

	f.mux.HandleFunc("POST /api/things", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if bearer(r) != f.fresh {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, echo{Token: bearer(r), Body: string(b)})
	})

	var out echo
	err := f.client.Do(ctx, http.MethodPost, "/api/things", nil, map[string]string{"name": "netflix"}, &out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"netflix"}`, out.Body)
}

func TestTransport_NonReplayableBodyIsNotRetried(t *testing.T) {
	f := newFixture(t, Customer)
	ctx := context.Background()
	require.NoError(t, f.store.SetTokenFromJWT(ctx, testx.MakeToken(t, "user", time.Now().Add(time.Hour))))
	f.mux.HandleFunc("POST /api/things", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.srv.URL+"/api/things",
		io.NopCloser(strings.NewReader("{}")))
	require.NoError(t, err)

	resp, err := f.client.HTTPClient().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, f.refreshCalls.Load())
}

func TestTransport_Preflight(t *testing.T) {
	tests := []struct {
		name     string
		exp      time.Duration
		wantAuth bool
	}{
		{name: "valid token attached", exp: time.Hour, wantAuth: true},
		{name: "token inside expiry buffer omitted", exp: 2 * time.Second, wantAuth: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Customer)
			ctx := context.Background()
			tok := testx.MakeToken(t, "user", time.Now().Add(tt.exp))
			require.NoError(t, f.store.SetTokenFromJWT(ctx, tok))

			headers := make(chan string, 1)
			f.mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
				headers <- r.Header.Get("Authorization")
				writeJSON(w, http.StatusOK, []string{})
			})

			require.NoError(t, f.client.Do(ctx, http.MethodGet, "/api/categories", nil, nil, nil))
			header := <-headers
			if tt.wantAuth {
				assert.Equal(t, "Bearer "+tok, header)
			} else {
				assert.Empty(t, header)
			}
		})
	}
}

func TestTransport_AnonymousWithoutToken(t *testing.T) {
	f := newFixture(t, Customer)
	headers := make(chan string, 1)
	f.mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []string{})
	})

	require.NoError(t, f.client.Do(context.Background(), http.MethodGet, "/api/categories", nil, nil, nil))
	assert.Empty(t, <-headers)
}

func TestTransport_RoleMismatchEndsSessionWithoutSending(t *testing.T) {
	f := newFixture(t, Admin)
	ctx := context.Background()
	require.NoError(t, f.store.SetTokenFromJWT(ctx, testx.MakeToken(t, "user", time.Now().Add(time.Hour))))

	var hits atomic.Int32
	f.mux.HandleFunc("GET /api/wallet/transactions", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	err := f.client.Do(ctx, http.MethodGet, "/api/wallet/transactions", nil, nil, nil)

	require.ErrorIs(t, err, ErrRoleMismatch)
	assert.Zero(t, hits.Load())
	tok, _ := f.store.Token(ctx)
	assert.Empty(t, tok)
	assert.Equal(t, int32(1), f.sink.n.Load())
}

func TestTransport_SessionEndingStatuses(t *testing.T) {
	tests := []struct {
		name        string
		area        Area
		status      int
		wantErr     error
		wantCleared bool
	}{
		{"admin forbidden", Admin, http.StatusForbidden, ErrForbidden, true},
		{"admin unauthorized", Admin, http.StatusUnauthorized, ErrUnauthorized, true},
		{"supplier forbidden", Supplier, http.StatusForbidden, ErrForbidden, true},
		{"customer forbidden passes through", Customer, http.StatusForbidden, ErrForbidden, false},
		{"customer not found passes through", Customer, http.StatusNotFound, ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.area)
			ctx := context.Background()
			tok := testx.MakeToken(t, roleFor(tt.area), time.Now().Add(time.Hour))
			require.NoError(t, f.store.SetTokenFromJWT(ctx, tok))
			f.mux.HandleFunc("GET /api/resource", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			err := f.client.Do(ctx, http.MethodGet, "/api/resource", nil, nil, nil)
			require.ErrorIs(t, err, tt.wantErr)

			got, _ := f.store.Token(ctx)
			assert.Zero(t, f.refreshCalls.Load())
			if tt.wantCleared {
				assert.Empty(t, got)
				assert.Equal(t, int32(1), f.sink.n.Load())
			} else {
				assert.Equal(t, tok, got)
				assert.Zero(t, f.sink.n.Load())
			}
		})
	}
}

func TestTransport_RefreshSendsLoginCookie(t *testing.T) {
	f := newFixture(t, Customer)
	ctx := context.Background()

	f.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "rt-1", Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": testx.MakeToken(t, "user", time.Now().Add(time.Hour))})
	})
	f.setRefresh(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("refreshToken")
		if err != nil || c.Value != "rt-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": f.fresh})
	})
	f.mux.HandleFunc("GET /api/protected", func(w http.ResponseWriter, r *http.Request) {
		if bearer(r) != f.fresh {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, echo{Token: bearer(r)})
	})

	var login struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, f.client.Do(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{"username": "u"}, &login))
	require.NoError(t, f.store.SetTokenFromJWT(ctx, login.AccessToken))

	var out echo
	require.NoError(t, f.client.Do(ctx, http.MethodGet, "/api/protected", nil, nil, &out))
	assert.Equal(t, f.fresh, out.Token)
}
