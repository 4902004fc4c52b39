package client

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshTimeout bounds a single refresh call.
const DefaultRefreshTimeout = 10 * time.Second

// RefreshFunc obtains a new access token. It must honour ctx and must persist
// the token, or end the session, before it returns.
type RefreshFunc func(ctx context.Context) (string, error)

type refreshState int

const (
	stateIdle refreshState = iota
	stateRefreshing
)

type refreshResult struct {
	token string
	err   error
}

// Refresher lets at most one refresh run at a time. Callers that ask while a
// refresh is in flight wait for its outcome instead of starting their own.
//
// Every completed refresh bumps a generation counter. A caller whose request
// was sent before the latest refresh finished gets that refresh's outcome
// straight away.
type Refresher struct {
	refresh RefreshFunc
	timeout time.Duration

	mu      sync.Mutex
	state   refreshState
	gen     uint64
	last    refreshResult
	waiters []chan refreshResult
}

func NewRefresher(fn RefreshFunc, timeout time.Duration) *Refresher {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	return &Refresher{refresh: fn, timeout: timeout}
}

// Generation identifies the last completed refresh. Read it before sending a
// request and pass it to Refresh if that request is rejected.
func (r *Refresher) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Refreshing reports whether a refresh is in flight.
func (r *Refresher) Refreshing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateRefreshing
}

// Refresh returns a token to replay a request with. seen is the generation
// observed when that request was sent.
func (r *Refresher) Refresh(ctx context.Context, seen uint64) (string, error) {
	r.mu.Lock()

	switch {
	case r.state == stateRefreshing:
		ch := make(chan refreshResult, 1)
		r.waiters = append(r.waiters, ch)
		r.mu.Unlock()

		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}

	case r.gen != seen:
		res := r.last
		r.mu.Unlock()
		return res.token, res.err
	}

	r.state = stateRefreshing
	r.mu.Unlock()

	res := r.run(ctx)

	r.mu.Lock()
	r.gen++
	r.last = res
	waiters := r.waiters
	r.waiters = nil
	r.state = stateIdle
	r.mu.Unlock()

	for _, ch := range waiters {
		ch <- res
	}
	return res.token, res.err
}

func (r *Refresher) run(ctx context.Context) refreshResult {
	// waiters depend on this call, so the caller's cancellation must not end it
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	tok, err := r.refresh(ctx)
	if err == nil && tok == "" {
		err = ErrRefreshFailed
	}
	return refreshResult{token: tok, err: err}
}
