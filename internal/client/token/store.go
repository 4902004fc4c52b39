package token

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/streamstock/internal/client/repositories/credentials"
)

const (
	KeyAccessToken          = "accessToken"
	KeyAccessTokenExpiresAt = "accessTokenExpiresAt"

	// DefaultExpiryBuffer keeps a token from being sent when it would expire
	// while the request is in flight.
	DefaultExpiryBuffer = 5 * time.Second
)

// Store is the token record of one area. All methods are safe for concurrent
// use as long as the underlying repository is.
type Store struct {
	repo credentials.Repository
	area string
	now  func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns the Store for area. An empty area uses the bare key names.
func NewStore(repo credentials.Repository, area string, opts ...Option) *Store {
	s := &Store{repo: repo, area: area, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Area() string {
	return s.area
}

func (s *Store) key(base string) string {
	if s.area == "" {
		return base
	}
	return s.area + "_" + base
}

// SetToken stores token. A nil expiresAtMs drops any cached expiry so it is
// decoded from the token on demand. An empty token clears the record.
func (s *Store) SetToken(ctx context.Context, token string, expiresAtMs *int64) error {
	if token == "" {
		return s.Clear(ctx)
	}

	set := map[string]string{s.key(KeyAccessToken): token}
	var remove []string
	if expiresAtMs != nil {
		set[s.key(KeyAccessTokenExpiresAt)] = strconv.FormatInt(*expiresAtMs, 10)
	} else {
		remove = []string{s.key(KeyAccessTokenExpiresAt)}
	}
	return s.repo.Apply(ctx, set, remove)
}

// SetTokenFromJWT stores token with its exp claim cached. An empty or
// undecodable token clears the record; a decodable token without exp is
// stored with no cached expiry.
func (s *Store) SetTokenFromJWT(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	claims := DecodeJWT(token)
	if claims == nil {
		return s.Clear(ctx)
	}
	if ms, ok := ExpiryMillis(claims); ok {
		return s.SetToken(ctx, token, &ms)
	}
	return s.SetToken(ctx, token, nil)
}

// Token returns the stored token, "" when there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.repo.Get(ctx, s.key(KeyAccessToken))
}

// Expiry returns the cached expiry in milliseconds since epoch. ok is false
// when nothing (or garbage) is cached.
func (s *Store) Expiry(ctx context.Context) (ms int64, ok bool, err error) {
	v, err := s.repo.Get(ctx, s.key(KeyAccessTokenExpiresAt))
	if err != nil || v == "" {
		return 0, false, err
	}
	ms, convErr := strconv.ParseInt(v, 10, 64)
	if convErr != nil || ms <= 0 {
		return 0, false, nil
	}
	return ms, true, nil
}

// Clear removes the token and its cached expiry.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Apply(ctx, nil, []string{s.key(KeyAccessToken), s.key(KeyAccessTokenExpiresAt)})
}

// IsExpired reports whether the stored token is unusable buffer from now.
// Missing tokens, tokens without an exp claim and storage failures all count
// as expired.
func (s *Store) IsExpired(ctx context.Context, buffer time.Duration) bool {
	tok, err := s.Token(ctx)
	if err != nil || tok == "" {
		return true
	}
	return s.expiredAt(ctx, tok, buffer)
}

func (s *Store) expiredAt(ctx context.Context, tok string, buffer time.Duration) bool {
	deadline := s.now().Add(buffer).UnixMilli()

	if ms, ok, err := s.Expiry(ctx); err == nil && ok {
		return deadline >= ms
	}

	ms, ok := ExpiryMillis(DecodeJWT(tok))
	if !ok {
		return true
	}
	return deadline >= ms
}

// Role returns the upper-cased role of the stored token, "" if unknown.
func (s *Store) Role(ctx context.Context) string {
	tok, err := s.Token(ctx)
	if err != nil || tok == "" {
		return ""
	}
	return RoleOf(DecodeJWT(tok))
}

// Snapshot is a consistent read of the record used for request pre-flight.
type Snapshot struct {
	Token   string
	Role    string
	Expired bool
}

// Snapshot reads the token once and derives role and expiry from that read.
func (s *Store) Snapshot(ctx context.Context, buffer time.Duration) (Snapshot, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return Snapshot{Expired: true}, err
	}
	if tok == "" {
		return Snapshot{Expired: true}, nil
	}
	return Snapshot{
		Token:   tok,
		Role:    RoleOf(DecodeJWT(tok)),
		Expired: s.expiredAt(ctx, tok, buffer),
	}, nil
}
