package credentials

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/streamstock/internal/common"
	"github.com/dmitrijs2005/streamstock/internal/cryptox"
)

// SaltKey holds the base64 argon2 salt of a sealed store. It is stored in
// the clear next to the sealed values.
const SaltKey = "_salt"

// SealedRepository encrypts every value with AES-GCM before handing it to
// the wrapped Repository. The key is derived from a secret and a random salt
// created on first use.
type SealedRepository struct {
	inner Repository
	key   []byte
}

// NewSealedRepository loads (or creates) the salt in inner and derives the
// sealing key from secret.
func NewSealedRepository(ctx context.Context, inner Repository, secret []byte) (*SealedRepository, error) {
	encoded, err := inner.Get(ctx, SaltKey)
	if err != nil {
		return nil, err
	}

	var salt []byte
	if encoded == "" {
		salt = common.GenerateRandByteArray(16)
		err := inner.Apply(ctx, map[string]string{SaltKey: base64.StdEncoding.EncodeToString(salt)}, nil)
		if err != nil {
			return nil, err
		}
	} else {
		salt, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode salt: %w", err)
		}
	}

	return &SealedRepository{inner: inner, key: cryptox.DeriveKey(secret, salt)}, nil
}

func (r *SealedRepository) Get(ctx context.Context, key string) (string, error) {
	v, err := r.inner.Get(ctx, key)
	if err != nil || v == "" {
		return v, err
	}

	raw, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsealable, key)
	}
	plain, err := cryptox.Open(raw, r.key)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsealable, key)
	}
	return string(plain), nil
}

func (r *SealedRepository) Apply(ctx context.Context, set map[string]string, remove []string) error {
	sealed := make(map[string]string, len(set))
	for k, v := range set {
		b, err := cryptox.Seal([]byte(v), r.key)
		if err != nil {
			return fmt.Errorf("seal credential[%s]: %w", k, err)
		}
		sealed[k] = base64.StdEncoding.EncodeToString(b)
	}
	return r.inner.Apply(ctx, sealed, remove)
}
