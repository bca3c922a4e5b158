package credentials

import (
	"context"
	"errors"
	"strings"

	"veostudio/internal/kv"
)

const (
	ProviderGemini = "gemini"

	keyPrefix = "credential:"
)

// Store persists provider API keys in the studio key-value store.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

// Token returns the stored key for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	if s == nil || s.kv == nil {
		return "", nil
	}
	token, ok, err := s.kv.Get(ctx, keyPrefix+provider)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetGeminiAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("gemini api key is required")
	}
	return s.kv.Set(ctx, keyPrefix+ProviderGemini, key)
}

func (s *Store) ForgetGeminiAPIKey(ctx context.Context) error {
	return s.kv.Remove(ctx, keyPrefix+ProviderGemini)
}
