package credentials

import (
	"context"
	"errors"
	"strings"

	"veostudio/internal/infra"
)

// Picker asks the host for an API key, typically by prompting the user. It
// may block until the user answers. An empty key with a nil error means the
// user chose not to provide one.
type Picker interface {
	Pick(ctx context.Context) (string, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context) (string, error)

func (f PickerFunc) Pick(ctx context.Context) (string, error) { return f(ctx) }

// Provider resolves the Gemini API key. A key chosen through the picker is
// stored and takes precedence over the environment key.
type Provider struct {
	envKey string
	store  *Store
	picker Picker
	logger *infra.Logger
}

func NewProvider(envKey string, store *Store, picker Picker, logger *infra.Logger) *Provider {
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Provider{
		envKey: strings.TrimSpace(envKey),
		store:  store,
		picker: picker,
		logger: logger,
	}
}

// APIKey returns the usable key or "" when none is configured.
func (p *Provider) APIKey(ctx context.Context) (string, error) {
	stored, err := p.store.GeminiAPIKey(ctx)
	if err != nil {
		return "", err
	}
	if stored != "" {
		return stored, nil
	}
	return p.envKey, nil
}

// HasCredential reports whether a key is available. Lookup failures count as
// absent.
func (p *Provider) HasCredential(ctx context.Context) bool {
	key, err := p.APIKey(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("credentials: key lookup failed")
		return false
	}
	return key != ""
}

// RequestCredential runs the picker and stores its answer. Without a picker
// it does nothing.
func (p *Provider) RequestCredential(ctx context.Context) error {
	if p.picker == nil {
		return nil
	}
	key, err := p.picker.Pick(ctx)
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		p.logger.Info().Msg("credentials: no key selected")
		return nil
	}
	if p.store == nil {
		return errors.New("credentials: no store to keep the selected key")
	}
	return p.store.SetGeminiAPIKey(ctx, key)
}

// Forget drops the stored key. The environment key, if any, stays in effect.
func (p *Provider) Forget(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	return p.store.ForgetGeminiAPIKey(ctx)
}

// Masked returns a display form of the active key.
func (p *Provider) Masked(ctx context.Context) string {
	key, err := p.APIKey(ctx)
	if err != nil || key == "" {
		return ""
	}
	return MaskKey(key)
}

// MaskKey shows the first and last four characters of keys longer than ten
// characters and "Configured" otherwise.
func MaskKey(key string) string {
	if len(key) > 10 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "Configured"
}
