package video

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"veostudio/internal/domain"
	"veostudio/internal/infra"
)

const missingKeyMessage = "API Key not found. Please select a key."

// VeoOptions configures the Veo backend.
type VeoOptions struct {
	Keys       KeySource
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// VeoBackend runs jobs against the Gemini API video models. A fresh client is
// created per submission so a newly selected key takes effect immediately.
type VeoBackend struct {
	keys    KeySource
	baseURL string
	client  *http.Client
	logger  *infra.Logger
	dial    func(ctx context.Context, apiKey string) (veoAPI, error)
}

// veoAPI is the subset of the genai client the backend relies on.
type veoAPI interface {
	GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

type genaiAPI struct {
	client *genai.Client
}

func (g genaiAPI) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return g.client.Models.GenerateVideos(ctx, model, prompt, image, cfg)
}

func (g genaiAPI) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return g.client.Operations.GetVideosOperation(ctx, op, nil)
}

type veoHandle struct {
	api veoAPI
	op  *genai.GenerateVideosOperation
}

func NewVeoBackend(opts VeoOptions) (*VeoBackend, error) {
	if opts.Keys == nil {
		return nil, errors.New("veo: key source is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	b := &VeoBackend{
		keys:    opts.Keys,
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		client:  client,
		logger:  logger,
	}
	b.dial = b.dialGenai
	return b, nil
}

func (b *VeoBackend) dialGenai(ctx context.Context, apiKey string) (veoAPI, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: b.client,
	}
	if b.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: b.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return genaiAPI{client: client}, nil
}

func (b *VeoBackend) Submit(ctx context.Context, spec JobSpec) (*Operation, error) {
	key, err := b.keys.APIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("load api key: %w", err)
	}
	if strings.TrimSpace(key) == "" {
		return nil, domain.NewGenerationError(domain.ErrCredentialMissing, missingKeyMessage)
	}
	api, err := b.dial(ctx, key)
	if err != nil {
		return nil, err
	}

	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    spec.AspectRatio,
		Resolution:     spec.Resolution,
	}
	if spec.DurationSeconds > 0 {
		cfg.DurationSeconds = genai.Ptr(int32(spec.DurationSeconds))
	}
	var image *genai.Image
	if spec.Image != nil {
		image = &genai.Image{ImageBytes: spec.Image.Data, MIMEType: spec.Image.MIMEType}
	}

	b.logger.Debug().
		Str("request_id", spec.RequestID).
		Str("model", spec.Model).
		Str("aspect_ratio", spec.AspectRatio).
		Str("resolution", spec.Resolution).
		Bool("has_image", image != nil).
		Msg("veo: submitting generation")

	op, err := api.GenerateVideos(ctx, spec.Model, spec.Prompt, image, cfg)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, errors.New("veo: empty operation returned")
	}
	return fromGenai(op, api), nil
}

func (b *VeoBackend) Poll(ctx context.Context, op *Operation) (*Operation, error) {
	if op == nil {
		return nil, errors.New("veo: operation is required")
	}
	h, ok := op.handle.(veoHandle)
	if !ok {
		return nil, fmt.Errorf("veo: operation %q was not created by this backend", op.Name)
	}
	b.logger.Debug().Str("operation", op.Name).Msg("veo: polling operation")
	next, err := h.api.GetVideosOperation(ctx, h.op)
	if err != nil {
		return nil, err
	}
	return fromGenai(next, h.api), nil
}

func fromGenai(op *genai.GenerateVideosOperation, api veoAPI) *Operation {
	out := &Operation{
		Name:   op.Name,
		Done:   op.Done,
		handle: veoHandle{api: api, op: op},
	}
	if op.Error != nil {
		out.Error = &OperationError{
			Code:    intField(op.Error, "code"),
			Message: stringField(op.Error, "message"),
		}
	}
	if op.Response != nil && len(op.Response.GeneratedVideos) > 0 {
		if gv := op.Response.GeneratedVideos[0]; gv != nil && gv.Video != nil {
			out.VideoURI = gv.Video.URI
			out.VideoBytes = gv.Video.VideoBytes
			out.MIMEType = gv.Video.MIMEType
		}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

var _ Backend = (*VeoBackend)(nil)
