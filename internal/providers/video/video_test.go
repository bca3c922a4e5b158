package video

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"google.golang.org/genai"

	"veostudio/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type fakeVeoAPI struct {
	submitted struct {
		model  string
		prompt string
		image  *genai.Image
		cfg    *genai.GenerateVideosConfig
	}
	generate func() (*genai.GenerateVideosOperation, error)
	polls    []*genai.GenerateVideosOperation
	pollErr  error
	pollCnt  int
}

func (f *fakeVeoAPI) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, cfg *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	f.submitted.model = model
	f.submitted.prompt = prompt
	f.submitted.image = image
	f.submitted.cfg = cfg
	if f.generate != nil {
		return f.generate()
	}
	return &genai.GenerateVideosOperation{Name: "operations/abc"}, nil
}

func (f *fakeVeoAPI) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	next := f.polls[f.pollCnt]
	f.pollCnt++
	return next, nil
}

func newTestVeo(t *testing.T, key string, api *fakeVeoAPI) *VeoBackend {
	t.Helper()
	backend, err := NewVeoBackend(VeoOptions{Keys: StaticKey(key)})
	if err != nil {
		t.Fatalf("NewVeoBackend error: %v", err)
	}
	backend.dial = func(ctx context.Context, apiKey string) (veoAPI, error) {
		if apiKey != key {
			t.Fatalf("dial key = %q, want %q", apiKey, key)
		}
		return api, nil
	}
	return backend
}

func TestModelsFor(t *testing.T) {
	var m Models
	if got := m.For(domain.Resolution1080p); got != DefaultModel {
		t.Fatalf("1080p model = %q", got)
	}
	if got := m.For(domain.Resolution720p); got != DefaultFastModel {
		t.Fatalf("720p model = %q", got)
	}
	custom := Models{Standard: "veo-x", Fast: "veo-x-fast"}
	if got := custom.For(domain.Resolution720p); got != "veo-x-fast" {
		t.Fatalf("custom fast model = %q", got)
	}
}

func TestNewJobSpecFramePrompts(t *testing.T) {
	start := &domain.ReferenceFrame{Data: []byte("s"), MIMEType: "image/png"}
	end := &domain.ReferenceFrame{Data: []byte("e"), MIMEType: "image/jpeg"}
	cases := []struct {
		name      string
		req       domain.GenerationRequest
		prompt    string
		wantImage *domain.ReferenceFrame
	}{
		{name: "prompt only", req: domain.GenerationRequest{Prompt: "a fox"}, prompt: "a fox"},
		{name: "both with prompt", req: domain.GenerationRequest{Prompt: "a fox", StartFrame: start, EndFrame: end},
			prompt: "a fox Start with the provided start frame and end with the provided end frame.", wantImage: start},
		{name: "both without prompt", req: domain.GenerationRequest{StartFrame: start, EndFrame: end},
			prompt: "Generate a video starting with the provided start frame and ending with the provided end frame.", wantImage: start},
		{name: "start only", req: domain.GenerationRequest{Prompt: "a fox", StartFrame: start},
			prompt: "a fox Start with the provided start frame.", wantImage: start},
		{name: "end only without prompt", req: domain.GenerationRequest{EndFrame: end},
			prompt: "Generate a video ending with the provided end frame.", wantImage: end},
	}
	for _, tc := range cases {
		spec := NewJobSpec(tc.req, Models{}, "req-1")
		if spec.Prompt != tc.prompt {
			t.Fatalf("%s: prompt = %q, want %q", tc.name, spec.Prompt, tc.prompt)
		}
		if spec.Image != tc.wantImage {
			t.Fatalf("%s: unexpected conditioning image", tc.name)
		}
		if spec.RequestID != "req-1" {
			t.Fatalf("%s: request id = %q", tc.name, spec.RequestID)
		}
	}
}

func TestVeoSubmitWithoutKeyIsCredentialMissing(t *testing.T) {
	backend := newTestVeo(t, "", &fakeVeoAPI{})
	_, err := backend.Submit(context.Background(), JobSpec{Prompt: "x"})
	if !errors.Is(err, domain.ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
	if err.Error() != missingKeyMessage {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestVeoSubmitBuildsConfig(t *testing.T) {
	api := &fakeVeoAPI{}
	backend := newTestVeo(t, "key-1", api)
	spec := JobSpec{
		Model:           "veo-3.1-generate-preview",
		Prompt:          "neon alley",
		AspectRatio:     "16:9",
		Resolution:      "1080p",
		DurationSeconds: 8,
		Image:           &domain.ReferenceFrame{Data: []byte{1, 2}, MIMEType: "image/png"},
	}
	op, err := backend.Submit(context.Background(), spec)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if op.Name != "operations/abc" || op.Done {
		t.Fatalf("unexpected operation %+v", op)
	}
	cfg := api.submitted.cfg
	if cfg.NumberOfVideos != 1 || cfg.AspectRatio != "16:9" || cfg.Resolution != "1080p" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.DurationSeconds == nil || *cfg.DurationSeconds != 8 {
		t.Fatalf("duration not forwarded: %v", cfg.DurationSeconds)
	}
	if api.submitted.image == nil || api.submitted.image.MIMEType != "image/png" {
		t.Fatalf("image not forwarded: %+v", api.submitted.image)
	}
	if api.submitted.model != spec.Model || api.submitted.prompt != spec.Prompt {
		t.Fatalf("model/prompt = %q/%q", api.submitted.model, api.submitted.prompt)
	}
}

func TestVeoPollMapsResultAndError(t *testing.T) {
	api := &fakeVeoAPI{polls: []*genai.GenerateVideosOperation{
		{Name: "operations/abc"},
		{Name: "operations/abc", Done: true, Response: &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{URI: "https://files/v1?alt=media", MIMEType: "video/mp4"}}},
		}},
	}}
	backend := newTestVeo(t, "key-1", api)
	op, err := backend.Submit(context.Background(), JobSpec{Prompt: "x"})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	op, err = backend.Poll(context.Background(), op)
	if err != nil || op.Done {
		t.Fatalf("first poll = %+v, %v", op, err)
	}
	op, err = backend.Poll(context.Background(), op)
	if err != nil {
		t.Fatalf("second poll error: %v", err)
	}
	if !op.Done || op.VideoURI != "https://files/v1?alt=media" || op.MIMEType != "video/mp4" {
		t.Fatalf("unexpected final operation %+v", op)
	}

	failed := fromGenai(&genai.GenerateVideosOperation{
		Name:  "operations/bad",
		Done:  true,
		Error: map[string]any{"code": float64(429), "message": "Quota exceeded"},
	}, api)
	if failed.Error == nil || failed.Error.Message != "Quota exceeded" || failed.Error.Code != 429 {
		t.Fatalf("unexpected error mapping %+v", failed.Error)
	}
}

func TestVeoPollRejectsForeignOperation(t *testing.T) {
	backend := newTestVeo(t, "key-1", &fakeVeoAPI{})
	if _, err := backend.Poll(context.Background(), &Operation{Name: "x"}); err == nil {
		t.Fatal("expected error for foreign operation")
	}
}

func TestHTTPDownloaderAddsKey(t *testing.T) {
	var gotURL string
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"video/mp4"}},
			Body:       io.NopCloser(strings.NewReader("bytes")),
		}, nil
	})}
	d := NewHTTPDownloader(StaticKey("secret"), "https://example.test", client)
	data, mime, err := d.Download(context.Background(), "https://files.test/v1/f:download?alt=media")
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}
	if string(data) != "bytes" || mime != "video/mp4" {
		t.Fatalf("got %q (%s)", data, mime)
	}
	if !strings.Contains(gotURL, "alt=media") || !strings.Contains(gotURL, "key=secret") {
		t.Fatalf("request url = %q", gotURL)
	}
}

func TestHTTPDownloaderTransportFailure(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusForbidden,
			Status:     "403 Forbidden",
			Body:       io.NopCloser(strings.NewReader("denied")),
		}, nil
	})}
	d := NewHTTPDownloader(StaticKey("secret"), "", client)
	_, _, err := d.Download(context.Background(), "https://files.test/v")
	if !errors.Is(err, domain.ErrTransportFailure) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if err.Error() != "Failed to download video bytes: Forbidden" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestSyntheticBackendCompletesAfterPolls(t *testing.T) {
	backend := NewSyntheticBackend(2)
	ctx := context.Background()
	op, err := backend.Submit(ctx, JobSpec{Prompt: "neon alley", RequestID: "r1"})
	if err != nil || op.Done {
		t.Fatalf("Submit = %+v, %v", op, err)
	}
	op, _ = backend.Poll(ctx, op)
	if op.Done {
		t.Fatal("done after one poll")
	}
	op, _ = backend.Poll(ctx, op)
	if !op.Done || op.Error != nil || len(op.VideoBytes) == 0 || op.VideoURI == "" {
		t.Fatalf("unexpected final op %+v", op)
	}
}

func TestSyntheticBackendFailure(t *testing.T) {
	backend := NewSyntheticBackend(0)
	backend.FailWith = "Quota exceeded"
	op, err := backend.Submit(context.Background(), JobSpec{Prompt: "x"})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if !op.Done || op.Error == nil || op.Error.Message != "Quota exceeded" {
		t.Fatalf("unexpected op %+v", op)
	}
}
