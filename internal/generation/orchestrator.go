// Package generation turns form input into finished videos. It owns the job
// lifecycle: credential check, backend submission, operation polling,
// download and bookkeeping, and exposes the current state to the host.
package generation

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"veostudio/internal/domain"
	"veostudio/internal/infra"
	"veostudio/internal/providers/video"
)

const (
	DefaultPollInterval = 5 * time.Second

	unknownOperationError = "Unknown generation error"
	noResultMessage       = "No video URI returned from successful operation."
	timeoutMessage        = "Video generation timed out."
)

var (
	ErrNoPreview = errors.New("no preview to dispose")
	ErrNoRetry   = errors.New("nothing to retry")
)

// CredentialProvider confirms and requests the backend API key.
type CredentialProvider interface {
	HasCredential(ctx context.Context) bool
	RequestCredential(ctx context.Context) error
}

// credentialForgetter is implemented by providers that can drop a stored key.
type credentialForgetter interface {
	Forget(ctx context.Context) error
}

// AssetStore keeps downloaded videos and resolves them to playable paths.
type AssetStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Path(key string) (string, error)
	Remove(ctx context.Context, key string) error
}

// Ledger records finished generations and saved videos.
type Ledger interface {
	NewID() string
	AppendHistory(ctx context.Context, entry domain.HistoryEntry) error
	AppendGallery(ctx context.Context, asset domain.VideoAsset) error
}

// Observer is told about every status change, in order.
type Observer func(domain.GenerationStatus)

type Options struct {
	Credentials CredentialProvider
	Backend     video.Backend
	Downloader  video.Downloader
	Assets      AssetStore
	Ledger      Ledger
	Models      video.Models

	PollInterval time.Duration
	// PollTimeout bounds submission plus polling. Zero waits indefinitely.
	PollTimeout time.Duration

	ProgressTick time.Duration
	StepInterval time.Duration

	Now    func() time.Time
	Logger *infra.Logger
}

// Snapshot is a consistent read of the orchestrator state.
type Snapshot struct {
	Status          domain.GenerationStatus
	Progress        float64
	StepMessage     string
	Error           string
	ErrorKind       error
	Preview         *domain.VideoAsset
	CredentialReady bool
	CanRetry        bool
}

// Orchestrator runs one generation job at a time.
type Orchestrator struct {
	opts   Options
	logger *infra.Logger

	// notifyMu serializes transitions so observers see them in order.
	notifyMu sync.Mutex

	mu              sync.Mutex
	status          domain.GenerationStatus
	progress        float64
	step            int
	errMsg          string
	errKind         error
	preview         *domain.VideoAsset
	previewKey      string
	credentialReady bool
	last            *domain.GenerationRequest
	observers       []Observer
}

func NewOrchestrator(opts Options) (*Orchestrator, error) {
	switch {
	case opts.Credentials == nil:
		return nil, errors.New("generation: credential provider is required")
	case opts.Backend == nil:
		return nil, errors.New("generation: backend is required")
	case opts.Downloader == nil:
		return nil, errors.New("generation: downloader is required")
	case opts.Assets == nil:
		return nil, errors.New("generation: asset store is required")
	case opts.Ledger == nil:
		return nil, errors.New("generation: ledger is required")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Orchestrator{
		opts:   opts,
		logger: logger,
		status: domain.StatusIdle,
	}, nil
}

// Observe registers fn for status changes. Observers run on the goroutine
// that caused the change and must not call state-changing methods.
func (o *Orchestrator) Observe(fn Observer) {
	if fn == nil {
		return
	}
	o.notifyMu.Lock()
	o.observers = append(o.observers, fn)
	o.notifyMu.Unlock()
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	snap := Snapshot{
		Status:          o.status,
		Progress:        o.progress,
		Error:           o.errMsg,
		ErrorKind:       o.errKind,
		CredentialReady: o.credentialReady,
		CanRetry:        o.last != nil,
	}
	if o.status == domain.StatusGenerating {
		snap.StepMessage = LoadingSteps[o.step]
	}
	if o.preview != nil {
		cp := *o.preview
		snap.Preview = &cp
	}
	return snap
}

// transition moves to next and notifies observers. apply runs under the state
// lock before the change is published.
func (o *Orchestrator) transition(next domain.GenerationStatus, apply func()) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	if apply != nil {
		apply()
	}
	o.status = next
	if next != domain.StatusGenerating {
		o.progress = 0
		o.step = 0
	}
	o.mu.Unlock()

	for _, fn := range o.observers {
		fn(next)
	}
}

// Submit runs req through the whole pipeline and returns the final status.
// Pipeline failures end in StatusFailed with the message in Snapshot; the
// returned error is reserved for requests that never started.
func (o *Orchestrator) Submit(ctx context.Context, req domain.GenerationRequest) (domain.GenerationStatus, error) {
	if !req.HasContent() {
		return o.Snapshot().Status, domain.ErrEmptyRequest
	}

	o.mu.Lock()
	status := o.status
	stale := o.previewKey
	o.mu.Unlock()
	if status.IsGenerating() {
		return status, domain.ErrBusy
	}
	if status != domain.StatusIdle {
		o.transition(domain.StatusIdle, o.clearResultLocked)
		o.removeAsset(ctx, stale)
	}

	frozen := req.Clone()
	o.transition(domain.StatusPreparing, func() {
		o.errMsg = ""
		o.errKind = nil
		o.last = &frozen
	})

	if !o.opts.Credentials.HasCredential(ctx) {
		if err := o.opts.Credentials.RequestCredential(ctx); err != nil {
			o.logger.Error().Err(err).Msg("orchestrator: credential request failed, aborting job")
			o.transition(domain.StatusIdle, nil)
			return domain.StatusIdle, nil
		}
	}
	ready := o.opts.Credentials.HasCredential(ctx)
	o.mu.Lock()
	o.credentialReady = ready
	o.mu.Unlock()

	o.transition(domain.StatusGenerating, nil)
	sim := &ProgressSimulator{
		Tick:         o.opts.ProgressTick,
		StepInterval: o.opts.StepInterval,
		OnUpdate:     o.updateProgress,
	}
	stop := sim.Start(ctx)
	asset, key, err := o.run(ctx, frozen)
	stop()

	if err != nil {
		genErr := domain.ClassifyError(err)
		o.logger.Error().Err(err).Str("kind", kindName(genErr.Kind)).Msg("orchestrator: generation failed")
		o.transition(domain.StatusFailed, func() {
			o.errMsg = genErr.Message
			o.errKind = genErr.Kind
			if errors.Is(genErr, domain.ErrCredentialInvalid) {
				o.credentialReady = false
			}
		})
		return domain.StatusFailed, nil
	}

	entry := domain.NewHistoryEntry(o.opts.Ledger.NewID(), o.opts.Now().UnixMilli(), frozen)
	if err := o.opts.Ledger.AppendHistory(ctx, entry); err != nil {
		o.logger.Warn().Err(err).Msg("orchestrator: history not persisted")
	}
	o.transition(domain.StatusComplete, func() {
		o.preview = &asset
		o.previewKey = key
	})
	o.logger.Info().Str("video_id", asset.ID).Str("path", asset.URL).Msg("orchestrator: generation complete")
	return domain.StatusComplete, nil
}

// Retry resubmits the last request exactly as it was frozen.
func (o *Orchestrator) Retry(ctx context.Context) (domain.GenerationStatus, error) {
	o.mu.Lock()
	last := o.last
	o.mu.Unlock()
	if last == nil {
		return o.Snapshot().Status, ErrNoRetry
	}
	return o.Submit(ctx, last.Clone())
}

// SavePreview moves the finished video into the gallery and returns to idle.
func (o *Orchestrator) SavePreview(ctx context.Context) (domain.VideoAsset, error) {
	o.mu.Lock()
	preview := o.preview
	status := o.status
	o.mu.Unlock()
	if status != domain.StatusComplete || preview == nil {
		return domain.VideoAsset{}, ErrNoPreview
	}

	err := o.opts.Ledger.AppendGallery(ctx, *preview)
	o.transition(domain.StatusIdle, func() {
		o.preview = nil
		o.previewKey = ""
	})
	if err != nil {
		return *preview, fmt.Errorf("save preview: %w", err)
	}
	return *preview, nil
}

// DiscardPreview drops the finished video and its file.
func (o *Orchestrator) DiscardPreview(ctx context.Context) error {
	o.mu.Lock()
	status := o.status
	key := o.previewKey
	o.mu.Unlock()
	if status != domain.StatusComplete {
		return ErrNoPreview
	}
	o.transition(domain.StatusIdle, o.clearResultLocked)
	o.removeAsset(ctx, key)
	return nil
}

// removeAsset deletes an unsaved video file.
func (o *Orchestrator) removeAsset(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := o.opts.Assets.Remove(ctx, key); err != nil {
		o.logger.Warn().Err(err).Str("key", key).Msg("orchestrator: unsaved video not removed")
	}
}

// DismissError clears a failure and returns to idle.
func (o *Orchestrator) DismissError() {
	o.mu.Lock()
	status := o.status
	o.mu.Unlock()
	if status != domain.StatusFailed {
		return
	}
	o.transition(domain.StatusIdle, o.clearResultLocked)
}

// CheckCredential refreshes the credential-ready flag.
func (o *Orchestrator) CheckCredential(ctx context.Context) bool {
	ready := o.opts.Credentials.HasCredential(ctx)
	o.mu.Lock()
	o.credentialReady = ready
	o.mu.Unlock()
	return ready
}

// ConnectCredential asks the provider for a key and refreshes the flag.
func (o *Orchestrator) ConnectCredential(ctx context.Context) (bool, error) {
	if err := o.opts.Credentials.RequestCredential(ctx); err != nil {
		return o.CheckCredential(ctx), err
	}
	return o.CheckCredential(ctx), nil
}

// Disconnect forgets a stored key when the provider supports it.
func (o *Orchestrator) Disconnect(ctx context.Context) error {
	if f, ok := o.opts.Credentials.(credentialForgetter); ok {
		if err := f.Forget(ctx); err != nil {
			return err
		}
	}
	o.CheckCredential(ctx)
	return nil
}

func (o *Orchestrator) clearResultLocked() {
	o.preview = nil
	o.previewKey = ""
	o.errMsg = ""
	o.errKind = nil
}

func (o *Orchestrator) updateProgress(progress float64, step int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != domain.StatusGenerating {
		return
	}
	o.progress = progress
	o.step = step
}

func (o *Orchestrator) run(ctx context.Context, req domain.GenerationRequest) (domain.VideoAsset, string, error) {
	id := o.opts.Ledger.NewID()
	spec := video.NewJobSpec(req, o.opts.Models, id)

	op, err := o.await(ctx, spec)
	if err != nil {
		return domain.VideoAsset{}, "", err
	}
	if op.Error != nil {
		msg := strings.TrimSpace(op.Error.Message)
		if msg == "" {
			msg = unknownOperationError
		}
		return domain.VideoAsset{}, "", domain.NewGenerationError(domain.ErrOperationFailed, msg)
	}

	data, mimeType := op.VideoBytes, op.MIMEType
	if len(data) == 0 {
		if op.VideoURI == "" {
			return domain.VideoAsset{}, "", domain.NewGenerationError(domain.ErrNoResult, noResultMessage)
		}
		o.logger.Debug().Str("request_id", id).Msg("orchestrator: downloading video")
		data, mimeType, err = o.opts.Downloader.Download(ctx, op.VideoURI)
		if err != nil {
			return domain.VideoAsset{}, "", err
		}
	}

	key, err := o.opts.Assets.Write(ctx, "videos/"+id+extensionFor(mimeType), data)
	if err != nil {
		return domain.VideoAsset{}, "", fmt.Errorf("store video: %w", err)
	}
	path, err := o.opts.Assets.Path(key)
	if err != nil {
		return domain.VideoAsset{}, "", fmt.Errorf("resolve video path: %w", err)
	}
	return domain.VideoAsset{
		ID:          id,
		URL:         path,
		Prompt:      req.Prompt,
		CreatedAt:   o.opts.Now().UnixMilli(),
		AspectRatio: req.AspectRatio,
	}, key, nil
}

// await submits spec and polls until the operation is done.
func (o *Orchestrator) await(ctx context.Context, spec video.JobSpec) (*video.Operation, error) {
	pollCtx := ctx
	if o.opts.PollTimeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, o.opts.PollTimeout)
		defer cancel()
	}
	timedOut := func(err error) error {
		if ctx.Err() == nil && errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
			return &domain.GenerationError{Kind: domain.ErrTimeout, Message: timeoutMessage, Err: err}
		}
		return err
	}

	o.logger.Info().Str("request_id", spec.RequestID).Str("model", spec.Model).Msg("orchestrator: submitting")
	op, err := o.opts.Backend.Submit(pollCtx, spec)
	if err != nil {
		return nil, timedOut(err)
	}

	// The submission spends the burst token, so every poll waits a full interval.
	pacer := rate.NewLimiter(rate.Every(o.opts.PollInterval), 1)
	pacer.Allow()
	for polls := 0; !op.Done; polls++ {
		if err := pacer.Wait(pollCtx); err != nil {
			if pollCtx.Err() == nil {
				// The next slot falls after the deadline.
				<-pollCtx.Done()
			}
			return nil, timedOut(pollCtx.Err())
		}
		o.logger.Debug().Str("operation", op.Name).Int("poll", polls+1).Msg("orchestrator: polling")
		op, err = o.opts.Backend.Poll(pollCtx, op)
		if err != nil {
			return nil, timedOut(err)
		}
	}
	return op, nil
}

func extensionFor(mimeType string) string {
	if mimeType == "" {
		return ".mp4"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		for _, e := range exts {
			if e == ".mp4" || e == ".webm" || e == ".mov" {
				return e
			}
		}
		return exts[0]
	}
	return ".mp4"
}

func kindName(kind error) string {
	if kind == nil {
		return "unknown"
	}
	return kind.Error()
}
