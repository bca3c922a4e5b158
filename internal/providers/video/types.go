package video

import (
	"context"

	"veostudio/internal/domain"
)

// JobSpec is the backend-facing shape of a generation request.
type JobSpec struct {
	Model           string
	Prompt          string
	Image           *domain.ReferenceFrame
	AspectRatio     string
	Resolution      string
	DurationSeconds int
	RequestID       string
}

// Operation is a snapshot of a long-running backend job.
type Operation struct {
	Name  string
	Done  bool
	Error *OperationError
	// VideoURI locates the produced video once Done without Error.
	VideoURI string
	// VideoBytes is set when the backend returns the video inline.
	VideoBytes []byte
	MIMEType   string

	handle any
}

// OperationError is the backend-reported failure of an operation.
type OperationError struct {
	Code    int
	Message string
}

// Backend submits jobs and re-fetches their operations.
type Backend interface {
	Submit(ctx context.Context, spec JobSpec) (*Operation, error)
	Poll(ctx context.Context, op *Operation) (*Operation, error)
}

// Downloader fetches the bytes behind a video locator.
type Downloader interface {
	Download(ctx context.Context, uri string) ([]byte, string, error)
}

// KeySource yields the API key to authenticate with at call time.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a KeySource that always returns the same key.
type StaticKey string

func (k StaticKey) APIKey(context.Context) (string, error) {
	return string(k), nil
}
