package domain

import (
	"slices"
	"strings"
)

// GenerationStatus enumerates generation lifecycle states.
type GenerationStatus string

const (
	StatusIdle       GenerationStatus = "IDLE"
	StatusPreparing  GenerationStatus = "PREPARING"
	StatusGenerating GenerationStatus = "GENERATING"
	StatusComplete   GenerationStatus = "COMPLETE"
	StatusFailed     GenerationStatus = "FAILED"
)

// IsGenerating reports whether a job is in flight.
func (s GenerationStatus) IsGenerating() bool {
	return s == StatusPreparing || s == StatusGenerating
}

// AspectRatio enumerates supported output framings.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

func (a AspectRatio) Valid() bool {
	return a == AspectLandscape || a == AspectPortrait
}

// Resolution enumerates supported output resolutions.
type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
)

func (r Resolution) Valid() bool {
	return r == Resolution720p || r == Resolution1080p
}

const DefaultDuration = 5

// AllowedDurations lists the clip lengths in seconds a request may ask for.
var AllowedDurations = []int{2, 4, 5, 8, 10}

// ValidDuration reports whether seconds is one of AllowedDurations.
func ValidDuration(seconds int) bool {
	return slices.Contains(AllowedDurations, seconds)
}

// ReferenceFrame is an optional still constraining the first or last frame.
type ReferenceFrame struct {
	Data       []byte
	MIMEType   string
	PreviewURL string
}

// GenerationRequest is the frozen input of a single generation job.
type GenerationRequest struct {
	Prompt      string
	AspectRatio AspectRatio
	Resolution  Resolution
	Duration    int
	CameraAngle CameraAngle
	CameraMode  CameraMode
	StartFrame  *ReferenceFrame
	EndFrame    *ReferenceFrame
}

// HasContent reports whether the request carries a prompt or at least one frame.
func (r GenerationRequest) HasContent() bool {
	return strings.TrimSpace(r.Prompt) != "" || r.StartFrame != nil || r.EndFrame != nil
}

// Clone returns a deep copy so later form edits cannot leak into a snapshot.
func (r GenerationRequest) Clone() GenerationRequest {
	out := r
	out.StartFrame = r.StartFrame.clone()
	out.EndFrame = r.EndFrame.clone()
	return out
}

func (f *ReferenceFrame) clone() *ReferenceFrame {
	if f == nil {
		return nil
	}
	cp := *f
	cp.Data = append([]byte(nil), f.Data...)
	return &cp
}
