package video

import (
	"strings"

	"veostudio/internal/domain"
)

const (
	DefaultModel     = "veo-3.1-generate-preview"
	DefaultFastModel = "veo-3.1-fast-generate-preview"
)

// Models picks the backend model for a request.
type Models struct {
	Standard string
	Fast     string
}

// For returns the standard model for 1080p output and the fast model otherwise.
func (m Models) For(res domain.Resolution) string {
	if res == domain.Resolution1080p {
		return firstNonEmpty(m.Standard, DefaultModel)
	}
	return firstNonEmpty(m.Fast, DefaultFastModel)
}

// NewJobSpec translates a frozen request into a backend job. The start frame
// is the conditioning image when present, otherwise the end frame; the prompt
// tells the model which role the frame plays.
func NewJobSpec(req domain.GenerationRequest, models Models, requestID string) JobSpec {
	spec := JobSpec{
		Model:           models.For(req.Resolution),
		Prompt:          buildVideoPrompt(req),
		AspectRatio:     string(req.AspectRatio),
		Resolution:      string(req.Resolution),
		DurationSeconds: req.Duration,
		RequestID:       requestID,
	}
	switch {
	case req.StartFrame != nil:
		spec.Image = req.StartFrame
	case req.EndFrame != nil:
		spec.Image = req.EndFrame
	}
	return spec
}

func buildVideoPrompt(req domain.GenerationRequest) string {
	prompt := req.Prompt
	hasPrompt := prompt != ""
	start, end := req.StartFrame != nil, req.EndFrame != nil
	switch {
	case start && end:
		if hasPrompt {
			return prompt + " Start with the provided start frame and end with the provided end frame."
		}
		return "Generate a video starting with the provided start frame and ending with the provided end frame."
	case start:
		if hasPrompt {
			return prompt + " Start with the provided start frame."
		}
		return "Generate a video starting with the provided start frame."
	case end:
		if hasPrompt {
			return prompt + " End with the provided end frame."
		}
		return "Generate a video ending with the provided end frame."
	default:
		return prompt
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
