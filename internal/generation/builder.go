package generation

import (
	"fmt"

	"veostudio/internal/domain"
	"veostudio/internal/providers/prompt"
)

// Form holds the editable inputs of the next generation.
type Form struct {
	Prompt      string
	AspectRatio domain.AspectRatio
	Resolution  domain.Resolution
	Duration    int
	CameraAngle domain.CameraAngle
	CameraMode  domain.CameraMode
	StartFrame  *domain.ReferenceFrame
	EndFrame    *domain.ReferenceFrame
	Enhance     bool
}

// DefaultForm returns the form a fresh session starts with.
func DefaultForm() Form {
	return Form{
		AspectRatio: domain.AspectPortrait,
		Resolution:  domain.Resolution720p,
		Duration:    domain.DefaultDuration,
		Enhance:     true,
	}
}

// CanSubmit reports whether the form has enough content to generate from.
func (f Form) CanSubmit() bool {
	return f.request(f.Prompt).HasContent()
}

func (f Form) request(text string) domain.GenerationRequest {
	return domain.GenerationRequest{
		Prompt:      text,
		AspectRatio: f.AspectRatio,
		Resolution:  f.Resolution,
		Duration:    f.Duration,
		CameraAngle: f.CameraAngle,
		CameraMode:  f.CameraMode,
		StartFrame:  f.StartFrame,
		EndFrame:    f.EndFrame,
	}
}

// Builder freezes a Form into a GenerationRequest.
type Builder struct {
	enhancer prompt.Enhancer
}

func NewBuilder(enhancer prompt.Enhancer) *Builder {
	if enhancer == nil {
		enhancer = prompt.NewCinematicEnhancer()
	}
	return &Builder{enhancer: enhancer}
}

// Build enhances the prompt when the form asks for it and returns a request
// that shares no memory with the form. A form without prompt or frames yields
// domain.ErrEmptyRequest and must not be submitted.
func (b *Builder) Build(form Form) (domain.GenerationRequest, error) {
	if !form.CanSubmit() {
		return domain.GenerationRequest{}, domain.ErrEmptyRequest
	}
	if form.AspectRatio == "" {
		form.AspectRatio = domain.AspectPortrait
	}
	if form.Resolution == "" {
		form.Resolution = domain.Resolution720p
	}
	if form.Duration == 0 {
		form.Duration = domain.DefaultDuration
	}
	if !form.AspectRatio.Valid() {
		return domain.GenerationRequest{}, fmt.Errorf("%w: aspect ratio %q", domain.ErrInvalidRequest, form.AspectRatio)
	}
	if !form.Resolution.Valid() {
		return domain.GenerationRequest{}, fmt.Errorf("%w: resolution %q", domain.ErrInvalidRequest, form.Resolution)
	}
	if !domain.ValidDuration(form.Duration) {
		return domain.GenerationRequest{}, fmt.Errorf("%w: duration %ds", domain.ErrInvalidRequest, form.Duration)
	}

	text := form.Prompt
	if form.Enhance {
		text = b.enhancer.Enhance(text, form.CameraAngle, form.CameraMode)
	}
	return form.request(text).Clone(), nil
}
