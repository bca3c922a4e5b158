package prompt

import (
	"strings"

	"golang.org/x/text/cases"

	"veostudio/internal/domain"
)

// Enhancer enriches a raw prompt with cinematic descriptors.
type Enhancer interface {
	Enhance(text string, angle domain.CameraAngle, mode domain.CameraMode) string
}

var (
	qualityTerms  = []string{"cinematic", "high quality", "professional", "4k", "8k", "ultra hd", "stunning", "breathtaking"}
	motionTerms   = []string{"smooth", "fluid", "dynamic", "motion", "movement", "animated"}
	lightingTerms = []string{"lighting", "lit", "bright", "dark", "shadow", "glow", "illuminated"}
	colorTerms    = []string{"color", "grading", "saturated", "vibrant", "palette", "tone"}
)

const (
	qualityPrefix  = "Cinematic "
	motionClause   = "smooth camera movement"
	lightingClause = "professional lighting"
	colorClause    = "cinematic color grading"
)

// CinematicEnhancer applies the fixed keyword rules. It holds no state.
type CinematicEnhancer struct{}

func NewCinematicEnhancer() CinematicEnhancer {
	return CinematicEnhancer{}
}

func (CinematicEnhancer) Enhance(text string, angle domain.CameraAngle, mode domain.CameraMode) string {
	return Enhance(text, angle, mode)
}

// Enhance appends the angle, mode, motion, lighting and color clauses that
// are not already present and prefixes a quality word when none is found.
// Blank input is returned untouched.
func Enhance(text string, angle domain.CameraAngle, mode domain.CameraMode) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	m := newMatcher()
	enhanced := strings.TrimSpace(text)

	if angle != "" {
		if phrase := angle.Phrase(); !m.contains(enhanced, phrase) {
			enhanced = enhanced + ", " + phrase
		}
	}
	if mode != "" {
		if phrase := mode.Phrase(); !m.contains(enhanced, phrase) {
			enhanced = enhanced + ", " + phrase
		}
	}

	if !m.containsAny(enhanced, qualityTerms) {
		enhanced = qualityPrefix + enhanced
	}

	// Camera mode already describes movement.
	if mode == "" && !m.containsAny(enhanced, motionTerms) && !m.contains(enhanced, "static") {
		enhanced = enhanced + ", " + motionClause
	}

	if !m.containsAny(enhanced, lightingTerms) {
		enhanced = enhanced + ", " + lightingClause
	}

	if !m.containsAny(enhanced, colorTerms) {
		enhanced = enhanced + ", " + colorClause
	}

	return enhanced
}

// matcher does case-insensitive substring checks. A Caser is stateful, so
// each Enhance call gets its own.
type matcher struct {
	fold cases.Caser
}

func newMatcher() *matcher {
	return &matcher{fold: cases.Fold()}
}

func (m *matcher) contains(haystack, needle string) bool {
	return strings.Contains(m.fold.String(haystack), m.fold.String(needle))
}

func (m *matcher) containsAny(haystack string, needles []string) bool {
	folded := m.fold.String(haystack)
	for _, n := range needles {
		if strings.Contains(folded, m.fold.String(n)) {
			return true
		}
	}
	return false
}

var _ Enhancer = CinematicEnhancer{}
