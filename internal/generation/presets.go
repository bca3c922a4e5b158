package generation

import "veostudio/internal/domain"

// Preset is a canned prompt with the framing it was written for.
type Preset struct {
	ID          string
	Label       string
	Prompt      string
	AspectRatio domain.AspectRatio
	Resolution  domain.Resolution
}

var Presets = []Preset{
	{
		ID:          "cinematic",
		Label:       "Cinematic",
		Prompt:      "Cinematic wide shot with dramatic lighting, shallow depth of field, film grain, anamorphic lens flare, golden hour atmosphere",
		AspectRatio: domain.AspectLandscape,
		Resolution:  domain.Resolution1080p,
	},
	{
		ID:          "viral",
		Label:       "Viral",
		Prompt:      "Dynamic fast-paced action, energetic movement, vibrant colors, high contrast, motion blur, trending aesthetic",
		AspectRatio: domain.AspectPortrait,
		Resolution:  domain.Resolution720p,
	},
	{
		ID:          "dreamy",
		Label:       "Dreamy",
		Prompt:      "Ethereal dreamy atmosphere, soft focus, pastel colors, floating particles, magical lighting, surreal ambiance",
		AspectRatio: domain.AspectPortrait,
		Resolution:  domain.Resolution720p,
	},
	{
		ID:          "cyberpunk",
		Label:       "Cyberpunk",
		Prompt:      "Futuristic cyberpunk cityscape, neon lights, rain-soaked streets, holographic displays, vibrant purple and cyan",
		AspectRatio: domain.AspectPortrait,
		Resolution:  domain.Resolution1080p,
	},
	{
		ID:          "nature",
		Label:       "Nature",
		Prompt:      "Stunning nature documentary, wildlife in natural habitat, breathtaking landscapes, golden hour lighting",
		AspectRatio: domain.AspectLandscape,
		Resolution:  domain.Resolution1080p,
	},
	{
		ID:          "minimal",
		Label:       "Minimal",
		Prompt:      "Clean minimal aesthetic, simple composition, soft neutral colors, elegant movement, modern design",
		AspectRatio: domain.AspectPortrait,
		Resolution:  domain.Resolution720p,
	},
}

func FindPreset(id string) (Preset, bool) {
	for _, p := range Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// ApplyPreset copies the preset's prompt and framing into the form. Duration,
// camera tags and frames are kept.
func (f Form) ApplyPreset(p Preset) Form {
	f.Prompt = p.Prompt
	f.AspectRatio = p.AspectRatio
	f.Resolution = p.Resolution
	return f
}

// RestoreHistory refills the form from a past generation. Frames were never
// stored, so they are left as they are.
func (f Form) RestoreHistory(h domain.HistoryEntry) Form {
	f.Prompt = h.Prompt
	f.AspectRatio = h.AspectRatio
	f.Resolution = h.Resolution
	return f
}
