package prompt

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"veostudio/internal/domain"
)

func TestEnhanceEmptyShortCircuits(t *testing.T) {
	if got := Enhance("", domain.AngleWide, domain.ModePan); got != "" {
		t.Fatalf("Enhance(\"\") = %q, want empty", got)
	}
	if got := Enhance("   ", domain.AngleWide, ""); got != "   " {
		t.Fatalf("blank input should be returned untouched, got %q", got)
	}
}

func TestEnhanceNeonAlley(t *testing.T) {
	got := Enhance("neon alley", "", "")
	want := "Cinematic neon alley, smooth camera movement, professional lighting, cinematic color grading"
	if got != want {
		t.Fatalf("Enhance = %q, want %q", got, want)
	}
	if !strings.HasPrefix(got, "Cinematic neon alley") {
		t.Fatalf("missing quality prefix: %q", got)
	}
	if !strings.HasSuffix(got, ", professional lighting, cinematic color grading") {
		t.Fatalf("clause order broken: %q", got)
	}
}

func TestEnhanceKeepsExistingDescriptors(t *testing.T) {
	in := "A cinematic city at night with vibrant colors and soft lighting"
	got := Enhance(in, "", "")
	want := in + ", smooth camera movement"
	if got != want {
		t.Fatalf("Enhance = %q, want %q", got, want)
	}
}

func TestEnhanceCameraTags(t *testing.T) {
	got := Enhance("a fox in snow", domain.AngleLow, domain.ModeDolly)
	want := "Cinematic a fox in snow, low angle shot, dolly shot, professional lighting, cinematic color grading"
	if got != want {
		t.Fatalf("Enhance = %q, want %q", got, want)
	}
	if strings.Contains(got, motionClause) {
		t.Fatal("motion clause must be skipped when a camera mode is set")
	}
}

func TestEnhanceSkipsPresentAnglePhrase(t *testing.T) {
	got := Enhance("Wide Angle Shot of a stunning harbor", domain.AngleWide, "")
	if strings.Count(strings.ToLower(got), "wide angle shot") != 1 {
		t.Fatalf("angle phrase duplicated: %q", got)
	}
	if strings.HasPrefix(got, qualityPrefix) {
		t.Fatalf("quality prefix added despite %q: %q", "stunning", got)
	}
}

func TestEnhanceUnknownTagFallsBackToRawText(t *testing.T) {
	got := Enhance("a boat", domain.CameraAngle("fisheye"), "")
	if !strings.Contains(got, "a boat, fisheye") {
		t.Fatalf("unknown tag not appended raw: %q", got)
	}
}

func TestEnhanceStaticSuppressesMotion(t *testing.T) {
	got := Enhance("static shot of a lake", "", "")
	if strings.Contains(got, motionClause) {
		t.Fatalf("motion clause added to static prompt: %q", got)
	}
}

func TestEnhanceTrimsInput(t *testing.T) {
	got := Enhance("  neon alley  ", "", "")
	if !strings.HasPrefix(got, "Cinematic neon alley,") {
		t.Fatalf("input not trimmed: %q", got)
	}
}

func TestCinematicEnhancerDelegates(t *testing.T) {
	var e Enhancer = NewCinematicEnhancer()
	if e.Enhance("neon alley", "", "") != Enhance("neon alley", "", "") {
		t.Fatal("CinematicEnhancer diverges from Enhance")
	}
}

// plainWords contain none of the enhancement keywords.
var plainWords = []string{"neon", "alley", "river", "fox", "mountain", "quiet", "city", "rain", "ocean", "forest", "cat", "market", "train", "snow"}

func plainPrompt() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		words := rapid.SliceOfN(rapid.SampledFrom(plainWords), 1, 8).Draw(t, "words")
		return strings.Join(words, " ")
	})
}

func TestEnhancePlainPromptProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := plainPrompt().Draw(t, "prompt")
		out := Enhance(in, "", "")
		if len(out) <= len(in) {
			t.Fatalf("output %q not longer than input %q", out, in)
		}
		for _, clause := range []string{qualityPrefix, lightingClause, colorClause} {
			if n := strings.Count(out, clause); n != 1 {
				t.Fatalf("clause %q appears %d times in %q", clause, n, out)
			}
		}
	})
}

func TestEnhanceIsStableOnItsOwnOutput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := plainPrompt().Draw(t, "prompt")
		angle := rapid.SampledFrom(append([]domain.CameraAngle{""}, domain.CameraAngles...)).Draw(t, "angle")
		mode := rapid.SampledFrom(append([]domain.CameraMode{""}, domain.CameraModes...)).Draw(t, "mode")
		once := Enhance(in, angle, mode)
		twice := Enhance(once, angle, mode)
		if once != twice {
			t.Fatalf("re-enhancing changed output:\n once: %q\ntwice: %q", once, twice)
		}
	})
}
