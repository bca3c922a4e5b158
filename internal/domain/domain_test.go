package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestGenerationRequestHasContent(t *testing.T) {
	cases := []struct {
		name string
		req  GenerationRequest
		want bool
	}{
		{name: "empty", req: GenerationRequest{}, want: false},
		{name: "whitespace prompt", req: GenerationRequest{Prompt: "   "}, want: false},
		{name: "prompt", req: GenerationRequest{Prompt: "neon alley"}, want: true},
		{name: "start frame only", req: GenerationRequest{StartFrame: &ReferenceFrame{}}, want: true},
		{name: "end frame only", req: GenerationRequest{EndFrame: &ReferenceFrame{}}, want: true},
	}
	for _, tc := range cases {
		if got := tc.req.HasContent(); got != tc.want {
			t.Fatalf("%s: HasContent() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGenerationRequestCloneDetachesFrames(t *testing.T) {
	req := GenerationRequest{Prompt: "x", StartFrame: &ReferenceFrame{Data: []byte{1, 2, 3}, MIMEType: "image/png"}}
	cp := req.Clone()
	req.StartFrame.Data[0] = 9
	req.StartFrame.MIMEType = "image/jpeg"
	if cp.StartFrame.Data[0] != 1 {
		t.Fatalf("clone shares frame bytes: %v", cp.StartFrame.Data)
	}
	if cp.StartFrame.MIMEType != "image/png" {
		t.Fatalf("clone MIMEType = %q", cp.StartFrame.MIMEType)
	}
	if cp.EndFrame != nil {
		t.Fatal("expected nil end frame")
	}
}

func TestStatusIsGenerating(t *testing.T) {
	for status, want := range map[GenerationStatus]bool{
		StatusIdle:       false,
		StatusPreparing:  true,
		StatusGenerating: true,
		StatusComplete:   false,
		StatusFailed:     false,
	} {
		if got := status.IsGenerating(); got != want {
			t.Fatalf("%s.IsGenerating() = %v, want %v", status, got, want)
		}
	}
}

func TestCameraPhrases(t *testing.T) {
	if got := AngleBirdEye.Phrase(); got != "bird's eye view" {
		t.Fatalf("AngleBirdEye.Phrase() = %q", got)
	}
	if got := ModePan.Phrase(); got != "panning camera" {
		t.Fatalf("ModePan.Phrase() = %q", got)
	}
	if got := CameraAngle("fisheye").Phrase(); got != "fisheye" {
		t.Fatalf("unknown angle fallback = %q", got)
	}
	if got := CameraMode("drone").Phrase(); got != "drone" {
		t.Fatalf("unknown mode fallback = %q", got)
	}
	for _, a := range CameraAngles {
		if a.Phrase() == string(a) {
			t.Fatalf("angle %q has no phrase", a)
		}
	}
	for _, m := range CameraModes {
		if m.Phrase() == string(m) {
			t.Fatalf("mode %q has no phrase", m)
		}
	}
}

func TestValidDuration(t *testing.T) {
	if !ValidDuration(DefaultDuration) {
		t.Fatal("default duration must be allowed")
	}
	if ValidDuration(7) {
		t.Fatal("7s should not be allowed")
	}
}

func TestClassifyError(t *testing.T) {
	invalid := ClassifyError(fmt.Errorf("veo: submit: %w", errors.New("Error 404, Message: Requested entity was not found.")))
	if !errors.Is(invalid, ErrCredentialInvalid) {
		t.Fatalf("expected credential invalid, got %v", invalid.Kind)
	}
	if invalid.Message != CredentialInvalidMessage {
		t.Fatalf("Message = %q", invalid.Message)
	}

	op := NewGenerationError(ErrOperationFailed, "Quota exceeded")
	got := ClassifyError(fmt.Errorf("poll: %w", op))
	if got.Message != "Quota exceeded" || !errors.Is(got, ErrOperationFailed) {
		t.Fatalf("unexpected classification: %+v", got)
	}

	plain := ClassifyError(errors.New("dial tcp: refused"))
	if plain.Message != "dial tcp: refused" || !errors.Is(plain, ErrOperationFailed) {
		t.Fatalf("unexpected classification: %+v", plain)
	}

	if ClassifyError(nil) != nil {
		t.Fatal("nil error should classify to nil")
	}
}

func TestNewTokenShape(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		tok := NewToken()
		if len(tok) != 8 {
			t.Fatalf("token %q has length %d", tok, len(tok))
		}
		seen[tok] = struct{}{}
	}
	if len(seen) < 95 {
		t.Fatalf("tokens collide too often: %d unique of 100", len(seen))
	}
}

func TestNewHistoryEntryRecordsFramePresence(t *testing.T) {
	entry := NewHistoryEntry("abc", 42, GenerationRequest{
		Prompt:      "p",
		AspectRatio: AspectPortrait,
		Resolution:  Resolution720p,
		EndFrame:    &ReferenceFrame{Data: []byte{1}},
	})
	if entry.HasStartFrame || !entry.HasEndFrame {
		t.Fatalf("frame flags = %v/%v", entry.HasStartFrame, entry.HasEndFrame)
	}
	if entry.ID != "abc" || entry.Timestamp != 42 || entry.Prompt != "p" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}
