package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"veostudio/internal/domain"
	"veostudio/internal/generation"
	"veostudio/internal/kv"
	"veostudio/internal/ledger"
)

func TestStdinPicker(t *testing.T) {
	var prompt bytes.Buffer
	key, err := stdinPicker{in: strings.NewReader("  AIzaKey  \n"), out: &prompt}.Pick(context.Background())
	if err != nil || key != "AIzaKey" {
		t.Fatalf("Pick = %q, %v", key, err)
	}
	if !strings.Contains(prompt.String(), "API key") {
		t.Fatalf("prompt text = %q", prompt.String())
	}
}

func TestBuildFormFromPresetAndHistory(t *testing.T) {
	book := ledger.New(kv.NewMemory(), ledger.Options{})
	_ = book.AppendHistory(context.Background(), domain.HistoryEntry{ID: "h1", Prompt: "old harbor", AspectRatio: domain.AspectLandscape, Resolution: domain.Resolution1080p})
	s := &studio{ledger: book}

	form, err := s.buildForm(options{preset: "viral", duration: 8, enhance: true})
	if err != nil {
		t.Fatalf("buildForm error: %v", err)
	}
	viral, _ := generation.FindPreset("viral")
	if form.Prompt != viral.Prompt || form.Duration != 8 {
		t.Fatalf("preset form = %+v", form)
	}

	form, err = s.buildForm(options{restore: "h1"})
	if err != nil {
		t.Fatalf("buildForm error: %v", err)
	}
	if form.Prompt != "old harbor" || form.AspectRatio != domain.AspectLandscape {
		t.Fatalf("restored form = %+v", form)
	}

	if _, err := s.buildForm(options{restore: "missing"}); err == nil {
		t.Fatal("expected error for unknown history id")
	}
	if _, err := s.buildForm(options{preset: "missing"}); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestLoadFrameRejectsNonImages(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	_ = os.WriteFile(txt, []byte("hello"), 0o644)
	if _, err := loadFrame(txt); err == nil {
		t.Fatal("expected error for text file")
	}
	png := filepath.Join(dir, "frame.png")
	_ = os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n0000"), 0o644)
	frame, err := loadFrame(png)
	if err != nil || frame.MIMEType != "image/png" {
		t.Fatalf("loadFrame = %+v, %v", frame, err)
	}
	if f, err := loadFrame(""); f != nil || err != nil {
		t.Fatal("empty path should yield no frame")
	}
}

func TestLedgerCommands(t *testing.T) {
	book := ledger.New(kv.NewMemory(), ledger.Options{})
	ctx := context.Background()
	_ = book.AppendGallery(ctx, domain.VideoAsset{ID: "v1", URL: "/tmp/v1.mp4"})
	var out bytes.Buffer
	s := &studio{ledger: book, out: &out}

	handled, err := s.runLedgerCommand(ctx, options{listGallery: true})
	if !handled || err != nil || !strings.Contains(out.String(), "v1") {
		t.Fatalf("gallery listing = %v %v %q", handled, err, out.String())
	}
	if handled, err := s.runLedgerCommand(ctx, options{deleteID: "v1"}); !handled || err != nil {
		t.Fatalf("delete = %v %v", handled, err)
	}
	if len(book.Gallery()) != 0 {
		t.Fatal("gallery entry not deleted")
	}
	if handled, _ := s.runLedgerCommand(ctx, options{}); handled {
		t.Fatal("no ledger flag should fall through to generation")
	}
}
