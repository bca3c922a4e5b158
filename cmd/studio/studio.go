package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"veostudio/internal/domain"
	"veostudio/internal/generation"
	"veostudio/internal/infra"
	"veostudio/internal/infra/credentials"
	"veostudio/internal/ledger"
)

type studio struct {
	ledger *ledger.Ledger
	orch   *generation.Orchestrator
	creds  *credentials.Provider
	logger infra.Logger
	out    io.Writer
}

// runLedgerCommand handles the list/delete/clear/export flags. It reports
// whether one of them was requested.
func (s *studio) runLedgerCommand(ctx context.Context, opts options) (bool, error) {
	switch {
	case opts.listHistory:
		for _, h := range s.ledger.History() {
			fmt.Fprintf(s.out, "%s  %s  %s %s  %s\n", h.ID, time.UnixMilli(h.Timestamp).Format(time.RFC3339), h.AspectRatio, h.Resolution, h.Prompt)
		}
		return true, nil
	case opts.listGallery:
		for _, v := range s.ledger.Gallery() {
			fmt.Fprintf(s.out, "%s  %s  %s  %s\n", v.ID, time.UnixMilli(v.CreatedAt).Format(time.RFC3339), v.AspectRatio, v.URL)
		}
		return true, nil
	case opts.deleteID != "":
		if _, ok := s.ledger.FindGallery(opts.deleteID); !ok {
			fmt.Fprintf(s.out, "no saved video %s\n", opts.deleteID)
		}
		return true, s.ledger.DeleteGallery(ctx, opts.deleteID)
	case opts.clearHistory:
		return true, s.ledger.ClearHistory(ctx)
	case opts.exportPath != "":
		f, err := os.Create(opts.exportPath)
		if err != nil {
			return true, err
		}
		n, err := s.ledger.ExportGallery(ctx, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err == nil {
			fmt.Fprintf(s.out, "exported %d videos to %s\n", n, opts.exportPath)
		}
		return true, err
	}
	return false, nil
}

func (s *studio) buildForm(opts options) (generation.Form, error) {
	form := generation.DefaultForm()
	if opts.preset != "" {
		p, ok := generation.FindPreset(opts.preset)
		if !ok {
			return form, fmt.Errorf("unknown preset %q", opts.preset)
		}
		form = form.ApplyPreset(p)
	}
	if opts.restore != "" {
		found := false
		for _, h := range s.ledger.History() {
			if h.ID == opts.restore {
				form = form.RestoreHistory(h)
				found = true
				break
			}
		}
		if !found {
			return form, fmt.Errorf("no history entry %q", opts.restore)
		}
	}
	if opts.prompt != "" {
		form.Prompt = opts.prompt
	}
	if opts.aspect != "" {
		form.AspectRatio = domain.AspectRatio(opts.aspect)
	}
	if opts.resolution != "" {
		form.Resolution = domain.Resolution(opts.resolution)
	}
	if opts.duration != 0 {
		form.Duration = opts.duration
	}
	form.CameraAngle = domain.CameraAngle(opts.angle)
	form.CameraMode = domain.CameraMode(opts.mode)
	form.Enhance = opts.enhance

	var err error
	if form.StartFrame, err = loadFrame(opts.startFrame); err != nil {
		return form, err
	}
	if form.EndFrame, err = loadFrame(opts.endFrame); err != nil {
		return form, err
	}
	return form, nil
}

func (s *studio) generate(ctx context.Context, opts options) error {
	form, err := s.buildForm(opts)
	if err != nil {
		return err
	}
	req, err := generation.NewBuilder(nil).Build(form)
	if err != nil {
		return err
	}

	if s.orch.CheckCredential(ctx) {
		fmt.Fprintf(os.Stderr, "using API key %s\n", s.creds.Masked(ctx))
	}
	s.orch.Observe(func(status domain.GenerationStatus) {
		fmt.Fprintf(os.Stderr, "status: %s\n", status)
	})

	done := make(chan struct{})
	go s.reportProgress(done)
	status, err := s.orch.Submit(ctx, req)
	close(done)
	if err != nil {
		return err
	}

	snap := s.orch.Snapshot()
	switch status {
	case domain.StatusComplete:
		if !opts.keep {
			fmt.Fprintf(s.out, "preview: %s (discarded)\n", snap.Preview.URL)
			return s.orch.DiscardPreview(ctx)
		}
		saved, err := s.orch.SavePreview(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "saved %s: %s\n", saved.ID, saved.URL)
		return nil
	case domain.StatusFailed:
		if errors.Is(snap.ErrorKind, domain.ErrCredentialMissing) || errors.Is(snap.ErrorKind, domain.ErrCredentialInvalid) {
			fmt.Fprintln(os.Stderr, "connect an API key with -ask-key or cmd/geminikey")
		}
		return errors.New(snap.Error)
	default:
		return fmt.Errorf("generation ended in %s", status)
	}
}

func (s *studio) reportProgress(done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	last := ""
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snap := s.orch.Snapshot()
			if snap.Status != domain.StatusGenerating {
				continue
			}
			line := fmt.Sprintf("%5.1f%%  %s", snap.Progress, snap.StepMessage)
			if line != last {
				fmt.Fprintln(os.Stderr, line)
				last = line
			}
		}
	}
}

func loadFrame(path string) (*domain.ReferenceFrame, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("frame %s is not an image (%s)", path, mimeType)
	}
	return &domain.ReferenceFrame{Data: data, MIMEType: mimeType, PreviewURL: path}, nil
}

// stdinPicker asks for an API key on the terminal.
type stdinPicker struct {
	in  io.Reader
	out io.Writer
}

func (p stdinPicker) Pick(ctx context.Context) (string, error) {
	fmt.Fprint(p.out, "Gemini API key (leave empty to skip): ")
	line := make(chan string, 1)
	errc := make(chan error, 1)
	go func() {
		text, err := bufio.NewReader(p.in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			errc <- err
			return
		}
		line <- strings.TrimSpace(text)
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errc:
		return "", err
	case key := <-line:
		return key, nil
	}
}
