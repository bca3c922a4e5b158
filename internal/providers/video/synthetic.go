package video

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// SyntheticBackend produces deterministic placeholder videos without calling
// any remote service. Operations complete after PollsUntilDone re-fetches.
type SyntheticBackend struct {
	PollsUntilDone int
	// FailWith, when set, makes every operation finish with this error message.
	FailWith string

	mu    sync.Mutex
	polls map[string]int
}

func NewSyntheticBackend(pollsUntilDone int) *SyntheticBackend {
	if pollsUntilDone < 0 {
		pollsUntilDone = 0
	}
	return &SyntheticBackend{PollsUntilDone: pollsUntilDone, polls: make(map[string]int)}
}

func (s *SyntheticBackend) Submit(ctx context.Context, spec JobSpec) (*Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := deterministicSeed(spec.RequestID, spec.Model, spec.Prompt, spec.AspectRatio, spec.Resolution)
	name := "operations/synthetic-" + seed
	s.mu.Lock()
	if s.polls == nil {
		s.polls = make(map[string]int)
	}
	s.polls[name] = 0
	s.mu.Unlock()
	op := &Operation{Name: name, handle: spec}
	if s.PollsUntilDone == 0 {
		s.finish(op, spec, seed)
	}
	return op, nil
}

func (s *SyntheticBackend) Poll(ctx context.Context, op *Operation) (*Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if op == nil {
		return nil, errors.New("synthetic: operation is required")
	}
	spec, ok := op.handle.(JobSpec)
	if !ok {
		return nil, fmt.Errorf("synthetic: unknown operation %q", op.Name)
	}
	s.mu.Lock()
	s.polls[op.Name]++
	count := s.polls[op.Name]
	s.mu.Unlock()

	next := &Operation{Name: op.Name, handle: spec}
	if count >= s.PollsUntilDone {
		s.finish(next, spec, strings.TrimPrefix(op.Name, "operations/synthetic-"))
	}
	return next, nil
}

func (s *SyntheticBackend) finish(op *Operation, spec JobSpec, seed string) {
	op.Done = true
	if s.FailWith != "" {
		op.Error = &OperationError{Message: s.FailWith}
		return
	}
	op.VideoURI = "synthetic://videos/" + seed + ".mp4"
	op.MIMEType = "video/mp4"
	op.VideoBytes = renderSyntheticVideo(seed, spec.Prompt)
}

func renderSyntheticVideo(seed, prompt string) []byte {
	lines := []string{
		"Synthetic Veo video placeholder",
		fmt.Sprintf("Seed: %s", seed),
		fmt.Sprintf("Prompt: %s", strings.TrimSpace(prompt)),
	}
	return []byte(strings.Join(lines, "\n"))
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

var _ Backend = (*SyntheticBackend)(nil)
