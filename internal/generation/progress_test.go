package generation

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestNextProgressRule(t *testing.T) {
	if got := NextProgress(0); math.Abs(got-4.75) > 1e-9 {
		t.Fatalf("NextProgress(0) = %v, want 4.75", got)
	}
	if got := NextProgress(94); math.Abs(got-94.1) > 1e-9 {
		t.Fatalf("NextProgress(94) = %v, want 94.1 (minimum step)", got)
	}
	if got := NextProgress(94.95); got != ProgressCeiling {
		t.Fatalf("NextProgress(94.95) = %v, want ceiling", got)
	}
	if got := NextProgress(ProgressCeiling); got != ProgressCeiling {
		t.Fatalf("ceiling must be stable, got %v", got)
	}
}

func TestNextProgressProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.Float64Range(0, ProgressCeiling).Draw(t, "p")
		next := NextProgress(p)
		if next > ProgressCeiling {
			t.Fatalf("NextProgress(%v) = %v exceeds ceiling", p, next)
		}
		if p < ProgressCeiling && next <= p {
			t.Fatalf("NextProgress(%v) = %v did not advance", p, next)
		}
	})
}

func TestProgressSimulatorStops(t *testing.T) {
	var (
		mu      sync.Mutex
		updates int
		last    float64
		steps   = map[int]bool{}
	)
	sim := &ProgressSimulator{
		Tick:         time.Millisecond,
		StepInterval: 2 * time.Millisecond,
		OnUpdate: func(p float64, step int) {
			mu.Lock()
			defer mu.Unlock()
			if p < last {
				t.Errorf("progress went backwards: %v -> %v", last, p)
			}
			last = p
			updates++
			steps[step] = true
		},
	}
	stop := sim.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	stop()

	mu.Lock()
	after := updates
	mu.Unlock()
	if after == 0 {
		t.Fatal("expected progress updates")
	}
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if updates != after {
		t.Fatalf("updates after stop: %d -> %d", after, updates)
	}
	if last > ProgressCeiling {
		t.Fatalf("progress %v above ceiling", last)
	}
	for step := range steps {
		if step < 0 || step >= len(LoadingSteps) {
			t.Fatalf("step index %d out of range", step)
		}
	}
	stop()
}

func TestLoadingSteps(t *testing.T) {
	if len(LoadingSteps) != 7 {
		t.Fatalf("expected 7 loading steps, got %d", len(LoadingSteps))
	}
}
