package generation

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultProgressTick = 200 * time.Millisecond
	DefaultStepInterval = 3000 * time.Millisecond

	// ProgressCeiling is the value simulated progress approaches but never passes.
	ProgressCeiling = 95.0
)

// LoadingSteps are the status lines cycled while a job is generating.
var LoadingSteps = []string{
	"Initializing Veo neural engine...",
	"Parsing semantic structures...",
	"Synthesizing spatial geometry...",
	"Computing temporal motion vectors...",
	"Rendering high-fidelity textures...",
	"Applying cinematic lighting...",
	"Finalizing encoding stream...",
}

// NextProgress advances p one tick toward ProgressCeiling.
func NextProgress(p float64) float64 {
	next := p + max(0.1, (ProgressCeiling-p)*0.05)
	return min(ProgressCeiling, next)
}

// ProgressSimulator produces cosmetic progress for a running job. The backend
// reports nothing between submission and completion.
type ProgressSimulator struct {
	Tick         time.Duration
	StepInterval time.Duration
	// OnUpdate receives every new progress value and step index. It is called
	// from the simulator goroutine and never after stop returns.
	OnUpdate func(progress float64, step int)
}

// Start runs the simulator until ctx ends or the returned stop func is called.
// stop blocks until the simulator goroutine has exited.
func (s *ProgressSimulator) Start(ctx context.Context) (stop func()) {
	tick := s.Tick
	if tick <= 0 {
		tick = DefaultProgressTick
	}
	stepEvery := s.StepInterval
	if stepEvery <= 0 {
		stepEvery = DefaultStepInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		progressTicker := time.NewTicker(tick)
		defer progressTicker.Stop()
		stepTicker := time.NewTicker(stepEvery)
		defer stepTicker.Stop()

		progress, step := 0.0, 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-progressTicker.C:
				progress = NextProgress(progress)
			case <-stepTicker.C:
				step = (step + 1) % len(LoadingSteps)
			}
			if ctx.Err() != nil {
				return
			}
			if s.OnUpdate != nil {
				s.OnUpdate(progress, step)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
