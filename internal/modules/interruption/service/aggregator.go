package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"focusfarm/internal/modules/interruption/dto"
	"focusfarm/internal/platform/clock"
)

const (
	eventBuffer      = 64
	subscriberBuffer = 16
	focusSource      = "focus_screen"
)

// Aggregator merges every source into a single stream and watches the focus
// screen visibility. Events are delivered in the order they arrive.
type Aggregator struct {
	clock   clock.Clock
	logger  zerolog.Logger
	sources []Source
	out     chan dto.Event

	mu      sync.Mutex
	running bool
	runCtx  context.Context
	cancel  context.CancelFunc
	subs    map[Source]<-chan dto.Event
	wg      sync.WaitGroup
	strict  bool
	visible bool
}

func NewAggregator(clk clock.Clock, logger zerolog.Logger, sources ...Source) *Aggregator {
	return &Aggregator{
		clock:   clk,
		logger:  logger.With().Str("component", "interruptions").Logger(),
		sources: sources,
		out:     make(chan dto.Event, eventBuffer),
		strict:  true,
		visible: true,
	}
}

func (a *Aggregator) Events() <-chan dto.Event {
	return a.out
}

// Start enables every source. A source that fails to start is logged and
// skipped; the others keep monitoring.
func (a *Aggregator) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return nil
	}
	a.drain()
	a.running = true
	a.runCtx, a.cancel = context.WithCancel(ctx)
	a.subs = make(map[Source]<-chan dto.Event, len(a.sources))
	runCtx := a.runCtx
	for _, src := range a.sources {
		ch := src.Subscribe(subscriberBuffer)
		a.subs[src] = ch
		a.wg.Add(1)
		go a.forward(runCtx, ch)
	}
	a.mu.Unlock()

	for _, src := range a.sources {
		if err := src.Start(runCtx); err != nil {
			a.logger.Warn().Err(err).Str("source", src.Name()).Msg("source unavailable")
		}
	}
	a.logger.Debug().Int("sources", len(a.sources)).Msg("monitoring started")
	return nil
}

func (a *Aggregator) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.cancel()
	subs := a.subs
	a.subs = nil
	a.mu.Unlock()

	for _, src := range a.sources {
		src.Stop()
		src.Unsubscribe(subs[src])
	}
	a.wg.Wait()
	a.logger.Debug().Msg("monitoring stopped")
}

func (a *Aggregator) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *Aggregator) SetStrictMode(enabled bool) {
	a.mu.Lock()
	a.strict = enabled
	a.mu.Unlock()
}

// SetFocusVisible reports whether the focus screen is on display. Hiding it
// while monitoring in strict mode counts as app_background.
func (a *Aggregator) SetFocusVisible(visible bool) {
	a.mu.Lock()
	hidden := a.visible && !visible
	a.visible = visible
	fire := hidden && a.running && a.strict
	ctx := a.runCtx
	a.mu.Unlock()
	if !fire {
		return
	}
	a.deliver(ctx, dto.Event{Reason: dto.ReasonAppBackground, Source: focusSource, At: a.clock.Now()})
}

func (a *Aggregator) forward(ctx context.Context, ch <-chan dto.Event) {
	defer a.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			a.deliver(ctx, ev)
		}
	}
}

func (a *Aggregator) deliver(ctx context.Context, ev dto.Event) {
	select {
	case a.out <- ev:
	case <-ctx.Done():
	}
}

// drain drops events left over from a previous run.
func (a *Aggregator) drain() {
	for {
		select {
		case <-a.out:
		default:
			return
		}
	}
}
