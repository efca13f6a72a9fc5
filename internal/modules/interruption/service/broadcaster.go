package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"focusfarm/internal/modules/interruption/dto"
)

// Source is one producer of interruption events.
type Source interface {
	Name() string
	Start(ctx context.Context) error
	Stop()
	Subscribe(buffer int) <-chan dto.Event
	Unsubscribe(ch <-chan dto.Event)
}

// broadcaster is embedded by every source. The monitoring flag is checked
// under the same lock that guards delivery, so nothing is emitted once Stop
// has returned.
type broadcaster struct {
	name   string
	logger zerolog.Logger

	mu         sync.Mutex
	monitoring bool
	subs       []chan dto.Event
}

func newBroadcaster(name string, logger zerolog.Logger) broadcaster {
	return broadcaster{name: name, logger: logger.With().Str("source", name).Logger()}
}

func (b *broadcaster) Name() string {
	return b.name
}

func (b *broadcaster) Subscribe(buffer int) <-chan dto.Event {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan dto.Event, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *broadcaster) Unsubscribe(ch <-chan dto.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// setMonitoring reports whether the flag actually changed.
func (b *broadcaster) setMonitoring(v bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.monitoring == v {
		return false
	}
	b.monitoring = v
	return true
}

func (b *broadcaster) IsMonitoring() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.monitoring
}

func (b *broadcaster) emit(reason dto.Reason, at time.Time) bool {
	return b.emitGated(reason, at, nil)
}

// emitGated runs allow under the lock after the monitoring check and only
// delivers when it returns true.
func (b *broadcaster) emitGated(reason dto.Reason, at time.Time, allow func() bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.monitoring {
		return false
	}
	if allow != nil && !allow() {
		return false
	}
	ev := dto.Event{Reason: reason, Source: b.name, At: at}
	for _, sub := range b.subs {
		select {
		case sub <- ev:
		default:
			b.logger.Warn().Str("reason", string(reason)).Msg("subscriber full, dropping interruption")
		}
	}
	b.logger.Debug().Str("reason", string(reason)).Msg("interruption")
	return true
}

// runner owns the optional background goroutine of a source.
type runner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (r *runner) launch(ctx context.Context, fn func(ctx context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn(runCtx)
	}()
}

func (r *runner) halt() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}
