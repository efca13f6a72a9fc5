package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	interruptiondto "focusfarm/internal/modules/interruption/dto"
	"focusfarm/internal/modules/timer/domain"
	timerout "focusfarm/internal/modules/timer/port/out"
	"focusfarm/internal/platform/clock"
	"focusfarm/internal/platform/id"
	"focusfarm/internal/platform/metrics"
)

const (
	DefaultTickInterval = time.Second

	taskQueueSize = 32
)

var (
	ErrClosed         = errors.New("timer manager closed")
	ErrAlreadyRunning = errors.New("timer manager already running")
)

type op int

const (
	opStart op = iota
	opStop
	opPause
	opResume
	opReset
)

func (o op) String() string {
	return [...]string{"start", "stop", "pause", "resume", "reset"}[o]
}

type command struct {
	op    op
	reply chan domain.State
}

// Deps are the collaborators of a Manager. Notifier, Recorder and Policy
// may be left empty.
type Deps struct {
	Clock        clock.Clock
	IDs          id.Generator
	Sessions     timerout.SessionStore
	Farm         timerout.FarmStore
	Notifier     timerout.Notifier
	Preferences  timerout.PreferencesSource
	Monitor      timerout.Monitor
	Recorder     timerout.Recorder
	Policy       domain.ReasonPolicy
	Logger       zerolog.Logger
	TickInterval time.Duration
}

// Manager is the focus session state machine. Run owns every state
// transition; commands, ticks and interruptions are applied one at a time.
type Manager struct {
	clock        clock.Clock
	ids          id.Generator
	sessions     timerout.SessionStore
	farm         timerout.FarmStore
	notifier     timerout.Notifier
	prefs        timerout.PreferencesSource
	monitor      timerout.Monitor
	recorder     timerout.Recorder
	policy       domain.ReasonPolicy
	logger       zerolog.Logger
	tickInterval time.Duration

	cmds    chan command
	quit    chan struct{}
	done    chan struct{}
	running atomic.Bool
	closer  sync.Once
	tasks   sync.WaitGroup
	work    chan func(context.Context)

	// owned by the Run goroutine
	state      domain.State
	session    *domain.Record
	ticker     clock.Ticker
	monitoring bool
	lastPrefs  domain.Preferences

	mu         sync.RWMutex
	snapshot   domain.State
	thresholds domain.Thresholds
	subs       map[chan domain.State]struct{}
}

func NewManager(deps Deps) *Manager {
	m := &Manager{
		clock:        deps.Clock,
		ids:          deps.IDs,
		sessions:     deps.Sessions,
		farm:         deps.Farm,
		notifier:     deps.Notifier,
		prefs:        deps.Preferences,
		monitor:      deps.Monitor,
		recorder:     deps.Recorder,
		policy:       deps.Policy,
		logger:       deps.Logger.With().Str("component", "timer").Logger(),
		tickInterval: deps.TickInterval,
		cmds:         make(chan command),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		work:         make(chan func(context.Context), taskQueueSize),
		state:        domain.Idle(),
		snapshot:     domain.Idle(),
		lastPrefs:    domain.DefaultPreferences(),
		subs:         map[chan domain.State]struct{}{},
	}
	if m.clock == nil {
		m.clock = clock.SystemClock{}
	}
	if m.ids == nil {
		m.ids = id.UUID{}
	}
	if m.notifier == nil {
		m.notifier = noopNotifier{}
	}
	if m.recorder == nil {
		m.recorder = metrics.Noop{}
	}
	if m.policy == nil {
		m.policy = domain.DefaultReasonPolicy()
	}
	if m.tickInterval <= 0 {
		m.tickInterval = DefaultTickInterval
	}
	m.thresholds = domain.ThresholdsFor(m.lastPrefs)
	return m
}

// Run processes commands until ctx is done or Close is called. Background
// persistence started by the manager is bound to ctx and runs on a single
// worker in the order the transitions produced it.
func (m *Manager) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(m.done)
	go m.drain(ctx)
	defer close(m.work)
	m.refreshPreferences(ctx)

	var events <-chan interruptiondto.Event
	if m.monitor != nil {
		events = m.monitor.Events()
	}
	for {
		var tick <-chan time.Time
		if m.ticker != nil {
			tick = m.ticker.C()
		}
		select {
		case <-ctx.Done():
			m.halt()
			return ctx.Err()
		case <-m.quit:
			m.halt()
			return nil
		case cmd := <-m.cmds:
			m.apply(ctx, cmd.op)
			cmd.reply <- m.state
		case <-tick:
			m.tick(ctx)
		case ev := <-events:
			m.interrupt(ctx, ev)
		}
	}
}

// Close stops Run and waits for pending persistence.
func (m *Manager) Close() {
	m.closer.Do(func() { close(m.quit) })
	if m.running.Load() {
		<-m.done
	}
	m.tasks.Wait()
}

// Flush waits for persistence started by earlier transitions.
func (m *Manager) Flush() {
	m.tasks.Wait()
}

func (m *Manager) Start(ctx context.Context) (domain.State, error) { return m.send(ctx, opStart) }
func (m *Manager) Stop(ctx context.Context) (domain.State, error) { return m.send(ctx, opStop) }
func (m *Manager) Pause(ctx context.Context) (domain.State, error) { return m.send(ctx, opPause) }
func (m *Manager) Resume(ctx context.Context) (domain.State, error) { return m.send(ctx, opResume) }
func (m *Manager) Reset(ctx context.Context) (domain.State, error) { return m.send(ctx, opReset) }

func (m *Manager) send(ctx context.Context, o op) (domain.State, error) {
	cmd := command{op: o, reply: make(chan domain.State, 1)}
	select {
	case m.cmds <- cmd:
	case <-ctx.Done():
		return m.State(), ctx.Err()
	case <-m.done:
		return m.State(), ErrClosed
	}
	select {
	case st := <-cmd.reply:
		return st, nil
	case <-ctx.Done():
		return m.State(), ctx.Err()
	}
}

// SetFocusVisible forwards focus screen visibility to the monitor.
func (m *Manager) SetFocusVisible(visible bool) {
	if m.monitor != nil {
		m.monitor.SetFocusVisible(visible)
	}
}

func (m *Manager) State() domain.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

func (m *Manager) Thresholds() domain.Thresholds {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.thresholds
}

// Elapsed is the session time so far, frozen while paused or interrupted.
func (m *Manager) Elapsed() time.Duration {
	return m.ElapsedFor(m.State())
}

func (m *Manager) ElapsedFor(st domain.State) time.Duration {
	switch st.Kind {
	case domain.KindIncubating:
		return m.clock.Now().Sub(st.StartTime)
	case domain.KindPaused, domain.KindInterrupted:
		return st.Accumulated
	case domain.KindCompleted:
		return st.Duration
	default:
		return 0
	}
}

func (m *Manager) CurrentProgress() float64 {
	if m.State().Kind == domain.KindIdle {
		return 0
	}
	return domain.ProgressAt(m.Elapsed(), m.Thresholds())
}

func (m *Manager) RemainingTime() time.Duration {
	if m.State().Kind == domain.KindIdle {
		return m.Thresholds().Tier1
	}
	return domain.RemainingAt(m.Elapsed(), m.Thresholds())
}

// Subscribe returns a stream of state changes and a function that ends it.
// A subscriber that falls behind misses intermediate states.
func (m *Manager) Subscribe(buffer int) (<-chan domain.State, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan domain.State, buffer)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, ch)
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) apply(ctx context.Context, o op) {
	before := m.state.Kind
	switch o {
	case opStart:
		m.start(ctx)
	case opStop:
		m.stop(ctx)
	case opPause:
		m.pause(ctx)
	case opResume:
		m.resume(ctx)
	case opReset:
		m.reset()
	}
	m.logger.Debug().Str("op", o.String()).Stringer("from", before).Stringer("to", m.state.Kind).Msg("command applied")
}

func (m *Manager) start(ctx context.Context) {
	if !m.state.CanStart() {
		return
	}
	m.refreshPreferences(ctx)
	now := m.clock.Now()
	m.session = &domain.Record{
		ID:        m.ids.New(),
		StartTime: now,
		Mode:      domain.ModeStrict,
		CreatedAt: now,
	}
	m.publish(domain.Incubating(now, 0))
	m.startTicking()
	if m.monitor != nil {
		if err := m.monitor.Start(ctx); err != nil {
			m.logger.Warn().Err(err).Msg("interruption monitoring unavailable")
		} else {
			m.monitoring = true
		}
	}
	m.notifier.Start(now)
	m.recorder.SessionStarted()
	m.logger.Info().Str("session", m.session.ID).Dur("tier1", m.Thresholds().Tier1).Msg("session started")
}

func (m *Manager) tick(ctx context.Context) {
	if m.state.Kind != domain.KindIncubating {
		return
	}
	th := domain.ThresholdsFor(m.refreshPreferences(ctx))
	elapsed := m.clock.Now().Sub(m.state.StartTime)
	progress := domain.ProgressAt(elapsed, th)
	m.publish(domain.Incubating(m.state.StartTime, progress))
	m.notifier.UpdateProgress(progress, domain.RemainingAt(elapsed, th))
}

func (m *Manager) pause(ctx context.Context) {
	if !m.state.CanPause() {
		return
	}
	if !m.refreshPreferences(ctx).AllowPause {
		m.logger.Debug().Msg("pause disabled")
		return
	}
	m.stopTicking()
	m.publish(domain.Paused(m.clock.Now().Sub(m.session.StartTime)))
}

func (m *Manager) resume(ctx context.Context) {
	if !m.state.CanResume() || m.session == nil {
		return
	}
	th := domain.ThresholdsFor(m.refreshPreferences(ctx))
	start := m.session.StartTime
	m.startTicking()
	m.publish(domain.Incubating(start, domain.ProgressAt(m.clock.Now().Sub(start), th)))
}

func (m *Manager) interrupt(ctx context.Context, ev interruptiondto.Event) {
	if m.policy.ActionFor(ev.Reason) != domain.ActionInterrupt {
		return
	}
	if m.state.Kind != domain.KindIncubating {
		m.logger.Debug().Str("reason", string(ev.Reason)).Stringer("state", m.state.Kind).Msg("interruption ignored")
		return
	}
	elapsed := m.clock.Now().Sub(m.state.StartTime)
	m.recorder.Interrupted(string(ev.Reason))
	m.logger.Info().Str("reason", string(ev.Reason)).Str("source", ev.Source).Dur("elapsed", elapsed).Msg("session interrupted")
	m.publish(domain.Interrupted(ev.Reason, elapsed))
	m.stop(ctx)
}

// stop finalizes the in-flight session. Without one it only makes sure
// ticking, monitoring and the notifier are off.
func (m *Manager) stop(ctx context.Context) {
	if m.session == nil {
		m.halt()
		return
	}
	now := m.clock.Now()
	duration := now.Sub(m.session.StartTime)
	record := *m.session
	if m.state.Kind == domain.KindInterrupted {
		duration = m.state.Accumulated
		record.Reason = m.state.Reason
	}
	th := domain.ThresholdsFor(m.refreshPreferences(ctx))
	result := domain.ResultFor(duration, th)
	counts := domain.ComputeAnimalCounts(duration, th)

	record.EndTime = now
	record.Duration = duration
	record.Result = result
	animals := domain.AwardedAnimals(counts, now, m.ids.New)
	m.session = nil

	m.persist(record, animals)
	m.recorder.SessionCompleted(string(result), duration)
	m.recorder.AnimalsAwarded(string(domain.FamilyDog), counts.Dogs)
	m.recorder.AnimalsAwarded(string(domain.FamilyCat), counts.Cats)
	m.recorder.AnimalsAwarded(string(domain.FamilyChicken), counts.Chickens)

	m.halt()
	m.publish(domain.Completed(duration, result))
	m.logger.Info().
		Str("session", record.ID).
		Str("result", string(result)).
		Dur("duration", duration).
		Int("dogs", counts.Dogs).
		Int("cats", counts.Cats).
		Int("chickens", counts.Chickens).
		Msg("session completed")
}

func (m *Manager) reset() {
	if m.session != nil {
		m.logger.Info().Str("session", m.session.ID).Msg("session discarded")
	}
	m.session = nil
	m.halt()
	m.publish(domain.Idle())
	m.spawn(func(ctx context.Context) {
		if err := m.farm.DeleteAllAnimals(ctx); err != nil {
			m.logger.Error().Err(err).Msg("clear animals")
		}
	})
}

func (m *Manager) persist(record domain.Record, animals []domain.Animal) {
	m.spawn(func(ctx context.Context) {
		if err := m.sessions.InsertSession(ctx, record); err != nil {
			m.logger.Error().Err(err).Str("session", record.ID).Msg("persist session")
		}
		for _, animal := range animals {
			if err := m.farm.InsertAnimal(ctx, animal); err != nil {
				m.logger.Error().Err(err).Str("animal", string(animal.Type)).Msg("persist animal")
			}
		}
	})
}

// spawn queues best-effort background work. Only the Run goroutine calls
// it; a full queue holds the state machine back until the worker catches up.
func (m *Manager) spawn(fn func(ctx context.Context)) {
	m.tasks.Add(1)
	m.work <- fn
}

// drain runs queued work one task at a time until Run closes the queue.
// A clear queued after a stop therefore always sees that stop's animals.
func (m *Manager) drain(ctx context.Context) {
	for fn := range m.work {
		fn(ctx)
		m.tasks.Done()
	}
}

func (m *Manager) halt() {
	m.stopTicking()
	if m.monitoring {
		m.monitor.Stop()
		m.monitoring = false
	}
	m.notifier.Stop()
}

func (m *Manager) startTicking() {
	if m.ticker == nil {
		m.ticker = m.clock.NewTicker(m.tickInterval)
	}
}

func (m *Manager) stopTicking() {
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
}

// refreshPreferences reads the current preferences, keeping the last good
// values when the source fails.
func (m *Manager) refreshPreferences(ctx context.Context) domain.Preferences {
	if m.prefs != nil {
		p, err := m.prefs.Preferences(ctx)
		if err != nil {
			m.logger.Warn().Err(err).Msg("read preferences")
		} else {
			m.lastPrefs = p
		}
	}
	m.mu.Lock()
	m.thresholds = domain.ThresholdsFor(m.lastPrefs)
	m.mu.Unlock()
	return m.lastPrefs
}

func (m *Manager) publish(st domain.State) {
	m.state = st
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = st
	for ch := range m.subs {
		select {
		case ch <- st:
		default:
		}
	}
}

type noopNotifier struct{}

func (noopNotifier) Start(time.Time) {}

func (noopNotifier) UpdateProgress(float64, time.Duration) {}

func (noopNotifier) Stop() {}
