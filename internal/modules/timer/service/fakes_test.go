package service_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	interruptiondto "focusfarm/internal/modules/interruption/dto"
	"focusfarm/internal/modules/timer/domain"
	"focusfarm/internal/modules/timer/service"
	"focusfarm/internal/platform/clock"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) New() string { return fmt.Sprintf("id-%d", s.n.Add(1)) }

type memSessions struct {
	mu      sync.Mutex
	records []domain.Record
}

func (s *memSessions) InsertSession(_ context.Context, r domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *memSessions) all() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Record(nil), s.records...)
}

// slowSessions holds each insert back so later background work would
// overtake it if tasks ran concurrently.
type slowSessions struct {
	memSessions
	delay time.Duration
}

func (s *slowSessions) InsertSession(ctx context.Context, r domain.Record) error {
	time.Sleep(s.delay)
	return s.memSessions.InsertSession(ctx, r)
}

type memFarm struct {
	mu      sync.Mutex
	animals []domain.Animal
	cleared int
}

func (f *memFarm) InsertAnimal(_ context.Context, a domain.Animal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.animals = append(f.animals, a)
	return nil
}

func (f *memFarm) ActiveAnimals(context.Context) ([]domain.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Animal(nil), f.animals...), nil
}

func (f *memFarm) DeleteAllAnimals(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.animals = nil
	f.cleared++
	return nil
}

type fakePrefs struct {
	mu    sync.Mutex
	prefs domain.Preferences
}

func (p *fakePrefs) Preferences(context.Context) (domain.Preferences, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefs, nil
}

type fakeMonitor struct {
	events  chan interruptiondto.Event
	mu      sync.Mutex
	starts  int
	stops   int
	visible []bool
}

func newFakeMonitor() *fakeMonitor {
	return &fakeMonitor{events: make(chan interruptiondto.Event, 16)}
}

func (m *fakeMonitor) Start(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	return nil
}

func (m *fakeMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

func (m *fakeMonitor) Events() <-chan interruptiondto.Event { return m.events }

func (m *fakeMonitor) SetFocusVisible(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = append(m.visible, v)
}

func (m *fakeMonitor) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts, m.stops
}

type fakeNotifier struct {
	mu      sync.Mutex
	started int
	stopped int
	updates []time.Duration
}

func (n *fakeNotifier) Start(time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started++
}

func (n *fakeNotifier) UpdateProgress(_ float64, remaining time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, remaining)
}

func (n *fakeNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped++
}

func (n *fakeNotifier) updateCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.updates)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) InsertSession(ctx context.Context, r domain.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type harness struct {
	clk      *clock.Fake
	mgr      *service.Manager
	sessions *memSessions
	farm     *memFarm
	monitor  *fakeMonitor
	notifier *fakeNotifier
	prefs    *fakePrefs
}

const slowTick = time.Hour

func newHarness(t *testing.T, prefs domain.Preferences, tick time.Duration) *harness {
	t.Helper()
	h := &harness{
		clk:      clock.NewFake(t0),
		sessions: &memSessions{},
		farm:     &memFarm{},
		monitor:  newFakeMonitor(),
		notifier: &fakeNotifier{},
		prefs:    &fakePrefs{prefs: prefs},
	}
	h.mgr = service.NewManager(service.Deps{
		Clock:        h.clk,
		IDs:          &seqIDs{},
		Sessions:     h.sessions,
		Farm:         h.farm,
		Notifier:     h.notifier,
		Preferences:  h.prefs,
		Monitor:      h.monitor,
		Logger:       zerolog.Nop(),
		TickInterval: tick,
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = h.mgr.Run(ctx) }()
	t.Cleanup(func() {
		h.mgr.Close()
		cancel()
	})
	return h
}

func (h *harness) interrupt(reason interruptiondto.Reason) {
	h.monitor.events <- interruptiondto.Event{Reason: reason, Source: "test", At: h.clk.Now()}
}

// waitFor reads states until one of the given kind arrives and returns every
// state seen on the way.
func waitFor(t *testing.T, states <-chan domain.State, kind domain.Kind) []domain.State {
	t.Helper()
	var seen []domain.State
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-states:
			seen = append(seen, st)
			if st.Kind == kind {
				return seen
			}
		case <-deadline:
			require.FailNowf(t, "timed out", "waiting for %s, saw %v", kind, seen)
		}
	}
}
