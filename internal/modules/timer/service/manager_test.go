package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	interruptiondto "focusfarm/internal/modules/interruption/dto"
	"focusfarm/internal/modules/timer/domain"
	"focusfarm/internal/modules/timer/service"
	"focusfarm/internal/platform/clock"
)

func TestUninterruptedSessionAwardsDog(t *testing.T) {
	h := newHarness(t, domain.Preferences{StageDuration: 600000 * time.Millisecond}, slowTick)
	ctx := context.Background()

	st, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Incubating(t0, 0), st)

	h.clk.Set(t0.Add(1850000 * time.Millisecond))
	st, err = h.mgr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Completed(1850000*time.Millisecond, domain.ResultSuccess), st)

	h.mgr.Flush()
	records := h.sessions.all()
	require.Len(t, records, 1)
	assert.Equal(t, domain.ResultSuccess, records[0].Result)
	assert.Equal(t, domain.ModeStrict, records[0].Mode)
	assert.Empty(t, records[0].Reason)
	assert.Equal(t, t0, records[0].StartTime)
	assert.Equal(t, t0.Add(1850000*time.Millisecond), records[0].EndTime)

	animals, _ := h.farm.ActiveAnimals(ctx)
	require.Len(t, animals, 1)
	assert.Equal(t, domain.AnimalDog, animals[0].Type)

	starts, stops := h.monitor.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

func TestTouchInTestModeInterruptsSession(t *testing.T) {
	h := newHarness(t, domain.Preferences{StageDuration: 15 * time.Minute, TestMode: true}, slowTick)
	ctx := context.Background()
	states, cancel := h.mgr.Subscribe(8)
	defer cancel()

	_, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	h.clk.Set(t0.Add(8 * time.Second))
	h.interrupt(interruptiondto.ReasonTouchEvent)

	seen := waitFor(t, states, domain.KindCompleted)
	require.GreaterOrEqual(t, len(seen), 2)
	assert.Equal(t, domain.Interrupted(interruptiondto.ReasonTouchEvent, 8*time.Second), seen[len(seen)-2])
	assert.Equal(t, domain.Completed(8*time.Second, domain.ResultInterrupted), seen[len(seen)-1])

	h.mgr.Flush()
	records := h.sessions.all()
	require.Len(t, records, 1)
	assert.Equal(t, domain.ResultInterrupted, records[0].Result)
	assert.Equal(t, interruptiondto.ReasonTouchEvent, records[0].Reason)
	assert.Equal(t, 8*time.Second, records[0].Duration)
	animals, _ := h.farm.ActiveAnimals(ctx)
	assert.Empty(t, animals)
}

func TestInterruptionBurstFinalizesOnce(t *testing.T) {
	h := newHarness(t, domain.Preferences{TestMode: true}, slowTick)
	ctx := context.Background()
	states, cancel := h.mgr.Subscribe(32)
	defer cancel()

	_, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	h.clk.Set(t0.Add(25 * time.Second))
	for _, reason := range interruptiondto.Reasons() {
		h.interrupt(reason)
	}
	waitFor(t, states, domain.KindCompleted)

	// a command round trip guarantees the remaining events were consumed
	require.Eventually(t, func() bool { return len(h.monitor.events) == 0 }, time.Second, 5*time.Millisecond)
	st, err := h.mgr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KindCompleted, st.Kind)

	h.mgr.Flush()
	records := h.sessions.all()
	require.Len(t, records, 1)
	assert.Equal(t, interruptiondto.ReasonTouchEvent, records[0].Reason)
	assert.Equal(t, domain.ResultSuccess, records[0].Result)
	animals, _ := h.farm.ActiveAnimals(ctx)
	require.Len(t, animals, 1)
	assert.Equal(t, domain.AnimalCat, animals[0].Type)

	interrupted := 0
	for done := false; !done; {
		select {
		case st := <-states:
			if st.Kind == domain.KindInterrupted {
				interrupted++
			}
		default:
			done = true
		}
	}
	assert.Zero(t, interrupted, "no further transitions after the first interruption")
}

func TestPauseResumeKeepsStartTime(t *testing.T) {
	h := newHarness(t, domain.Preferences{TestMode: true, AllowPause: true}, slowTick)
	ctx := context.Background()

	_, err := h.mgr.Start(ctx)
	require.NoError(t, err)

	h.clk.Set(t0.Add(5 * time.Second))
	st, err := h.mgr.Pause(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Paused(5*time.Second), st)
	assert.Equal(t, 5*time.Second, h.mgr.Elapsed())

	h.clk.Set(t0.Add(15 * time.Second))
	st, err = h.mgr.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KindIncubating, st.Kind)
	assert.Equal(t, t0, st.StartTime)

	h.clk.Set(t0.Add(20 * time.Second))
	st, err = h.mgr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Completed(20*time.Second, domain.ResultSuccess), st)
}

func TestPauseDisabledIsNoop(t *testing.T) {
	h := newHarness(t, domain.Preferences{TestMode: true, AllowPause: false}, slowTick)
	ctx := context.Background()

	before, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	h.clk.Set(t0.Add(3 * time.Second))
	after, err := h.mgr.Pause(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, before, h.mgr.State())
}

func TestAllowPauseIsReadAtCallTime(t *testing.T) {
	h := newHarness(t, domain.Preferences{TestMode: true}, slowTick)
	ctx := context.Background()

	_, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	h.prefs.mu.Lock()
	h.prefs.prefs.AllowPause = true
	h.prefs.mu.Unlock()

	st, err := h.mgr.Pause(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KindPaused, st.Kind)
}

func TestPausedSessionIgnoresInterruptions(t *testing.T) {
	h := newHarness(t, domain.Preferences{TestMode: true, AllowPause: true}, slowTick)
	ctx := context.Background()

	_, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	_, err = h.mgr.Pause(ctx)
	require.NoError(t, err)
	h.interrupt(interruptiondto.ReasonDeviceMovement)

	require.Eventually(t, func() bool { return len(h.monitor.events) == 0 }, time.Second, 5*time.Millisecond)
	st, err := h.mgr.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KindIncubating, st.Kind)
}

func TestStopIsIdempotent(t *testing.T) {
	h := newHarness(t, domain.Preferences{TestMode: true}, slowTick)
	ctx := context.Background()

	st, err := h.mgr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Idle(), st)

	_, err = h.mgr.Start(ctx)
	require.NoError(t, err)
	h.clk.Set(t0.Add(12 * time.Second))
	first, err := h.mgr.Stop(ctx)
	require.NoError(t, err)
	second, err := h.mgr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	h.mgr.Flush()
	assert.Len(t, h.sessions.all(), 1)
}

func TestStartIsIgnoredWhileIncubating(t *testing.T) {
	h := newHarness(t, domain.Preferences{TestMode: true}, slowTick)
	ctx := context.Background()

	first, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	h.clk.Set(t0.Add(time.Second))
	second, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.StartTime, second.StartTime)

	h.clk.Set(t0.Add(11 * time.Second))
	_, err = h.mgr.Stop(ctx)
	require.NoError(t, err)
	restarted, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(11*time.Second), restarted.StartTime)
}

func TestResetDiscardsSession(t *testing.T) {
	h := newHarness(t, domain.Preferences{TestMode: true}, slowTick)
	ctx := context.Background()
	require.NoError(t, h.farm.InsertAnimal(ctx, domain.Animal{ID: "old", Type: domain.AnimalCat}))

	_, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	h.clk.Set(t0.Add(40 * time.Second))
	st, err := h.mgr.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Idle(), st)

	h.mgr.Flush()
	assert.Empty(t, h.sessions.all())
	animals, _ := h.farm.ActiveAnimals(ctx)
	assert.Empty(t, animals)
	assert.Equal(t, 1, h.farm.cleared)
	_, stops := h.monitor.counts()
	assert.Equal(t, 1, stops)

	st, err = h.mgr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Idle(), st)
}

func TestResetRightAfterStopClearsItsAnimals(t *testing.T) {
	clk := clock.NewFake(t0)
	sessions := &slowSessions{delay: 30 * time.Millisecond}
	farm := &memFarm{}
	mgr := service.NewManager(service.Deps{
		Clock:       clk,
		IDs:         &seqIDs{},
		Sessions:    sessions,
		Farm:        farm,
		Preferences: &fakePrefs{prefs: domain.Preferences{TestMode: true}},
		Logger:      zerolog.Nop(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = mgr.Run(ctx) }()
	defer mgr.Close()

	_, err := mgr.Start(ctx)
	require.NoError(t, err)
	clk.Set(t0.Add(35 * time.Second))
	st, err := mgr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Completed(35*time.Second, domain.ResultSuccess), st)

	st, err = mgr.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Idle(), st)

	mgr.Flush()
	assert.Len(t, sessions.all(), 1)
	animals, _ := farm.ActiveAnimals(ctx)
	assert.Empty(t, animals, "the clear queued by reset runs after the stop's inserts")
	assert.Equal(t, 1, farm.cleared)
}

func TestTickUpdatesProgressAndNotifier(t *testing.T) {
	h := newHarness(t, domain.Preferences{TestMode: true}, time.Second)
	ctx := context.Background()
	states, cancel := h.mgr.Subscribe(8)
	defer cancel()

	_, err := h.mgr.Start(ctx)
	require.NoError(t, err)
	waitFor(t, states, domain.KindIncubating)

	h.clk.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return h.notifier.updateCount() > 0 }, time.Second, 5*time.Millisecond)
	st := waitFor(t, states, domain.KindIncubating)
	assert.InDelta(t, 0.5, st[len(st)-1].Progress, 1e-9)
	assert.InDelta(t, 0.5, h.mgr.CurrentProgress(), 1e-9)
	assert.Equal(t, 5*time.Second, h.mgr.RemainingTime())

	_, err = h.mgr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, h.notifier.started)
}

func TestFocusVisibilityIsForwarded(t *testing.T) {
	h := newHarness(t, domain.Preferences{}, slowTick)
	h.mgr.SetFocusVisible(false)
	h.mgr.SetFocusVisible(true)
	h.monitor.mu.Lock()
	defer h.monitor.mu.Unlock()
	assert.Equal(t, []bool{false, true}, h.monitor.visible)
}

func TestPersistenceFailureDoesNotRollBack(t *testing.T) {
	store := &MockSessionStore{}
	store.On("InsertSession", mock.Anything, mock.AnythingOfType("domain.Record")).Return(errors.New("disk full")).Once()

	clk := clock.NewFake(t0)
	farm := &memFarm{}
	mgr := service.NewManager(service.Deps{
		Clock:       clk,
		IDs:         &seqIDs{},
		Sessions:    store,
		Farm:        farm,
		Preferences: &fakePrefs{prefs: domain.Preferences{TestMode: true}},
		Logger:      zerolog.Nop(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = mgr.Run(ctx) }()

	_, err := mgr.Start(ctx)
	require.NoError(t, err)
	clk.Set(t0.Add(30 * time.Second))
	st, err := mgr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Completed(30*time.Second, domain.ResultSuccess), st)

	mgr.Close()
	store.AssertExpectations(t)
	animals, _ := farm.ActiveAnimals(ctx)
	require.Len(t, animals, 1)
	assert.Equal(t, domain.AnimalDog, animals[0].Type)

	_, err = mgr.Start(ctx)
	assert.ErrorIs(t, err, service.ErrClosed)
}

func TestRunTwiceFails(t *testing.T) {
	h := newHarness(t, domain.Preferences{}, slowTick)
	_, err := h.mgr.Stop(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, h.mgr.Run(context.Background()), service.ErrAlreadyRunning)
}
