package out

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusfarm/internal/modules/interruption/domain"
	"focusfarm/internal/modules/interruption/dto"
	"focusfarm/internal/modules/interruption/service"
	settingsdto "focusfarm/internal/modules/settings/dto"
	"focusfarm/internal/platform/clock"
	apperrors "focusfarm/internal/platform/errors"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestParseIdleMillis(t *testing.T) {
	d, err := parseIdleMillis(" 1234\n")
	require.NoError(t, err)
	assert.Equal(t, 1234*time.Millisecond, d)

	d, err = parseIdleMillis("-5")
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = parseIdleMillis("idle")
	require.Error(t, err)
}

func TestIdleInputObserverEmitsOnFreshInput(t *testing.T) {
	clk := clock.NewFake(t0)
	readings := []string{"5000", "40", "900"}
	var mu sync.Mutex
	run := func(context.Context, string, ...string) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		out := readings[0]
		if len(readings) > 1 {
			readings = readings[1:]
		}
		return []byte(out), nil
	}
	obs := NewIdleInputObserverWithRunner(clk, 250*time.Millisecond, run)

	ctx, cancel := context.WithCancel(context.Background())
	touches := make(chan time.Time, 4)
	done := make(chan error, 1)
	go func() { done <- obs.Observe(ctx, func(at time.Time) { touches <- at }) }()

	require.Eventually(t, func() bool { return clk.Tickers() == 1 }, time.Second, 5*time.Millisecond)
	for i := 0; i < 3; i++ {
		clk.Advance(250 * time.Millisecond)
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case at := <-touches:
		assert.False(t, at.Before(t0))
	case <-time.After(time.Second):
		t.Fatal("expected one touch")
	}
	assert.Empty(t, touches)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestIdleInputObserverIgnoresStartingGesture(t *testing.T) {
	clk := clock.NewFake(t0)
	readings := make(chan string, 2)
	readings <- "100"
	readings <- "10"
	run := func(context.Context, string, ...string) ([]byte, error) {
		return []byte(<-readings), nil
	}
	obs := NewIdleInputObserverWithRunner(clk, 250*time.Millisecond, run)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	touches := make(chan time.Time, 2)
	go func() { _ = obs.Observe(ctx, func(at time.Time) { touches <- at }) }()

	require.Eventually(t, func() bool { return clk.Tickers() == 1 }, time.Second, 5*time.Millisecond)
	clk.Advance(250 * time.Millisecond)
	require.Eventually(t, func() bool { return len(readings) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, touches, "input at +150ms predates arming")

	clk.Advance(250 * time.Millisecond)
	select {
	case at := <-touches:
		assert.Equal(t, t0.Add(500*time.Millisecond), at)
	case <-time.After(time.Second):
		t.Fatal("expected a touch")
	}
}

func TestForegroundUsageQuerier(t *testing.T) {
	t.Setenv("XDG_SESSION_TYPE", "x11")
	procRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(procRoot, "4242"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(procRoot, "4242", "comm"), []byte("firefox\n"), 0o644))

	q := NewForegroundUsageQuerierWithRunner(procRoot, func(_ context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "xdotool", name)
		assert.Equal(t, "getactivewindow getwindowpid", strings.Join(args, " "))
		return []byte("4242\n"), nil
	})
	stats, err := q.QueryUsage(context.Background(), t0.Add(-5*time.Second), t0)
	require.NoError(t, err)
	assert.Equal(t, []domain.UsageStat{{Package: "firefox", LastUsed: t0}}, stats)

	broken := NewForegroundUsageQuerierWithRunner(procRoot, func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("boom")
	})
	_, err = broken.QueryUsage(context.Background(), t0, t0)
	require.Error(t, err)
}

func TestUsageSourceQuietInHostingTerminal(t *testing.T) {
	t.Setenv("XDG_SESSION_TYPE", "x11")
	procRoot := t.TempDir()
	for pid, comm := range map[string]string{"4242": "gnome-terminal-", "5151": "firefox"} {
		require.NoError(t, os.MkdirAll(filepath.Join(procRoot, pid), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(procRoot, pid, "comm"), []byte(comm+"\n"), 0o644))
	}
	var mu sync.Mutex
	active := "4242"
	q := NewForegroundUsageQuerierWithRunner(procRoot, func(context.Context, string, ...string) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		return []byte(active + "\n"), nil
	})

	src := service.NewUsageSource(clock.NewFake(t0), q, NewStaticClassifier(nil), "focusfarm", zerolog.Nop())
	events := src.Subscribe(4)
	require.NoError(t, src.Start(context.Background()))
	defer src.Stop()

	src.Check(context.Background())
	src.Check(context.Background())
	select {
	case ev := <-events:
		t.Fatalf("terminal hosting the app interrupted the session: %v", ev.Reason)
	case <-time.After(50 * time.Millisecond):
	}

	mu.Lock()
	active = "5151"
	mu.Unlock()
	src.Check(context.Background())
	select {
	case ev := <-events:
		assert.Equal(t, dto.ReasonSystemInterrupt, ev.Reason)
	case <-time.After(time.Second):
		t.Fatal("expected system_interrupt after switching to the browser")
	}
}

func TestIdleInputObserverHonoursSuppressedControlKeys(t *testing.T) {
	clk := clock.NewFake(t0)
	readings := make(chan string, 1)
	run := func(context.Context, string, ...string) ([]byte, error) {
		return []byte(<-readings), nil
	}
	src := service.NewTouchSource(clk, NewIdleInputObserverWithRunner(clk, 250*time.Millisecond, run), zerolog.Nop())
	events := src.Subscribe(4)
	require.NoError(t, src.Start(context.Background()))
	defer src.Stop()
	require.Eventually(t, func() bool { return clk.Tickers() == 1 }, time.Second, 5*time.Millisecond)

	poll := func(reading string) {
		t.Helper()
		readings <- reading
		clk.Advance(250 * time.Millisecond)
		require.Eventually(t, func() bool { return len(readings) == 0 }, time.Second, 5*time.Millisecond)
	}

	poll("5000")
	// The resume key lands at +440ms and the host quiets input until +900ms.
	src.Suppress(t0.Add(900 * time.Millisecond))
	poll("60")
	poll("5000")
	select {
	case ev := <-events:
		t.Fatalf("control key reported as %v", ev.Reason)
	case <-time.After(50 * time.Millisecond):
	}

	poll("30")
	select {
	case ev := <-events:
		assert.Equal(t, dto.ReasonTouchEvent, ev.Reason)
		assert.Equal(t, t0.Add(time.Second), ev.At)
	case <-time.After(time.Second):
		t.Fatal("expected a touch once the quiet window passed")
	}
}

func TestForegroundUsageQuerierUnsupported(t *testing.T) {
	t.Setenv("XDG_SESSION_TYPE", "wayland")
	q := NewForegroundUsageQuerierWithRunner(t.TempDir(), nil)
	_, err := q.QueryUsage(context.Background(), t0, t0)
	assert.ErrorIs(t, err, apperrors.ErrUnsupported)
}

func TestReplay(t *testing.T) {
	input := strings.Join([]string{
		`{"sensor":"accelerometer","values":[0,0,9.8],"offset_ms":0}`,
		``,
		`{"sensor":"gyroscope","values":[1,2,3],"offset_ms":1500}`,
	}, "\n")
	var samples []domain.SensorSample
	err := replay(context.Background(), strings.NewReader(input), t0, func(s domain.SensorSample) {
		samples = append(samples, s)
	})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, domain.SensorGyroscope, samples[1].Sensor)
	assert.Equal(t, [3]float64{1, 2, 3}, samples[1].Values)
	assert.Equal(t, t0.Add(1500*time.Millisecond), samples[1].At)

	err = replay(context.Background(), strings.NewReader("{nope"), t0, func(domain.SensorSample) {})
	require.Error(t, err)
}

func TestStaticClassifier(t *testing.T) {
	c := NewStaticClassifier([]string{" Slack ", ""})
	assert.True(t, c.IsSystemPackage("gnome-shell"))
	assert.True(t, c.IsSystemPackage("slack"))
	assert.False(t, c.IsSystemPackage("firefox"))
}

type settingsStub struct {
	mu      sync.Mutex
	trusted []string
}

func (s *settingsStub) set(trusted ...string) {
	s.mu.Lock()
	s.trusted = trusted
	s.mu.Unlock()
}

func (s *settingsStub) Get(context.Context) (settingsdto.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return settingsdto.Settings{TrustedPackages: s.trusted}, nil
}

func (s *settingsStub) Update(context.Context, settingsdto.UpdateInput) (settingsdto.Settings, error) {
	return settingsdto.Settings{}, errors.New("read only")
}

func (s *settingsStub) Watch(context.Context) <-chan settingsdto.Settings { return nil }

func TestSettingsClassifierFollowsTrustedList(t *testing.T) {
	settings := &settingsStub{}
	c := NewSettingsClassifier(settings)
	assert.True(t, c.IsSystemPackage("plasmashell"))
	assert.False(t, c.IsSystemPackage("zoom"))

	settings.set("zoom")
	assert.True(t, c.IsSystemPackage("Zoom"))

	settings.set()
	assert.False(t, c.IsSystemPackage("zoom"))
}
