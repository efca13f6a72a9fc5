package service_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"focusfarm/internal/modules/interruption/dto"
	"focusfarm/internal/platform/clock"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newClock() *clock.Fake {
	return clock.NewFake(t0)
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func recv(t *testing.T, ch <-chan dto.Event) dto.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for interruption")
		return dto.Event{}
	}
}

func assertQuiet(t *testing.T, ch <-chan dto.Event) {
	t.Helper()
	select {
	case ev := <-ch:
		require.Failf(t, "unexpected interruption", "%+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
