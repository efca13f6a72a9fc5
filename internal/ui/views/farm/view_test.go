package farm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	farmdto "focusfarm/internal/modules/farm/dto"
)

type stubPort struct {
	stats   farmdto.StatsOutput
	animals []farmdto.AnimalOutput
	err     error
	limit   int
}

func (s *stubPort) Stats(context.Context) (farmdto.StatsOutput, error) { return s.stats, s.err }

func (s *stubPort) Animals(context.Context) ([]farmdto.AnimalOutput, error) { return s.animals, nil }

func (s *stubPort) Cycles(_ context.Context, limit int) ([]farmdto.CycleOutput, error) {
	s.limit = limit
	return []farmdto.CycleOutput{{CycleType: "week", Dogs: 2, Reason: "fresh start"}}, nil
}

func TestLoadFillsStatsAndAnimals(t *testing.T) {
	port := &stubPort{
		stats:   farmdto.StatsOutput{TotalSessions: 3, SuccessfulSessions: 2, InterruptedSessions: 1, TotalFocus: 90 * time.Minute, Dogs: 1, Cats: 2},
		animals: []farmdto.AnimalOutput{{ID: "a", Type: "cat_tabby", Family: "cat"}, {ID: "b", Type: "dog", Family: "dog"}},
	}
	m := New(port)
	msg := m.loadCmd()()
	loaded, ok := msg.(LoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Equal(t, recentCycles, port.limit)

	m, _ = m.Update(loaded)
	assert.Len(t, m.list.Items(), 2)
	stats := m.renderStats()
	assert.Contains(t, stats, "cats 2")
	assert.Contains(t, stats, "3 (2 successful, 1 interrupted)")
	assert.Contains(t, stats, "1h30m")
	assert.Contains(t, stats, "fresh start")
}

func TestLoadErrorShowsMessage(t *testing.T) {
	m := New(&stubPort{err: errors.New("database is locked")})
	m, _ = m.Update(m.loadCmd()())
	assert.Contains(t, m.renderStats(), "database is locked")
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "0m", humanDuration(0))
	assert.Equal(t, "25m", humanDuration(25*time.Minute))
	assert.Equal(t, "2h05m", humanDuration(125*time.Minute))
}
