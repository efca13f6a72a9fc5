package focus

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	timerdto "focusfarm/internal/modules/timer/dto"
)

func tiers(st timerdto.StateOutput) timerdto.StateOutput {
	st.Tier1, st.Tier2, st.Tier3 = 10*time.Second, 20*time.Second, 30*time.Second
	return st
}

func TestClockText(t *testing.T) {
	assert.Equal(t, "00:00", clockText(-time.Second))
	assert.Equal(t, "01:05", clockText(65*time.Second))
	assert.Equal(t, "15:00", clockText(15*time.Minute))
	assert.Equal(t, "1:00:01", clockText(time.Hour+time.Second))
}

func TestNextAnimal(t *testing.T) {
	assert.Equal(t, "a chicken", nextAnimal(tiers(timerdto.StateOutput{Elapsed: 5 * time.Second})))
	assert.Equal(t, "a cat", nextAnimal(tiers(timerdto.StateOutput{Elapsed: 10 * time.Second})))
	assert.Equal(t, "a dog", nextAnimal(tiers(timerdto.StateOutput{Elapsed: 29 * time.Second})))
	assert.Equal(t, "the farm is full", nextAnimal(tiers(timerdto.StateOutput{Elapsed: 31 * time.Second})))
}

func TestBarClampsProgress(t *testing.T) {
	assert.Equal(t, 10, strings.Count(bar(1.7, 10), "█"))
	assert.Equal(t, 0, strings.Count(bar(-1, 10), "█"))
	assert.Equal(t, 5, strings.Count(bar(0.5, 10), "█"))
	assert.Equal(t, 5, strings.Count(bar(0.5, 10), "░"))
}

func TestViewKeepsInterruptionReasonUntilNextSession(t *testing.T) {
	m := New()
	m, _ = m.Update(StateMsg{State: tiers(timerdto.StateOutput{State: "interrupted", Reason: "touch_event", Elapsed: 8 * time.Second})})
	m, _ = m.Update(StateMsg{State: tiers(timerdto.StateOutput{State: "completed", Result: "interrupted", Elapsed: 8 * time.Second})})
	view := m.View()
	assert.Contains(t, view, "interrupted by touch event")
	assert.Contains(t, view, "Completed")

	m, _ = m.Update(StateMsg{State: tiers(timerdto.StateOutput{State: "incubating", RemainingText: "00:10"})})
	view = m.View()
	assert.NotContains(t, view, "interrupted by")
	assert.Contains(t, view, "00:10")
	assert.Equal(t, "incubating", m.State().State)
}

func TestViewCelebratesSuccess(t *testing.T) {
	m := New()
	m, _ = m.Update(StateMsg{State: tiers(timerdto.StateOutput{State: "completed", Result: "success", Elapsed: 35 * time.Second, Progress: 1})})
	assert.Contains(t, m.View(), "well done")
	assert.Contains(t, m.View(), "the farm is full")
}
