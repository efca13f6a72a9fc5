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

	"focusfarm/internal/modules/farm/domain"
	"focusfarm/internal/modules/farm/service"
	"focusfarm/internal/platform/clock"
)

var now = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

type fixedID string

func (f fixedID) New() string { return string(f) }

type MockSessionReader struct{ mock.Mock }

func (m *MockSessionReader) Totals(ctx context.Context, since time.Time) (domain.SessionTotals, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(domain.SessionTotals), args.Error(1)
}

func (m *MockSessionReader) Recent(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.SessionSummary), args.Error(1)
}

type MockAnimalStore struct{ mock.Mock }

func (m *MockAnimalStore) Active(ctx context.Context) ([]domain.Animal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Animal), args.Error(1)
}

func (m *MockAnimalStore) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockCycleStore struct{ mock.Mock }

func (m *MockCycleStore) Insert(ctx context.Context, cycle domain.Cycle) error {
	return m.Called(ctx, cycle).Error(0)
}

func (m *MockCycleStore) Recent(ctx context.Context, limit int) ([]domain.Cycle, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Cycle), args.Error(1)
}

type cycleSettings struct {
	kind   string
	length time.Duration
	err    error
}

func (c cycleSettings) Cycle(context.Context) (string, time.Duration, error) {
	return c.kind, c.length, c.err
}

func newService(sessions *MockSessionReader, animals *MockAnimalStore, cycles *MockCycleStore, settings cycleSettings) *service.FarmService {
	return service.NewFarmService(clock.NewFake(now), fixedID("c1"), sessions, animals, cycles, settings, nil, zerolog.Nop())
}

func TestResetCycleKeepsAnimalsWhenInsertFails(t *testing.T) {
	sessions := &MockSessionReader{}
	animals := &MockAnimalStore{}
	cycles := &MockCycleStore{}
	day := 24 * time.Hour

	sessions.On("Totals", mock.Anything, now.Add(-day)).Return(domain.SessionTotals{Sessions: 2, TotalFocus: time.Hour}, nil)
	animals.On("Active", mock.Anything).Return([]domain.Animal{{ID: "a", Family: domain.FamilyDog}}, nil)
	cycles.On("Insert", mock.Anything, mock.MatchedBy(func(c domain.Cycle) bool {
		return c.ID == "c1" && c.CycleType == "daily" && c.Counts.Dogs == 1 && c.TotalSessions == 2 && c.Reason == "new month"
	})).Return(errors.New("disk full"))

	svc := newService(sessions, animals, cycles, cycleSettings{kind: "daily", length: day})
	_, err := svc.ResetCycle(context.Background(), " new month ")
	require.ErrorContains(t, err, "disk full")

	animals.AssertNotCalled(t, "DeleteAll", mock.Anything)
	sessions.AssertExpectations(t)
	cycles.AssertExpectations(t)
}

func TestResetCycleFailsWithoutSettings(t *testing.T) {
	svc := newService(&MockSessionReader{}, &MockAnimalStore{}, &MockCycleStore{}, cycleSettings{err: errors.New("unreadable")})
	_, err := svc.ResetCycle(context.Background(), "")
	require.ErrorContains(t, err, "read cycle settings")
}

func TestListLimitsDefault(t *testing.T) {
	sessions := &MockSessionReader{}
	cycles := &MockCycleStore{}
	sessions.On("Recent", mock.Anything, service.DefaultListLimit).Return([]domain.SessionSummary{}, nil)
	cycles.On("Recent", mock.Anything, 3).Return([]domain.Cycle{}, nil)

	svc := newService(sessions, &MockAnimalStore{}, cycles, cycleSettings{})
	_, err := svc.RecentSessions(context.Background(), -1)
	require.NoError(t, err)
	_, err = svc.Cycles(context.Background(), 3)
	require.NoError(t, err)

	sessions.AssertExpectations(t)
	cycles.AssertExpectations(t)
}

func TestStatsPropagatesStoreErrors(t *testing.T) {
	sessions := &MockSessionReader{}
	animals := &MockAnimalStore{}
	sessions.On("Totals", mock.Anything, time.Time{}).Return(domain.SessionTotals{Sessions: 1}, nil)
	animals.On("Active", mock.Anything).Return([]domain.Animal(nil), errors.New("locked"))

	_, err := newService(sessions, animals, &MockCycleStore{}, cycleSettings{}).Stats(context.Background())
	assert.ErrorContains(t, err, "active animals")
}
