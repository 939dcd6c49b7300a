package pricing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) LowestPrice(ctx context.Context, marketHash string) (float64, error) {
	args := m.Called(ctx, marketHash)
	return args.Get(0).(float64), args.Error(1)
}

func testResolver(name string) (string, error) {
	if name == "unknown" {
		return "", &models.LookupError{Kind: models.ErrNotMapped, Name: name}
	}
	return name + " (Field-Tested)", nil
}

func TestRefresher_RefreshAll(t *testing.T) {
	m := new(MockLookup)
	m.On("LowestPrice", mock.Anything, "a (Field-Tested)").Return(10.0, nil)
	m.On("LowestPrice", mock.Anything, "b (Field-Tested)").Return(0.0, fmt.Errorf("%w: timeout", ErrPriceUnavailable))
	m.On("LowestPrice", mock.Anything, "c (Field-Tested)").Return(30.5, nil)

	var calls atomic.Int32
	r := NewRefresher(m, 2)
	report := r.RefreshAll(context.Background(), []string{"a", "b", "unknown", "c"}, testResolver, func(done, total int) {
		calls.Add(1)
		assert.Equal(t, 4, total)
	})

	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Unmapped)
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, map[string]float64{"a": 10, "c": 30.5}, report.Prices())

	require.Len(t, report.Results, 4)
	assert.Equal(t, "b", report.Results[1].Name)
	assert.ErrorIs(t, report.Results[1].Err, ErrPriceUnavailable)
	assert.NotEmpty(t, report.Results[1].Error)
	m.AssertNumberOfCalls(t, "LowestPrice", 3)
}

type slowLookup struct {
	mu      sync.Mutex
	active  int
	maxSeen int
}

func (s *slowLookup) LowestPrice(ctx context.Context, marketHash string) (float64, error) {
	s.mu.Lock()
	s.active++
	if s.active > s.maxSeen {
		s.maxSeen = s.active
	}
	s.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return 1, nil
}

func TestRefresher_BoundsConcurrency(t *testing.T) {
	s := &slowLookup{}
	names := make([]string, 40)
	for i := range names {
		names[i] = fmt.Sprintf("item-%d", i)
	}

	report := NewRefresher(s, 0).RefreshAll(context.Background(), names, testResolver, nil)
	assert.Equal(t, 40, report.Updated)
	assert.LessOrEqual(t, s.maxSeen, DefaultWorkers)
	assert.Greater(t, s.maxSeen, 1)
}

func TestRefresher_RefreshOne(t *testing.T) {
	m := new(MockLookup)
	m.On("LowestPrice", mock.Anything, "a (Field-Tested)").Return(4.2, nil)
	r := NewRefresher(m, 1)

	res := r.RefreshOne(context.Background(), "a", testResolver)
	require.True(t, res.Ok())
	assert.InDelta(t, 4.2, res.Price, 1e-9)
	assert.Equal(t, "a (Field-Tested)", res.MarketHash)

	res = r.RefreshOne(context.Background(), "unknown", testResolver)
	assert.True(t, errors.Is(res.Err, models.ErrNotMapped))
}

func TestCachedLookup(t *testing.T) {
	m := new(MockLookup)
	m.On("LowestPrice", mock.Anything, "x").Return(5.0, nil).Once()
	m.On("LowestPrice", mock.Anything, "y").Return(0.0, ErrPriceUnavailable).Twice()

	l := NewCachedLookup(m, 8, time.Minute)
	for i := 0; i < 3; i++ {
		p, err := l.LowestPrice(context.Background(), "x")
		require.NoError(t, err)
		assert.InDelta(t, 5.0, p, 1e-9)
	}
	for i := 0; i < 2; i++ {
		_, err := l.LowestPrice(context.Background(), "y")
		assert.ErrorIs(t, err, ErrPriceUnavailable)
	}
	m.AssertExpectations(t)

	cached, ok := l.(*CachedLookup)
	require.True(t, ok)
	cached.Invalidate("x")
	m.On("LowestPrice", mock.Anything, "x").Return(6.0, nil).Once()
	p, err := l.LowestPrice(context.Background(), "x")
	require.NoError(t, err)
	assert.InDelta(t, 6.0, p, 1e-9)
}

func TestRefresher_RefreshBypassesCache(t *testing.T) {
	m := new(MockLookup)
	m.On("LowestPrice", mock.Anything, "AK-47 | Bloodsport (Field-Tested)").Return(80.0, nil).Once()
	m.On("LowestPrice", mock.Anything, "AK-47 | Bloodsport (Field-Tested)").Return(82.5, nil).Once()

	r := NewRefresher(NewCachedLookup(m, 8, time.Minute), 2)

	res := r.RefreshOne(context.Background(), "AK-47 | Bloodsport", testResolver)
	require.NoError(t, res.Err)
	assert.InDelta(t, 80.0, res.Price, 1e-9)

	// a quote inside the TTL is served from the cache
	res = r.Quote(context.Background(), "AK-47 | Bloodsport", testResolver)
	require.NoError(t, res.Err)
	assert.InDelta(t, 80.0, res.Price, 1e-9)

	report := r.RefreshAll(context.Background(), []string{"AK-47 | Bloodsport"}, testResolver, nil)
	require.Equal(t, 1, report.Updated)
	assert.InDelta(t, 82.5, report.Results[0].Price, 1e-9)

	res = r.Quote(context.Background(), "AK-47 | Bloodsport", testResolver)
	assert.InDelta(t, 82.5, res.Price, 1e-9)
	m.AssertExpectations(t)
}

func TestCachedLookup_Disabled(t *testing.T) {
	m := new(MockLookup)
	assert.Same(t, m, NewCachedLookup(m, 8, 0))
}
