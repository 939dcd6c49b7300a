package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mswatii/cs2-craftcalc/internal/catalog"
	"github.com/mswatii/cs2-craftcalc/internal/models"
	"github.com/mswatii/cs2-craftcalc/internal/pricing"
	"github.com/mswatii/cs2-craftcalc/internal/store"
	"github.com/mswatii/cs2-craftcalc/internal/wear"
)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) LowestPrice(ctx context.Context, marketHash string) (float64, error) {
	args := m.Called(ctx, marketHash)
	return args.Get(0).(float64), args.Error(1)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) InsertSnapshots(ctx context.Context, snapshots []models.PriceSnapshot) error {
	return m.Called(ctx, snapshots).Error(0)
}

func (m *MockHistory) LatestSnapshots(ctx context.Context, line string) ([]models.PriceSnapshot, error) {
	args := m.Called(ctx, line)
	return args.Get(0).([]models.PriceSnapshot), args.Error(1)
}

func (m *MockHistory) History(ctx context.Context, marketHash string, limit int) ([]models.PriceSnapshot, error) {
	args := m.Called(ctx, marketHash, limit)
	return args.Get(0).([]models.PriceSnapshot), args.Error(1)
}

func newTestService(t *testing.T, lookup pricing.Lookup, history History) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	c := catalog.Default()
	stores, err := OpenStores(c, dir)
	require.NoError(t, err)
	return New(wear.NewEngine(c), stores, pricing.NewRefresher(lookup, 4), history), dir
}

func tier(t models.TierName) *models.TierName { return &t }

func TestService_RefreshAllKnives(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("LowestPrice", mock.Anything, "★ Bowie Knife | Doppler (Factory New)").Return(3100.0, nil)
	lookup.On("LowestPrice", mock.Anything, "★ Bowie Knife | Rust Coat (Well-Worn)").
		Return(0.0, fmt.Errorf("%w: timeout", pricing.ErrPriceUnavailable))
	lookup.On("LowestPrice", mock.Anything, mock.Anything).Return(500.0, nil)

	history := new(MockHistory)
	history.On("InsertSnapshots", mock.Anything, mock.MatchedBy(func(s []models.PriceSnapshot) bool {
		return len(s) == 29
	})).Return(nil).Once()

	svc, dir := newTestService(t, lookup, history)
	report, err := svc.RefreshAll(context.Background(), catalog.LineSpectrum, models.CategoryPrimary, tier(models.MinimalWear), nil)
	require.NoError(t, err)

	assert.Equal(t, 29, report.Updated)
	assert.Equal(t, 1, report.Failed)
	assert.Zero(t, report.Unmapped)
	lookup.AssertCalled(t, "LowestPrice", mock.Anything, "★ Butterfly Knife | Ultraviolet (Minimal Wear)")
	history.AssertExpectations(t)

	// Saved state survives a reopen
	line, err := svc.Catalog().Line(catalog.LineSpectrum)
	require.NoError(t, err)
	reopened, err := store.Open(filepath.Join(dir, "spectrum.json"), line)
	require.NoError(t, err)
	item, err := reopened.Find(models.CategoryPrimary, "鲍伊猎刀｜多普勒")
	require.NoError(t, err)
	assert.InDelta(t, 3100, item.MinPrice, 1e-9)
	item, err = reopened.Find(models.CategoryPrimary, "鲍伊猎刀｜外表生锈")
	require.NoError(t, err)
	assert.Zero(t, item.MinPrice)
}

func TestService_RefreshAllHistoryFailureIsNotFatal(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("LowestPrice", mock.Anything, mock.Anything).Return(42.0, nil)
	history := new(MockHistory)
	history.On("InsertSnapshots", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc, _ := newTestService(t, lookup, history)
	report, err := svc.RefreshAll(context.Background(), catalog.LineRevolution, models.CategoryWeapons, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Updated)
	lookup.AssertCalled(t, "LowestPrice", mock.Anything, "AWP | Chromatic Aberration (Field-Tested)")
}

func TestService_RefreshItem(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("LowestPrice", mock.Anything, "★ Sport Gloves | Nocts (Field-Tested)").Return(4800.0, nil)
	lookup.On("LowestPrice", mock.Anything, "★ Sport Gloves | Slingshot (Field-Tested)").Return(0.0, pricing.ErrPriceUnavailable)

	svc, _ := newTestService(t, lookup, nil)
	ctx := context.Background()

	res, err := svc.RefreshItem(ctx, catalog.LineRevolution, models.CategoryPrimary, "运动手套 | 夜行衣", tier(models.FactoryNew))
	require.NoError(t, err)
	assert.InDelta(t, 4800, res.Price, 1e-9)

	st, err := svc.Store(catalog.LineRevolution)
	require.NoError(t, err)
	item, err := st.Find(models.CategoryPrimary, "运动手套 | 夜行衣")
	require.NoError(t, err)
	assert.InDelta(t, 4800, item.MinPrice, 1e-9)

	_, err = svc.RefreshItem(ctx, catalog.LineRevolution, models.CategoryPrimary, "运动手套 | 弹弓", nil)
	assert.ErrorIs(t, err, pricing.ErrPriceUnavailable)
	item, err = st.Find(models.CategoryPrimary, "运动手套 | 弹弓")
	require.NoError(t, err)
	assert.InDelta(t, 3809, item.MinPrice, 1e-9, "failed lookup keeps the old price")

	_, err = svc.RefreshItem(ctx, catalog.LineRevolution, models.CategoryPrimary, "运动手套 | 不存在", nil)
	assert.ErrorIs(t, err, models.ErrUnknownItem)
}

func TestService_QuoteAndRefreshWithCache(t *testing.T) {
	const hash = "★ Sport Gloves | Nocts (Field-Tested)"
	lookup := new(MockLookup)
	lookup.On("LowestPrice", mock.Anything, hash).Return(4800.0, nil).Once()
	lookup.On("LowestPrice", mock.Anything, hash).Return(4900.0, nil).Once()

	svc, _ := newTestService(t, pricing.NewCachedLookup(lookup, 16, time.Minute), nil)
	ctx := context.Background()

	res, err := svc.Quote(ctx, catalog.LineRevolution, models.CategoryPrimary, "运动手套 | 夜行衣", nil)
	require.NoError(t, err)
	assert.InDelta(t, 4800, res.Price, 1e-9)

	st, err := svc.Store(catalog.LineRevolution)
	require.NoError(t, err)
	item, err := st.Find(models.CategoryPrimary, "运动手套 | 夜行衣")
	require.NoError(t, err)
	assert.InDelta(t, 4744, item.MinPrice, 1e-9, "a quote is not stored")

	// an explicit refresh inside the cache TTL still asks upstream
	res, err = svc.RefreshItem(ctx, catalog.LineRevolution, models.CategoryPrimary, "运动手套 | 夜行衣", nil)
	require.NoError(t, err)
	assert.InDelta(t, 4900, res.Price, 1e-9)
	lookup.AssertExpectations(t)

	_, err = svc.Quote(ctx, catalog.LineRevolution, models.CategoryPrimary, "运动手套 | 不存在", nil)
	assert.ErrorIs(t, err, models.ErrUnknownItem)
}

func TestService_ResetPrices(t *testing.T) {
	svc, _ := newTestService(t, new(MockLookup), nil)

	require.NoError(t, svc.SetPrice(catalog.LineRevolution, models.CategoryPrimary, "运动手套 | 夜行衣", 1))
	require.NoError(t, svc.ResetPrices(catalog.LineRevolution))

	st, err := svc.Store(catalog.LineRevolution)
	require.NoError(t, err)
	item, err := st.Find(models.CategoryPrimary, "运动手套 | 夜行衣")
	require.NoError(t, err)
	assert.InDelta(t, 4744, item.MinPrice, 1e-9)

	assert.ErrorIs(t, svc.ResetPrices("nope"), models.ErrUnknownLine)
}

func TestService_SetPriceAndProfit(t *testing.T) {
	svc, _ := newTestService(t, new(MockLookup), nil)

	require.NoError(t, svc.SetPrice(catalog.LineRevolution, models.CategoryWeapons, "AWP | 迷人眼 (久经沙场)", 50))

	s, err := svc.Profit(catalog.LineRevolution)
	require.NoError(t, err)
	assert.Equal(t, 24, s.Outputs)
	assert.Equal(t, 5, s.CraftSize)
	assert.InDelta(t, s.AveragePrice/5, s.Threshold, 1e-9)
	require.NotNil(t, s.Cheapest)
	assert.Equal(t, "AWP | 迷人眼 (久经沙场)", s.Cheapest.Name)

	_, err = svc.Profit("nope")
	assert.ErrorIs(t, err, models.ErrUnknownLine)
}

func TestService_History(t *testing.T) {
	svc, _ := newTestService(t, new(MockLookup), nil)
	_, err := svc.History(context.Background(), catalog.LineSpectrum, "鲍伊猎刀｜多普勒", nil, 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)

	history := new(MockHistory)
	want := []models.PriceSnapshot{{MarketHashName: "★ Bowie Knife | Doppler (Factory New)", Price: 3000}}
	history.On("History", mock.Anything, "★ Bowie Knife | Doppler (Factory New)", 10).Return(want, nil)
	history.On("LatestSnapshots", mock.Anything, catalog.LineSpectrum).Return(want, nil)

	svc, _ = newTestService(t, new(MockLookup), history)
	got, err := svc.History(context.Background(), catalog.LineSpectrum, "鲍伊猎刀｜多普勒", tier(models.BattleScarred), 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = svc.Latest(context.Background(), catalog.LineSpectrum)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Export(t *testing.T) {
	svc, dir := newTestService(t, new(MockLookup), nil)
	path := filepath.Join(dir, "spectrum.xlsx")
	require.NoError(t, svc.Export(path, catalog.LineSpectrum, nil))
	assert.FileExists(t, path)
}
