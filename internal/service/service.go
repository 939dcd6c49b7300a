// Package service wires the wear engine, item stores, price refresher and
// price history behind one API used by the HTTP server and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mswatii/cs2-craftcalc/internal/catalog"
	"github.com/mswatii/cs2-craftcalc/internal/export"
	"github.com/mswatii/cs2-craftcalc/internal/logger"
	"github.com/mswatii/cs2-craftcalc/internal/metrics"
	"github.com/mswatii/cs2-craftcalc/internal/models"
	"github.com/mswatii/cs2-craftcalc/internal/pricing"
	"github.com/mswatii/cs2-craftcalc/internal/profit"
	"github.com/mswatii/cs2-craftcalc/internal/store"
	"github.com/mswatii/cs2-craftcalc/internal/wear"
)

// ErrHistoryDisabled is returned by history queries when no database is configured
var ErrHistoryDisabled = errors.New("price history is not enabled")

// History stores price snapshots
type History interface {
	InsertSnapshots(ctx context.Context, snapshots []models.PriceSnapshot) error
	LatestSnapshots(ctx context.Context, line string) ([]models.PriceSnapshot, error)
	History(ctx context.Context, marketHash string, limit int) ([]models.PriceSnapshot, error)
}

// Service is the application facade
type Service struct {
	engine    *wear.Engine
	stores    map[string]*store.Store
	refresher *pricing.Refresher
	history   History
}

// New creates a service. history may be nil.
func New(engine *wear.Engine, stores map[string]*store.Store, refresher *pricing.Refresher, history History) *Service {
	return &Service{
		engine:    engine,
		stores:    stores,
		refresher: refresher,
		history:   history,
	}
}

// OpenStores opens the state file of every line of c inside dataDir
func OpenStores(c *catalog.Catalog, dataDir string) (map[string]*store.Store, error) {
	stores := make(map[string]*store.Store)
	for _, line := range c.Lines() {
		s, err := store.Open(filepath.Join(dataDir, store.FileName(line)), line)
		if err != nil {
			return nil, err
		}
		stores[line.ID] = s
	}
	return stores, nil
}

// Engine returns the wear engine
func (s *Service) Engine() *wear.Engine { return s.engine }

// Catalog returns the configuration tables
func (s *Service) Catalog() *catalog.Catalog { return s.engine.Catalog() }

// Store returns the item store of a line
func (s *Service) Store(lineID string) (*store.Store, error) {
	if st, ok := s.stores[lineID]; ok {
		return st, nil
	}
	// Let the catalog produce the lookup error with suggestions
	if _, err := s.Catalog().Line(lineID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s has no item store", models.ErrUnknownLine, lineID)
}

// Resolve returns the market hash name of a display name
func (s *Service) Resolve(lineID, display string, tier *models.TierName) (string, error) {
	line, err := s.Catalog().Line(lineID)
	if err != nil {
		return "", err
	}
	return line.ResolveCanonicalName(display, tier)
}

// RefreshAll fetches a fresh price for every item of a category and stores
// the successful ones. Failures are reported, not returned.
func (s *Service) RefreshAll(ctx context.Context, lineID string, c models.Category, tier *models.TierName, progress pricing.Progress) (pricing.RefreshReport, error) {
	st, err := s.Store(lineID)
	if err != nil {
		return pricing.RefreshReport{}, err
	}
	line := st.Line()

	report := s.refresher.RefreshAll(ctx, st.Names(c), line.Resolver(tier), progress)
	if err := s.apply(ctx, st, c, report.Results); err != nil {
		return report, err
	}
	return report, nil
}

// RefreshItem fetches one item's price. Unlike RefreshAll the lookup error is returned.
func (s *Service) RefreshItem(ctx context.Context, lineID string, c models.Category, name string, tier *models.TierName) (pricing.Result, error) {
	st, err := s.Store(lineID)
	if err != nil {
		return pricing.Result{}, err
	}
	if _, err := st.Find(c, name); err != nil {
		return pricing.Result{}, err
	}

	res := s.refresher.RefreshOne(ctx, name, st.Line().Resolver(tier))
	if res.Err != nil {
		return res, res.Err
	}
	if err := s.apply(ctx, st, c, []pricing.Result{res}); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) apply(ctx context.Context, st *store.Store, c models.Category, results []pricing.Result) error {
	log := logger.FromContext(ctx)

	prices := make(map[string]float64)
	var snapshots []models.PriceSnapshot
	now := time.Now().UTC()
	for _, r := range results {
		if !r.Ok() {
			continue
		}
		prices[r.Name] = r.Price
		snapshots = append(snapshots, models.PriceSnapshot{
			MarketHashName: r.MarketHash,
			DisplayName:    r.Name,
			Line:           st.Line().ID,
			Price:          r.Price,
			FetchedAt:      now,
		})
	}

	n, err := st.ApplyPrices(c, prices)
	if err != nil {
		return fmt.Errorf("failed to save prices: %w", err)
	}
	metrics.PricesUpdatedTotal.WithLabelValues(st.Line().ID).Add(float64(n))

	if s.history != nil && len(snapshots) > 0 {
		if err := s.history.InsertSnapshots(ctx, snapshots); err != nil {
			// History is best effort; the prices are already saved
			log.Error("Failed to record price history", "error", err)
		}
	}
	return nil
}

// Quote looks up an item's current lowest price without storing it. A lookup
// made shortly before may be reused.
func (s *Service) Quote(ctx context.Context, lineID string, c models.Category, name string, tier *models.TierName) (pricing.Result, error) {
	st, err := s.Store(lineID)
	if err != nil {
		return pricing.Result{}, err
	}
	if _, err := st.Find(c, name); err != nil {
		return pricing.Result{}, err
	}
	res := s.refresher.Quote(ctx, name, st.Line().Resolver(tier))
	return res, res.Err
}

// ResetPrices restores a line's built-in item lists and prices
func (s *Service) ResetPrices(lineID string) error {
	st, err := s.Store(lineID)
	if err != nil {
		return err
	}
	slog.Info("Resetting prices to defaults", "line", lineID)
	return st.Reset()
}

// SetPrice stores a manually entered price
func (s *Service) SetPrice(lineID string, c models.Category, name string, price float64) error {
	st, err := s.Store(lineID)
	if err != nil {
		return err
	}
	return st.SetPrice(c, name, price)
}

// Profit summarizes the break-even material price of a line
func (s *Service) Profit(lineID string) (profit.Summary, error) {
	st, err := s.Store(lineID)
	if err != nil {
		return profit.Summary{}, err
	}
	state := st.State()
	return profit.Summarize(state.Primary, state.Weapons, st.Line().CraftSize), nil
}

// History returns recorded prices of one item, newest first
func (s *Service) History(ctx context.Context, lineID, display string, tier *models.TierName, limit int) ([]models.PriceSnapshot, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	hash, err := s.Resolve(lineID, display, tier)
	if err != nil {
		return nil, err
	}
	return s.history.History(ctx, hash, limit)
}

// Latest returns the newest recorded price of every item of a line
func (s *Service) Latest(ctx context.Context, lineID string) ([]models.PriceSnapshot, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if _, err := s.Catalog().Line(lineID); err != nil {
		return nil, err
	}
	return s.history.LatestSnapshots(ctx, lineID)
}

// Export writes the line's prices and margins to an xlsx file
func (s *Service) Export(path, lineID string, tier *models.TierName) error {
	st, err := s.Store(lineID)
	if err != nil {
		return err
	}
	state := st.State()
	summary := profit.Summarize(state.Primary, state.Weapons, st.Line().CraftSize)
	return export.WriteXLSX(path, state, summary, st.Line().Resolver(tier))
}
