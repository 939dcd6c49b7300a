package pricing

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mswatii/cs2-craftcalc/internal/logger"
	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// DefaultWorkers caps concurrent upstream lookups during a batch refresh
const DefaultWorkers = 8

// Resolver maps a display name onto the market hash name used upstream
type Resolver func(display string) (string, error)

// Result is the outcome for one item of a refresh
type Result struct {
	Name       string  `json:"name"`
	MarketHash string  `json:"market_hash_name,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Err        error   `json:"-"`
	Error      string  `json:"error,omitempty"`
}

// Ok reports whether a price was obtained
func (r Result) Ok() bool { return r.Err == nil }

// RefreshReport summarizes a batch refresh
type RefreshReport struct {
	Updated  int      `json:"updated"`
	Failed   int      `json:"failed"`
	Unmapped int      `json:"unmapped"`
	Results  []Result `json:"results"`
}

// Prices returns display name to price for every successful item
func (r RefreshReport) Prices() map[string]float64 {
	out := make(map[string]float64, r.Updated)
	for _, res := range r.Results {
		if res.Ok() {
			out[res.Name] = res.Price
		}
	}
	return out
}

// Progress is called after each item finishes, from the worker goroutine
type Progress func(done, total int)

// Refresher fans item lookups out over a bounded set of goroutines
type Refresher struct {
	lookup  Lookup
	workers int
}

// NewRefresher creates a refresher with at most workers concurrent lookups
func NewRefresher(lookup Lookup, workers int) *Refresher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Refresher{lookup: lookup, workers: workers}
}

// RefreshOne resolves and prices a single item, always asking upstream
func (r *Refresher) RefreshOne(ctx context.Context, name string, resolve Resolver) Result {
	return r.price(ctx, name, resolve, true)
}

// Quote prices a single item and may answer from a recent cached lookup
func (r *Refresher) Quote(ctx context.Context, name string, resolve Resolver) Result {
	return r.price(ctx, name, resolve, false)
}

func (r *Refresher) price(ctx context.Context, name string, resolve Resolver, fresh bool) Result {
	res := Result{Name: name}
	hash, err := resolve(name)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		return res
	}
	res.MarketHash = hash
	if inv, ok := r.lookup.(Invalidator); ok && fresh {
		inv.Invalidate(hash)
	}
	price, err := r.lookup.LowestPrice(ctx, hash)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		return res
	}
	res.Price = price
	return res
}

// RefreshAll prices every item from upstream. Individual failures are recorded in the report
// and never stop the batch. Results keep the order of names.
func (r *Refresher) RefreshAll(ctx context.Context, names []string, resolve Resolver, progress Progress) RefreshReport {
	log := logger.FromContext(ctx)
	results := make([]Result, len(names))

	var done atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, name := range names {
		g.Go(func() error {
			results[i] = r.RefreshOne(gctx, name, resolve)
			if progress != nil {
				progress(int(done.Add(1)), len(names))
			}
			return nil
		})
	}
	_ = g.Wait()

	report := RefreshReport{Results: results}
	for _, res := range results {
		switch {
		case res.Ok():
			report.Updated++
		case errors.Is(res.Err, models.ErrNotMapped):
			report.Unmapped++
			log.Warn("Item has no market name", "item", res.Name)
		default:
			report.Failed++
			log.Warn("Price lookup failed", "item", res.Name, "error", res.Err)
		}
	}
	log.Info("Price refresh finished",
		slog.Int("updated", report.Updated),
		slog.Int("failed", report.Failed),
		slog.Int("unmapped", report.Unmapped))
	return report
}
