// Package dashboard holds the interactive state behind the MPI table: the
// loaded groups, sort order, expanded rows, theme and the refresh cooldown.
// Both the web page and the terminal UI drive one Dashboard.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pricelabs-dash/metrics"
	"pricelabs-dash/models"
	"pricelabs-dash/pricelabs"
	"pricelabs-dash/services"
	"pricelabs-dash/utils"
)

// DefaultCooldown gates manual refresh after a successful one.
const DefaultCooldown = 120 * time.Second

var (
	ErrCoolingDown       = errors.New("refresh is cooling down")
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrNotLoaded         = errors.New("no dashboard data loaded")
)

// Source delivers decoded listings, normally through the proxy route.
type Source interface {
	FetchListings(ctx context.Context) (*pricelabs.ListingsPayload, error)
}

// Options tunes a Dashboard. Zero values pick the defaults.
type Options struct {
	Cooldown time.Duration
	Now      func() time.Time
}

// Dashboard is safe for concurrent use.
type Dashboard struct {
	source   Source
	logger   *utils.Logger
	cleaner  *services.Cleaner
	insights *services.InsightService
	now      func() time.Time

	mu          sync.Mutex
	cooldown    *Cooldown
	started     bool
	loading     bool
	refreshing  bool
	err         error
	report      *models.InsightReport
	meta        *pricelabs.Meta
	sort        services.SortConfig
	expanded    *utils.StringSet
	dark        bool
	lastRefresh time.Time
}

// New creates an empty Dashboard reading from source.
func New(source Source, logger *utils.Logger, opts Options) *Dashboard {
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dashboard{
		source:   source,
		logger:   logger,
		cleaner:  services.NewCleaner(logger),
		insights: services.NewInsightService(logger),
		now:      opts.Now,
		cooldown: NewCooldown(opts.Cooldown, opts.Now),
		loading:  true,
		expanded: utils.NewStringSet(),
	}
}

// Load performs the initial fetch. It does not start the cooldown. Calls
// after the first one are no-ops.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return nil
	}
	d.started = true
	d.mu.Unlock()

	d.logger.Info("[dashboard] Fetching data from API route...")
	report, meta, err := d.fetch(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if err != nil {
		d.err = err
		d.logger.Error("[dashboard] Error fetching data: %v", err)
		metrics.DashboardLoads.WithLabelValues("initial", "error").Inc()
		return err
	}
	d.apply(report, meta)
	metrics.DashboardLoads.WithLabelValues("initial", "ok").Inc()
	return nil
}

// Refresh re-fetches the data when no cooldown or load is pending. On
// success the cooldown starts; on failure the error is kept for display.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	if d.cooldown.Active() {
		d.mu.Unlock()
		return ErrCoolingDown
	}
	if d.refreshing || (d.started && d.loading) {
		d.mu.Unlock()
		return ErrRefreshInProgress
	}
	d.started = true
	d.refreshing = true
	d.err = nil
	d.mu.Unlock()

	d.logger.Info("[dashboard] Refreshing data from API route...")
	report, meta, err := d.fetch(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.refreshing = false
	d.loading = false
	if err != nil {
		d.err = err
		d.logger.Error("[dashboard] Error refreshing data: %v", err)
		metrics.DashboardLoads.WithLabelValues("refresh", "error").Inc()
		return err
	}
	d.apply(report, meta)
	d.lastRefresh = d.now()
	d.cooldown.Start()
	metrics.DashboardLoads.WithLabelValues("refresh", "ok").Inc()
	return nil
}

// fetch runs the whole pipeline: proxy → flatten → drop null groups →
// group and average.
func (d *Dashboard) fetch(ctx context.Context) (*models.InsightReport, *pricelabs.Meta, error) {
	payload, err := d.source.FetchListings(ctx)
	if err != nil {
		return nil, nil, err
	}

	normalized := services.Normalize(payload.Listings)
	d.logger.Debug("[dashboard] Normalized listings count (before filtering): %d", len(normalized))

	valid := d.cleaner.Clean(normalized)
	d.logger.Debug("[dashboard] Valid listings count (after filtering out null groups): %d", len(valid))

	return d.insights.Generate(valid), payload.Meta, nil
}

// apply swaps in freshly computed data. Caller holds mu.
func (d *Dashboard) apply(report *models.InsightReport, meta *pricelabs.Meta) {
	d.report = report
	d.meta = meta
	d.err = nil
	metrics.DashboardGroups.Set(float64(report.TotalGroups))
}

// Sort applies a header click on column.
func (d *Dashboard) Sort(column string) error {
	if !services.IsSortable(column) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sort = d.sort.Next(column)
	return nil
}

// ToggleGroup expands or collapses a group row and reports whether it is
// expanded afterwards.
func (d *Dashboard) ToggleGroup(name string) bool {
	return d.expanded.Toggle(name)
}

// ToggleDarkMode flips the theme and reports whether dark mode is on.
func (d *Dashboard) ToggleDarkMode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dark = !d.dark
	return d.dark
}

// CooldownRemaining is the number of seconds until refresh is allowed.
func (d *Dashboard) CooldownRemaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cooldown.Remaining()
}

// Report returns the grouped data in the current sort order.
func (d *Dashboard) Report() (*models.InsightReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.report == nil {
		return nil, ErrNotLoaded
	}
	out := *d.report
	out.Groups = services.ApplySorting(d.report.Groups, d.sort)
	return &out, nil
}
