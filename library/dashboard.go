package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Tab is one view of the dashboard.
type Tab string

const (
	TabOverview     Tab = "overview"
	TabBooks        Tab = "books"
	TabStudents     Tab = "students"
	TabTransactions Tab = "transactions"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{TabOverview, TabBooks, TabStudents, TabTransactions}

// ParseTab accepts a tab name, case-insensitively.
func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tabs {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// Dashboard is the tabbed overview screen. Each listing keeps one snapshot
// which every successful or failed fetch replaces wholesale; failed fetches
// substitute the sample dataset for that listing.
type Dashboard struct {
	client *Client
	logger *slog.Logger

	mu        sync.Mutex
	activeTab Tab

	stats    snapshot[Stats]
	books    snapshot[[]Book]
	students snapshot[[]Student]
	records  snapshot[[]BorrowRecord]
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithSampleDataUntilLoaded shows the sample datasets before the first fetch
// instead of empty listings.
func WithSampleDataUntilLoaded() DashboardOption {
	return func(d *Dashboard) {
		d.stats.seed(FallbackStats(), SourceFallback)
		d.books.seed(FallbackBooks(), SourceFallback)
		d.students.seed(FallbackStudents(), SourceFallback)
		d.records.seed(FallbackBorrowRecords(), SourceFallback)
	}
}

// WithDashboardLogger sets the logger used to report degraded fetches.
func WithDashboardLogger(logger *slog.Logger) DashboardOption {
	return func(d *Dashboard) { d.logger = logger }
}

func NewDashboard(client *Client, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{client: client, activeTab: TabOverview}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = client.logger
	}
	return d
}

// Open guards the screen on the stored token and loads the overview.
func (d *Dashboard) Open(ctx context.Context) error {
	if !d.requireToken() {
		return ErrUnauthenticated
	}
	return d.SelectTab(ctx, TabOverview)
}

// SelectTab switches to tab and loads its data.
func (d *Dashboard) SelectTab(ctx context.Context, tab Tab) error {
	d.mu.Lock()
	d.activeTab = tab
	d.mu.Unlock()
	return d.load(ctx, tab)
}

// ActiveTab returns the selected tab.
func (d *Dashboard) ActiveTab() Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeTab
}

// Refresh reloads the active tab.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.load(ctx, d.ActiveTab())
}

// LoadAll fetches every listing concurrently. An auth failure cancels the
// remaining fetches.
func (d *Dashboard) LoadAll(ctx context.Context) error {
	if !d.requireToken() {
		return ErrUnauthenticated
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, tab := range Tabs {
		tab := tab
		g.Go(func() error { return d.load(gctx, tab) })
	}
	return g.Wait()
}

// Logout drops the session and returns to the login screen.
func (d *Dashboard) Logout() {
	d.client.tokens.Clear()
	d.client.nav.Navigate(RouteLogin)
}

func (d *Dashboard) load(ctx context.Context, tab Tab) error {
	switch tab {
	case TabOverview:
		return d.LoadStats(ctx)
	case TabBooks:
		return d.LoadBooks(ctx)
	case TabStudents:
		return d.LoadStudents(ctx)
	case TabTransactions:
		return d.LoadBorrowRecords(ctx)
	default:
		return fmt.Errorf("unknown tab %q", tab)
	}
}

func (d *Dashboard) requireToken() bool {
	if _, ok := d.client.tokens.Get(); !ok {
		d.client.nav.Navigate(RouteLogin)
		return false
	}
	return true
}

// ------------------ Loaders ------------------

func (d *Dashboard) LoadStats(ctx context.Context) error {
	return loadSnapshot(ctx, d.logger, &d.stats, "stats", d.client.Stats, FallbackStats)
}

func (d *Dashboard) LoadBooks(ctx context.Context) error {
	return loadSnapshot(ctx, d.logger, &d.books, "books", d.client.Books, FallbackBooks)
}

func (d *Dashboard) LoadStudents(ctx context.Context) error {
	return loadSnapshot(ctx, d.logger, &d.students, "students", d.client.Students, FallbackStudents)
}

func (d *Dashboard) LoadBorrowRecords(ctx context.Context) error {
	return loadSnapshot(ctx, d.logger, &d.records, "borrow records", d.client.BorrowRecords, FallbackBorrowRecords)
}

// loadSnapshot runs fetch and commits the result, or the fallback dataset if
// the fetch failed for any reason other than auth or cancellation. Auth
// failures leave the snapshot untouched; the client has already redirected.
func loadSnapshot[T any](ctx context.Context, logger *slog.Logger, s *snapshot[T], resource string,
	fetch func(context.Context) (T, error), fallback func() T) error {
	ctx, gen := s.begin(ctx)
	v, err := fetch(ctx)

	switch {
	case err == nil:
		if !s.commit(gen, v, SourceRemote) {
			return ErrSuperseded
		}
		return nil
	case errors.Is(err, context.Canceled):
		if !s.finish(gen) {
			return ErrSuperseded
		}
		return err
	case IsAuthError(err):
		s.finish(gen)
		return err
	default:
		logger.Warn("fetch failed, showing sample data", "resource", resource, "err", err)
		if !s.commit(gen, fallback(), SourceFallback) {
			return ErrSuperseded
		}
		return nil
	}
}

// ------------------ Accessors ------------------

func (d *Dashboard) Stats() (Stats, Source)                  { return d.stats.get() }
func (d *Dashboard) Books() ([]Book, Source)                 { return d.books.get() }
func (d *Dashboard) Students() ([]Student, Source)           { return d.students.get() }
func (d *Dashboard) BorrowRecords() ([]BorrowRecord, Source) { return d.records.get() }
