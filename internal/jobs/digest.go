package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
	"golang.org/x/sync/errgroup"
)

// digestMailConcurrency caps parallel SMTP sends per digest run
const digestMailConcurrency = 4

// StatsProvider produces collection totals for a date range
type StatsProvider interface {
	Stats(ctx context.Context, from, to *time.Time) (*model.CollectionStats, error)
}

// StaffLister returns the coordinators and admins who receive the digest
type StaffLister interface {
	ListStaff(ctx context.Context) ([]*model.User, error)
}

// WeeklyDigest emails staff a summary of the past week's collections
type WeeklyDigest struct {
	stats  StatsProvider
	staff  StaffLister
	mailer service.Mailer
	logger *slog.Logger

	interval time.Duration

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// WeeklyDigestConfig holds configuration for the weekly digest job
type WeeklyDigestConfig struct {
	Stats    StatsProvider
	Staff    StaffLister
	Mailer   service.Mailer
	Logger   *slog.Logger
	Interval time.Duration // default 7 days
}

// NewWeeklyDigest creates a new weekly digest job
func NewWeeklyDigest(cfg WeeklyDigestConfig) *WeeklyDigest {
	interval := cfg.Interval
	if interval == 0 {
		interval = 7 * 24 * time.Hour
	}
	return &WeeklyDigest{
		stats:    cfg.Stats,
		staff:    cfg.Staff,
		mailer:   cfg.Mailer,
		logger:   cfg.Logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the digest loop
func (d *WeeklyDigest) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.wg.Add(1)
	go d.run()
	d.logger.Info("weekly digest started", "interval", d.interval)
}

// Stop gracefully stops the digest loop
func (d *WeeklyDigest) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()
	d.logger.Info("weekly digest stopped")
}

func (d *WeeklyDigest) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if err := d.RunOnce(ctx); err != nil {
				d.logger.Error("digest run failed", "error", err)
			}
			cancel()
		case <-d.stopCh:
			return
		}
	}
}

// RunOnce builds the digest for the past week and fans the email out to
// staff, a few sends at a time
func (d *WeeklyDigest) RunOnce(ctx context.Context) error {
	to := time.Now()
	from := to.AddDate(0, 0, -7)

	stats, err := d.stats.Stats(ctx, &from, &to)
	if err != nil {
		return fmt.Errorf("failed to build digest stats: %w", err)
	}

	staff, err := d.staff.ListStaff(ctx)
	if err != nil {
		return fmt.Errorf("failed to list digest recipients: %w", err)
	}
	if len(staff) == 0 {
		return nil
	}

	subject := fmt.Sprintf("MealBridge weekly digest: %d sandwiches", stats.TotalSandwiches)
	body := formatDigest(stats, from, to)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(digestMailConcurrency)
	for _, user := range staff {
		g.Go(func() error {
			if err := d.mailer.Send(user.Email, subject, body); err != nil {
				// One bad address should not sink the whole digest
				d.logger.Error("digest send failed", "email", user.Email, "error", err)
			}
			return ctx.Err()
		})
	}
	return g.Wait()
}

func formatDigest(stats *model.CollectionStats, from, to time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Collections from %s to %s\n\n", from.Format("Jan 2"), to.Format("Jan 2"))
	fmt.Fprintf(&b, "Total sandwiches: %d across %d records\n\n", stats.TotalSandwiches, stats.TotalRecords)

	if len(stats.PerHost) > 0 {
		b.WriteString("By host:\n")
		for _, h := range stats.PerHost {
			name := h.HostName
			if name == "" {
				name = h.HostID
			}
			fmt.Fprintf(&b, "  %s: %d sandwiches (%d records)\n", name, h.Sandwiches, h.Records)
		}
	}
	return b.String()
}
