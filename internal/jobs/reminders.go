package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mealbridge/api/internal/model"
	"github.com/mealbridge/api/internal/service"
)

// ScheduledRequestLister finds scheduled event requests in a date window
type ScheduledRequestLister interface {
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*model.EventRequest, error)
}

// SystemMessenger posts system messages into request conversations
type SystemMessenger interface {
	PostSystemMessage(ctx context.Context, requestID, senderID, body string) error
}

// UserGetter resolves user records for liaison email lookups
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// systemSenderID marks messages posted by the reminder job rather than a user
const systemSenderID = "system"

// ReminderProcessor reminds liaisons about upcoming scheduled events. It
// posts into the request's conversation and emails the liaison.
type ReminderProcessor struct {
	requests  ScheduledRequestLister
	messenger SystemMessenger
	users     UserGetter
	mailer    service.Mailer
	logger    *slog.Logger

	interval  time.Duration
	lookahead time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup

	mu       sync.Mutex
	running  bool
	reminded map[string]bool // request IDs already reminded this process
}

// ReminderProcessorConfig holds configuration for the reminder processor
type ReminderProcessorConfig struct {
	Requests  ScheduledRequestLister
	Messenger SystemMessenger
	Users     UserGetter
	Mailer    service.Mailer
	Logger    *slog.Logger
	Interval  time.Duration // default 1h
	Lookahead time.Duration // default 24h
}

// NewReminderProcessor creates a new reminder processor
func NewReminderProcessor(cfg ReminderProcessorConfig) *ReminderProcessor {
	interval := cfg.Interval
	if interval == 0 {
		interval = time.Hour
	}
	lookahead := cfg.Lookahead
	if lookahead == 0 {
		lookahead = 24 * time.Hour
	}
	return &ReminderProcessor{
		requests:  cfg.Requests,
		messenger: cfg.Messenger,
		users:     cfg.Users,
		mailer:    cfg.Mailer,
		logger:    cfg.Logger,
		interval:  interval,
		lookahead: lookahead,
		stopCh:    make(chan struct{}),
		reminded:  map[string]bool{},
	}
}

// Start begins the reminder loop
func (p *ReminderProcessor) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()
	p.logger.Info("reminder processor started", "interval", p.interval, "lookahead", p.lookahead)
}

// Stop gracefully stops the reminder loop
func (p *ReminderProcessor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
	p.logger.Info("reminder processor stopped")
}

// IsRunning reports whether the processor loop is active
func (p *ReminderProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *ReminderProcessor) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := p.RunOnce(ctx); err != nil {
				p.logger.Error("reminder pass failed", "error", err)
			}
			cancel()
		case <-p.stopCh:
			return
		}
	}
}

// RunOnce executes a single reminder pass. Each request is reminded at most
// once per process lifetime.
func (p *ReminderProcessor) RunOnce(ctx context.Context) error {
	now := time.Now()
	requests, err := p.requests.ListScheduledBetween(ctx, now, now.Add(p.lookahead))
	if err != nil {
		return err
	}

	for _, req := range requests {
		p.mu.Lock()
		seen := p.reminded[req.ID]
		if !seen {
			p.reminded[req.ID] = true
		}
		p.mu.Unlock()
		if seen {
			continue
		}

		body := fmt.Sprintf("Reminder: %s event on %s for %d attendees.",
			req.OrgName, req.EventDate.Format("Mon Jan 2 15:04"), req.ExpectedAttendees)

		if err := p.messenger.PostSystemMessage(ctx, req.ID, systemSenderID, body); err != nil {
			p.logger.Error("failed to post reminder message", "request_id", req.ID, "error", err)
		}

		if req.LiaisonID != nil {
			p.emailLiaison(ctx, req, body)
		}
	}
	return nil
}

func (p *ReminderProcessor) emailLiaison(ctx context.Context, req *model.EventRequest, body string) {
	liaison, err := p.users.GetByID(ctx, *req.LiaisonID)
	if err != nil || liaison == nil {
		p.logger.Warn("liaison lookup failed for reminder", "request_id", req.ID)
		return
	}

	subject := fmt.Sprintf("Upcoming event: %s", req.OrgName)
	if err := p.mailer.Send(liaison.Email, subject, body); err != nil {
		p.logger.Error("failed to email liaison", "request_id", req.ID, "error", err)
	}
}
