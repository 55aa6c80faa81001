// Package dispatcher announces scheduled content whose publish date has passed.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/pkg/eventbus"
	"github.com/pagecraft/pagecraft/pkg/events"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
	"github.com/robfig/cron/v3"
)

const (
	// DefaultSpec polls once a minute.
	DefaultSpec = "@every 1m"

	// DefaultGrace is how far each poll reaches back behind the previous one.
	DefaultGrace = time.Minute
)

var (
	ErrSpecRequired   = errors.New("dispatch spec is required")
	ErrAlreadyStarted = errors.New("dispatcher already started")
	ErrPersistenceNil = errors.New("dispatcher requires a persistence layer")
	ErrPublisherNil   = errors.New("dispatcher requires an event publisher")
	ErrNegativeGrace  = errors.New("dispatch grace must not be negative")
)

// Dispatcher emits a content.due event for every scheduled item whose publish date is at
// or before the current time. It never changes content status; that belongs to the
// publishing side, which consumes the events.
type Dispatcher struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	spec        string
	lookback    time.Duration
	grace       time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu         sync.Mutex
	cron       *cron.Cron
	watermark  time.Time
	dispatched map[string]time.Time
}

type Option func(*Dispatcher)

func WithSpec(spec string) Option {
	return func(d *Dispatcher) {
		d.spec = spec
	}
}

// WithLookback limits the first poll to content due within the given duration.
// Zero means every overdue scheduled item is announced on the first poll.
func WithLookback(lookback time.Duration) Option {
	return func(d *Dispatcher) {
		d.lookback = lookback
	}
}

// WithGrace widens every bounded poll backwards by grace, so content committed
// late or by a host with a lagging clock is still announced. Items already announced for
// the same publish date are skipped.
func WithGrace(grace time.Duration) Option {
	return func(d *Dispatcher) {
		d.grace = grace
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func New(persistence persistence.Persistence, publisher eventbus.EventPublisher, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		persistence: persistence,
		publisher:   publisher,
		spec:        DefaultSpec,
		grace:       DefaultGrace,
		logger:      slog.Default(),
		now:         time.Now,
		dispatched:  make(map[string]time.Time),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.logger = d.logger.With("module", "dispatcher")

	if err := d.Validate(); err != nil {
		return nil, err
	}

	if d.lookback > 0 {
		d.watermark = d.now().Add(-d.lookback)
	}

	return d, nil
}

func (d *Dispatcher) Validate() error {
	if d.persistence == nil {
		return ErrPersistenceNil
	}

	if d.publisher == nil {
		return ErrPublisherNil
	}

	if d.grace < 0 {
		return ErrNegativeGrace
	}

	if d.spec == "" {
		return ErrSpecRequired
	}

	if _, err := cron.ParseStandard(d.spec); err != nil {
		return fmt.Errorf("invalid dispatch spec: %w", err)
	}

	return nil
}

// Start schedules DispatchDue on the configured spec. The job stops when ctx is done or
// Stop is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cron != nil {
		return ErrAlreadyStarted
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	id, err := c.AddFunc(d.spec, func() {
		if _, err := d.DispatchDue(ctx); err != nil {
			d.logger.ErrorContext(ctx, "Failed to dispatch due content", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add dispatch job: %w", err)
	}

	d.logger.InfoContext(ctx, "Starting dispatcher", "spec", d.spec, "job_id", id)

	c.Start()
	d.cron = c

	return nil
}

// Stop halts the schedule and waits for a running poll to finish or ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	c := d.cron
	d.cron = nil
	d.mu.Unlock()

	if c == nil {
		return nil
	}

	d.logger.InfoContext(ctx, "Stopping dispatcher")

	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DispatchDue runs one poll and returns how many content.due events were published.
// Items are announced once per publish date; a rescheduled item is announced again when
// its new date passes.
func (d *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	d.mu.Lock()
	from := d.lowerBound()
	d.mu.Unlock()

	now := d.now()

	due, err := d.persistence.ContentRepository().Query(ctx, persistence.ContentQuery{
		Status:        models.ContentStatusScheduled,
		PublishAfter:  from,
		PublishBefore: now,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query due content: %w", err)
	}

	if len(due) > 0 {
		d.logger.InfoContext(ctx, "Processing due content", "count", len(due))
	}

	next := now
	published := 0

	var errs []error

	for _, content := range due {
		if content.Schedule == nil {
			continue
		}

		publishDate := content.Schedule.PublishDate

		if d.alreadyDispatched(content.ID, publishDate) {
			continue
		}

		err := d.publisher.Publish(ctx, content.ID, events.ContentDue{
			BaseEvent:   events.NewBaseEvent(uuid.NewString(), events.ContentDueEvent, content),
			PublishDate: publishDate,
			Timezone:    content.Schedule.Timezone,
			Platforms:   events.PlatformsOf(content),
		})
		if err != nil {
			d.logger.ErrorContext(ctx, "Failed to publish due event", "content_id", content.ID, "error", err)
			errs = append(errs, err)

			// retry from this item on the next poll
			if publishDate.Before(next) {
				next = publishDate
			}

			continue
		}

		d.markDispatched(content.ID, publishDate)
		published++
	}

	d.advance(next)

	return published, errors.Join(errs...)
}

func (d *Dispatcher) alreadyDispatched(contentID string, publishDate time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	dispatchedDate, ok := d.dispatched[contentID]

	return ok && dispatchedDate.Equal(publishDate)
}

func (d *Dispatcher) markDispatched(contentID string, publishDate time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dispatched[contentID] = publishDate
}

// lowerBound is the earliest publish date the next poll asks for. A zero watermark means
// no lower bound. Callers hold d.mu.
func (d *Dispatcher) lowerBound() time.Time {
	if d.watermark.IsZero() {
		return time.Time{}
	}

	return d.watermark.Add(-d.grace)
}

// advance moves the watermark and forgets items that can no longer be returned by a poll.
func (d *Dispatcher) advance(watermark time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.watermark = watermark
	from := d.lowerBound()

	for id, publishDate := range d.dispatched {
		if publishDate.Before(from) {
			delete(d.dispatched, id)
		}
	}
}
