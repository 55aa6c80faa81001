package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/pkg/calendar"
	"github.com/pagecraft/pagecraft/pkg/eventbus"
	"github.com/pagecraft/pagecraft/pkg/events"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/otelhelper"
	"github.com/pagecraft/pagecraft/pkg/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Scheduling is the scheduling engine. Every mutation performs one read and one
// conditional write against the content store.
type Scheduling struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger
	now         func() time.Time
}

type SchedulingOption func(*Scheduling)

// WithClock replaces the wall clock used for the "publish date in the future" check.
func WithClock(now func() time.Time) SchedulingOption {
	return func(s *Scheduling) {
		s.now = now
	}
}

// WithEventPublisher makes the engine emit lifecycle events after each successful write.
func WithEventPublisher(publisher eventbus.EventPublisher) SchedulingOption {
	return func(s *Scheduling) {
		s.publisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) SchedulingOption {
	return func(s *Scheduling) {
		s.tracer = tracer
	}
}

func WithLogger(logger *slog.Logger) SchedulingOption {
	return func(s *Scheduling) {
		s.logger = logger
	}
}

// NewScheduling creates a new scheduling engine.
func NewScheduling(persistence persistence.Persistence, opts ...SchedulingOption) *Scheduling {
	s := &Scheduling{
		persistence: persistence,
		tracer:      otelhelper.NoopTracer(),
		logger:      slog.Default(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ScheduleContentAt moves draft content to scheduled, or replaces the schedule of
// already scheduled content. Any previous recurrence is dropped.
func (s *Scheduling) ScheduleContentAt(ctx context.Context, contentID string, publishDate time.Time, timezone string) (*models.SocialContent, error) {
	const op = "ScheduleContentAt"

	ctx, span := s.startSpan(ctx, op, contentID)
	defer span.End()

	err := s.validatePublishDate(publishDate)
	if err == nil {
		err = validateTimezone(timezone)
	}

	if err != nil {
		otelhelper.SetError(span, err)

		return nil, newServiceError(op, err)
	}

	_, updated, err := s.apply(ctx, op, models.OperationSchedule, contentID, func(next *models.SocialContent) error {
		next.Schedule = &models.Schedule{
			PublishDate: publishDate,
			Timezone:    timezone,
		}

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.publish(ctx, updated, events.ContentScheduled{
		BaseEvent:   events.NewBaseEvent(newEventID(), events.ContentScheduledEvent, updated),
		PublishDate: publishDate,
		Timezone:    timezone,
		Platforms:   events.PlatformsOf(updated),
	})

	return updated, nil
}

// RescheduleContent moves the publish date of scheduled content, keeping its timezone
// and recurrence.
func (s *Scheduling) RescheduleContent(ctx context.Context, contentID string, publishDate time.Time) (*models.SocialContent, error) {
	const op = "RescheduleContent"

	ctx, span := s.startSpan(ctx, op, contentID)
	defer span.End()

	if err := s.validatePublishDate(publishDate); err != nil {
		otelhelper.SetError(span, err)

		return nil, newServiceError(op, err)
	}

	previous, updated, err := s.apply(ctx, op, models.OperationReschedule, contentID, func(next *models.SocialContent) error {
		next.Schedule.PublishDate = publishDate

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.publish(ctx, updated, events.ContentRescheduled{
		BaseEvent:           events.NewBaseEvent(newEventID(), events.ContentRescheduledEvent, updated),
		PreviousPublishDate: previous.Schedule.PublishDate,
		PublishDate:         publishDate,
	})

	return updated, nil
}

// CancelScheduledContent returns scheduled content to draft and clears its schedule.
func (s *Scheduling) CancelScheduledContent(ctx context.Context, contentID string) (*models.SocialContent, error) {
	const op = "CancelScheduledContent"

	ctx, span := s.startSpan(ctx, op, contentID)
	defer span.End()

	previous, updated, err := s.apply(ctx, op, models.OperationCancel, contentID, func(next *models.SocialContent) error {
		next.Schedule = nil

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.publish(ctx, updated, events.ContentScheduleCancelled{
		BaseEvent:           events.NewBaseEvent(newEventID(), events.ContentScheduleCancelledEvent, updated),
		PreviousPublishDate: previous.Schedule.PublishDate,
	})

	return updated, nil
}

// SetupRecurringSchedule attaches a recurrence to scheduled content. The pattern is
// validated before the store is touched; the end date, which needs the stored publish
// date, is checked before the write.
func (s *Scheduling) SetupRecurringSchedule(ctx context.Context, contentID string, recurrence models.Recurrence) (*models.SocialContent, error) {
	const op = "SetupRecurringSchedule"

	ctx, span := s.startSpan(ctx, op, contentID)
	defer span.End()

	if err := recurrence.Validate(); err != nil {
		otelhelper.SetError(span, err)

		return nil, newServiceError(op, err)
	}

	_, updated, err := s.apply(ctx, op, models.OperationSetRecurrence, contentID, func(next *models.SocialContent) error {
		if recurrence.EndDate != nil && !recurrence.EndDate.After(next.Schedule.PublishDate) {
			return ErrEndDateBeforeStart
		}

		pattern := recurrence
		next.Schedule.Recurrence = &pattern

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.publish(ctx, updated, events.ContentRecurrenceSet{
		BaseEvent:  events.NewBaseEvent(newEventID(), events.ContentRecurrenceSetEvent, updated),
		Recurrence: *updated.Schedule.Recurrence,
		DaysOfWeek: updated.Schedule.Recurrence.EffectiveDaysOfWeek(),
	})

	return updated, nil
}

// CalendarRequest selects the scheduled content shown by one calendar view.
type CalendarRequest struct {
	WorkspaceID string
	View        calendar.View
	Date        time.Time
	Platforms   []models.Platform
}

type CalendarResult struct {
	View    calendar.View    `json:"view"`
	Window  calendar.Window  `json:"window"`
	Buckets calendar.Buckets `json:"buckets"`
}

// Calendar computes the window for the request, queries scheduled content inside it and
// groups the result by calendar date.
func (s *Scheduling) Calendar(ctx context.Context, req CalendarRequest) (*CalendarResult, error) {
	const op = "Calendar"

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "services.Scheduling "+op,
		attribute.String(otelhelper.WorkspaceIDKey, req.WorkspaceID),
		attribute.String(otelhelper.ViewKey, string(req.View)),
	)
	defer span.End()

	if req.WorkspaceID == "" {
		otelhelper.SetError(span, ErrWorkspaceRequired)

		return nil, newServiceError(op, ErrWorkspaceRequired)
	}

	view := req.View
	if view == "" {
		view = calendar.ViewMonth
	}

	if !view.IsValid() {
		otelhelper.SetError(span, calendar.ErrInvalidView)

		return nil, newServiceError(op, calendar.ErrInvalidView)
	}

	window := calendar.WindowFor(view, req.Date)

	contents, err := s.persistence.ContentRepository().Query(ctx, persistence.ContentQuery{
		WorkspaceID:   req.WorkspaceID,
		Status:        models.ContentStatusScheduled,
		PublishAfter:  window.Start,
		PublishBefore: window.End,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, newServiceError(op, fmt.Errorf("failed to query scheduled content: %w", err))
	}

	return &CalendarResult{
		View:    view,
		Window:  window,
		Buckets: calendar.Group(contents, req.Platforms),
	}, nil
}

// DayBucket returns the scheduled content bucketed under the calendar date of date. The
// result is empty, never nil, when nothing is scheduled.
func (s *Scheduling) DayBucket(ctx context.Context, workspaceID string, date time.Time, platforms []models.Platform) ([]*models.SocialContent, error) {
	result, err := s.Calendar(ctx, CalendarRequest{
		WorkspaceID: workspaceID,
		View:        calendar.ViewDay,
		Date:        date,
		Platforms:   platforms,
	})
	if err != nil {
		return nil, err
	}

	return result.Buckets.For(calendar.DateKey(date)), nil
}

// apply loads content, checks that op is allowed from its status, lets change edit a copy
// and writes the copy back conditioned on the version that was read.
func (s *Scheduling) apply(
	ctx context.Context,
	opName string,
	op models.Operation,
	contentID string,
	change func(next *models.SocialContent) error,
) (*models.SocialContent, *models.SocialContent, error) {
	repo := s.persistence.ContentRepository()

	current, err := repo.ByID(ctx, contentID)
	if err != nil {
		return nil, nil, newServiceError(opName, err)
	}

	status, err := models.Transition(current.Status, op)
	if err != nil {
		return nil, nil, newServiceError(opName, err)
	}

	if current.Status == models.ContentStatusScheduled && current.Schedule == nil {
		return nil, nil, newServiceError(opName, fmt.Errorf("%w: scheduled content %s has no schedule", models.ErrInvalidContent, current.ID))
	}

	next := current.Clone()
	next.Status = status

	if err := change(next); err != nil {
		return nil, nil, newServiceError(opName, err)
	}

	updated, err := repo.Update(ctx, next, current.Version)
	if err != nil {
		return nil, nil, newServiceError(opName, err)
	}

	s.logger.InfoContext(ctx, "Content updated",
		"operation", op,
		"content_id", updated.ID,
		"workspace_id", updated.WorkspaceID,
		"status", updated.Status,
		"version", updated.Version,
	)

	return current, updated, nil
}

// publish emits a lifecycle event. The write already happened, so failures are logged
// and not returned.
func (s *Scheduling) publish(ctx context.Context, content *models.SocialContent, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, content.ID, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish content event",
			"event_type", event.GetType(),
			"content_id", content.ID,
			"error", err,
		)
	}
}

func (s *Scheduling) validatePublishDate(publishDate time.Time) error {
	if publishDate.IsZero() {
		return ErrPublishDateMissing
	}

	if !publishDate.After(s.now()) {
		return ErrPublishDateInPast
	}

	return nil
}

// nolint:spancheck // callers end the span
func (s *Scheduling) startSpan(ctx context.Context, op, contentID string) (context.Context, trace.Span) {
	return otelhelper.StartSpan(ctx, s.tracer, "services.Scheduling "+op,
		attribute.String(otelhelper.ContentIDKey, contentID),
		attribute.String(otelhelper.OperationKey, op),
	)
}

func validateTimezone(timezone string) error {
	if timezone == "" {
		return ErrInvalidTimezone
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}

	return nil
}

func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
