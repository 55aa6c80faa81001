// Package web provides HTTP handlers and REST API endpoints for the content calendar.
package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/pagecraft/pagecraft/pkg/calendar"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/services"
	"github.com/pagecraft/pagecraft/pkg/statecache"
)

type APIHandlers struct {
	contentService    *services.Content
	schedulingService *services.Scheduling
	stateCache        statecache.Cache
	stateTTL          time.Duration
	validator         *validator.Validate
	now               func() time.Time
}

func NewAPIHandlers(
	contentService *services.Content,
	schedulingService *services.Scheduling,
	stateCache statecache.Cache,
	stateTTL time.Duration,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		contentService:    contentService,
		schedulingService: schedulingService,
		stateCache:        stateCache,
		stateTTL:          stateTTL,
		validator:         validator,
		now:               time.Now,
	}
}

// Register mounts every endpoint on router.
func (h *APIHandlers) Register(router fiber.Router) {
	cal := router.Group("/calendar")
	cal.Get("/", h.GetCalendar)
	cal.Get("/navigate", h.NavigateCalendar)
	cal.Get("/days/:date", h.GetCalendarDay)

	contents := router.Group("/contents")
	contents.Get("/", h.ListContents)
	contents.Post("/", h.CreateContent)
	contents.Get("/:id", h.GetContent)
	contents.Delete("/:id", h.DeleteContent)
	contents.Post("/:id/schedule", h.ScheduleContent)
	contents.Post("/:id/reschedule", h.RescheduleContent)
	contents.Post("/:id/cancel", h.CancelContent)
	contents.Put("/:id/recurrence", h.SetRecurrence)

	oauth := router.Group("/oauth/states")
	oauth.Post("/", h.CreateOAuthState)
	oauth.Post("/:state/consume", h.ConsumeOAuthState)

	router.Get("/health", h.HealthCheck)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.contentService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Pagecraft API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Pagecraft API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetCalendar(c fiber.Ctx) error {
	workspaceID := c.Query("workspace_id")
	if workspaceID == "" {
		return badRequest(c, "workspace_id is required")
	}

	view, err := calendar.ParseView(c.Query("view"))
	if err != nil {
		return badRequest(c, fmt.Sprintf("Invalid view '%s', allowed: month, week, day, list", c.Query("view")))
	}

	loc, err := parseLocation(c.Query("tz"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	date, err := h.parseDate(c.Query("date"), loc)
	if err != nil {
		return badRequest(c, err.Error())
	}

	platforms, err := models.ParsePlatforms(c.Query("platforms"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.schedulingService.Calendar(c.Context(), services.CalendarRequest{
		WorkspaceID: workspaceID,
		View:        view,
		Date:        date,
		Platforms:   platforms,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(CalendarResponse{
		WorkspaceID: workspaceID,
		View:        result.View,
		Date:        date.Format(calendar.DateKeyLayout),
		Window:      result.Window,
		Dates:       result.Buckets.Dates(),
		Buckets:     result.Buckets,
	})
}

// GetCalendarDay returns the bucket of one date. Buckets are keyed by UTC date, so the
// path date is read as a UTC day.
func (h *APIHandlers) GetCalendarDay(c fiber.Ctx) error {
	workspaceID := c.Query("workspace_id")
	if workspaceID == "" {
		return badRequest(c, "workspace_id is required")
	}

	date, err := time.ParseInLocation(calendar.DateKeyLayout, c.Params("date"), time.UTC)
	if err != nil {
		return badRequest(c, "Invalid date, expected YYYY-MM-DD")
	}

	platforms, err := models.ParsePlatforms(c.Query("platforms"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	contents, err := h.schedulingService.DayBucket(c.Context(), workspaceID, date, platforms)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(DayResponse{
		Date:     calendar.DateKey(date),
		Contents: contents,
	})
}

func (h *APIHandlers) NavigateCalendar(c fiber.Ctx) error {
	view, err := calendar.ParseView(c.Query("view"))
	if err != nil {
		return badRequest(c, fmt.Sprintf("Invalid view '%s', allowed: month, week, day, list", c.Query("view")))
	}

	direction, err := calendar.ParseDirection(c.Query("direction"))
	if err != nil {
		return badRequest(c, fmt.Sprintf("Invalid direction '%s', allowed: prev, next, today", c.Query("direction")))
	}

	loc, err := parseLocation(c.Query("tz"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	date, err := h.parseDate(c.Query("date"), loc)
	if err != nil {
		return badRequest(c, err.Error())
	}

	next := calendar.Navigate(date, direction, view, h.now().In(loc))

	return c.JSON(NavigateResponse{
		View:      view,
		Direction: direction,
		Date:      next,
		Window:    calendar.WindowFor(view, next),
	})
}

func (h *APIHandlers) ListContents(c fiber.Ctx) error {
	req := services.ListContentsRequest{
		WorkspaceID: c.Query("workspace_id"),
		Status:      models.ContentStatus(c.Query("status")),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid query parameters: "+err.Error())
		}

		req.Limit = limit
	}

	contents, err := h.contentService.ListContents(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"contents": contents,
		"count":    len(contents),
	})
}

func (h *APIHandlers) CreateContent(c fiber.Ctx) error {
	var req CreateContentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	content := &models.SocialContent{
		WorkspaceID: req.WorkspaceID,
		CreatorID:   req.CreatorID,
		ContentType: req.ContentType,
		Platforms:   req.Platforms,
	}

	created, err := h.contentService.Create(c.Context(), content)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetContent(c fiber.Ctx) error {
	content, err := h.contentService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(content)
}

func (h *APIHandlers) DeleteContent(c fiber.Ctx) error {
	err := h.contentService.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ScheduleContent(c fiber.Ctx) error {
	var req ScheduleContentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	content, err := h.schedulingService.ScheduleContentAt(c.Context(), c.Params("id"), req.PublishDate, req.Timezone)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(content)
}

func (h *APIHandlers) RescheduleContent(c fiber.Ctx) error {
	var req RescheduleContentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	content, err := h.schedulingService.RescheduleContent(c.Context(), c.Params("id"), req.PublishDate)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(content)
}

func (h *APIHandlers) CancelContent(c fiber.Ctx) error {
	content, err := h.schedulingService.CancelScheduledContent(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(content)
}

func (h *APIHandlers) SetRecurrence(c fiber.Ctx) error {
	var req RecurrenceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	content, err := h.schedulingService.SetupRecurringSchedule(c.Context(), c.Params("id"), req.toModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(content)
}

func (h *APIHandlers) CreateOAuthState(c fiber.Ctx) error {
	var req CreateOAuthStateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if !req.Platform.IsValid() {
		return badRequest(c, fmt.Sprintf("Invalid platform '%s'", req.Platform))
	}

	token, err := h.stateCache.Put(c.Context(), statecache.State{
		Platform:    req.Platform,
		WorkspaceID: req.WorkspaceID,
		RedirectURL: req.RedirectURL,
	})
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(OAuthStateResponse{
		State:     token,
		ExpiresIn: int(h.stateTTL.Seconds()),
	})
}

func (h *APIHandlers) ConsumeOAuthState(c fiber.Ctx) error {
	state, err := h.stateCache.Consume(c.Context(), c.Params("state"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(state)
}

// parseDate accepts YYYY-MM-DD (a midnight in loc) or RFC 3339 (converted to loc). An
// empty value means now.
func (h *APIHandlers) parseDate(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return h.now().In(loc), nil
	}

	if date, err := time.ParseInLocation(calendar.DateKeyLayout, raw, loc); err == nil {
		return date, nil
	}

	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s', expected YYYY-MM-DD or RFC 3339", raw)
	}

	return date.In(loc), nil
}

func parseLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s'", tz)
	}

	return loc, nil
}
