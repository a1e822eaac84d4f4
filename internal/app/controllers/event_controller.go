package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appauth "github.com/trainingops/trainingops/internal/app/auth"
	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/models/dto"
	"github.com/trainingops/trainingops/internal/app/scheduling"
	"github.com/trainingops/trainingops/internal/app/services"
	"github.com/trainingops/trainingops/internal/middleware"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
)

// EventController handles event scheduling operations
type EventController struct {
	schedulingService services.SchedulingService
	authz             *appauth.AuthorizationService
}

// NewEventController creates a new EventController
func NewEventController(schedulingService services.SchedulingService, authz *appauth.AuthorizationService) *EventController {
	return &EventController{
		schedulingService: schedulingService,
		authz:             authz,
	}
}

func (c *EventController) respondEvents(ctx *gin.Context, status int, events []*models.Event) {
	names, err := c.schedulingService.InstructorNames(ctx, events)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(status, dto.APIResponse{
		Success:   true,
		Data:      toEventResponses(events, names),
		Timestamp: time.Now(),
	})
}

func (c *EventController) respondEvent(ctx *gin.Context, status int, event *models.Event) {
	names, err := c.schedulingService.InstructorNames(ctx, []*models.Event{event})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(status, dto.APIResponse{
		Success:   true,
		Data:      toEventResponse(event, names),
		Timestamp: time.Now(),
	})
}

// CreateEvent creates a single event
// @Summary Create event
// @Description Creates one event in an engagement. Events start without instructors, so no conflict check applies.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created"
// @Failure 400 {object} dto.ErrorResponse "Invalid interval or data"
// @Failure 404 {object} dto.ErrorResponse "Engagement not found"
// @Router /engagements/{id}/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	engagementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid event data")
		return
	}

	actorID, _ := middleware.CurrentUserID(ctx)
	event := &models.Event{
		EngagementID: engagementID,
		Title:        req.Title,
		Notes:        req.Notes,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		Status:       models.EventStatus(req.Status),
	}
	if err := c.schedulingService.CreateEvent(ctx, actorID, event); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondEvent(ctx, http.StatusCreated, event)
}

// CreateEventRange creates one event per day over a date range
// @Summary Create event range
// @Description Creates one event per day from startDate through endDate, all sharing the same time-of-day window. Saturdays and Sundays can be skipped.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Param request body dto.CreateEventRangeRequest true "Range data"
// @Success 201 {object} dto.APIResponse{data=[]dto.EventResponse} "Events created"
// @Failure 400 {object} dto.ErrorResponse "Invalid range"
// @Failure 404 {object} dto.ErrorResponse "Engagement not found"
// @Router /engagements/{id}/events/range [post]
func (c *EventController) CreateEventRange(ctx *gin.Context) {
	engagementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateEventRangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid range data")
		return
	}

	startDate, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		bindingError(ctx, err, "Invalid startDate")
		return
	}
	endDate, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		bindingError(ctx, err, "Invalid endDate")
		return
	}
	startTime, err := scheduling.ParseClockTime(req.StartTime)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	endTime, err := scheduling.ParseClockTime(req.EndTime)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	actorID, _ := middleware.CurrentUserID(ctx)
	events, err := c.schedulingService.CreateEventRange(ctx, actorID, engagementID, services.RangeSpec{
		Title:           req.Title,
		Notes:           req.Notes,
		Status:          models.EventStatus(req.Status),
		StartDate:       startDate,
		EndDate:         endDate,
		StartTime:       startTime,
		EndTime:         endTime,
		ExcludeWeekends: req.ExcludeWeekends,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondEvents(ctx, http.StatusCreated, events)
}

// ListEvents lists an engagement's events
// @Summary List events
// @Description Lists the engagement's events ordered by start, optionally filtered by assigned instructor and time window
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Param instructorId query int false "Filter by assigned instructor"
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse} "Events"
// @Failure 404 {object} dto.ErrorResponse "Engagement not found"
// @Router /engagements/{id}/events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	engagementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var instructorID *int64
	if raw := ctx.Query("instructorId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid instructorId parameter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		instructorID = &id
	}
	from, ok := parseTimeQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(ctx, "to")
	if !ok {
		return
	}

	events, err := c.schedulingService.ListEvents(ctx, engagementID, instructorID, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondEvents(ctx, http.StatusOK, events)
}

// GetEventByID retrieves an event with its roster
// @Summary Get event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetEventByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	event, err := c.schedulingService.GetEvent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondEvent(ctx, http.StatusOK, event)
}

// UpdateEvent updates an event and its full roster
// @Summary Update event
// @Description Replaces the event's fields and instructor roster. The new roster is validated against the calendar; any double booking rejects the edit with a structured 409 report.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event data"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse} "Event updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid interval or data"
// @Failure 404 {object} dto.ErrorResponse "Event or instructor not found"
// @Failure 409 {object} dto.ErrorResponse "Schedule conflict"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid event data")
		return
	}

	actorID, _ := middleware.CurrentUserID(ctx)
	event := &models.Event{
		ID:            id,
		Title:         req.Title,
		Notes:         req.Notes,
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		Status:        models.EventStatus(req.Status),
		InstructorIDs: req.InstructorIDs,
	}
	updated, err := c.schedulingService.UpdateEvent(ctx, actorID, event)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondEvent(ctx, http.StatusOK, updated)
}

// BulkAssign adds instructors to a selection of events
// @Summary Bulk assign instructors
// @Description Adds the given instructors to every selected event. Assignment is idempotent per event. Conflicts against existing bookings reject the whole batch.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Param request body dto.BulkAssignRequest true "Selection"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResultResponse} "Instructors assigned"
// @Failure 404 {object} dto.ErrorResponse "Event or instructor not found"
// @Failure 409 {object} dto.ErrorResponse "Schedule conflict"
// @Router /engagements/{id}/events/assign [post]
func (c *EventController) BulkAssign(ctx *gin.Context) {
	engagementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.BulkAssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid assignment data")
		return
	}

	actorID, _ := middleware.CurrentUserID(ctx)
	eventIDs, err := c.schedulingService.BulkAssign(ctx, actorID, engagementID, req.EventIDs, req.InstructorIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data: dto.BulkResultResponse{
			Affected: int64(len(eventIDs)),
			EventIDs: eventIDs,
		},
		Timestamp: time.Now(),
	})
}

// BulkUpdate retimes and rewrites a selection of events atomically
// @Summary Bulk update events
// @Description Applies optional field overrides, an optional roster replacement and one time transform (shift, time-of-day reset or absolute) to the selection. The plan is validated against the calendar and against itself before anything is written.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Param request body dto.BulkUpdateRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse} "Events updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid transform or resulting interval"
// @Failure 404 {object} dto.ErrorResponse "Event not found in engagement"
// @Failure 409 {object} dto.ErrorResponse "Schedule conflict"
// @Router /engagements/{id}/events/bulk [put]
func (c *EventController) BulkUpdate(ctx *gin.Context) {
	engagementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.BulkUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid bulk update data")
		return
	}

	change, err := bulkChangeFromRequest(&req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var status *models.EventStatus
	if req.Status != nil {
		s := models.EventStatus(*req.Status)
		status = &s
	}

	actorID, _ := middleware.CurrentUserID(ctx)
	events, err := c.schedulingService.BulkUpdate(ctx, actorID, engagementID, req.EventIDs, change, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondEvents(ctx, http.StatusOK, events)
}

// BulkDelete removes a selection of events
// @Summary Bulk delete events
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Param request body dto.BulkDeleteRequest true "Selection"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResultResponse} "Events deleted"
// @Failure 404 {object} dto.ErrorResponse "Event not found in engagement"
// @Router /engagements/{id}/events/bulk [delete]
func (c *EventController) BulkDelete(ctx *gin.Context) {
	engagementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.BulkDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid bulk delete data")
		return
	}

	actorID, _ := middleware.CurrentUserID(ctx)
	deleted, err := c.schedulingService.BulkDelete(ctx, actorID, engagementID, req.EventIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data: dto.BulkResultResponse{
			Affected: deleted,
			EventIDs: req.EventIDs,
		},
		Timestamp: time.Now(),
	})
}

// GetMyEvents lists the authenticated instructor's events
// @Summary My events
// @Description Lists every event the authenticated instructor is assigned to, across engagements, optionally filtered by time window
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse} "Events"
// @Failure 403 {object} dto.ErrorResponse "Account has no instructor profile"
// @Router /me/events [get]
func (c *EventController) GetMyEvents(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	instructorID, err := c.authz.InstructorID(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	from, ok := parseTimeQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(ctx, "to")
	if !ok {
		return
	}

	events, err := c.schedulingService.ListInstructorEvents(ctx, instructorID, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondEvents(ctx, http.StatusOK, events)
}

// GetMyEngagementEvents lists the instructor's events inside one engagement
// @Summary My events in an engagement
// @Description Lists the authenticated instructor's events inside one engagement. Requires at least one assignment there.
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse} "Events"
// @Failure 403 {object} dto.ErrorResponse "No assignment in this engagement"
// @Router /me/engagements/{id}/events [get]
func (c *EventController) GetMyEngagementEvents(ctx *gin.Context) {
	engagementID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	role, _ := middleware.CurrentUserRole(ctx)
	if err := c.authz.RequireEngagementAccess(ctx, userID, role, engagementID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	instructorID, err := c.authz.InstructorID(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	from, ok := parseTimeQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(ctx, "to")
	if !ok {
		return
	}

	events, err := c.schedulingService.ListEvents(ctx, engagementID, &instructorID, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondEvents(ctx, http.StatusOK, events)
}

// bulkChangeFromRequest maps the wire form onto the planner's change set.
func bulkChangeFromRequest(req *dto.BulkUpdateRequest) (scheduling.BulkChange, error) {
	change := scheduling.BulkChange{}

	if req.Title != nil {
		change.ApplyTitle = true
		change.Title = *req.Title
	}
	if req.Notes != nil {
		change.ApplyNotes = true
		change.Notes = req.Notes
	}
	if req.InstructorIDs != nil {
		change.ApplyRoster = true
		change.RosterIDs = *req.InstructorIDs
	}

	switch req.TimeMode {
	case "", dto.BulkTimeModeNone:
	case dto.BulkTimeModeShift:
		change.ShiftDays = req.ShiftDays
		change.ShiftMinutes = req.ShiftMinutes
	case dto.BulkTimeModeTimeOnly:
		start, err := scheduling.ParseClockTime(req.StartTime)
		if err != nil {
			return change, err
		}
		end, err := scheduling.ParseClockTime(req.EndTime)
		if err != nil {
			return change, err
		}
		change.ApplyTimeOnly = true
		change.TimeStart = start
		change.TimeEnd = end
	case dto.BulkTimeModeAbsolute:
		if req.StartAt == nil || req.EndAt == nil {
			return change, fmt.Errorf("%w: absolute mode requires startAt and endAt", apperrors.ErrValidationFailed)
		}
		change.ApplyAbsolute = true
		change.AbsStart = *req.StartAt
		change.AbsEnd = *req.EndAt
	}
	return change, nil
}
