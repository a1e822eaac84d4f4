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
	"github.com/trainingops/trainingops/internal/app/services"
	"github.com/trainingops/trainingops/internal/middleware"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
)

// EngagementController handles engagement registry operations, stats and
// calendar export.
type EngagementController struct {
	engagementService services.EngagementService
	authz             *appauth.AuthorizationService
}

// NewEngagementController creates a new EngagementController
func NewEngagementController(engagementService services.EngagementService, authz *appauth.AuthorizationService) *EngagementController {
	return &EngagementController{
		engagementService: engagementService,
		authz:             authz,
	}
}

func engagementFromRequest(id, clientID int64, title string, description *string, state, timezone string) *models.Engagement {
	return &models.Engagement{
		ID:          id,
		ClientID:    clientID,
		Title:       title,
		Description: description,
		State:       state,
		Timezone:    timezone,
	}
}

// CreateEngagement creates an engagement
// @Summary Create engagement
// @Tags engagements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEngagementRequest true "Engagement data"
// @Success 201 {object} dto.APIResponse{data=dto.EngagementResponse} "Engagement created"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Router /engagements [post]
func (c *EngagementController) CreateEngagement(ctx *gin.Context) {
	var req dto.CreateEngagementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid engagement data")
		return
	}

	engagement := engagementFromRequest(0, req.ClientID, req.Title, req.Description, req.State, req.Timezone)
	if err := c.engagementService.CreateEngagement(ctx, engagement); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      toEngagementResponse(engagement),
		Timestamp: time.Now(),
	})
}

// GetEngagementByID retrieves an engagement with its client
// @Summary Get engagement
// @Tags engagements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementResponse} "Engagement"
// @Failure 404 {object} dto.ErrorResponse "Engagement not found"
// @Router /engagements/{id} [get]
func (c *EngagementController) GetEngagementByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	engagement, err := c.engagementService.GetEngagementByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      toEngagementResponse(engagement),
		Timestamp: time.Now(),
	})
}

// GetAllEngagements lists engagements
// @Summary List engagements
// @Description Lists engagements with their clients, optionally filtered by client and search term
// @Tags engagements
// @Produce json
// @Security BearerAuth
// @Param clientId query int false "Filter by client ID"
// @Param search query string false "Title or client name filter"
// @Success 200 {object} dto.APIResponse{data=[]dto.EngagementResponse} "Engagements"
// @Router /engagements [get]
func (c *EngagementController) GetAllEngagements(ctx *gin.Context) {
	var clientID *int64
	if raw := ctx.Query("clientId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid clientId parameter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		clientID = &id
	}
	search := helpers.StringPtrOrNil(ctx.Query("search"))

	engagements, err := c.engagementService.GetAllEngagements(ctx, clientID, search)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.EngagementResponse, 0, len(engagements))
	for _, e := range engagements {
		out = append(out, toEngagementResponse(e))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      out,
		Timestamp: time.Now(),
	})
}

// UpdateEngagement updates an engagement
// @Summary Update engagement
// @Tags engagements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Param request body dto.UpdateEngagementRequest true "Engagement data"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementResponse} "Engagement updated"
// @Failure 404 {object} dto.ErrorResponse "Engagement or client not found"
// @Router /engagements/{id} [put]
func (c *EngagementController) UpdateEngagement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEngagementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid engagement data")
		return
	}

	engagement := engagementFromRequest(id, req.ClientID, req.Title, req.Description, req.State, req.Timezone)
	if err := c.engagementService.UpdateEngagement(ctx, engagement); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      toEngagementResponse(engagement),
		Timestamp: time.Now(),
	})
}

// DeleteEngagement deletes an engagement
// @Summary Delete engagement
// @Description Deletes an engagement; its events are removed by cascade
// @Tags engagements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Engagement deleted"
// @Failure 404 {object} dto.ErrorResponse "Engagement not found"
// @Router /engagements/{id} [delete]
func (c *EngagementController) DeleteEngagement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.engagementService.DeleteEngagement(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "Engagement deleted"},
		Timestamp: time.Now(),
	})
}

// GetStats aggregates hours and event counts of an engagement
// @Summary Engagement stats
// @Description Returns optioned/confirmed hours and event counts of the engagement
// @Tags engagements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Success 200 {object} dto.APIResponse{data=dto.EngagementStatsResponse} "Stats"
// @Failure 404 {object} dto.ErrorResponse "Engagement not found"
// @Router /engagements/{id}/stats [get]
func (c *EngagementController) GetStats(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	stats, err := c.engagementService.GetStats(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      toEngagementStatsResponse(stats),
		Timestamp: time.Now(),
	})
}

// ExportICal serves the engagement calendar as an .ics file
// @Summary Export iCal
// @Description Serves the engagement's events as an iCalendar file in the engagement's timezone. Instructors get only their own events.
// @Tags engagements
// @Produce text/calendar
// @Security BearerAuth
// @Param id path int true "Engagement ID"
// @Success 200 {string} string "iCalendar document"
// @Failure 403 {object} dto.ErrorResponse "No access to this engagement"
// @Failure 404 {object} dto.ErrorResponse "Engagement not found"
// @Router /engagements/{id}/calendar.ics [get]
func (c *EngagementController) ExportICal(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	role, _ := middleware.CurrentUserRole(ctx)
	if err := c.authz.RequireEngagementAccess(ctx, userID, role, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var instructorID *int64
	if role == models.RoleInstructor {
		insID, err := c.authz.InstructorID(ctx, userID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		instructorID = &insID
	}

	ical, err := c.engagementService.ExportICal(ctx, id, instructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=engagement_%d.ics", id))
	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ical))
}

// GetMyEngagements lists the engagements the authenticated instructor works on
// @Summary My engagements
// @Description Lists engagements where the authenticated instructor has at least one assigned event
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EngagementResponse} "Engagements"
// @Failure 403 {object} dto.ErrorResponse "Account has no instructor profile"
// @Router /me/engagements [get]
func (c *EngagementController) GetMyEngagements(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	instructorID, err := c.authz.InstructorID(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	engagements, err := c.engagementService.GetEngagementsForInstructor(ctx, instructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.EngagementResponse, 0, len(engagements))
	for _, e := range engagements {
		out = append(out, toEngagementResponse(e))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      out,
		Timestamp: time.Now(),
	})
}
