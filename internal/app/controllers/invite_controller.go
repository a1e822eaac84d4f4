package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trainingops/trainingops/internal/app/models/dto"
	"github.com/trainingops/trainingops/internal/app/services"
	"github.com/trainingops/trainingops/internal/middleware"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

// InviteController handles the invite lifecycle: admin creation and
// revocation plus the public registration flow.
type InviteController struct {
	inviteService services.InviteService
	authService   services.AuthService
}

// NewInviteController creates a new InviteController
func NewInviteController(inviteService services.InviteService, authService services.AuthService) *InviteController {
	return &InviteController{
		inviteService: inviteService,
		authService:   authService,
	}
}

// CreateInvite creates a registration invite
// @Summary Create invite
// @Description Creates a single-use registration invite with a URL token and an out-of-band code
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInviteRequest true "Invite options"
// @Success 201 {object} dto.APIResponse{data=dto.InviteResponse} "Invite created"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /invites [post]
func (c *InviteController) CreateInvite(ctx *gin.Context) {
	var req dto.CreateInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid invite data")
		return
	}

	invite, err := c.inviteService.CreateInvite(ctx, req.ExpiresInDays)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      toInviteResponse(invite),
		Timestamp: time.Now(),
	})
}

// GetAllInvites lists invites
// @Summary List invites
// @Description Lists all invites, newest first, including used and expired ones
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.InviteResponse} "Invites"
// @Router /invites [get]
func (c *InviteController) GetAllInvites(ctx *gin.Context) {
	invites, err := c.inviteService.GetAllInvites(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.InviteResponse, 0, len(invites))
	for _, inv := range invites {
		out = append(out, toInviteResponse(inv))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      out,
		Timestamp: time.Now(),
	})
}

// RevokeInvite deletes an unused invite
// @Summary Revoke invite
// @Description Deletes an invite that has not been redeemed yet
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invite ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Invite revoked"
// @Failure 404 {object} dto.ErrorResponse "Invite not found"
// @Failure 409 {object} dto.ErrorResponse "Invite already used"
// @Router /invites/{id} [delete]
func (c *InviteController) RevokeInvite(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.inviteService.RevokeInvite(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "Invite revoked"},
		Timestamp: time.Now(),
	})
}

// CheckInvite reports whether a registration link is still redeemable
// @Summary Check invite
// @Description Public endpoint behind the registration form; reports validity without exposing the code
// @Tags invites
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} dto.APIResponse{data=dto.InviteCheckResponse} "Invite state"
// @Router /register/{token} [get]
func (c *InviteController) CheckInvite(ctx *gin.Context) {
	token := ctx.Param("token")

	_, err := c.inviteService.CheckInvite(ctx, token)
	result := dto.InviteCheckResponse{Valid: err == nil}
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrInviteUsed):
		result.Reason = "invite already used"
	case errors.Is(err, apperrors.ErrInviteExpired):
		result.Reason = "invite expired"
	case errors.Is(err, apperrors.ErrInviteNotFound):
		result.Reason = "invite not found"
	default:
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      result,
		Timestamp: time.Now(),
	})
}

// Register completes a self-registration
// @Summary Register via invite
// @Description Public endpoint redeeming an invite: profile fields plus the mandatory CV PDF as multipart form data
// @Tags invites
// @Accept multipart/form-data
// @Produce json
// @Param token path string true "Invite token"
// @Param code formData string true "Invite code"
// @Param cv formData file true "CV (PDF)"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterViaInviteResponse} "Account created, pending approval"
// @Failure 400 {object} dto.ErrorResponse "Invalid form data, wrong code or rejected CV"
// @Failure 409 {object} dto.ErrorResponse "Invite already used"
// @Failure 410 {object} dto.ErrorResponse "Invite expired"
// @Router /register/{token} [post]
func (c *InviteController) Register(ctx *gin.Context) {
	token := ctx.Param("token")

	var req dto.RegisterViaInviteRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindingError(ctx, err, "Invalid registration data")
		return
	}

	cv, err := ctx.FormFile("cv")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "CV file is required")
		errorDetail = errorDetail.WithField("cv")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.authService.RegisterViaInvite(ctx, token, &req, cv)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success: true,
		Data: dto.RegisterViaInviteResponse{
			Username: user.Username,
			Status:   string(user.Status),
			Message:  "Registration received. An administrator will activate your account.",
		},
		Timestamp: time.Now(),
	})
}
