package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/models/dto"
	"github.com/trainingops/trainingops/internal/app/services"
	"github.com/trainingops/trainingops/internal/middleware"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
)

// InstructorController handles trainer profile administration
type InstructorController struct {
	instructorService services.InstructorService
}

// NewInstructorController creates a new InstructorController
func NewInstructorController(instructorService services.InstructorService) *InstructorController {
	return &InstructorController{instructorService: instructorService}
}

// CreateInstructor creates a trainer profile
// @Summary Create instructor
// @Description Creates a trainer profile without a login account. Accounts come from the invite flow.
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInstructorRequest true "Profile data"
// @Success 201 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor created"
// @Failure 400 {object} dto.ErrorResponse "Invalid profile data"
// @Router /instructors [post]
func (c *InstructorController) CreateInstructor(ctx *gin.Context) {
	var req dto.CreateInstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid instructor data")
		return
	}

	instructor := instructorFromProfile(req.InstructorProfileFields)
	if err := c.instructorService.CreateInstructor(ctx, instructor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      toInstructorResponse(instructor),
		Timestamp: time.Now(),
	})
}

// GetInstructorByID retrieves a trainer profile
// @Summary Get instructor
// @Description Retrieves a trainer profile with its linked account, when one exists
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [get]
func (c *InstructorController) GetInstructorByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	instructor, err := c.instructorService.GetInstructorByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      toInstructorResponse(instructor),
		Timestamp: time.Now(),
	})
}

// GetAllInstructors lists trainer profiles
// @Summary List instructors
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or email filter"
// @Success 200 {object} dto.APIResponse{data=[]dto.InstructorResponse} "Instructors"
// @Router /instructors [get]
func (c *InstructorController) GetAllInstructors(ctx *gin.Context) {
	search := helpers.StringPtrOrNil(ctx.Query("search"))

	instructors, err := c.instructorService.GetAllInstructors(ctx, search)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      toInstructorResponses(instructors),
		Timestamp: time.Now(),
	})
}

// UpdateInstructor updates a trainer profile
// @Summary Update instructor
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Param request body dto.UpdateInstructorRequest true "Profile data"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor updated"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [put]
func (c *InstructorController) UpdateInstructor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateInstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid instructor data")
		return
	}

	instructor := instructorFromProfile(req.InstructorProfileFields)
	instructor.ID = id
	if err := c.instructorService.UpdateInstructor(ctx, instructor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      toInstructorResponse(instructor),
		Timestamp: time.Now(),
	})
}

// DeleteInstructor deletes a trainer profile
// @Summary Delete instructor
// @Description Deletes a profile, its stored CV and, by cascade, its event assignments and login account
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Instructor deleted"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [delete]
func (c *InstructorController) DeleteInstructor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.instructorService.DeleteInstructor(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "Instructor deleted"},
		Timestamp: time.Now(),
	})
}

// UploadCV uploads or replaces a CV
// @Summary Upload CV
// @Description Stores the instructor's CV. Only PDF files pass; the previous CV, if any, is replaced.
// @Tags instructors
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Param cv formData file true "CV (PDF)"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "CV stored"
// @Failure 400 {object} dto.ErrorResponse "File is not a valid PDF"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id}/cv [post]
func (c *InstructorController) UploadCV(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("cv")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "CV file is required")
		errorDetail = errorDetail.WithField("cv")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.instructorService.UploadCV(ctx, id, file); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "CV stored"},
		Timestamp: time.Now(),
	})
}

// DownloadCV serves the stored CV
// @Summary Download CV
// @Tags instructors
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Success 200 {file} file "CV PDF"
// @Failure 404 {object} dto.ErrorResponse "Instructor or CV not found"
// @Router /instructors/{id}/cv [get]
func (c *InstructorController) DownloadCV(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	path, downloadName, err := c.instructorService.CVDownloadPath(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.FileAttachment(path, downloadName)
}

// DeleteCV removes the stored CV
// @Summary Delete CV
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "CV deleted"
// @Failure 404 {object} dto.ErrorResponse "Instructor or CV not found"
// @Router /instructors/{id}/cv [delete]
func (c *InstructorController) DeleteCV(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.instructorService.DeleteCV(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "CV deleted"},
		Timestamp: time.Now(),
	})
}

// SetUserStatus changes the login status of an instructor's account
// @Summary Set account status
// @Description Activates, suspends or re-pends the instructor's account. Disabling revokes every open session.
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Param request body dto.SetUserStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Status changed"
// @Failure 404 {object} dto.ErrorResponse "Instructor has no account"
// @Router /instructors/{id}/user-status [put]
func (c *InstructorController) SetUserStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetUserStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid status data")
		return
	}

	if err := c.instructorService.SetUserStatus(ctx, id, models.AccountStatus(req.Status)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "Account status changed"},
		Timestamp: time.Now(),
	})
}

// ResetPassword sets a new password on an instructor's account
// @Summary Admin password reset
// @Description Sets a new password on the instructor's account and revokes its sessions
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID"
// @Param request body dto.AdminResetPasswordRequest true "New password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password reset"
// @Failure 400 {object} dto.ErrorResponse "Password rejected by policy"
// @Failure 404 {object} dto.ErrorResponse "Instructor has no account"
// @Router /instructors/{id}/reset-password [put]
func (c *InstructorController) ResetPassword(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AdminResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err, "Invalid password data")
		return
	}

	if err := c.instructorService.ResetPassword(ctx, id, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.SuccessResponse{Message: "Password reset"},
		Timestamp: time.Now(),
	})
}
