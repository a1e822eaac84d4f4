package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trainingops/trainingops/internal/app/models/dto"
	"github.com/trainingops/trainingops/internal/app/scheduling"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

// HandleAPIError maps application errors onto HTTP responses. Controllers
// funnel every service error through here so status codes and envelopes stay
// uniform.
func HandleAPIError(c *gin.Context, err error) {
	// Conflict rejections carry a structured report
	var conflictErr *scheduling.ConflictError
	if errors.As(err, &conflictErr) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeScheduleConflict, "Instructor scheduling conflict")
		errorDetail = errorDetail.WithDetails(conflictReportToDTO(conflictErr.Report))
		c.JSON(http.StatusConflict, dto.NewErrorResponse(errorDetail))
		return
	}

	var customErr *apperrors.CustomError
	message := func(fallback string) string {
		if errors.As(err, &customErr) && customErr.Message != "" {
			return customErr.Message
		}
		return fallback
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, message("Invalid credentials"))
	case errors.Is(err, apperrors.ErrAccountLocked):
		respond(c, http.StatusForbidden, dto.ErrorCodeAccountLocked, message("Account temporarily locked, try again later"))
	case errors.Is(err, apperrors.ErrAccountPending):
		respond(c, http.StatusForbidden, dto.ErrorCodeAccountInactive, message("Account awaiting activation"))
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusForbidden, dto.ErrorCodeAccountInactive, message("Account disabled"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, message("Token expired"))
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, message("Invalid token"))
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, message("Token not found"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, message("Permission denied"))

	case errors.Is(err, apperrors.ErrInvalidInterval):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidInterval, message("Event end must be after start"))
	case errors.Is(err, apperrors.ErrEmptySelection):
		respond(c, http.StatusBadRequest, dto.ErrorCodeEmptySelection, message("No valid events selected"))
	case errors.Is(err, apperrors.ErrScheduleConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeScheduleConflict, message("Instructor scheduling conflict"))

	case errors.Is(err, apperrors.ErrInvalidPassword):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidPassword, message(err.Error()))
	case errors.Is(err, apperrors.ErrInvalidCV):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message(err.Error()))
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message("Validation failed"))

	case errors.Is(err, apperrors.ErrUsernameAlreadyTaken):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message("Username already taken"))
	case errors.Is(err, apperrors.ErrInviteUsed):
		respond(c, http.StatusConflict, dto.ErrorCodeInviteInvalid, message("Invite already used"))
	case errors.Is(err, apperrors.ErrInviteRevokedUsed):
		respond(c, http.StatusConflict, dto.ErrorCodeInviteInvalid, message("Cannot revoke a used invite"))
	case errors.Is(err, apperrors.ErrInviteExpired):
		respond(c, http.StatusGone, dto.ErrorCodeInviteInvalid, message("Invite expired"))
	case errors.Is(err, apperrors.ErrInviteCodeWrong):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInviteInvalid, message("Invite code incorrect"))
	case errors.Is(err, apperrors.ErrInviteNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message("Invite not valid"))

	case errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrClientNotFound),
		errors.Is(err, apperrors.ErrEngagementNotFound),
		errors.Is(err, apperrors.ErrInstructorNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrCVNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message(err.Error()))

	case errors.Is(err, apperrors.ErrResourceAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message("Resource already exists"))

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

// conflictReportToDTO flattens a scheduling report into the wire shape,
// resolving display names where known.
func conflictReportToDTO(report scheduling.ConflictReport) dto.ConflictReportResponse {
	out := dto.ConflictReportResponse{Summary: report.Summary()}

	for instructorID, events := range report.Instructors {
		detail := dto.ConflictInstructorDetail{
			InstructorID:   instructorID,
			InstructorName: report.InstructorNames[instructorID],
			Events:         make([]dto.ConflictEventDetail, 0, len(events)),
		}
		for _, e := range events {
			detail.Events = append(detail.Events, dto.ConflictEventDetail{
				EventID:         e.EventID,
				EngagementID:    e.EngagementID,
				EngagementTitle: e.EngagementTitle,
				Title:           e.Title,
				StartAt:         e.StartAt,
				EndAt:           e.EndAt,
			})
		}
		out.Instructors = append(out.Instructors, detail)
	}

	for _, p := range report.Pairs {
		out.Pairs = append(out.Pairs, dto.ConflictPairDetail{
			InstructorID:   p.InstructorID,
			InstructorName: report.InstructorNames[p.InstructorID],
			EventIDA:       p.EventIDA,
			EventIDB:       p.EventIDB,
			StartAt:        p.StartAt,
			EndAt:          p.EndAt,
		})
	}
	return out
}
