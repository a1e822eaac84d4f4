// Package controllers exposes the HTTP surface. Controllers bind and
// translate; every business decision lives in the services layer and every
// error path funnels through middleware.HandleAPIError.
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/trainingops/trainingops/internal/app/models/dto"
	"github.com/trainingops/trainingops/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter. On failure it writes
// the 400 response itself and returns false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// bindingError writes the 400 response for a failed ShouldBind call,
// expanding field-level validator messages when available.
func bindingError(ctx *gin.Context, err error, message string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		validation := dto.NewValidationErrors()
		for _, fe := range verrs {
			validation.AddError(fe.Field(), middleware.FormatValidationError(fe))
		}
		errorDetail = errorDetail.WithDetails(validation.Errors)
	} else {
		errorDetail = errorDetail.WithDetails(err.Error())
	}
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// parseTimeQuery reads an optional time filter accepting RFC3339 or a bare
// date. Returns (nil, true) when the parameter is absent.
func parseTimeQuery(ctx *gin.Context, name string) (*time.Time, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
	errorDetail = errorDetail.WithDetails(name + " must be RFC3339 or YYYY-MM-DD")
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
	return nil, false
}
