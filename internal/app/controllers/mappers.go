package controllers

import (
	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/models/dto"
	"github.com/trainingops/trainingops/internal/app/services"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
)

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		RoleType:     string(user.RoleType),
		Status:       string(user.Status),
		InstructorID: user.InstructorID,
		CreatedAt:    user.CreatedAt,
	}
}

func toClientResponse(client *models.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:           client.ID,
		BusinessName: client.BusinessName,
		Email:        client.Email,
		Phone:        client.Phone,
		Notes:        client.Notes,
	}
}

func toEngagementResponse(engagement *models.Engagement) dto.EngagementResponse {
	resp := dto.EngagementResponse{
		ID:          engagement.ID,
		ClientID:    engagement.ClientID,
		Title:       engagement.Title,
		Description: engagement.Description,
		State:       engagement.State,
		Timezone:    engagement.Timezone,
	}
	if engagement.Client != nil {
		client := toClientResponse(engagement.Client)
		resp.Client = &client
	}
	return resp
}

func toEngagementStatsResponse(stats *models.EngagementStats) dto.EngagementStatsResponse {
	return dto.EngagementStatsResponse{
		OptionedHours:  stats.OptionedHours,
		ConfirmedHours: stats.ConfirmedHours,
		OptionedCount:  stats.OptionedCount,
		ConfirmedCount: stats.ConfirmedCount,
		TotalCount:     stats.TotalCount,
		TotalHours:     stats.TotalHours,
	}
}

// toEventResponse renders an event; names maps instructor ids to display
// names and may be nil when the caller skips roster resolution.
func toEventResponse(event *models.Event, names map[int64]string) dto.EventResponse {
	resp := dto.EventResponse{
		ID:            event.ID,
		EngagementID:  event.EngagementID,
		Title:         event.Title,
		Notes:         event.Notes,
		StartAt:       event.StartAt,
		EndAt:         event.EndAt,
		Status:        string(event.Status),
		Hours:         event.Hours(),
		InstructorIDs: event.InstructorIDs,
	}
	if names != nil {
		for _, id := range event.InstructorIDs {
			resp.Instructors = append(resp.Instructors, dto.InstructorBrief{
				ID:          id,
				DisplayName: names[id],
			})
		}
	}
	return resp
}

func toEventResponses(events []*models.Event, names map[int64]string) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventResponse(ev, names))
	}
	return out
}

func toInviteResponse(invite *models.Invite) dto.InviteResponse {
	return dto.InviteResponse{
		ID:           invite.ID,
		Token:        invite.Token,
		Code:         invite.Code,
		CreatedAt:    invite.CreatedAt,
		ExpiresAt:    invite.ExpiresAt,
		UsedAt:       invite.UsedAt,
		UsedByUserID: invite.UsedByUserID,
	}
}

func toInstructorResponse(instructor *models.Instructor) dto.InstructorResponse {
	resp := dto.InstructorResponse{
		ID:          instructor.ID,
		FirstName:   instructor.FirstName,
		LastName:    instructor.LastName,
		DisplayName: instructor.DisplayName(),
		Email:       instructor.Email,
		BirthPlace:  instructor.BirthPlace,

		ResidenceStreet:   instructor.ResidenceStreet,
		ResidenceNumber:   instructor.ResidenceNumber,
		ResidenceCity:     instructor.ResidenceCity,
		ResidencePostcode: instructor.ResidencePostcode,
		ResidenceProvince: instructor.ResidenceProvince,
		ResidenceCountry:  instructor.ResidenceCountry,

		Gender:     instructor.Gender,
		FiscalCode: instructor.FiscalCode,
		VATNumber:  instructor.VATNumber,
		VATRegime:  instructor.VATRegime,
		Subject:    string(instructor.Subject),

		BusinessName: instructor.BusinessName,
		Bank:         instructor.Bank,
		BankHolder:   instructor.BankHolder,
		IBAN:         instructor.IBAN,
		BICSwift:     instructor.BICSwift,

		HasCV:        instructor.CVFilename != nil,
		CVUploadedAt: instructor.CVUploadedAt,
	}
	if instructor.BirthDate != nil {
		s := instructor.BirthDate.Format("2006-01-02")
		resp.BirthDate = &s
	}
	if instructor.User != nil {
		user := toUserResponse(instructor.User)
		resp.User = &user
	}
	return resp
}

func toInstructorResponses(instructors []*models.Instructor) []dto.InstructorResponse {
	out := make([]dto.InstructorResponse, 0, len(instructors))
	for _, ins := range instructors {
		out = append(out, toInstructorResponse(ins))
	}
	return out
}

// instructorFromProfile maps an admin-side profile form onto the model.
// BirthDate arrives as "2006-01-02"; binding already validated the layout.
func instructorFromProfile(fields dto.InstructorProfileFields) *models.Instructor {
	ins := &models.Instructor{
		FirstName:  fields.FirstName,
		LastName:   fields.LastName,
		Email:      fields.Email,
		BirthPlace: fields.BirthPlace,

		ResidenceStreet:   fields.ResidenceStreet,
		ResidenceNumber:   fields.ResidenceNumber,
		ResidenceCity:     fields.ResidenceCity,
		ResidencePostcode: fields.ResidencePostcode,
		ResidenceProvince: fields.ResidenceProvince,
		ResidenceCountry:  fields.ResidenceCountry,

		Gender:     fields.Gender,
		FiscalCode: fields.FiscalCode,
		VATNumber:  fields.VATNumber,
		VATRegime:  fields.VATRegime,
		Subject:    models.SubjectType(fields.Subject),

		BusinessName: fields.BusinessName,
		Bank:         fields.Bank,
		BankHolder:   fields.BankHolder,
		IBAN:         fields.IBAN,
		BICSwift:     fields.BICSwift,
	}
	if fields.BirthDate != nil && *fields.BirthDate != "" {
		if d, err := helpers.ParseDate(*fields.BirthDate); err == nil {
			ins.BirthDate = &d
		}
	}
	return ins
}

func toTokenResponse(pair services.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    pair.ExpiresAt,
	}
}
