package dto

// CreateEngagementRequest represents an engagement creation form
type CreateEngagementRequest struct {
	ClientID    int64   `json:"clientId" binding:"required" example:"1"`
	Title       string  `json:"title" binding:"required" example:"Corso sicurezza 2026"`
	Description *string `json:"description,omitempty"`
	State       string  `json:"state" binding:"omitempty,oneof=Attivo Chiuso Sospeso" example:"Attivo"`
	Timezone    string  `json:"timezone" binding:"omitempty,timezone" example:"Europe/Rome"`
}

// UpdateEngagementRequest represents an engagement update form
type UpdateEngagementRequest struct {
	ClientID    int64   `json:"clientId" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
	State       string  `json:"state" binding:"omitempty,oneof=Attivo Chiuso Sospeso"`
	Timezone    string  `json:"timezone" binding:"omitempty,timezone"`
}

// EngagementResponse represents an engagement in API responses
type EngagementResponse struct {
	ID          int64           `json:"id" example:"1"`
	ClientID    int64           `json:"clientId" example:"1"`
	Title       string          `json:"title" example:"Corso sicurezza 2026"`
	Description *string         `json:"description,omitempty"`
	State       string          `json:"state" example:"Attivo"`
	Timezone    string          `json:"timezone" example:"Europe/Rome"`
	Client      *ClientResponse `json:"client,omitempty"`
}

// EngagementStatsResponse aggregates hour and event counts by status
type EngagementStatsResponse struct {
	OptionedHours  float64 `json:"optionedHours" example:"12"`
	ConfirmedHours float64 `json:"confirmedHours" example:"36"`
	OptionedCount  int     `json:"optionedCount" example:"3"`
	ConfirmedCount int     `json:"confirmedCount" example:"9"`
	TotalCount     int     `json:"totalCount" example:"12"`
	TotalHours     float64 `json:"totalHours" example:"48"`
}
