package models

// Engagement defines a contracted project ("incarico") owning a set of events,
// based on the 'engagements' table. Each engagement carries its own calendar
// timezone, used for iCal export.
type Engagement struct {
	ID          int64   `json:"id" db:"id"`
	ClientID    int64   `json:"clientId" db:"client_id"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description,omitempty" db:"description"`
	State       string  `json:"state" db:"state" example:"Attivo"`
	Timezone    string  `json:"timezone" db:"timezone" example:"Europe/Rome"`
	Client      *Client `json:"client,omitempty"` // Relation, no db tag
}

// EngagementStats aggregates optioned/confirmed hours and counts over an
// engagement's events.
type EngagementStats struct {
	OptionedHours  float64 `json:"optionedHours"`
	ConfirmedHours float64 `json:"confirmedHours"`
	OptionedCount  int     `json:"optionedCount"`
	ConfirmedCount int     `json:"confirmedCount"`
	TotalCount     int     `json:"totalCount"`
	TotalHours     float64 `json:"totalHours"`
}
