package dto

// GenerateTimetableRequest instructs the engine to build and persist a full
// weekly timetable. Boolean pointers distinguish "omitted" from "false";
// omitted values default to the documented behaviour.
type GenerateTimetableRequest struct {
	ClassGroupIDs      []string `json:"classGroupIds" validate:"omitempty,dive,required"`
	RespectPreferences *bool    `json:"respectPreferences"`
	AvoidGaps          *bool    `json:"avoidGaps"`
	DistributeDays     *bool    `json:"distributeDays"`
	ClearPrevious      bool     `json:"clearPrevious"`
	MaxAttempts        int      `json:"maxAttempts" validate:"omitempty,min=1,max=1000"`
	Seed               *int64   `json:"seed"`
	ReferenceDate      string   `json:"referenceDate" validate:"omitempty,datetime=2006-01-02"`
}

// RespectPreferencesOrDefault resolves the tri-state flag (default true).
func (r GenerateTimetableRequest) RespectPreferencesOrDefault() bool {
	if r.RespectPreferences == nil {
		return true
	}
	return *r.RespectPreferences
}

// AvoidGapsOrDefault resolves the tri-state flag (default true).
func (r GenerateTimetableRequest) AvoidGapsOrDefault() bool {
	if r.AvoidGaps == nil {
		return true
	}
	return *r.AvoidGaps
}

// DistributeDaysOrDefault resolves the tri-state flag (default true).
func (r GenerateTimetableRequest) DistributeDaysOrDefault() bool {
	if r.DistributeDays == nil {
		return true
	}
	return *r.DistributeDays
}

// GenerateTimetableResponse is the structured generation report returned to
// callers regardless of outcome.
type GenerateTimetableResponse struct {
	Success              bool     `json:"success"`
	SessionsCreated      int      `json:"sessionsCreated"`
	ClassGroupsProcessed int      `json:"classGroupsProcessed"`
	Attempts             int      `json:"attempts"`
	Conflicts            []string `json:"conflicts"`
	Error                string   `json:"error,omitempty"`
}

// SessionQuery filters the committed session listing.
type SessionQuery struct {
	ClassGroupID string `form:"classGroupId"`
	TeacherID    string `form:"teacherId"`
	RoomID       string `form:"roomId"`
	DisciplineID string `form:"disciplineId"`
	Weekday      int    `form:"weekday"`
	Shift        string `form:"shift"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
	SortBy       string `form:"sortBy"`
	SortOrder    string `form:"sortOrder"`
}
