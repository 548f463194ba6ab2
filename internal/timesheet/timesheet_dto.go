package timesheet

type TimeEntryRequest struct {
	EntryDate string  `json:"entry_date" binding:"required"`
	Hours     string  `json:"hours" binding:"required"`
	TaskType  string  `json:"task_type" binding:"required,oneof=BILLABLE NON_BILLABLE PTO SICK_LEAVE"`
	ProjectID *string `json:"project_id" binding:"omitempty,uuid"`
	Notes     string  `json:"notes"`
}

type UpsertTimesheetRequest struct {
	WeekStartDate string             `json:"week_start_date" binding:"required"`
	Entries       []TimeEntryRequest `json:"entries"`
}

type DecideTimesheetRequest struct {
	Approved bool   `json:"approved"`
	Comments string `json:"comments"`
}

type TimeEntryResponse struct {
	ID          string  `json:"id"`
	EntryDate   string  `json:"entry_date"`
	Hours       string  `json:"hours"`
	TaskType    string  `json:"task_type"`
	ProjectID   *string `json:"project_id,omitempty"`
	ProjectName string  `json:"project_name,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

type TimesheetResponse struct {
	ID                string              `json:"id"`
	UserID            string              `json:"user_id"`
	UserName          string              `json:"user_name,omitempty"`
	WeekStartDate     string              `json:"week_start_date"`
	Status            string              `json:"status"`
	SubmittedAt       *string             `json:"submitted_at,omitempty"`
	ApprovedAt        *string             `json:"approved_at,omitempty"`
	RejectionComments *string             `json:"rejection_comments,omitempty"`
	TotalHours        string              `json:"total_hours"`
	Entries           []TimeEntryResponse `json:"entries"`
}
