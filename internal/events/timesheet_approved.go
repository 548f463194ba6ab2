package events

import "time"

const TimesheetLifecycleTopic = "ems.timesheet.lifecycle.v1"

type TimesheetApprovedEvent struct {
	EventType     string    `json:"event_type"`
	TimesheetID   string    `json:"timesheet_id"`
	UserID        string    `json:"user_id"`
	WeekStartDate string    `json:"week_start_date"`
	OccurredAt    time.Time `json:"occurred_at"`
}
