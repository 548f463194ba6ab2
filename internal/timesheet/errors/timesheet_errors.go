package timesheeterrors

import (
	"net/http"

	"go-ems/internal/shared/apperror"
)

var (
	ErrTimesheetNotFound = apperror.New(
		apperror.CodeNotFound,
		"timesheet not found",
		http.StatusNotFound,
	)
	ErrProjectNotFound = apperror.New(
		apperror.CodeNotFound,
		"project not found",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidTimesheetID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timesheet id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrWeekStartNotSunday = apperror.New(
		apperror.CodeInvalidInput,
		"week_start_date must fall on a Sunday",
		http.StatusBadRequest,
	)
	ErrInvalidWeekStartDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid week_start_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEntryDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid entry_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEntryDateOutsideWeek = apperror.New(
		apperror.CodeInvalidInput,
		"entry_date must fall within the timesheet week",
		http.StatusBadRequest,
	)
	ErrInvalidHours = apperror.New(
		apperror.CodeInvalidInput,
		"hours must be a positive decimal",
		http.StatusBadRequest,
	)
	ErrBillableRequiresProject = apperror.New(
		apperror.CodeInvalidInput,
		"billable entries require a project",
		http.StatusBadRequest,
	)
	ErrCommentsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection comments are required",
		http.StatusBadRequest,
	)
	ErrTimesheetNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"timesheet can only be edited while DRAFT or REJECTED",
		http.StatusConflict,
	)
	ErrTimesheetNotSubmittable = apperror.New(
		apperror.CodeInvalidState,
		"timesheet can only be submitted from DRAFT or REJECTED",
		http.StatusConflict,
	)
	ErrTimesheetEmpty = apperror.New(
		apperror.CodeInvalidState,
		"timesheet has no entries to submit",
		http.StatusConflict,
	)
	ErrTimesheetEntriesInvalid = apperror.New(
		apperror.CodeInvalidState,
		"timesheet entries no longer satisfy submission rules",
		http.StatusConflict,
	)
	ErrTimesheetNotSubmitted = apperror.New(
		apperror.CodeInvalidState,
		"timesheet must be SUBMITTED to approve or reject",
		http.StatusConflict,
	)
	ErrTimesheetNotDraft = apperror.New(
		apperror.CodeInvalidState,
		"only DRAFT timesheets can be deleted",
		http.StatusConflict,
	)
	ErrTimesheetWeekConflict = apperror.New(
		apperror.CodeConflict,
		"a timesheet for this user and week already exists",
		http.StatusConflict,
	)
)
