package timesheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/shared/contextutil"
	timesheeterrors "go-ems/internal/timesheet/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
)

const (
	TaskTypeBillable    = "BILLABLE"
	TaskTypeNonBillable = "NON_BILLABLE"
	TaskTypePTO         = "PTO"
	TaskTypeSickLeave   = "SICK_LEAVE"
)

//go:generate mockgen -source=timesheet_service.go -destination=mock/timesheet_service_mock.go -package=mock
type Service interface {
	Upsert(ctx context.Context, userID string, req UpsertTimesheetRequest) (TimesheetResponse, error)
	Submit(ctx context.Context, id string) (TimesheetResponse, error)
	Decide(ctx context.Context, id string, req DecideTimesheetRequest) (TimesheetResponse, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (TimesheetResponse, error)
	GetByUser(ctx context.Context, userID string) ([]TimesheetResponse, error)
	GetPendingForManager(ctx context.Context, managerID string) ([]TimesheetResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("timesheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

// Upsert locates the caller's timesheet for the given week, creating a
// DRAFT one if absent, and replaces its whole entry set. The status is
// left untouched: a REJECTED timesheet stays REJECTED until it is
// explicitly re-submitted.
func (s *service) Upsert(ctx context.Context, userID string, req UpsertTimesheetRequest) (TimesheetResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("upsert timesheet requested",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("week_start_date", req.WeekStartDate),
	)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidUserID
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStartDate)
	if err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidWeekStartDate
	}
	if weekStart.Weekday() != time.Sunday {
		s.logger.Warn("upsert timesheet week start not sunday",
			zap.String("user_id", userID),
			zap.String("week_start_date", req.WeekStartDate),
		)
		return TimesheetResponse{}, timesheeterrors.ErrWeekStartNotSunday
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("upsert timesheet begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return TimesheetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ts, err := qtx.FindByUserAndWeekForUpdate(ctx, userID, weekStart)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return TimesheetResponse{}, err
		}
		ts = &Timesheet{
			ID:            uuid.New(),
			UserID:        userUUID,
			WeekStartDate: weekStart,
			Status:        StatusDraft,
		}
		if err := qtx.Create(ctx, ts); err != nil {
			s.logger.Error("upsert timesheet create failed", zap.Error(err))
			return TimesheetResponse{}, mapRepositoryError(err)
		}
	}

	if ts.Status != StatusDraft && ts.Status != StatusRejected {
		s.logger.Warn("upsert timesheet not editable",
			zap.String("timesheet_id", ts.ID.String()),
			zap.String("status", ts.Status),
		)
		return TimesheetResponse{}, timesheeterrors.ErrTimesheetNotEditable
	}

	entries, err := s.buildEntries(ctx, qtx, ts.ID, weekStart, req.Entries)
	if err != nil {
		return TimesheetResponse{}, err
	}

	if err := qtx.ReplaceEntries(ctx, ts.ID, entries); err != nil {
		s.logger.Error("upsert timesheet replace entries failed",
			zap.String("timesheet_id", ts.ID.String()),
			zap.Error(err),
		)
		return TimesheetResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("upsert timesheet commit failed", zap.String("request_id", rid), zap.Error(err))
		return TimesheetResponse{}, err
	}

	s.logger.Info("upsert timesheet success",
		zap.String("request_id", rid),
		zap.String("timesheet_id", ts.ID.String()),
		zap.Int("entries", len(entries)),
	)

	return s.reloadResponse(ctx, ts.ID.String())
}

// Submit moves a DRAFT or REJECTED timesheet to SUBMITTED. The stored
// entries are re-validated first: they were persisted by an earlier
// upsert, so a violation here is a state problem, not an input one.
func (s *service) Submit(ctx context.Context, id string) (TimesheetResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimesheetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ts, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return TimesheetResponse{}, mapRepositoryError(err)
	}

	if ts.Status != StatusDraft && ts.Status != StatusRejected {
		return TimesheetResponse{}, timesheeterrors.ErrTimesheetNotSubmittable
	}
	if len(ts.Entries) == 0 {
		return TimesheetResponse{}, timesheeterrors.ErrTimesheetEmpty
	}
	for _, entry := range ts.Entries {
		if !dateWithinWeek(entry.EntryDate, ts.WeekStartDate) {
			return TimesheetResponse{}, timesheeterrors.ErrTimesheetEntriesInvalid
		}
		if entry.TaskType == TaskTypeBillable && entry.ProjectID == nil {
			return TimesheetResponse{}, timesheeterrors.ErrTimesheetEntriesInvalid
		}
	}

	now := time.Now().UTC()
	ts.Status = StatusSubmitted
	ts.SubmittedAt = &now
	ts.RejectionComments = nil

	if err := qtx.Update(ctx, ts); err != nil {
		s.logger.Error("submit timesheet persist failed",
			zap.String("timesheet_id", id),
			zap.Error(err),
		)
		return TimesheetResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimesheetResponse{}, err
	}

	s.logger.Info("submit timesheet success", zap.String("timesheet_id", id))

	return s.reloadResponse(ctx, id)
}

// Decide approves or rejects a SUBMITTED timesheet. Approval queues a
// lifecycle event in the outbox inside the same transaction.
func (s *service) Decide(ctx context.Context, id string, req DecideTimesheetRequest) (TimesheetResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimesheetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ts, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return TimesheetResponse{}, mapRepositoryError(err)
	}

	if ts.Status != StatusSubmitted {
		s.logger.Warn("decide timesheet not submitted",
			zap.String("timesheet_id", id),
			zap.String("status", ts.Status),
		)
		return TimesheetResponse{}, timesheeterrors.ErrTimesheetNotSubmitted
	}

	now := time.Now().UTC()
	if req.Approved {
		ts.Status = StatusApproved
		ts.ApprovedAt = &now
		ts.RejectionComments = nil
	} else {
		comments := strings.TrimSpace(req.Comments)
		if comments == "" {
			return TimesheetResponse{}, timesheeterrors.ErrCommentsRequired
		}
		ts.Status = StatusRejected
		ts.RejectionComments = &comments
		ts.ApprovedAt = nil
	}

	if err := qtx.Update(ctx, ts); err != nil {
		s.logger.Error("decide timesheet persist failed",
			zap.String("timesheet_id", id),
			zap.Error(err),
		)
		return TimesheetResponse{}, err
	}

	if req.Approved && s.outbox != nil {
		event := events.TimesheetApprovedEvent{
			EventType:     "timesheet_approved",
			TimesheetID:   ts.ID.String(),
			UserID:        ts.UserID.String(),
			WeekStartDate: ts.WeekStartDate.Format("2006-01-02"),
			OccurredAt:    now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return TimesheetResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "timesheet",
			AggregateID:   ts.ID.String(),
			EventType:     event.EventType,
			Topic:         events.TimesheetLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("decide timesheet outbox persist failed",
				zap.String("timesheet_id", id),
				zap.Error(err),
			)
			return TimesheetResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return TimesheetResponse{}, err
	}

	s.logger.Info("decide timesheet success",
		zap.String("request_id", rid),
		zap.String("timesheet_id", id),
		zap.Bool("approved", req.Approved),
	)

	return s.reloadResponse(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return timesheeterrors.ErrInvalidTimesheetID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ts, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if ts.Status != StatusDraft {
		return timesheeterrors.ErrTimesheetNotDraft
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete timesheet failed", zap.String("timesheet_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete timesheet success", zap.String("timesheet_id", id))
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (TimesheetResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TimesheetResponse{}, timesheeterrors.ErrInvalidTimesheetID
	}

	ts, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TimesheetResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*ts), nil
}

func (s *service) GetByUser(ctx context.Context, userID string) ([]TimesheetResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, timesheeterrors.ErrInvalidUserID
	}

	timesheets, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(timesheets), nil
}

func (s *service) GetPendingForManager(ctx context.Context, managerID string) ([]TimesheetResponse, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, timesheeterrors.ErrInvalidUserID
	}

	timesheets, err := s.repo.FindSubmittedForManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(timesheets), nil
}

// buildEntries validates the incoming entry set and resolves project
// references. Billable entries must carry an existing project;
// non-billable entries have theirs cleared.
func (s *service) buildEntries(
	ctx context.Context,
	repo Repository,
	timesheetID uuid.UUID,
	weekStart time.Time,
	requests []TimeEntryRequest,
) ([]TimeEntry, error) {
	entries := make([]TimeEntry, 0, len(requests))
	for _, req := range requests {
		entryDate, err := time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			return nil, timesheeterrors.ErrInvalidEntryDate
		}
		if !dateWithinWeek(entryDate, weekStart) {
			return nil, timesheeterrors.ErrEntryDateOutsideWeek
		}

		hours, err := decimal.NewFromString(req.Hours)
		if err != nil || !hours.IsPositive() {
			return nil, timesheeterrors.ErrInvalidHours
		}

		entry := TimeEntry{
			ID:          uuid.New(),
			TimesheetID: timesheetID,
			EntryDate:   entryDate,
			Hours:       hours,
			TaskType:    req.TaskType,
			Notes:       req.Notes,
		}

		if req.TaskType == TaskTypeBillable {
			if req.ProjectID == nil || *req.ProjectID == "" {
				return nil, timesheeterrors.ErrBillableRequiresProject
			}
			p, err := repo.FindProject(ctx, *req.ProjectID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, timesheeterrors.ErrProjectNotFound
				}
				return nil, err
			}
			entry.ProjectID = &p.ID
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *service) reloadResponse(ctx context.Context, id string) (TimesheetResponse, error) {
	ts, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return TimesheetResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*ts), nil
}

func dateWithinWeek(entryDate, weekStart time.Time) bool {
	weekEnd := weekStart.AddDate(0, 0, 6)
	return !entryDate.Before(weekStart) && !entryDate.After(weekEnd)
}

func mapToResponse(ts Timesheet) TimesheetResponse {
	resp := TimesheetResponse{
		ID:                ts.ID.String(),
		UserID:            ts.UserID.String(),
		WeekStartDate:     ts.WeekStartDate.Format("2006-01-02"),
		Status:            ts.Status,
		RejectionComments: ts.RejectionComments,
		Entries:           make([]TimeEntryResponse, 0, len(ts.Entries)),
	}

	if ts.User != nil {
		resp.UserName = ts.User.FullName()
	}
	if ts.SubmittedAt != nil {
		v := ts.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &v
	}
	if ts.ApprovedAt != nil {
		v := ts.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}

	total := decimal.Zero
	for _, entry := range ts.Entries {
		total = total.Add(entry.Hours)

		er := TimeEntryResponse{
			ID:        entry.ID.String(),
			EntryDate: entry.EntryDate.Format("2006-01-02"),
			Hours:     entry.Hours.StringFixed(2),
			TaskType:  entry.TaskType,
			Notes:     entry.Notes,
		}
		if entry.ProjectID != nil {
			v := entry.ProjectID.String()
			er.ProjectID = &v
		}
		if entry.Project != nil {
			er.ProjectName = entry.Project.Name
		}
		resp.Entries = append(resp.Entries, er)
	}
	resp.TotalHours = total.StringFixed(2)

	return resp
}

func mapToListResponse(timesheets []Timesheet) []TimesheetResponse {
	resp := make([]TimesheetResponse, len(timesheets))
	for i, ts := range timesheets {
		resp[i] = mapToResponse(ts)
	}
	return resp
}
