package timesheet_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ems/internal/timesheet"
	timesheeterrors "go-ems/internal/timesheet/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeTimesheetService struct {
	upsertFn               func(ctx context.Context, userID string, req timesheet.UpsertTimesheetRequest) (timesheet.TimesheetResponse, error)
	submitFn               func(ctx context.Context, id string) (timesheet.TimesheetResponse, error)
	decideFn               func(ctx context.Context, id string, req timesheet.DecideTimesheetRequest) (timesheet.TimesheetResponse, error)
	deleteFn               func(ctx context.Context, id string) error
	getByIDFn              func(ctx context.Context, id string) (timesheet.TimesheetResponse, error)
	getByUserFn            func(ctx context.Context, userID string) ([]timesheet.TimesheetResponse, error)
	getPendingForManagerFn func(ctx context.Context, managerID string) ([]timesheet.TimesheetResponse, error)
}

func (f *fakeTimesheetService) Upsert(ctx context.Context, userID string, req timesheet.UpsertTimesheetRequest) (timesheet.TimesheetResponse, error) {
	return f.upsertFn(ctx, userID, req)
}
func (f *fakeTimesheetService) Submit(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	return f.submitFn(ctx, id)
}
func (f *fakeTimesheetService) Decide(ctx context.Context, id string, req timesheet.DecideTimesheetRequest) (timesheet.TimesheetResponse, error) {
	return f.decideFn(ctx, id, req)
}
func (f *fakeTimesheetService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeTimesheetService) GetByID(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeTimesheetService) GetByUser(ctx context.Context, userID string) ([]timesheet.TimesheetResponse, error) {
	return f.getByUserFn(ctx, userID)
}
func (f *fakeTimesheetService) GetPendingForManager(ctx context.Context, managerID string) ([]timesheet.TimesheetResponse, error) {
	return f.getPendingForManagerFn(ctx, managerID)
}

func TestTimesheetHandler_Upsert(t *testing.T) {
	t.Run("success replaces the week for the authenticated user", func(t *testing.T) {
		userID := uuid.New().String()

		svc := &fakeTimesheetService{
			upsertFn: func(ctx context.Context, uid string, req timesheet.UpsertTimesheetRequest) (timesheet.TimesheetResponse, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, "2024-01-07", req.WeekStartDate)
				assert.Len(t, req.Entries, 1)
				return timesheet.TimesheetResponse{
					ID:            uuid.New().String(),
					UserID:        uid,
					WeekStartDate: req.WeekStartDate,
					Status:        timesheet.StatusDraft,
					TotalHours:    "8.00",
				}, nil
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"week_start_date":"2024-01-07","entries":[{"entry_date":"2024-01-08","hours":"8","task_type":"NON_BILLABLE"}]}`
		c.Request = httptest.NewRequest(http.MethodPut, "/timesheets", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", userID)

		h.Upsert(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got timesheet.TimesheetResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, timesheet.StatusDraft, got.Status)
	})

	t.Run("negative validation error on bad task type", func(t *testing.T) {
		svc := &fakeTimesheetService{
			upsertFn: func(ctx context.Context, uid string, req timesheet.UpsertTimesheetRequest) (timesheet.TimesheetResponse, error) {
				t.Fatal("service should not be called")
				return timesheet.TimesheetResponse{}, nil
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"week_start_date":"2024-01-07","entries":[{"entry_date":"2024-01-08","hours":"8","task_type":"OVERTIME"}]}`
		c.Request = httptest.NewRequest(http.MethodPut, "/timesheets", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Upsert(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative week start not sunday maps to 400", func(t *testing.T) {
		svc := &fakeTimesheetService{
			upsertFn: func(ctx context.Context, uid string, req timesheet.UpsertTimesheetRequest) (timesheet.TimesheetResponse, error) {
				return timesheet.TimesheetResponse{}, timesheeterrors.ErrWeekStartNotSunday
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"week_start_date":"2024-01-08","entries":[]}`
		c.Request = httptest.NewRequest(http.MethodPut, "/timesheets", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Upsert(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative submitted timesheet is not editable", func(t *testing.T) {
		svc := &fakeTimesheetService{
			upsertFn: func(ctx context.Context, uid string, req timesheet.UpsertTimesheetRequest) (timesheet.TimesheetResponse, error) {
				return timesheet.TimesheetResponse{}, timesheeterrors.ErrTimesheetNotEditable
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"week_start_date":"2024-01-07","entries":[]}`
		c.Request = httptest.NewRequest(http.MethodPut, "/timesheets", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Upsert(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestTimesheetHandler_Submit(t *testing.T) {
	t.Run("success forwards the route id", func(t *testing.T) {
		id := uuid.New().String()

		svc := &fakeTimesheetService{
			submitFn: func(ctx context.Context, gotID string) (timesheet.TimesheetResponse, error) {
				assert.Equal(t, id, gotID)
				return timesheet.TimesheetResponse{ID: gotID, Status: timesheet.StatusSubmitted}, nil
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/timesheets/"+id+"/submit", nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.Submit(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got timesheet.TimesheetResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusSubmitted, got.Status)
	})

	t.Run("negative empty timesheet cannot be submitted", func(t *testing.T) {
		svc := &fakeTimesheetService{
			submitFn: func(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
				return timesheet.TimesheetResponse{}, timesheeterrors.ErrTimesheetEmpty
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/timesheets/"+id+"/submit", nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.Submit(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeTimesheetService{
			submitFn: func(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
				return timesheet.TimesheetResponse{}, timesheeterrors.ErrTimesheetNotFound
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/timesheets/"+id+"/submit", nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.Submit(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestTimesheetHandler_Decide(t *testing.T) {
	t.Run("success approve", func(t *testing.T) {
		id := uuid.New().String()

		svc := &fakeTimesheetService{
			decideFn: func(ctx context.Context, gotID string, req timesheet.DecideTimesheetRequest) (timesheet.TimesheetResponse, error) {
				assert.Equal(t, id, gotID)
				assert.True(t, req.Approved)
				return timesheet.TimesheetResponse{ID: gotID, Status: timesheet.StatusApproved}, nil
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/timesheets/"+id+"/decision", strings.NewReader(`{"approved":true}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got timesheet.TimesheetResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, timesheet.StatusApproved, got.Status)
	})

	t.Run("success reject passes comments through", func(t *testing.T) {
		id := uuid.New().String()

		svc := &fakeTimesheetService{
			decideFn: func(ctx context.Context, gotID string, req timesheet.DecideTimesheetRequest) (timesheet.TimesheetResponse, error) {
				assert.False(t, req.Approved)
				assert.Equal(t, "Missing project codes on Tuesday", req.Comments)
				return timesheet.TimesheetResponse{ID: gotID, Status: timesheet.StatusRejected}, nil
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"approved":false,"comments":"Missing project codes on Tuesday"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/timesheets/"+id+"/decision", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative rejection without comments", func(t *testing.T) {
		svc := &fakeTimesheetService{
			decideFn: func(ctx context.Context, id string, req timesheet.DecideTimesheetRequest) (timesheet.TimesheetResponse, error) {
				return timesheet.TimesheetResponse{}, timesheeterrors.ErrCommentsRequired
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/timesheets/"+id+"/decision", strings.NewReader(`{"approved":false}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.Decide(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative malformed body", func(t *testing.T) {
		svc := &fakeTimesheetService{
			decideFn: func(ctx context.Context, id string, req timesheet.DecideTimesheetRequest) (timesheet.TimesheetResponse, error) {
				t.Fatal("service should not be called")
				return timesheet.TimesheetResponse{}, nil
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/timesheets/"+id+"/decision", strings.NewReader(`{"approved":`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.Decide(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}

func TestTimesheetHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()

		svc := &fakeTimesheetService{
			deleteFn: func(ctx context.Context, gotID string) error {
				assert.Equal(t, id, gotID)
				return nil
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/timesheets/"+id, nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative non-draft timesheet", func(t *testing.T) {
		svc := &fakeTimesheetService{
			deleteFn: func(ctx context.Context, id string) error {
				return timesheeterrors.ErrTimesheetNotDraft
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodDelete, "/timesheets/"+id, nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.Delete(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestTimesheetHandler_GetMine(t *testing.T) {
	t.Run("success lists the caller's timesheets", func(t *testing.T) {
		userID := uuid.New().String()

		svc := &fakeTimesheetService{
			getByUserFn: func(ctx context.Context, uid string) ([]timesheet.TimesheetResponse, error) {
				assert.Equal(t, userID, uid)
				return []timesheet.TimesheetResponse{
					{ID: uuid.New().String(), UserID: uid, Status: timesheet.StatusDraft},
					{ID: uuid.New().String(), UserID: uid, Status: timesheet.StatusApproved},
				}, nil
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/timesheets/mine", nil)
		c.Set("user_id", userID)

		h.GetMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []timesheet.TimesheetResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestTimesheetHandler_GetPending(t *testing.T) {
	t.Run("success scopes to the authenticated manager", func(t *testing.T) {
		managerID := uuid.New().String()

		svc := &fakeTimesheetService{
			getPendingForManagerFn: func(ctx context.Context, mid string) ([]timesheet.TimesheetResponse, error) {
				assert.Equal(t, managerID, mid)
				return []timesheet.TimesheetResponse{
					{ID: uuid.New().String(), Status: timesheet.StatusSubmitted},
				}, nil
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/timesheets/pending", nil)
		c.Set("user_id", managerID)

		h.GetPending(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative service error surfaces as 500", func(t *testing.T) {
		svc := &fakeTimesheetService{
			getPendingForManagerFn: func(ctx context.Context, mid string) ([]timesheet.TimesheetResponse, error) {
				return nil, errors.New("db down")
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/timesheets/pending", nil)
		c.Set("user_id", uuid.New().String())

		h.GetPending(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestTimesheetHandler_GetById(t *testing.T) {
	t.Run("negative unknown id", func(t *testing.T) {
		svc := &fakeTimesheetService{
			getByIDFn: func(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
				return timesheet.TimesheetResponse{}, timesheeterrors.ErrTimesheetNotFound
			},
		}

		h := timesheet.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		id := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodGet, "/timesheets/"+id, nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.GetById(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
