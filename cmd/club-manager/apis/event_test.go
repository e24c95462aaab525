package apis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"club-manager-backend/cmd/club-manager/model"
	"club-manager-backend/cmd/club-manager/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventManager implements IEventManager for testing
type MockEventManager struct {
	mock.Mock
}

func (m *MockEventManager) ListVisibleEvents(ctx context.Context, actor model.Actor) ([]model.EventView, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]model.EventView), args.Error(1)
}

func (m *MockEventManager) GetEvent(ctx context.Context, actor model.Actor, eventID string) (model.EventView, error) {
	args := m.Called(ctx, actor, eventID)
	return args.Get(0).(model.EventView), args.Error(1)
}

func (m *MockEventManager) CreateEvent(ctx context.Context, actor model.Actor, in model.EventInput) (model.Event, error) {
	args := m.Called(ctx, actor, in)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *MockEventManager) ApproveEvent(ctx context.Context, actor model.Actor, eventID string) (model.Event, error) {
	args := m.Called(ctx, actor, eventID)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *MockEventManager) DeleteEvent(ctx context.Context, actor model.Actor, eventID string) error {
	args := m.Called(ctx, actor, eventID)
	return args.Error(0)
}

func (m *MockEventManager) Enroll(ctx context.Context, actor model.Actor, eventID string) (model.Enrollment, error) {
	args := m.Called(ctx, actor, eventID)
	return args.Get(0).(model.Enrollment), args.Error(1)
}

func (m *MockEventManager) UpdateEnrollmentStatus(ctx context.Context, actor model.Actor, eventID, userID string, status model.EnrollmentStatus) (model.Enrollment, error) {
	args := m.Called(ctx, actor, eventID, userID, status)
	return args.Get(0).(model.Enrollment), args.Error(1)
}

func (m *MockEventManager) ToggleAttendance(ctx context.Context, actor model.Actor, eventID, userID string) (model.Enrollment, error) {
	args := m.Called(ctx, actor, eventID, userID)
	return args.Get(0).(model.Enrollment), args.Error(1)
}

func (m *MockEventManager) Roster(ctx context.Context, actor model.Actor, eventID string) (model.Roster, error) {
	args := m.Called(ctx, actor, eventID)
	return args.Get(0).(model.Roster), args.Error(1)
}

var (
	adminActor   = model.Actor{ID: "1", Username: "admin", Name: "System Admin", Role: model.RoleAdmin}
	headActor    = model.Actor{ID: "4", Username: "clubhead", Name: "Harvey Specter", Role: model.RoleClubHead}
	studentActor = model.Actor{ID: "3", Username: "student", Name: "Mike Ross", Role: model.RoleStudent}
)

// newContext builds an echo context as it looks behind RequireActor.
func newContext(method, target, body string, actor model.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(actorKey, actor)
	return c, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) model.BaseResponse {
	t.Helper()

	var raw struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return model.BaseResponse{Message: raw.Message}
}

func TestEventAPI_ListEvents_Success(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/v1/events", "", studentActor)

	mockManager := new(MockEventManager)
	api := NewEventAPI(mockManager, false)

	expected := []model.EventView{
		{Event: model.Event{ID: "event-1", Title: "Tech Meetup", Status: model.EventApproved}, ApprovedCount: 2},
		{Event: model.Event{ID: "event-2", Title: "Hackathon", Status: model.EventApproved}, MyStatus: model.EnrollmentPending},
	}
	mockManager.On("ListVisibleEvents", mock.Anything, studentActor).Return(expected, nil)

	err := api.listEvents(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var actual []model.EventView
	response := decodeResponse(t, rec, &actual)
	assert.Equal(t, "success", response.Message)
	require.Len(t, actual, 2)
	assert.Equal(t, "event-1", actual[0].ID)
	assert.Equal(t, 2, actual[0].ApprovedCount)
	assert.Equal(t, model.EnrollmentPending, actual[1].MyStatus)

	mockManager.AssertExpectations(t)
}

func TestEventAPI_ListEvents_StorageError(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/v1/events", "", studentActor)

	mockManager := new(MockEventManager)
	api := NewEventAPI(mockManager, false)

	mockManager.On("ListVisibleEvents", mock.Anything, studentActor).
		Return([]model.EventView{}, errors.Join(service.ErrStorageFailure, errors.New("database connection failed")))

	err := api.listEvents(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	response := decodeResponse(t, rec, nil)
	assert.Equal(t, "internal server error", response.Message)
	assert.NotContains(t, response.Message, "database connection failed")

	mockManager.AssertExpectations(t)
}

func TestEventAPI_CreateEvent_Success(t *testing.T) {
	body := `{"title":"Robotics Demo","date":"2026-11-20T18:30","venue":"Lab 3","description":"Bring a robot"}`
	c, rec := newContext(http.MethodPost, "/api/v1/event", body, headActor)

	mockManager := new(MockEventManager)
	api := NewEventAPI(mockManager, false)

	input := model.EventInput{
		Title:       "Robotics Demo",
		Date:        time.Date(2026, 11, 20, 18, 30, 0, 0, time.UTC),
		Venue:       "Lab 3",
		Description: "Bring a robot",
	}
	created := model.Event{
		ID:        "event-9",
		Title:     input.Title,
		Date:      input.Date,
		Organizer: headActor.ID,
		Status:    model.EventPending,
		Attendees: []model.Enrollment{},
	}
	mockManager.On("CreateEvent", mock.Anything, headActor, input).Return(created, nil)

	err := api.createEvent(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var actual model.Event
	decodeResponse(t, rec, &actual)
	assert.Equal(t, "event-9", actual.ID)
	assert.Equal(t, model.EventPending, actual.Status)

	mockManager.AssertExpectations(t)
}

func TestEventAPI_CreateEvent_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"date":"2026-11-20"}`},
		{"missing date", `{"title":"Robotics Demo"}`},
		{"unparseable date", `{"title":"Robotics Demo","date":"next tuesday"}`},
		{"malformed json", `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/api/v1/event", tt.body, headActor)

			mockManager := new(MockEventManager)
			api := NewEventAPI(mockManager, false)

			err := api.createEvent(c)

			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			mockManager.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestEventAPI_CreateEvent_StudentForbidden(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/v1/event", `{"title":"Party","date":"2026-11-20"}`, studentActor)

	mockManager := new(MockEventManager)
	api := NewEventAPI(mockManager, false)

	mockManager.On("CreateEvent", mock.Anything, studentActor, mock.Anything).Return(model.Event{}, service.ErrForbidden)

	err := api.createEvent(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	mockManager.AssertExpectations(t)
}

func TestEventAPI_PathParameters(t *testing.T) {
	mockManager := new(MockEventManager)
	api := NewEventAPI(mockManager, false)

	c, rec := newContext(http.MethodPut, "/", `{"status":"approved"}`, headActor)
	c.SetParamNames("id", "userId")
	c.SetParamValues("event-1", "3")

	mockManager.On("UpdateEnrollmentStatus", mock.Anything, headActor, "event-1", "3", model.EnrollmentApproved).
		Return(model.Enrollment{UserID: "3", Status: model.EnrollmentApproved}, nil)

	require.NoError(t, api.updateEnrollmentStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var enrollment model.Enrollment
	decodeResponse(t, rec, &enrollment)
	assert.Equal(t, model.EnrollmentApproved, enrollment.Status)

	c, rec = newContext(http.MethodPost, "/", "", headActor)
	c.SetParamNames("id", "userId")
	c.SetParamValues("event-1", "3")

	mockManager.On("ToggleAttendance", mock.Anything, headActor, "event-1", "3").
		Return(model.Enrollment{UserID: "3", Status: model.EnrollmentApproved, Attended: true}, nil)

	require.NoError(t, api.toggleAttendance(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	decodeResponse(t, rec, &enrollment)
	assert.True(t, enrollment.Attended)

	mockManager.AssertExpectations(t)
}

func TestEventAPI_UpdateEnrollmentStatus_RejectsPending(t *testing.T) {
	mockManager := new(MockEventManager)
	api := NewEventAPI(mockManager, false)

	c, rec := newContext(http.MethodPut, "/", `{"status":"pending"}`, adminActor)
	c.SetParamNames("id", "userId")
	c.SetParamValues("event-1", "3")

	require.NoError(t, api.updateEnrollmentStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockManager.AssertNotCalled(t, "UpdateEnrollmentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEventAPI_ErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"already enrolled", service.ErrAlreadyEnrolled, http.StatusConflict},
		{"event ended", service.ErrEventEnded, http.StatusUnprocessableEntity},
		{"conflict", service.ErrConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockManager := new(MockEventManager)
			api := NewEventAPI(mockManager, false)

			c, rec := newContext(http.MethodPost, "/", "", studentActor)
			c.SetParamNames("id")
			c.SetParamValues("event-1")

			mockManager.On("Enroll", mock.Anything, studentActor, "event-1").Return(model.Enrollment{}, tt.err)

			require.NoError(t, api.enroll(c))
			assert.Equal(t, tt.expected, rec.Code)

			response := decodeResponse(t, rec, nil)
			assert.Equal(t, tt.err.Error(), response.Message)
		})
	}
}

func TestEventAPI_ApproveDeleteRoster(t *testing.T) {
	mockManager := new(MockEventManager)
	api := NewEventAPI(mockManager, false)

	mockManager.On("ApproveEvent", mock.Anything, adminActor, "event-1").
		Return(model.Event{ID: "event-1", Status: model.EventApproved}, nil)
	mockManager.On("Roster", mock.Anything, adminActor, "event-1").
		Return(model.Roster{EventID: "event-1", Pending: []model.Enrollment{}, Approved: []model.Enrollment{{UserID: "3"}}}, nil)
	mockManager.On("DeleteEvent", mock.Anything, adminActor, "event-1").Return(nil)
	mockManager.On("GetEvent", mock.Anything, adminActor, "event-1").
		Return(model.EventView{}, service.ErrNotFound)

	handlers := []echo.HandlerFunc{api.approveEvent, api.roster, api.deleteEvent}
	for _, h := range handlers {
		c, rec := newContext(http.MethodPost, "/", "", adminActor)
		c.SetParamNames("id")
		c.SetParamValues("event-1")

		require.NoError(t, h(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	c, rec := newContext(http.MethodGet, "/", "", adminActor)
	c.SetParamNames("id")
	c.SetParamValues("event-1")
	require.NoError(t, api.getEvent(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	mockManager.AssertExpectations(t)
}
