package apis

import (
	"context"
	"fmt"

	"club-manager-backend/cmd/club-manager/model"
	"club-manager-backend/cmd/club-manager/service"

	"github.com/goforj/godump"
	"github.com/labstack/echo/v4"
)

type IEventManager interface {
	ListVisibleEvents(ctx context.Context, actor model.Actor) ([]model.EventView, error)
	GetEvent(ctx context.Context, actor model.Actor, eventID string) (model.EventView, error)
	CreateEvent(ctx context.Context, actor model.Actor, in model.EventInput) (model.Event, error)
	ApproveEvent(ctx context.Context, actor model.Actor, eventID string) (model.Event, error)
	DeleteEvent(ctx context.Context, actor model.Actor, eventID string) error
	Enroll(ctx context.Context, actor model.Actor, eventID string) (model.Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, actor model.Actor, eventID, userID string, status model.EnrollmentStatus) (model.Enrollment, error)
	ToggleAttendance(ctx context.Context, actor model.Actor, eventID, userID string) (model.Enrollment, error)
	Roster(ctx context.Context, actor model.Actor, eventID string) (model.Roster, error)
}

type EventAPI struct {
	events IEventManager
	debug  bool
}

func NewEventAPI(events IEventManager, debug bool) *EventAPI {

	return &EventAPI{
		events: events,
		debug:  debug,
	}
}

func (a *EventAPI) Setup(g *echo.Group) {
	g.GET("/events", a.listEvents)
	g.POST("/event", a.createEvent)
	g.GET("/events/:id", a.getEvent)
	g.DELETE("/events/:id", a.deleteEvent)
	g.POST("/events/:id/approve", a.approveEvent)
	g.POST("/events/:id/enroll", a.enroll)
	g.GET("/events/:id/roster", a.roster)
	g.PUT("/events/:id/enrollments/:userId", a.updateEnrollmentStatus)
	g.POST("/events/:id/enrollments/:userId/attendance", a.toggleAttendance)
}

func (a *EventAPI) listEvents(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.events.ListVisibleEvents(ctx, actorOf(c))
	if err != nil {
		return fail(c, err)
	}

	return success(c, events)
}

func (a *EventAPI) getEvent(c echo.Context) error {

	ctx := c.Request().Context()

	event, err := a.events.GetEvent(ctx, actorOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return success(c, event)
}

func (a *EventAPI) createEvent(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.EventCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		return fail(c, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
	}

	event, err := a.events.CreateEvent(ctx, actorOf(c), model.EventInput{
		Title:       req.Title,
		Date:        date,
		Venue:       req.Venue,
		Description: req.Description,
	})
	if err != nil {
		return fail(c, err)
	}

	if a.debug {
		godump.Dump(event)
	}

	return success(c, event)
}

func (a *EventAPI) approveEvent(c echo.Context) error {

	ctx := c.Request().Context()

	event, err := a.events.ApproveEvent(ctx, actorOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return success(c, event)
}

func (a *EventAPI) deleteEvent(c echo.Context) error {

	ctx := c.Request().Context()

	err := a.events.DeleteEvent(ctx, actorOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return success(c, nil)
}

func (a *EventAPI) enroll(c echo.Context) error {

	ctx := c.Request().Context()

	enrollment, err := a.events.Enroll(ctx, actorOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return success(c, enrollment)
}

func (a *EventAPI) roster(c echo.Context) error {

	ctx := c.Request().Context()

	roster, err := a.events.Roster(ctx, actorOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	return success(c, roster)
}

func (a *EventAPI) updateEnrollmentStatus(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.EnrollmentStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	enrollment, err := a.events.UpdateEnrollmentStatus(ctx, actorOf(c), c.Param("id"), c.Param("userId"), req.Status)
	if err != nil {
		return fail(c, err)
	}

	return success(c, enrollment)
}

func (a *EventAPI) toggleAttendance(c echo.Context) error {

	ctx := c.Request().Context()

	enrollment, err := a.events.ToggleAttendance(ctx, actorOf(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		return fail(c, err)
	}

	return success(c, enrollment)
}
