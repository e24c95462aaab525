package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"club-manager-backend/cmd/club-manager/model"

	"go.uber.org/zap"
)

// EventManager owns the event collection: event approval, enrollment
// approval and attendance. It keeps no state between calls; every
// mutation is a full read-modify-write of the stored collection.
type EventManager struct {
	events Collection[model.Event]
	logger *zap.Logger
	opts   options
}

func NewEventManager(events Collection[model.Event], logger *zap.Logger, opts ...Option) *EventManager {
	return &EventManager{
		events: events,
		logger: logger,
		opts:   newOptions(opts),
	}
}

func findEvent(events []model.Event, id string) (int, bool) {
	for i := range events {
		if events[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func viewOf(actor model.Actor, event model.Event) model.EventView {
	v := model.EventView{
		Event:         event,
		ApprovedCount: event.ApprovedCount(),
	}
	if i, ok := event.FindEnrollment(actor.ID); ok {
		v.MyStatus = event.Attendees[i].Status
	}
	return v
}

// ListVisibleEvents returns the events the actor may see, earliest first.
func (m *EventManager) ListVisibleEvents(ctx context.Context, actor model.Actor) ([]model.EventView, error) {

	events, err := load(ctx, m.events)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	views := []model.EventView{}
	for i := range events {
		if !canSee(actor, &events[i]) {
			continue
		}
		views = append(views, viewOf(actor, events[i]))
	}

	return views, nil
}

func (m *EventManager) GetEvent(ctx context.Context, actor model.Actor, eventID string) (model.EventView, error) {

	events, err := load(ctx, m.events)
	if err != nil {
		return model.EventView{}, err
	}

	i, ok := findEvent(events, eventID)
	if !ok || !canSee(actor, &events[i]) {
		return model.EventView{}, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}

	return viewOf(actor, events[i]), nil
}

// CreateEvent adds an event organised by the actor. Admin events are
// approved immediately; club head events wait for an admin.
func (m *EventManager) CreateEvent(ctx context.Context, actor model.Actor, in model.EventInput) (model.Event, error) {

	if !canCreateEvent(actor) {
		return model.Event{}, ErrForbidden
	}
	if strings.TrimSpace(in.Title) == "" {
		return model.Event{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return model.Event{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	id, err := newID()
	if err != nil {
		return model.Event{}, err
	}

	status := model.EventPending
	if actor.IsAdmin() {
		status = model.EventApproved
	}

	event := model.Event{
		ID:            id,
		Title:         strings.TrimSpace(in.Title),
		Date:          in.Date.UTC(),
		Venue:         in.Venue,
		Description:   in.Description,
		Organizer:     actor.ID,
		OrganizerName: actor.Name,
		Status:        status,
		Attendees:     []model.Enrollment{},
		CreatedAt:     m.opts.now().UTC(),
	}

	err = update(ctx, m.events, m.opts.writeRetries, func(events []model.Event) ([]model.Event, error) {
		return append(events, event), nil
	})
	if err != nil {
		return model.Event{}, err
	}

	m.logger.Info("event created",
		zap.String("event_id", event.ID),
		zap.String("organizer", actor.ID),
		zap.String("status", string(event.Status)),
	)

	return event, nil
}

func (m *EventManager) ApproveEvent(ctx context.Context, actor model.Actor, eventID string) (model.Event, error) {

	if !actor.IsAdmin() {
		return model.Event{}, ErrForbidden
	}

	var approved model.Event
	changed := false
	err := update(ctx, m.events, m.opts.writeRetries, func(events []model.Event) ([]model.Event, error) {
		changed = false
		i, ok := findEvent(events, eventID)
		if !ok {
			return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
		}
		if events[i].Status == model.EventApproved {
			approved = events[i]
			return nil, errUnchanged
		}
		events[i].Status = model.EventApproved
		approved = events[i]
		changed = true
		return events, nil
	})
	if err != nil {
		return model.Event{}, err
	}

	if changed {
		m.logger.Info("event approved",
			zap.String("event_id", eventID),
			zap.String("by", actor.ID),
		)
	}

	return approved, nil
}

// DeleteEvent removes the event together with all of its enrollments.
func (m *EventManager) DeleteEvent(ctx context.Context, actor model.Actor, eventID string) error {

	if !actor.IsAdmin() {
		return ErrForbidden
	}

	err := update(ctx, m.events, m.opts.writeRetries, func(events []model.Event) ([]model.Event, error) {
		i, ok := findEvent(events, eventID)
		if !ok {
			return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
		}
		return append(events[:i], events[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("event deleted",
		zap.String("event_id", eventID),
		zap.String("by", actor.ID),
	)

	return nil
}

// Enroll requests a place for the actor. The request starts pending and
// the actor can hold at most one enrollment per event.
func (m *EventManager) Enroll(ctx context.Context, actor model.Actor, eventID string) (model.Enrollment, error) {

	if actor.ID == "" {
		return model.Enrollment{}, ErrForbidden
	}

	now := m.opts.now().UTC()

	var enrollment model.Enrollment
	err := update(ctx, m.events, m.opts.writeRetries, func(events []model.Event) ([]model.Event, error) {
		i, ok := findEvent(events, eventID)
		if !ok || !canSee(actor, &events[i]) {
			return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
		}
		event := &events[i]

		if event.Date.Before(now) {
			return nil, ErrEventEnded
		}
		if _, dup := event.FindEnrollment(actor.ID); dup {
			return nil, ErrAlreadyEnrolled
		}

		enrollment = model.Enrollment{
			UserID:       actor.ID,
			Name:         actor.Name,
			Status:       model.EnrollmentPending,
			RegisteredAt: now,
			Attended:     false,
		}
		event.Attendees = append(event.Attendees, enrollment)
		return events, nil
	})
	if err != nil {
		return model.Enrollment{}, err
	}

	m.logger.Info("enrollment requested",
		zap.String("event_id", eventID),
		zap.String("user_id", actor.ID),
	)

	return enrollment, nil
}

// UpdateEnrollmentStatus approves or rejects a pending enrollment. Setting
// the status an enrollment already has is a no-op; a decided enrollment
// cannot be changed.
func (m *EventManager) UpdateEnrollmentStatus(ctx context.Context, actor model.Actor, eventID, userID string, status model.EnrollmentStatus) (model.Enrollment, error) {

	var updated model.Enrollment
	changed := false
	err := update(ctx, m.events, m.opts.writeRetries, func(events []model.Event) ([]model.Event, error) {
		changed = false
		event, j, err := m.managedEnrollment(actor, events, eventID, userID)
		if err != nil {
			return nil, err
		}

		enrollment := &event.Attendees[j]
		if err := checkTransition(enrollment.Status, status); err != nil {
			updated = *enrollment
			return nil, err
		}

		enrollment.Status = status
		updated = *enrollment
		changed = true
		return events, nil
	})
	if err != nil {
		return model.Enrollment{}, err
	}

	if changed {
		m.logger.Info("enrollment status updated",
			zap.String("event_id", eventID),
			zap.String("user_id", userID),
			zap.String("status", string(updated.Status)),
			zap.String("by", actor.ID),
		)
	}

	return updated, nil
}

// ToggleAttendance flips the attended flag of an approved enrollment.
func (m *EventManager) ToggleAttendance(ctx context.Context, actor model.Actor, eventID, userID string) (model.Enrollment, error) {

	var updated model.Enrollment
	err := update(ctx, m.events, m.opts.writeRetries, func(events []model.Event) ([]model.Event, error) {
		event, j, err := m.managedEnrollment(actor, events, eventID, userID)
		if err != nil {
			return nil, err
		}

		enrollment := &event.Attendees[j]
		if enrollment.Status != model.EnrollmentApproved {
			return nil, ErrNotApproved
		}

		enrollment.Attended = !enrollment.Attended
		updated = *enrollment
		return events, nil
	})
	if err != nil {
		return model.Enrollment{}, err
	}

	m.logger.Info("attendance toggled",
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
		zap.Bool("attended", updated.Attended),
	)

	return updated, nil
}

// Roster splits an event's enrollments into the pending requests and the
// approved participants, in enrollment order.
func (m *EventManager) Roster(ctx context.Context, actor model.Actor, eventID string) (model.Roster, error) {

	events, err := load(ctx, m.events)
	if err != nil {
		return model.Roster{}, err
	}

	i, ok := findEvent(events, eventID)
	if !ok {
		return model.Roster{}, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	event := &events[i]
	if !canManage(actor, event) {
		return model.Roster{}, ErrForbidden
	}

	return model.Roster{
		EventID:  event.ID,
		Title:    event.Title,
		Pending:  event.EnrollmentsWithStatus(model.EnrollmentPending),
		Approved: event.EnrollmentsWithStatus(model.EnrollmentApproved),
	}, nil
}

func (m *EventManager) managedEnrollment(actor model.Actor, events []model.Event, eventID, userID string) (*model.Event, int, error) {
	i, ok := findEvent(events, eventID)
	if !ok {
		return nil, 0, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	event := &events[i]
	if !canManage(actor, event) {
		return nil, 0, ErrForbidden
	}
	j, ok := event.FindEnrollment(userID)
	if !ok {
		return nil, 0, fmt.Errorf("enrollment %s in event %s: %w", userID, eventID, ErrNotFound)
	}
	return event, j, nil
}
