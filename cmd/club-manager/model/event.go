package model

import "time"

type EventStatus string

var (
	EventPending  EventStatus = "pending"
	EventApproved EventStatus = "approved"
	EventRejected EventStatus = "rejected"
)

type EnrollmentStatus string

var (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

type Event struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Date          time.Time    `json:"date"`
	Venue         string       `json:"venue"`
	Description   string       `json:"description"`
	Organizer     string       `json:"organizer"`
	OrganizerName string       `json:"organizerName,omitempty"`
	Status        EventStatus  `json:"status"`
	Attendees     []Enrollment `json:"attendees"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// Enrollment belongs to exactly one Event and is stored inline in its
// attendee list, in enrollment order.
type Enrollment struct {
	UserID       string           `json:"userId"`
	Name         string           `json:"name"`
	Status       EnrollmentStatus `json:"status"`
	RegisteredAt time.Time        `json:"registeredAt"`
	Attended     bool             `json:"attended"`
}

func (e *Event) FindEnrollment(userID string) (int, bool) {
	for i := range e.Attendees {
		if e.Attendees[i].UserID == userID {
			return i, true
		}
	}
	return -1, false
}

func (e *Event) ApprovedCount() int {
	n := 0
	for _, a := range e.Attendees {
		if a.Status == EnrollmentApproved {
			n++
		}
	}
	return n
}

func (e *Event) EnrollmentsWithStatus(status EnrollmentStatus) []Enrollment {
	out := []Enrollment{}
	for _, a := range e.Attendees {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

// EventView is an Event as seen by one user. ApprovedCount and MyStatus
// are derived and never stored.
type EventView struct {
	Event
	ApprovedCount int              `json:"approvedCount"`
	MyStatus      EnrollmentStatus `json:"myStatus,omitempty"`
}

type Roster struct {
	EventID  string       `json:"eventId"`
	Title    string       `json:"title"`
	Pending  []Enrollment `json:"pending"`
	Approved []Enrollment `json:"approved"`
}

type EventInput struct {
	Title       string
	Date        time.Time
	Venue       string
	Description string
}
