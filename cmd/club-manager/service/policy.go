package service

import "club-manager-backend/cmd/club-manager/model"

// canSee: admins see everything, club heads see approved events and their
// own, students see approved events only.
func canSee(actor model.Actor, event *model.Event) bool {
	if actor.IsAdmin() {
		return true
	}
	if event.Status == model.EventApproved {
		return true
	}
	return actor.IsClubHead() && event.Organizer == actor.ID
}

func canCreateEvent(actor model.Actor) bool {
	return actor.IsAdmin() || actor.IsClubHead()
}

// canManage covers enrollment decisions, attendance and the roster.
func canManage(actor model.Actor, event *model.Event) bool {
	return actor.IsAdmin() || (actor.ID != "" && event.Organizer == actor.ID)
}

// checkTransition reports errUnchanged when the enrollment is already in
// the target state.
func checkTransition(from, to model.EnrollmentStatus) error {
	if to != model.EnrollmentApproved && to != model.EnrollmentRejected {
		return ErrInvalidStatus
	}
	if from == to {
		return errUnchanged
	}
	if from != model.EnrollmentPending {
		return ErrInvalidTransition
	}
	return nil
}
