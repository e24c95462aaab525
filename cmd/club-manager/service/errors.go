package service

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist or
	// is not visible to the acting user
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the acting user lacks the role or
	// ownership an operation requires
	ErrForbidden = errors.New("forbidden")
	// ErrAlreadyEnrolled is returned on a second enrollment by the same user
	ErrAlreadyEnrolled = errors.New("already enrolled in this event")
	// ErrEventEnded is returned when enrolling in an event whose date has passed
	ErrEventEnded = errors.New("event has already taken place")
	// ErrInvalidStatus is returned for an enrollment status outside approved/rejected
	ErrInvalidStatus = errors.New("invalid enrollment status")
	// ErrInvalidTransition is returned when an enrollment decision would be reversed
	ErrInvalidTransition = errors.New("enrollment has already been decided")
	// ErrNotApproved is returned when marking attendance on an enrollment
	// that has not been approved
	ErrNotApproved = errors.New("enrollment is not approved")
	// ErrInvalidInput is returned for records that fail validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned by Login for an unknown user or wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict is returned when concurrent writers kept invalidating
	// every write attempt
	ErrConflict = errors.New("concurrent modification, try again")
	// ErrStorageFailure wraps any error from the backing store
	ErrStorageFailure = errors.New("storage failure")
)
