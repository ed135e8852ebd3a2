package domain

import "errors"

var (
	// ErrAlreadyMonitored is returned when a start is requested for a
	// handle that already has a live connection state machine.
	ErrAlreadyMonitored = errors.New("handle is already being monitored")

	// ErrNotMonitored is returned when stopping a handle nobody watches
	ErrNotMonitored = errors.New("handle is not being monitored")

	// ErrUserNotFound is returned when a user lookup finds no row
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound is returned when no open live session exists
	ErrSessionNotFound = errors.New("live session not found")

	// ErrSubmissionNotFound is returned when a submission lookup finds no row
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrUnknownGoalType is returned for a goal type with no configuration
	ErrUnknownGoalType = errors.New("unknown goal type")
)
