package schedules

import "errors"

var (
	ErrScheduleNotFound      = errors.New("Schedule not found")
	ErrScheduleNotActive     = errors.New("Only active schedules can be paused")
	ErrScheduleNotPaused     = errors.New("Only paused schedules can be resumed")
	ErrUnknownResumeStrategy = errors.New("Unknown resume strategy")
	ErrUnknownMissedPolicy   = errors.New("Unknown missed-execution policy")
	ErrCustomDateRequired    = errors.New("Custom resume date is required")
	ErrCustomDateInPast      = errors.New("Custom resume date cannot be in the past")
	ErrCustomDateAfterEnd    = errors.New("Custom resume date cannot be after the schedule end date")
	ErrIntervalWeeksInvalid  = errors.New("Interval weeks must be a positive integer")
	ErrPatientNotFound       = errors.New("Patient not found")
	ErrExecutionNotFound     = errors.New("Execution not found")
	ErrExecutionNotPlanned   = errors.New("Only planned or overdue executions can be completed")
	ErrScheduleAlreadyClosed = errors.New("Schedule is already completed or cancelled")
)
