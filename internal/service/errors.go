package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrJobNumberTaken is returned when creating a job with an existing number
	ErrJobNumberTaken = fmt.Errorf("%w: job number already exists", ErrConflict)

	// ErrStaffNameTaken is returned when a staff name is already registered
	ErrStaffNameTaken = fmt.Errorf("%w: staff name already exists", ErrConflict)

	// ErrStaffAssigned is returned when deleting a staff member still referenced by jobs
	ErrStaffAssigned = errors.New("staff member is assigned to jobs")

	// ErrDesignNotRequired is returned for design operations on jobs without a design phase
	ErrDesignNotRequired = errors.New("job does not require design")

	// ErrDesignAlreadyDone is returned when finishing a design phase twice
	ErrDesignAlreadyDone = errors.New("design already completed")

	// ErrWrongJobType is returned when an operation does not apply to the job's type
	ErrWrongJobType = errors.New("operation not valid for this job type")

	// ErrNotDelivered is returned when delivery preconditions are not met
	ErrNotDelivered = errors.New("job is not ready for delivery")

	// ErrJobCompleted is returned when mutating a job that has already completed
	ErrJobCompleted = errors.New("job is already completed")

	// ErrPhaseNotHeld is returned when resuming a phase that is not on hold
	ErrPhaseNotHeld = errors.New("phase is not on hold")

	// ErrPhaseHeld is returned when holding a phase that is already on hold
	ErrPhaseHeld = errors.New("phase is already on hold")

	// ErrReportMissing is returned when completing without a final report
	ErrReportMissing = errors.New("final report not uploaded")
)
