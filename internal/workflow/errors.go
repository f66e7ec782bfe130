package workflow

import "errors"

// Typed engine failures. All are returned synchronously; nothing is retried
// here. Recoverable conditions (programming gating) are sentinels the caller
// can branch on to present a confirmation flow.
var (
	// ErrProcessNotFound is returned when a sequence or process name does not
	// resolve within the drawing.
	ErrProcessNotFound = errors.New("process not found")

	// ErrSequenceGate is returned when completing a process while an earlier
	// step is not both completed and quality checked.
	ErrSequenceGate = errors.New("earlier process not completed and quality checked")

	// ErrProcessNotCompleted is returned when a quality check is attempted on
	// a process that has not been completed.
	ErrProcessNotCompleted = errors.New("process not completed")

	// ErrProgrammingIncomplete is returned when completing a CNC process that
	// requires a program the job has not finished.
	ErrProgrammingIncomplete = errors.New("cnc programming incomplete")

	// ErrProgrammingPending is returned when the next sequential process is a
	// CNC step whose program is unfinished. Recoverable: the caller confirms
	// and the current process is still marked complete.
	ErrProgrammingPending = errors.New("cnc programming pending for next process")

	// ErrNoEligibleProcess is returned when rework is requested but no process
	// is both completed and quality checked.
	ErrNoEligibleProcess = errors.New("no process eligible for rework")

	// ErrDuplicateRequest is returned when a sales request is raised while one
	// is already pending for the job.
	ErrDuplicateRequest = errors.New("a sales update request is already pending")

	// ErrNoPendingRequest is returned when approving or rejecting a job that
	// has no pending sales request.
	ErrNoPendingRequest = errors.New("no pending sales update request")

	// ErrFinalQcNotApproved is returned when saving a final report on a drawing
	// whose final quality check has not been approved.
	ErrFinalQcNotApproved = errors.New("final quality check not approved")

	// ErrAlreadyOnHold is returned when holding a drawing that is on hold.
	ErrAlreadyOnHold = errors.New("drawing is already on hold")

	// ErrNotOnHold is returned when resuming a drawing that is not on hold.
	ErrNotOnHold = errors.New("drawing is not on hold")

	// ErrValidation is the base for missing or malformed operation input.
	ErrValidation = errors.New("validation failed")
)
