package workflow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

// Sales-approval workflow: date-change requests raised by Planning or Stores
// against a job, and their effect on the finish date and drawing routing.
// At most one request is live per job; approval and rejection are terminal
// for that request instance.

// RaiseSalesRequest opens a date-change request for the job. A resolved prior
// request is replaced; a pending one blocks with ErrDuplicateRequest.
func (e *Engine) RaiseSalesRequest(j *domain.Job, source domain.SalesRequestSource, reason, requestedDate string, drawingID, productID *uuid.UUID) error {
	if !source.IsValid() {
		return fmt.Errorf("%w: unknown request source %q", ErrValidation, source)
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: request reason is required", ErrValidation)
	}
	if strings.TrimSpace(requestedDate) == "" {
		return fmt.Errorf("%w: requested date is required", ErrValidation)
	}
	if j.SalesRequest != nil && j.SalesRequest.Status == domain.SalesRequestPending {
		return ErrDuplicateRequest
	}

	j.SalesRequest = &domain.SalesUpdateRequest{
		JobID:         j.ID,
		RequestedDate: requestedDate,
		Reason:        reason,
		RequestedAt:   e.now(),
		Status:        domain.SalesRequestPending,
		Source:        source,
		DrawingID:     drawingID,
		ProductID:     productID,
	}

	if source == domain.SalesSourcePlanning && drawingID != nil {
		if d := drawingByID(j, *drawingID); d != nil {
			e.Recompute(j, d)
		}
	}
	return nil
}

// ApproveSalesRequest accepts the pending request and moves the job's finish
// date. For a planning-sourced request the drawing advances normally when the
// new finish date covers its latest planned process date; otherwise it stays
// in Planning with the replan flag set and the method reports that the
// planner must reschedule manually.
func (e *Engine) ApproveSalesRequest(j *domain.Job, newFinishDate string) (needsReschedule bool, err error) {
	if strings.TrimSpace(newFinishDate) == "" {
		return false, fmt.Errorf("%w: new finish date is required", ErrValidation)
	}
	r := j.SalesRequest
	if r == nil || r.Status != domain.SalesRequestPending {
		return false, ErrNoPendingRequest
	}

	j.FinishDate = newFinishDate
	r.Status = domain.SalesRequestApproved

	if r.Source == domain.SalesSourcePlanning && r.DrawingID != nil {
		if d := drawingByID(j, *r.DrawingID); d != nil {
			latest := latestPlannedDate(d)
			if latest == "" || newFinishDate >= latest {
				e.Recompute(j, d)
			} else {
				d.ReplanRequired = true
				e.Recompute(j, d)
				needsReschedule = true
			}
		}
	}
	return needsReschedule, nil
}

// RejectSalesRequest declines the pending request. A rejected
// planning-sourced request keeps its drawing pinned to Planning until the
// drawing is edited again (which clears the request).
func (e *Engine) RejectSalesRequest(j *domain.Job, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	r := j.SalesRequest
	if r == nil || r.Status != domain.SalesRequestPending {
		return ErrNoPendingRequest
	}

	r.Status = domain.SalesRequestRejected
	r.RejectionReason = reason

	if r.Source == domain.SalesSourcePlanning && r.DrawingID != nil {
		if d := drawingByID(j, *r.DrawingID); d != nil {
			e.Recompute(j, d)
		}
	}
	return nil
}

// latestPlannedDate returns the maximum planned date across the drawing's
// processes. Dates are YYYY-MM-DD strings, so ordinary string comparison
// orders them.
func latestPlannedDate(d *domain.Drawing) string {
	latest := ""
	for i := range d.Processes {
		if pd := d.Processes[i].PlannedDate; pd > latest {
			latest = pd
		}
	}
	return latest
}

func drawingByID(j *domain.Job, id uuid.UUID) *domain.Drawing {
	for i := range j.Drawings {
		if j.Drawings[i].ID == id {
			return &j.Drawings[i]
		}
	}
	return nil
}
