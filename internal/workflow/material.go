package workflow

import (
	"fmt"
	"strings"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

// Material availability gating. A drawing can never leave Planning while its
// material is not Ready, regardless of process completion state.

// SetMaterialReady marks the drawing's material as available and re-derives
// its department, releasing the Planning gate.
func (e *Engine) SetMaterialReady(j *domain.Job, d *domain.Drawing) {
	d.MaterialStatus = domain.MaterialReady
	d.ExpectedMaterialDate = ""
	e.Recompute(j, d)
}

// SetAwaitingStock records that material is on order with an expected arrival
// date. The drawing stays gated in Planning until the material is Ready.
func (e *Engine) SetAwaitingStock(j *domain.Job, d *domain.Drawing, expectedDate string) error {
	if strings.TrimSpace(expectedDate) == "" {
		return fmt.Errorf("%w: expected material date is required", ErrValidation)
	}
	d.MaterialStatus = domain.MaterialAwaitingStock
	d.ExpectedMaterialDate = expectedDate
	e.Recompute(j, d)
	return nil
}

// ReturnToPlanningForDelay is used when the expected material date itself
// already breaks the schedule: the drawing goes back to Planning with the
// replan flag set, forcing a re-edit of all downstream process dates.
func (e *Engine) ReturnToPlanningForDelay(j *domain.Job, d *domain.Drawing, expectedDate string) error {
	if strings.TrimSpace(expectedDate) == "" {
		return fmt.Errorf("%w: expected material date is required", ErrValidation)
	}
	d.MaterialStatus = domain.MaterialAwaitingStock
	d.ExpectedMaterialDate = expectedDate
	d.ReplanRequired = true
	e.Recompute(j, d)
	return nil
}
