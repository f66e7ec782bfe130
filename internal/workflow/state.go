package workflow

import (
	"sort"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

// ComputeDepartment derives a drawing's current department from its own fields
// plus the job's sales-approval context. Total and pure; rules are evaluated
// in strict priority order and the first match wins:
//
//  1. replan required            -> Planning
//  2. pending/rejected planning-sourced sales request for this drawing -> Planning
//  3. under rework               -> current department unchanged (sticky)
//  4. on hold                    -> Hold
//  5. in design                  -> Design
//  6. material not ready         -> Planning
//  7. no processes               -> Planning
//  8. first incomplete process   -> its catalog department (Planning if unmapped)
//  9. all processes done         -> Final Quality Check
//
// The ordering is load-bearing: rework and hold are sticky and override
// everything except an explicit replan, and material-not-ready always gates
// the drawing in Planning regardless of process state.
func ComputeDepartment(d *domain.Drawing, j *domain.Job, catalog Catalog) string {
	if d.ReplanRequired {
		return domain.DepartmentPlanning
	}

	if r := j.SalesRequest; r != nil &&
		r.Source == domain.SalesSourcePlanning &&
		(r.Status == domain.SalesRequestPending || r.Status == domain.SalesRequestRejected) &&
		r.DrawingID != nil && *r.DrawingID == d.ID {
		return domain.DepartmentPlanning
	}

	if d.IsUnderRework {
		return d.CurrentDepartment
	}

	if d.CurrentDepartment == domain.DepartmentHold {
		return domain.DepartmentHold
	}

	if d.CurrentDepartment == domain.DepartmentDesign {
		return domain.DepartmentDesign
	}

	if d.MaterialStatus != domain.MaterialReady {
		return domain.DepartmentPlanning
	}

	if len(d.Processes) == 0 {
		return domain.DepartmentPlanning
	}

	for _, p := range sortedProcesses(d.Processes) {
		if !p.Completed || !p.QualityCheckCompleted {
			if dept, ok := catalog.Lookup(p.Name); ok {
				return dept
			}
			return domain.DepartmentPlanning
		}
	}

	return domain.DepartmentFinalQC
}

// sortedProcesses returns a copy of the process list ordered by sequence.
func sortedProcesses(processes []domain.Process) []domain.Process {
	sorted := make([]domain.Process, len(processes))
	copy(sorted, processes)
	sort.SliceStable(sorted, func(i, k int) bool {
		return sorted[i].Sequence < sorted[k].Sequence
	})
	return sorted
}
