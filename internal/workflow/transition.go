package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

// Engine applies workflow operations to a job's drawings and keeps the
// derived department cache consistent. It is pure: operations mutate the
// passed aggregates in place and the caller persists the result.
type Engine struct {
	catalog Catalog
	now     func() time.Time
}

// NewEngine creates an engine over the given process catalog.
func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog, now: time.Now}
}

// WithClock overrides the engine clock. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Recompute refreshes the drawing's department cache from its authoritative
// fields. A drawing completed by a saved final report is terminal and is
// never demoted by recomputation.
func (e *Engine) Recompute(j *domain.Job, d *domain.Drawing) {
	if d.CurrentDepartment == domain.DepartmentCompleted && d.FinalReportPath != "" {
		return
	}
	d.CurrentDepartment = ComputeDepartment(d, j, e.catalog)
}

// CanCompleteProcess reports whether the process at sequence may be marked
// complete: every earlier step must be both completed and quality checked.
func (e *Engine) CanCompleteProcess(d *domain.Drawing, sequence int) error {
	if _, err := processBySequence(d, sequence); err != nil {
		return err
	}
	for i := range d.Processes {
		p := &d.Processes[i]
		if p.Sequence < sequence && (!p.Completed || !p.QualityCheckCompleted) {
			return fmt.Errorf("%w: process %q (sequence %d) is still open",
				ErrSequenceGate, p.Name, p.Sequence)
		}
	}
	return nil
}

// CompleteProcess marks the process at sequence complete or reopens it.
//
// Completing is rejected with ErrProgrammingIncomplete when the target is a
// CNC step whose program the job has not finished, and with
// ErrProgrammingPending when the *next* sequential step is such a CNC step and
// the caller has not confirmed; confirming still marks the current step
// complete and the drawing advances once programming finishes. Reopening a
// process also clears its quality check and completion timestamp.
func (e *Engine) CompleteProcess(j *domain.Job, d *domain.Drawing, sequence int, completed, confirmProgrammingPending bool) error {
	p, err := processBySequence(d, sequence)
	if err != nil {
		return err
	}

	if !completed {
		p.Completed = false
		p.CompletedAt = nil
		p.QualityCheckCompleted = false
		e.Recompute(j, d)
		return nil
	}

	if p.Completed {
		// Already complete: no-op.
		return nil
	}

	if err := e.CanCompleteProcess(d, sequence); err != nil {
		return err
	}

	if p.ProgrammingRequired && !j.ProgrammingFinished {
		return fmt.Errorf("%w: process %q", ErrProgrammingIncomplete, p.Name)
	}

	if next := nextProcess(d, sequence); next != nil &&
		next.ProgrammingRequired && !j.ProgrammingFinished && !confirmProgrammingPending {
		return fmt.Errorf("%w: process %q", ErrProgrammingPending, next.Name)
	}

	now := e.now()
	p.Completed = true
	p.CompletedAt = &now
	e.Recompute(j, d)
	return nil
}

// CompleteQualityCheck records the quality-check result for a completed
// process. It has no effect unless the process is already completed.
func (e *Engine) CompleteQualityCheck(j *domain.Job, d *domain.Drawing, sequence int, checked bool, comment string) error {
	p, err := processBySequence(d, sequence)
	if err != nil {
		return err
	}

	if checked && !p.Completed {
		return fmt.Errorf("%w: process %q (sequence %d)", ErrProcessNotCompleted, p.Name, p.Sequence)
	}

	p.QualityCheckCompleted = checked
	if comment != "" {
		p.QualityCheckComment = comment
	}
	e.Recompute(j, d)
	return nil
}

// InitiateRework reopens the named process and every process after it in
// sequence order, since rework invalidates downstream work. Cross-department
// rework routes the drawing to targetDepartment and freezes it there until
// CompleteRework; in-department rework keeps it with the process's own
// department. Requires at least one process that is completed and quality
// checked.
func (e *Engine) InitiateRework(j *domain.Job, d *domain.Drawing, processName, reason string, reworkType domain.ReworkType, targetDepartment string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: rework reason is required", ErrValidation)
	}
	if !reworkType.IsValid() {
		return fmt.Errorf("%w: unknown rework type %q", ErrValidation, reworkType)
	}
	if reworkType == domain.ReworkCrossDepartment && strings.TrimSpace(targetDepartment) == "" {
		return fmt.Errorf("%w: target department is required for cross-department rework", ErrValidation)
	}

	eligible := false
	for i := range d.Processes {
		if d.Processes[i].Completed && d.Processes[i].QualityCheckCompleted {
			eligible = true
			break
		}
	}
	if !eligible {
		return ErrNoEligibleProcess
	}

	originSeq := -1
	for _, p := range sortedProcesses(d.Processes) {
		if strings.EqualFold(p.Name, processName) {
			originSeq = p.Sequence
			break
		}
	}
	if originSeq < 0 {
		return fmt.Errorf("%w: %q", ErrProcessNotFound, processName)
	}

	for i := range d.Processes {
		p := &d.Processes[i]
		if p.Sequence >= originSeq {
			p.Completed = false
			p.CompletedAt = nil
			p.QualityCheckCompleted = false
		}
	}

	d.ReworkCount++
	d.ReworkHistory = append(d.ReworkHistory, domain.ReworkHistoryEntry{
		DrawingID:        d.ID,
		ProcessName:      processName,
		Reason:           reason,
		ReworkType:       reworkType,
		TargetDepartment: targetDepartment,
		ReworkCount:      d.ReworkCount,
		CreatedAt:        e.now(),
	})
	d.IsUnderRework = reworkType == domain.ReworkCrossDepartment
	d.ReworkOriginProcess = processName
	d.FinalQcApproved = false
	d.FinalQcApprovedAt = nil

	if reworkType == domain.ReworkCrossDepartment {
		// Sticky: rule 3 keeps the drawing here until CompleteRework.
		d.CurrentDepartment = targetDepartment
		return nil
	}

	if dept, ok := e.catalog.Lookup(processName); ok {
		d.CurrentDepartment = dept
	} else {
		d.CurrentDepartment = domain.DepartmentPlanning
	}
	e.Recompute(j, d)
	return nil
}

// CompleteRework releases a drawing from rework and re-derives its department.
func (e *Engine) CompleteRework(j *domain.Job, d *domain.Drawing) {
	d.IsUnderRework = false
	d.ReworkOriginProcess = ""
	e.Recompute(j, d)
}

// HoldDrawing parks a drawing, remembering where it was.
func (e *Engine) HoldDrawing(d *domain.Drawing, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: hold reason is required", ErrValidation)
	}
	if d.CurrentDepartment == domain.DepartmentHold {
		return ErrAlreadyOnHold
	}
	d.PreviousDepartment = d.CurrentDepartment
	d.CurrentDepartment = domain.DepartmentHold
	d.HoldReason = reason
	return nil
}

// ResumeDrawing restores a held drawing to its previous department. Resuming
// always forces a finish-date confirmation, so the caller must supply the
// job's updated finish date.
func (e *Engine) ResumeDrawing(j *domain.Job, d *domain.Drawing, newFinishDate string) error {
	if strings.TrimSpace(newFinishDate) == "" {
		return fmt.Errorf("%w: an updated finish date is required to resume", ErrValidation)
	}
	if d.CurrentDepartment != domain.DepartmentHold {
		return ErrNotOnHold
	}
	if d.PreviousDepartment != "" {
		d.CurrentDepartment = d.PreviousDepartment
	} else {
		d.CurrentDepartment = domain.DepartmentPlanning
	}
	d.PreviousDepartment = ""
	d.HoldReason = ""
	j.FinishDate = newFinishDate
	e.Recompute(j, d)
	return nil
}

// CompleteDesign moves a drawing out of Design, stamping its design
// completion date the first time.
func (e *Engine) CompleteDesign(j *domain.Job, d *domain.Drawing) {
	if d.CurrentDepartment != domain.DepartmentDesign {
		return
	}
	if d.DesignCompletedDate == nil {
		now := e.now()
		d.DesignCompletedDate = &now
	}
	d.CurrentDepartment = domain.DepartmentPlanning
	e.Recompute(j, d)
}

// FinalQcApprove records the final quality verdict. The drawing stays in
// Final Quality Check until a final report is saved.
func (e *Engine) FinalQcApprove(d *domain.Drawing, approved bool, comment string) {
	d.FinalQcApproved = approved
	if approved {
		now := e.now()
		d.FinalQcApprovedAt = &now
	} else {
		d.FinalQcApprovedAt = nil
	}
	if comment != "" {
		d.FinalQcComment = comment
	}
}

// SaveFinalReport attaches the terminal report artifact and completes the
// drawing. The final quality check must be approved first.
func (e *Engine) SaveFinalReport(d *domain.Drawing, reportPath string) error {
	if strings.TrimSpace(reportPath) == "" {
		return fmt.Errorf("%w: report path is required", ErrValidation)
	}
	if !d.FinalQcApproved {
		return ErrFinalQcNotApproved
	}
	now := e.now()
	d.FinalReportPath = reportPath
	d.FinalReportSavedAt = &now
	d.CurrentDepartment = domain.DepartmentCompleted
	return nil
}

// ReplaceProcesses swaps in a freshly planned process list with contiguous
// 1-based sequences. Editing a drawing clears its replan flag and any
// resolved (non-pending) sales request that pinned it, and refreshes the
// job's programming requirement (monotonic: once required, it stays required
// until explicitly cleared elsewhere).
func (e *Engine) ReplaceProcesses(j *domain.Job, d *domain.Drawing, processes []domain.Process) {
	for i := range processes {
		processes[i].Sequence = i + 1
		processes[i].DrawingID = d.ID
	}
	d.Processes = processes
	d.ReplanRequired = false

	if r := j.SalesRequest; r != nil && r.Status != domain.SalesRequestPending &&
		r.DrawingID != nil && *r.DrawingID == d.ID {
		j.SalesRequest = nil
	}

	for i := range processes {
		if processes[i].ProgrammingRequired {
			j.ProgrammingRequired = true
			break
		}
	}

	e.Recompute(j, d)
}

// processBySequence finds the process with the given sequence.
func processBySequence(d *domain.Drawing, sequence int) (*domain.Process, error) {
	for i := range d.Processes {
		if d.Processes[i].Sequence == sequence {
			return &d.Processes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: sequence %d", ErrProcessNotFound, sequence)
}

// nextProcess returns the process immediately after the given sequence, or
// nil if it is the last step.
func nextProcess(d *domain.Drawing, sequence int) *domain.Process {
	var next *domain.Process
	for i := range d.Processes {
		p := &d.Processes[i]
		if p.Sequence > sequence && (next == nil || p.Sequence < next.Sequence) {
			next = p
		}
	}
	return next
}
