package mapper

import (
	"time"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// ToProcessDTO converts Process to ProcessDTO
func ToProcessDTO(p *domain.Process) domain.ProcessDTO {
	return domain.ProcessDTO{
		ID:                    p.ID,
		Sequence:              p.Sequence,
		Name:                  p.Name,
		Machine:               p.Machine,
		EstimatedHours:        p.EstimatedHours,
		EstimatedMinutes:      p.EstimatedMinutes,
		PlannedDate:           p.PlannedDate,
		Completed:             p.Completed,
		CompletedAt:           formatTime(p.CompletedAt),
		QualityCheckCompleted: p.QualityCheckCompleted,
		QualityCheckComment:   p.QualityCheckComment,
		ProgrammingRequired:   p.ProgrammingRequired,
		OperatorName:          p.OperatorName,
		IsOvertime:            p.IsOvertime,
		OperatorHoldHistory:   p.OperatorHoldHistory,
	}
}

// ToReworkHistoryDTO converts ReworkHistoryEntry to ReworkHistoryDTO
func ToReworkHistoryDTO(e *domain.ReworkHistoryEntry) domain.ReworkHistoryDTO {
	return domain.ReworkHistoryDTO{
		ID:               e.ID,
		ProcessName:      e.ProcessName,
		Reason:           e.Reason,
		ReworkType:       e.ReworkType,
		TargetDepartment: e.TargetDepartment,
		ReworkCount:      e.ReworkCount,
		CreatedAt:        e.CreatedAt.UTC().Format(timestampLayout),
	}
}

// ToDrawingDTO converts Drawing to DrawingDTO
func ToDrawingDTO(d *domain.Drawing) domain.DrawingDTO {
	processes := make([]domain.ProcessDTO, 0, len(d.Processes))
	for i := range d.Processes {
		processes = append(processes, ToProcessDTO(&d.Processes[i]))
	}

	var reworkHistory []domain.ReworkHistoryDTO
	for i := range d.ReworkHistory {
		reworkHistory = append(reworkHistory, ToReworkHistoryDTO(&d.ReworkHistory[i]))
	}

	var designCompleted string
	if d.DesignCompletedDate != nil {
		designCompleted = d.DesignCompletedDate.UTC().Format("2006-01-02")
	}

	return domain.DrawingDTO{
		ID:                   d.ID,
		JobID:                d.JobID,
		Name:                 d.Name,
		Quantity:             d.Quantity,
		MaterialStatus:       d.MaterialStatus,
		MaterialCode:         d.MaterialCode,
		ExpectedMaterialDate: d.ExpectedMaterialDate,
		CurrentDepartment:    d.CurrentDepartment,
		PreviousDepartment:   d.PreviousDepartment,
		HoldReason:           d.HoldReason,
		ReplanRequired:       d.ReplanRequired,
		ReworkCount:          d.ReworkCount,
		IsUnderRework:        d.IsUnderRework,
		ReworkOriginProcess:  d.ReworkOriginProcess,
		DesignCompletedDate:  designCompleted,
		FinalQcApproved:      d.FinalQcApproved,
		FinalQcComment:       d.FinalQcComment,
		FinalQcApprovedAt:    formatTime(d.FinalQcApprovedAt),
		FinalReportPath:      d.FinalReportPath,
		Processes:            processes,
		ReworkHistory:        reworkHistory,
	}
}

// ToSalesUpdateRequestDTO converts SalesUpdateRequest to its DTO
func ToSalesUpdateRequestDTO(r *domain.SalesUpdateRequest) domain.SalesUpdateRequestDTO {
	return domain.SalesUpdateRequestDTO{
		ID:              r.ID,
		JobID:           r.JobID,
		RequestedDate:   r.RequestedDate,
		Reason:          r.Reason,
		RequestedAt:     r.RequestedAt.UTC().Format(timestampLayout),
		Status:          r.Status,
		Source:          r.Source,
		DrawingID:       r.DrawingID,
		ProductID:       r.ProductID,
		RejectionReason: r.RejectionReason,
	}
}

// ToProductOrderItemDTO converts ProductOrderItem to its DTO
func ToProductOrderItemDTO(p *domain.ProductOrderItem) domain.ProductOrderItemDTO {
	return domain.ProductOrderItemDTO{
		ID:          p.ID,
		Name:        p.Name,
		Quantity:    p.Quantity,
		Completed:   p.Completed,
		CompletedAt: formatTime(p.CompletedAt),
	}
}

// ToJobHoldEntryDTO converts JobHoldEntry to its DTO
func ToJobHoldEntryDTO(e *domain.JobHoldEntry) domain.JobHoldEntryDTO {
	return domain.JobHoldEntryDTO{
		Phase:     e.Phase,
		Reason:    e.Reason,
		HeldAt:    e.HeldAt.UTC().Format(timestampLayout),
		ResumedAt: formatTime(e.ResumedAt),
	}
}

// ToJobDTO converts the full Job aggregate to JobDTO
func ToJobDTO(j *domain.Job) domain.JobDTO {
	dto := domain.JobDTO{
		ID:                  j.ID,
		JobNumber:           j.JobNumber,
		CustomerName:        j.CustomerName,
		JobType:             j.JobType,
		Priority:            j.Priority,
		FinishDate:          j.FinishDate,
		DesignRequired:      j.DesignRequired,
		DesignCompleted:     j.DesignCompleted,
		DesignCompletedAt:   formatTime(j.DesignCompletedAt),
		DesignerName:        j.DesignerName,
		ProgrammingRequired: j.ProgrammingRequired,
		ProgrammingFinished: j.ProgrammingFinished,
		ProgrammerName:      j.ProgrammerName,
		CompletedAt:         formatTime(j.CompletedAt),
		DeliveredAt:         formatTime(j.DeliveredAt),
		CreatedAt:           j.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:           j.UpdatedAt.UTC().Format(timestampLayout),
	}

	if j.SalesRequest != nil {
		sr := ToSalesUpdateRequestDTO(j.SalesRequest)
		dto.SalesRequest = &sr
	}
	for i := range j.Drawings {
		dto.Drawings = append(dto.Drawings, ToDrawingDTO(&j.Drawings[i]))
	}
	for i := range j.Products {
		dto.Products = append(dto.Products, ToProductOrderItemDTO(&j.Products[i]))
	}
	for i := range j.HoldHistory {
		dto.HoldHistory = append(dto.HoldHistory, ToJobHoldEntryDTO(&j.HoldHistory[i]))
	}

	return dto
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(n *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:         n.ID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Read:       n.Read,
		ReadAt:     formatTime(n.ReadAt),
		EntityID:   n.EntityID,
		EntityType: n.EntityType,
		CreatedAt:  n.CreatedAt.UTC().Format(timestampLayout),
	}
}

// ToJobActivityDTO converts JobActivity to JobActivityDTO
func ToJobActivityDTO(a *domain.JobActivity) domain.JobActivityDTO {
	return domain.JobActivityDTO{
		ID:        a.ID,
		JobID:     a.JobID,
		DrawingID: a.DrawingID,
		Title:     a.Title,
		Body:      a.Body,
		ActorName: a.ActorName,
		CreatedAt: a.CreatedAt.UTC().Format(timestampLayout),
	}
}

// ToStaffDTO converts Staff to StaffDTO
func ToStaffDTO(s *domain.Staff) domain.StaffDTO {
	return domain.StaffDTO{
		ID:       s.ID,
		Name:     s.Name,
		Role:     s.Role,
		IsActive: s.IsActive,
	}
}

// ToMachineDTO converts Machine to MachineDTO
func ToMachineDTO(m *domain.Machine) domain.MachineDTO {
	return domain.MachineDTO{
		ID:          m.ID,
		Name:        m.Name,
		ProcessType: m.ProcessType,
		IsActive:    m.IsActive,
	}
}

// ToProcessDepartmentDTO converts ProcessDepartment to its DTO
func ToProcessDepartmentDTO(pd *domain.ProcessDepartment) domain.ProcessDepartmentDTO {
	return domain.ProcessDepartmentDTO{
		ID:          pd.ID,
		ProcessName: pd.ProcessName,
		Department:  pd.Department,
	}
}
