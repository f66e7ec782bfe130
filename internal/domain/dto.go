package domain

import (
	"github.com/google/uuid"
)

// PaginatedResponse wraps list responses with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

type ProcessDTO struct {
	ID                    uuid.UUID `json:"id"`
	Sequence              int       `json:"sequence"`
	Name                  string    `json:"name"`
	Machine               string    `json:"machine,omitempty"`
	EstimatedHours        int       `json:"estimatedHours"`
	EstimatedMinutes      int       `json:"estimatedMinutes"`
	PlannedDate           string    `json:"plannedDate,omitempty"`
	Completed             bool      `json:"completed"`
	CompletedAt           string    `json:"completedAt,omitempty"`
	QualityCheckCompleted bool      `json:"qualityCheckCompleted"`
	QualityCheckComment   string    `json:"qualityCheckComment,omitempty"`
	ProgrammingRequired   bool      `json:"programmingRequired"`
	OperatorName          string    `json:"operatorName,omitempty"`
	IsOvertime            bool      `json:"isOvertime"`
	OperatorHoldHistory   []string  `json:"operatorHoldHistory,omitempty"`
}

type ReworkHistoryDTO struct {
	ID               uuid.UUID  `json:"id"`
	ProcessName      string     `json:"processName"`
	Reason           string     `json:"reason"`
	ReworkType       ReworkType `json:"reworkType"`
	TargetDepartment string     `json:"targetDepartment,omitempty"`
	ReworkCount      int        `json:"reworkCount"`
	CreatedAt        string     `json:"createdAt"`
}

type DrawingDTO struct {
	ID                   uuid.UUID          `json:"id"`
	JobID                uuid.UUID          `json:"jobId"`
	Name                 string             `json:"name"`
	Quantity             int                `json:"quantity"`
	MaterialStatus       MaterialStatus     `json:"materialStatus"`
	MaterialCode         string             `json:"materialCode,omitempty"`
	ExpectedMaterialDate string             `json:"expectedMaterialDate,omitempty"`
	CurrentDepartment    string             `json:"currentDepartment"`
	PreviousDepartment   string             `json:"previousDepartment,omitempty"`
	HoldReason           string             `json:"holdReason,omitempty"`
	ReplanRequired       bool               `json:"replanRequired"`
	ReworkCount          int                `json:"reworkCount"`
	IsUnderRework        bool               `json:"isUnderRework"`
	ReworkOriginProcess  string             `json:"reworkOriginProcess,omitempty"`
	DesignCompletedDate  string             `json:"designCompletedDate,omitempty"`
	FinalQcApproved      bool               `json:"finalQcApproved"`
	FinalQcComment       string             `json:"finalQcComment,omitempty"`
	FinalQcApprovedAt    string             `json:"finalQcApprovedAt,omitempty"`
	FinalReportPath      string             `json:"finalReportPath,omitempty"`
	Processes            []ProcessDTO       `json:"processes"`
	ReworkHistory        []ReworkHistoryDTO `json:"reworkHistory,omitempty"`
}

type SalesUpdateRequestDTO struct {
	ID              uuid.UUID          `json:"id"`
	JobID           uuid.UUID          `json:"jobId"`
	RequestedDate   string             `json:"requestedDate"`
	Reason          string             `json:"reason"`
	RequestedAt     string             `json:"requestedAt"`
	Status          SalesRequestStatus `json:"status"`
	Source          SalesRequestSource `json:"source"`
	DrawingID       *uuid.UUID         `json:"drawingId,omitempty"`
	ProductID       *uuid.UUID         `json:"productId,omitempty"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
}

type ProductOrderItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	Completed   bool      `json:"completed"`
	CompletedAt string    `json:"completedAt,omitempty"`
}

type JobHoldEntryDTO struct {
	Phase     JobHoldPhase `json:"phase"`
	Reason    string       `json:"reason"`
	HeldAt    string       `json:"heldAt"`
	ResumedAt string       `json:"resumedAt,omitempty"`
}

type JobDTO struct {
	ID                  uuid.UUID              `json:"id"`
	JobNumber           string                 `json:"jobNumber"`
	CustomerName        string                 `json:"customerName,omitempty"`
	JobType             JobType                `json:"jobType"`
	Priority            JobPriority            `json:"priority"`
	FinishDate          string                 `json:"finishDate,omitempty"`
	DesignRequired      bool                   `json:"designRequired"`
	DesignCompleted     bool                   `json:"designCompleted"`
	DesignCompletedAt   string                 `json:"designCompletedAt,omitempty"`
	DesignerName        string                 `json:"designerName,omitempty"`
	ProgrammingRequired bool                   `json:"programmingRequired"`
	ProgrammingFinished bool                   `json:"programmingFinished"`
	ProgrammerName      string                 `json:"programmerName,omitempty"`
	SalesRequest        *SalesUpdateRequestDTO `json:"salesUpdateRequest,omitempty"`
	Drawings            []DrawingDTO           `json:"drawings,omitempty"`
	Products            []ProductOrderItemDTO  `json:"products,omitempty"`
	HoldHistory         []JobHoldEntryDTO      `json:"holdHistory,omitempty"`
	CompletedAt         string                 `json:"completedAt,omitempty"`
	DeliveredAt         string                 `json:"deliveredAt,omitempty"`
	CreatedAt           string                 `json:"createdAt"`
	UpdatedAt           string                 `json:"updatedAt"`
}

type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	ReadAt     string     `json:"readAt,omitempty"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

type JobActivityDTO struct {
	ID        uuid.UUID  `json:"id"`
	JobID     uuid.UUID  `json:"jobId"`
	DrawingID *uuid.UUID `json:"drawingId,omitempty"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	ActorName string     `json:"actorName,omitempty"`
	CreatedAt string     `json:"createdAt"`
}

type StaffDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Role     StaffRole `json:"role"`
	IsActive bool      `json:"isActive"`
}

type MachineDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ProcessType string    `json:"processType,omitempty"`
	IsActive    bool      `json:"isActive"`
}

type ProcessDepartmentDTO struct {
	ID          uuid.UUID `json:"id"`
	ProcessName string    `json:"processName"`
	Department  string    `json:"department"`
}

// DashboardDTO carries per-department badge counts derived from the current
// job collection. It is recomputed on demand, never stored.
type DashboardDTO struct {
	DepartmentCounts map[string]int `json:"departmentCounts"`
	UrgentJobs       int            `json:"urgentJobs"`
	OverdueJobs      int            `json:"overdueJobs"`
	PendingSales     int            `json:"pendingSalesRequests"`
	AwaitingMaterial int            `json:"awaitingMaterial"`
	UnderRework      int            `json:"underRework"`
	OnHold           int            `json:"onHold"`
}

// ---- Requests ----

type CreateJobRequest struct {
	JobNumber      string      `json:"jobNumber" validate:"required,max=50"`
	CustomerName   string      `json:"customerName" validate:"max=200"`
	JobType        JobType     `json:"jobType" validate:"required,oneof=service product"`
	Priority       JobPriority `json:"priority" validate:"omitempty,oneof=normal urgent"`
	FinishDate     string      `json:"finishDate" validate:"omitempty,datetime=2006-01-02"`
	DesignRequired bool        `json:"designRequired"`
}

type UpdateJobRequest struct {
	CustomerName string      `json:"customerName" validate:"max=200"`
	Priority     JobPriority `json:"priority" validate:"omitempty,oneof=normal urgent"`
	FinishDate   string      `json:"finishDate" validate:"omitempty,datetime=2006-01-02"`
}

type CreateDrawingRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

// ProcessInput declares one step when a drawing's process list is edited
type ProcessInput struct {
	Name                string `json:"name" validate:"required,max=200"`
	Machine             string `json:"machine" validate:"max=200"`
	EstimatedHours      int    `json:"estimatedHours" validate:"gte=0"`
	EstimatedMinutes    int    `json:"estimatedMinutes" validate:"gte=0,lte=59"`
	PlannedDate         string `json:"plannedDate" validate:"omitempty,datetime=2006-01-02"`
	ProgrammingRequired bool   `json:"programmingRequired"`
	OperatorName        string `json:"operatorName" validate:"max=200"`
	IsOvertime          bool   `json:"isOvertime"`
}

type UpdateProcessesRequest struct {
	Processes []ProcessInput `json:"processes" validate:"required,dive"`
}

type CompleteProcessRequest struct {
	Sequence  int  `json:"sequence" validate:"gte=1"`
	Completed bool `json:"completed"`
	// ConfirmProgrammingPending acknowledges that the next step is a CNC
	// process whose program is not ready yet.
	ConfirmProgrammingPending bool `json:"confirmProgrammingPending"`
}

type QualityCheckRequest struct {
	Sequence int    `json:"sequence" validate:"gte=1"`
	Checked  bool   `json:"checked"`
	Comment  string `json:"comment" validate:"max=1000"`
}

type ReworkRequest struct {
	ProcessName      string     `json:"processName" validate:"required,max=200"`
	Reason           string     `json:"reason" validate:"required,max=500"`
	ReworkType       ReworkType `json:"reworkType" validate:"required,oneof=in-department cross-department"`
	TargetDepartment string     `json:"targetDepartment" validate:"max=100"`
}

type HoldDrawingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ResumeDrawingRequest struct {
	NewFinishDate string `json:"newFinishDate" validate:"required,datetime=2006-01-02"`
}

type FinalQcRequest struct {
	Approved bool   `json:"approved"`
	Comment  string `json:"comment" validate:"max=1000"`
}

type AwaitingStockRequest struct {
	ExpectedDate string `json:"expectedDate" validate:"required,datetime=2006-01-02"`
	MaterialCode string `json:"materialCode" validate:"max=100"`
}

type RaiseSalesRequest struct {
	Source        SalesRequestSource `json:"source" validate:"required,oneof=planning stores"`
	Reason        string             `json:"reason" validate:"required,max=500"`
	RequestedDate string             `json:"requestedDate" validate:"required,datetime=2006-01-02"`
	DrawingID     *uuid.UUID         `json:"drawingId"`
	ProductID     *uuid.UUID         `json:"productId"`
}

type ApproveSalesRequest struct {
	NewFinishDate string `json:"newFinishDate" validate:"required,datetime=2006-01-02"`
}

type RejectSalesRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type FinishDesignRequest struct {
	Drawings []CreateDrawingRequest `json:"drawings" validate:"required,min=1,dive"`
}

type AssignStaffRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type HoldJobPhaseRequest struct {
	Phase  JobHoldPhase `json:"phase" validate:"required,oneof=design programming"`
	Reason string       `json:"reason" validate:"required,max=500"`
}

type ResumeJobPhaseRequest struct {
	Phase JobHoldPhase `json:"phase" validate:"required,oneof=design programming"`
}

type CompleteProductItemRequest struct {
	Completed bool `json:"completed"`
}

type CreateProductItemRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

type CreateStaffRequest struct {
	Name string    `json:"name" validate:"required,max=200"`
	Role StaffRole `json:"role" validate:"required,oneof=designer programmer"`
}

type RenameStaffRequest struct {
	NewName string `json:"newName" validate:"required,max=200"`
}

type CreateMachineRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	ProcessType string `json:"processType" validate:"max=200"`
}

type UpsertProcessDepartmentRequest struct {
	ProcessName string `json:"processName" validate:"required,max=200"`
	Department  string `json:"department" validate:"required,max=100"`
}
