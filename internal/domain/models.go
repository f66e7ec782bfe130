package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key. IDs are generated application-side
// so the same models work on PostgreSQL and the sqlite test databases.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JobType distinguishes custom service work from catalogue product orders
type JobType string

const (
	JobTypeService JobType = "service"
	JobTypeProduct JobType = "product"
)

// IsValid checks if the JobType is a valid enum value
func (jt JobType) IsValid() bool {
	switch jt {
	case JobTypeService, JobTypeProduct:
		return true
	}
	return false
}

// JobPriority represents the urgency of a job
type JobPriority string

const (
	JobPriorityNormal JobPriority = "normal"
	JobPriorityUrgent JobPriority = "urgent"
)

// IsValid checks if the JobPriority is a valid enum value
func (jp JobPriority) IsValid() bool {
	switch jp {
	case JobPriorityNormal, JobPriorityUrgent:
		return true
	}
	return false
}

// MaterialStatus represents a drawing's material readiness sub-state
type MaterialStatus string

const (
	MaterialPending       MaterialStatus = "Pending"
	MaterialAwaitingStock MaterialStatus = "Awaiting Stock"
	MaterialReady         MaterialStatus = "Ready"
)

// IsValid checks if the MaterialStatus is a valid enum value
func (ms MaterialStatus) IsValid() bool {
	switch ms {
	case MaterialPending, MaterialAwaitingStock, MaterialReady:
		return true
	}
	return false
}

// Fixed workflow departments. Machining departments come from the
// process-department catalog and are plain strings.
const (
	DepartmentDesign    = "Design"
	DepartmentPlanning  = "Planning"
	DepartmentHold      = "Hold"
	DepartmentFinalQC   = "Final Quality Check"
	DepartmentCompleted = "Completed"
)

// Job represents a manufacturing job moving through the workflow
type Job struct {
	BaseModel
	JobNumber    string      `gorm:"type:varchar(50);unique;index;column:job_number"`
	CustomerName string      `gorm:"type:varchar(200);column:customer_name"`
	JobType      JobType     `gorm:"type:varchar(20);not null;default:'service';column:job_type;index"`
	Priority     JobPriority `gorm:"type:varchar(20);not null;default:'normal'"`
	// FinishDate is a date-only string (YYYY-MM-DD); all schedule comparisons
	// in the workflow engine are calendar-day string comparisons.
	FinishDate string `gorm:"type:varchar(10);column:finish_date"`

	DesignRequired    bool       `gorm:"not null;default:false;column:design_required"`
	DesignCompleted   bool       `gorm:"not null;default:false;column:design_completed"`
	DesignCompletedAt *time.Time `gorm:"column:design_completed_at"`
	DesignerName      string     `gorm:"type:varchar(200);column:designer_name;index"`

	ProgrammingRequired bool   `gorm:"not null;default:false;column:programming_required"`
	ProgrammingFinished bool   `gorm:"not null;default:false;column:programming_finished"`
	ProgrammerName      string `gorm:"type:varchar(200);column:programmer_name;index"`

	SalesRequest *SalesUpdateRequest `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	Drawings     []Drawing           `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	Products     []ProductOrderItem  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	HoldHistory  []JobHoldEntry      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`

	CompletedAt *time.Time `gorm:"column:completed_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
}

// IsComplete reports whether every drawing (service) or product line (product)
// has individually reached its terminal state.
func (j *Job) IsComplete() bool {
	switch j.JobType {
	case JobTypeProduct:
		if len(j.Products) == 0 {
			return false
		}
		for _, p := range j.Products {
			if !p.Completed {
				return false
			}
		}
		return true
	default:
		if len(j.Drawings) == 0 {
			return false
		}
		for i := range j.Drawings {
			if j.Drawings[i].CurrentDepartment != DepartmentCompleted {
				return false
			}
		}
		return true
	}
}

// Drawing represents a single part within a service job, with its own process route
type Drawing struct {
	BaseModel
	JobID    uuid.UUID `gorm:"type:uuid;not null;index;column:job_id"`
	Name     string    `gorm:"type:varchar(200);not null"`
	Quantity int       `gorm:"not null;default:1"`

	MaterialStatus       MaterialStatus `gorm:"type:varchar(30);not null;default:'Pending';column:material_status"`
	MaterialCode         string         `gorm:"type:varchar(100);column:material_code"`
	ExpectedMaterialDate string         `gorm:"type:varchar(10);column:expected_material_date"`

	Processes []Process `gorm:"foreignKey:DrawingID;constraint:OnDelete:CASCADE"`

	// CurrentDepartment is derived by the workflow engine and persisted as a
	// read-optimization cache. Every mutation path recomputes it before saving.
	CurrentDepartment  string `gorm:"type:varchar(100);not null;default:'Planning';column:current_department;index"`
	PreviousDepartment string `gorm:"type:varchar(100);column:previous_department"`
	HoldReason         string `gorm:"type:varchar(500);column:hold_reason"`
	ReplanRequired     bool   `gorm:"not null;default:false;column:replan_required"`

	ReworkCount         int                  `gorm:"not null;default:0;column:rework_count"`
	ReworkHistory       []ReworkHistoryEntry `gorm:"foreignKey:DrawingID;constraint:OnDelete:CASCADE"`
	IsUnderRework       bool                 `gorm:"not null;default:false;column:is_under_rework"`
	ReworkOriginProcess string               `gorm:"type:varchar(200);column:rework_origin_process"`

	DesignCompletedDate *time.Time `gorm:"column:design_completed_date"`

	FinalQcApproved    bool       `gorm:"not null;default:false;column:final_qc_approved"`
	FinalQcComment     string     `gorm:"type:varchar(1000);column:final_qc_comment"`
	FinalQcApprovedAt  *time.Time `gorm:"column:final_qc_approved_at"`
	FinalReportPath    string     `gorm:"type:varchar(500);column:final_report_path"`
	FinalReportSavedAt *time.Time `gorm:"column:final_report_saved_at"`
}

// Process represents one manufacturing step in a drawing's sequence
type Process struct {
	BaseModel
	DrawingID uuid.UUID `gorm:"type:uuid;not null;index;column:drawing_id"`
	// Sequence is the 1-based position in the pipeline, contiguous within a drawing.
	Sequence         int    `gorm:"not null"`
	Name             string `gorm:"type:varchar(200);not null"`
	Machine          string `gorm:"type:varchar(200)"`
	EstimatedHours   int    `gorm:"not null;default:0;column:estimated_hours"`
	EstimatedMinutes int    `gorm:"not null;default:0;column:estimated_minutes"`
	PlannedDate      string `gorm:"type:varchar(10);column:planned_date"`

	Completed             bool       `gorm:"not null;default:false"`
	CompletedAt           *time.Time `gorm:"column:completed_at"`
	QualityCheckCompleted bool       `gorm:"not null;default:false;column:quality_check_completed"`
	QualityCheckComment   string     `gorm:"type:varchar(1000);column:quality_check_comment"`

	// ProgrammingRequired is only meaningful for CNC-type processes.
	ProgrammingRequired bool `gorm:"not null;default:false;column:programming_required"`

	OperatorName        string   `gorm:"type:varchar(200);column:operator_name"`
	IsOvertime          bool     `gorm:"not null;default:false;column:is_overtime"`
	OperatorHoldHistory []string `gorm:"serializer:json;type:text;column:operator_hold_history"`
}

// SalesRequestStatus represents the lifecycle state of a date-change request
type SalesRequestStatus string

const (
	SalesRequestPending  SalesRequestStatus = "pending"
	SalesRequestApproved SalesRequestStatus = "approved"
	SalesRequestRejected SalesRequestStatus = "rejected"
)

// SalesRequestSource identifies which department raised a date-change request
type SalesRequestSource string

const (
	SalesSourcePlanning SalesRequestSource = "planning"
	SalesSourceStores   SalesRequestSource = "stores"
)

// IsValid checks if the SalesRequestSource is a valid enum value
func (s SalesRequestSource) IsValid() bool {
	switch s {
	case SalesSourcePlanning, SalesSourceStores:
		return true
	}
	return false
}

// SalesUpdateRequest is a proposed finish-date change awaiting Sales approval.
// At most one exists per job (unique JobID).
type SalesUpdateRequest struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key"`
	JobID           uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex;column:job_id"`
	RequestedDate   string             `gorm:"type:varchar(10);not null;column:requested_date"`
	Reason          string             `gorm:"type:varchar(500);not null"`
	RequestedAt     time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP;column:requested_at"`
	Status          SalesRequestStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Source          SalesRequestSource `gorm:"type:varchar(20);not null"`
	DrawingID       *uuid.UUID         `gorm:"type:uuid;column:drawing_id"`
	ProductID       *uuid.UUID         `gorm:"type:uuid;column:product_id"`
	RejectionReason string             `gorm:"type:varchar(500);column:rejection_reason"`
}

// TableName overrides the default table name
func (SalesUpdateRequest) TableName() string {
	return "sales_update_requests"
}

func (r *SalesUpdateRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReworkType distinguishes rework redone in place from rework routed elsewhere
type ReworkType string

const (
	ReworkInDepartment    ReworkType = "in-department"
	ReworkCrossDepartment ReworkType = "cross-department"
)

// IsValid checks if the ReworkType is a valid enum value
func (rt ReworkType) IsValid() bool {
	switch rt {
	case ReworkInDepartment, ReworkCrossDepartment:
		return true
	}
	return false
}

// ReworkHistoryEntry is an immutable log row appended on each rework
type ReworkHistoryEntry struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key"`
	DrawingID        uuid.UUID  `gorm:"type:uuid;not null;index;column:drawing_id"`
	ProcessName      string     `gorm:"type:varchar(200);not null;column:process_name"`
	Reason           string     `gorm:"type:varchar(500);not null"`
	ReworkType       ReworkType `gorm:"type:varchar(30);not null;column:rework_type"`
	TargetDepartment string     `gorm:"type:varchar(100);column:target_department"`
	ReworkCount      int        `gorm:"not null;column:rework_count"`
	CreatedAt        time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default table name
func (ReworkHistoryEntry) TableName() string {
	return "rework_history"
}

func (e *ReworkHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ProductOrderItem is a catalogue product line within a product job
type ProductOrderItem struct {
	BaseModel
	JobID       uuid.UUID  `gorm:"type:uuid;not null;index;column:job_id"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Quantity    int        `gorm:"not null;default:1"`
	Completed   bool       `gorm:"not null;default:false"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

// JobHoldPhase identifies which sub-flow of a job was held
type JobHoldPhase string

const (
	HoldPhaseDesign      JobHoldPhase = "design"
	HoldPhaseProgramming JobHoldPhase = "programming"
)

// JobHoldEntry records a hold/resume cycle on a job's design or programming sub-flow
type JobHoldEntry struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key"`
	JobID     uuid.UUID    `gorm:"type:uuid;not null;index;column:job_id"`
	Phase     JobHoldPhase `gorm:"type:varchar(20);not null"`
	Reason    string       `gorm:"type:varchar(500);not null"`
	HeldAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;column:held_at"`
	ResumedAt *time.Time   `gorm:"column:resumed_at"`
}

// TableName overrides the default table name
func (JobHoldEntry) TableName() string {
	return "job_hold_history"
}

func (e *JobHoldEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ProcessDepartment maps a process name to the department that performs it.
// This is the configuration table behind the workflow engine's process catalog.
type ProcessDepartment struct {
	BaseModel
	ProcessName string `gorm:"type:varchar(200);not null;uniqueIndex;column:process_name"`
	Department  string `gorm:"type:varchar(100);not null"`
}

// Machine represents a configured shop-floor machine
type Machine struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null;unique"`
	ProcessType string `gorm:"type:varchar(200);column:process_type"`
	IsActive    bool   `gorm:"not null;default:true;column:is_active"`
}

// StaffRole represents what a staff member does
type StaffRole string

const (
	StaffRoleDesigner   StaffRole = "designer"
	StaffRoleProgrammer StaffRole = "programmer"
)

// IsValid checks if the StaffRole is a valid enum value
func (sr StaffRole) IsValid() bool {
	switch sr {
	case StaffRoleDesigner, StaffRoleProgrammer:
		return true
	}
	return false
}

// Staff represents a designer or programmer assignable to jobs
type Staff struct {
	BaseModel
	Name     string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	Role     StaffRole `gorm:"type:varchar(20);not null;index"`
	IsActive bool      `gorm:"not null;default:true;column:is_active"`
}

// Notification represents a user-facing notification row
type Notification struct {
	BaseModel
	UserID     string     `gorm:"type:varchar(100);index;column:user_id"`
	Type       string     `gorm:"type:varchar(50);not null"`
	Title      string     `gorm:"type:varchar(200);not null"`
	Message    string     `gorm:"type:varchar(500);not null"`
	Read       bool       `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time `gorm:"column:read_at"`
	EntityID   *uuid.UUID `gorm:"type:uuid;column:entity_id"`
	EntityType string     `gorm:"type:varchar(50);column:entity_type"`
}

// JobActivity is an immutable event row describing a workflow mutation on a job
type JobActivity struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	JobID     uuid.UUID  `gorm:"type:uuid;not null;index;column:job_id"`
	DrawingID *uuid.UUID `gorm:"type:uuid;index;column:drawing_id"`
	Title     string     `gorm:"type:varchar(200);not null"`
	Body      string     `gorm:"type:varchar(2000)"`
	ActorName string     `gorm:"type:varchar(200);column:actor_name"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// TableName overrides the default table name
func (JobActivity) TableName() string {
	return "job_activities"
}

func (a *JobActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
