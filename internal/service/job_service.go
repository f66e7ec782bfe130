package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/auth"
	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/mapper"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
)

// JobService owns the job aggregate lifecycle: creation, the design and
// programming sub-flows, product lines, delivery and the activity log.
type JobService struct {
	jobRepo      *repository.JobRepository
	drawingRepo  *repository.DrawingRepository
	catalogRepo  *repository.ProcessDepartmentRepository
	staffRepo    *repository.StaffRepository
	activityRepo *repository.JobActivityRepository
	notifier     *NotificationService
	logger       *zap.Logger
}

func NewJobService(
	jobRepo *repository.JobRepository,
	drawingRepo *repository.DrawingRepository,
	catalogRepo *repository.ProcessDepartmentRepository,
	staffRepo *repository.StaffRepository,
	activityRepo *repository.JobActivityRepository,
	notifier *NotificationService,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobRepo:      jobRepo,
		drawingRepo:  drawingRepo,
		catalogRepo:  catalogRepo,
		staffRepo:    staffRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *JobService) logActivity(ctx context.Context, jobID uuid.UUID, drawingID *uuid.UUID, title, body string) {
	activity := &domain.JobActivity{
		JobID:     jobID,
		DrawingID: drawingID,
		Title:     title,
		Body:      body,
		ActorName: auth.ActorName(ctx),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record job activity",
			zap.String("job_id", jobID.String()),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}

func (s *JobService) Create(ctx context.Context, req *domain.CreateJobRequest) (*domain.JobDTO, error) {
	jobNumber := strings.TrimSpace(req.JobNumber)
	exists, err := s.jobRepo.ExistsByNumber(ctx, jobNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check job number: %w", err)
	}
	if exists {
		return nil, ErrJobNumberTaken
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.JobPriorityNormal
	}

	job := &domain.Job{
		JobNumber:      jobNumber,
		CustomerName:   req.CustomerName,
		JobType:        req.JobType,
		Priority:       priority,
		FinishDate:     req.FinishDate,
		DesignRequired: req.DesignRequired,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Job created",
		fmt.Sprintf("Job %s (%s) was created", job.JobNumber, job.JobType))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

func (s *JobService) GetByNumber(ctx context.Context, jobNumber string) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByNumber(ctx, jobNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

func (s *JobService) List(ctx context.Context, page, pageSize int, filter repository.JobFilter) (*domain.PaginatedResponse, error) {
	jobs, total, err := s.jobRepo.List(ctx, page, pageSize, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	dtos := make([]domain.JobDTO, 0, len(jobs))
	for i := range jobs {
		dtos = append(dtos, mapper.ToJobDTO(&jobs[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update edits job head fields. Changing the finish date here resolves any
// rejected sales request, which releases the Planning pin on the drawing
// that raised it.
func (s *JobService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateJobRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if req.CustomerName != "" {
		job.CustomerName = req.CustomerName
	}
	if req.Priority != "" {
		job.Priority = req.Priority
	}

	if req.FinishDate != "" && req.FinishDate != job.FinishDate {
		job.FinishDate = req.FinishDate
		if job.SalesRequest != nil && job.SalesRequest.Status == domain.SalesRequestRejected {
			if err := s.jobRepo.DeleteSalesRequest(ctx, job.ID); err != nil {
				return nil, fmt.Errorf("failed to clear sales request: %w", err)
			}
			job.SalesRequest = nil
		}
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}
	recomputeAll(engine, job)
	syncCompletion(job, time.Now())

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Job updated",
		fmt.Sprintf("Job %s head fields were updated", job.JobNumber))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.jobRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if err := s.jobRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// AddDrawing attaches a new drawing to a service job. The drawing starts in
// Design while the job's design phase is open, otherwise in Planning.
func (s *JobService) AddDrawing(ctx context.Context, jobID uuid.UUID, req *domain.CreateDrawingRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job.JobType != domain.JobTypeService {
		return nil, ErrWrongJobType
	}
	if job.CompletedAt != nil {
		return nil, ErrJobCompleted
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	drawing := domain.Drawing{
		JobID:             job.ID,
		Name:              req.Name,
		Quantity:          quantity,
		MaterialStatus:    domain.MaterialPending,
		CurrentDepartment: domain.DepartmentPlanning,
	}
	if job.DesignRequired && !job.DesignCompleted {
		drawing.CurrentDepartment = domain.DepartmentDesign
	}

	job.Drawings = append(job.Drawings, drawing)
	syncCompletion(job, time.Now())

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to add drawing: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Drawing added",
		fmt.Sprintf("Drawing '%s' was added to job %s", req.Name, job.JobNumber))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// AddProductItem attaches a product line to a product job
func (s *JobService) AddProductItem(ctx context.Context, jobID uuid.UUID, req *domain.CreateProductItemRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job.JobType != domain.JobTypeProduct {
		return nil, ErrWrongJobType
	}
	if job.CompletedAt != nil {
		return nil, ErrJobCompleted
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	job.Products = append(job.Products, domain.ProductOrderItem{
		JobID:    job.ID,
		Name:     req.Name,
		Quantity: quantity,
	})
	syncCompletion(job, time.Now())

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to add product item: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Product line added",
		fmt.Sprintf("Product '%s' x%d was added to job %s", req.Name, quantity, job.JobNumber))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// CompleteProductItem toggles a product line's done state. Completing the
// last line completes the job. Lines on a completed job cannot be reopened;
// job completion is monotonic.
func (s *JobService) CompleteProductItem(ctx context.Context, jobID, productID uuid.UUID, completed bool) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job.JobType != domain.JobTypeProduct {
		return nil, ErrWrongJobType
	}
	if !completed && job.CompletedAt != nil {
		return nil, ErrJobCompleted
	}

	var item *domain.ProductOrderItem
	for i := range job.Products {
		if job.Products[i].ID == productID {
			item = &job.Products[i]
			break
		}
	}
	if item == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	item.Completed = completed
	if completed {
		t := now.UTC()
		item.CompletedAt = &t
	} else {
		item.CompletedAt = nil
	}
	syncCompletion(job, now)

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update product item: %w", err)
	}

	state := "completed"
	if !completed {
		state = "reopened"
	}
	s.logActivity(ctx, job.ID, nil, "Product line "+state,
		fmt.Sprintf("Product '%s' was %s on job %s", item.Name, state, job.JobNumber))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// AssignDesigner assigns a registered designer to the job's design phase
func (s *JobService) AssignDesigner(ctx context.Context, jobID uuid.UUID, name string) (*domain.JobDTO, error) {
	return s.assignStaff(ctx, jobID, name, domain.StaffRoleDesigner)
}

// AssignProgrammer assigns a registered programmer to the job's programming phase
func (s *JobService) AssignProgrammer(ctx context.Context, jobID uuid.UUID, name string) (*domain.JobDTO, error) {
	return s.assignStaff(ctx, jobID, name, domain.StaffRoleProgrammer)
}

func (s *JobService) assignStaff(ctx context.Context, jobID uuid.UUID, name string, role domain.StaffRole) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	staff, err := s.staffRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("staff member not found: %w", err)
	}
	if staff.Role != role {
		return nil, fmt.Errorf("%w: %s is not a %s", ErrInvalidInput, staff.Name, role)
	}

	switch role {
	case domain.StaffRoleDesigner:
		if !job.DesignRequired {
			return nil, ErrDesignNotRequired
		}
		job.DesignerName = staff.Name
	case domain.StaffRoleProgrammer:
		job.ProgrammingRequired = true
		job.ProgrammerName = staff.Name
	}

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to assign staff: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Staff assigned",
		fmt.Sprintf("%s '%s' was assigned to job %s", role, staff.Name, job.JobNumber))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// FinishDesign closes the job's design phase. The placeholder drawing layout
// is replaced wholesale by the drawings the design produced; the new drawings
// enter Planning with their design origin recorded.
func (s *JobService) FinishDesign(ctx context.Context, jobID uuid.UUID, req *domain.FinishDesignRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if !job.DesignRequired {
		return nil, ErrDesignNotRequired
	}
	if job.DesignCompleted {
		return nil, ErrDesignAlreadyDone
	}

	now := time.Now().UTC()
	drawings := make([]domain.Drawing, 0, len(req.Drawings))
	for _, d := range req.Drawings {
		quantity := d.Quantity
		if quantity < 1 {
			quantity = 1
		}
		drawings = append(drawings, domain.Drawing{
			JobID:               job.ID,
			Name:                d.Name,
			Quantity:            quantity,
			MaterialStatus:      domain.MaterialPending,
			CurrentDepartment:   domain.DepartmentPlanning,
			PreviousDepartment:  domain.DepartmentDesign,
			DesignCompletedDate: &now,
		})
	}

	if err := s.drawingRepo.ReplaceDrawings(ctx, job.ID, drawings); err != nil {
		return nil, fmt.Errorf("failed to replace drawings: %w", err)
	}

	job.DesignCompleted = true
	job.DesignCompletedAt = &now
	if err := s.jobRepo.UpdateFields(ctx, job.ID, map[string]interface{}{
		"design_completed":    true,
		"design_completed_at": now,
	}); err != nil {
		return nil, fmt.Errorf("failed to finish design: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Design finished",
		fmt.Sprintf("Design for job %s produced %d drawing(s)", job.JobNumber, len(drawings)))
	s.notifier.Notify(ctx, InboxPlanning, NotificationDesignFinished,
		"Design finished",
		fmt.Sprintf("Job %s is ready to plan", job.JobNumber),
		&job.ID, "job")

	return s.GetByID(ctx, job.ID)
}

// FinishProgramming marks the job's CNC programs ready and releases any
// drawings waiting on the programming gate
func (s *JobService) FinishProgramming(ctx context.Context, jobID uuid.UUID) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if !job.ProgrammingRequired {
		return nil, fmt.Errorf("%w: job has no programming phase", ErrInvalidInput)
	}

	job.ProgrammingFinished = true

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}
	recomputeAll(engine, job)

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to finish programming: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Programming finished",
		fmt.Sprintf("CNC programs for job %s are ready", job.JobNumber))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// HoldPhase pauses the job's design or programming sub-flow
func (s *JobService) HoldPhase(ctx context.Context, jobID uuid.UUID, req *domain.HoldJobPhaseRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if openHoldEntry(job, req.Phase) != nil {
		return nil, ErrPhaseHeld
	}

	job.HoldHistory = append(job.HoldHistory, domain.JobHoldEntry{
		JobID:  job.ID,
		Phase:  req.Phase,
		Reason: req.Reason,
		HeldAt: time.Now().UTC(),
	})

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to hold phase: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Phase held",
		fmt.Sprintf("%s phase of job %s was put on hold: %s", req.Phase, job.JobNumber, req.Reason))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// ResumePhase lifts a hold on the job's design or programming sub-flow
func (s *JobService) ResumePhase(ctx context.Context, jobID uuid.UUID, req *domain.ResumeJobPhaseRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	entry := openHoldEntry(job, req.Phase)
	if entry == nil {
		return nil, ErrPhaseNotHeld
	}

	now := time.Now().UTC()
	entry.ResumedAt = &now

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to resume phase: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Phase resumed",
		fmt.Sprintf("%s phase of job %s was resumed", req.Phase, job.JobNumber))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

func openHoldEntry(job *domain.Job, phase domain.JobHoldPhase) *domain.JobHoldEntry {
	for i := range job.HoldHistory {
		if job.HoldHistory[i].Phase == phase && job.HoldHistory[i].ResumedAt == nil {
			return &job.HoldHistory[i]
		}
	}
	return nil
}

// Deliver stamps the delivery timestamp on a completed job. Delivery is
// terminal; a delivered job is never reopened.
func (s *JobService) Deliver(ctx context.Context, jobID uuid.UUID) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if job.DeliveredAt != nil {
		dto := mapper.ToJobDTO(job)
		return &dto, nil
	}
	if job.CompletedAt == nil || !job.IsComplete() {
		return nil, ErrNotDelivered
	}

	now := time.Now().UTC()
	job.DeliveredAt = &now

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to deliver job: %w", err)
	}

	s.logActivity(ctx, job.ID, nil, "Job delivered",
		fmt.Sprintf("Job %s was delivered", job.JobNumber))

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// ListActivities returns the job's activity log, newest first
func (s *JobService) ListActivities(ctx context.Context, jobID uuid.UUID, page, pageSize int) (*domain.PaginatedResponse, error) {
	activities, total, err := s.activityRepo.ListByJob(ctx, jobID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	dtos := make([]domain.JobActivityDTO, 0, len(activities))
	for i := range activities {
		dtos = append(dtos, mapper.ToJobActivityDTO(&activities[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
