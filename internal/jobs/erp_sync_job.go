package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/erp"
	"github.com/rexmarketing03-cell/planner-api/internal/logger"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

// ErpSyncJob reconciles drawings waiting on material against the ERP stock
// feed. Drawings whose material has arrived are released to the workflow and
// stores is notified; updated expected dates from the ERP are written back.
type ErpSyncJob struct {
	erpClient       *erp.Client
	drawingRepo     *repository.DrawingRepository
	materialService *service.MaterialService
	notifier        *service.NotificationService
	logger          *zap.Logger
}

// NewErpSyncJob creates the ERP material stock sync.
func NewErpSyncJob(
	erpClient *erp.Client,
	drawingRepo *repository.DrawingRepository,
	materialService *service.MaterialService,
	notifier *service.NotificationService,
	logger *zap.Logger,
) *ErpSyncJob {
	return &ErpSyncJob{
		erpClient:       erpClient,
		drawingRepo:     drawingRepo,
		materialService: materialService,
		notifier:        notifier,
		logger:          logger,
	}
}

// Run executes one sync pass. Drawings without a material code cannot be
// matched against the ERP and are skipped.
func (j *ErpSyncJob) Run(ctx context.Context) {
	if j.erpClient == nil {
		return
	}

	drawings, err := j.drawingRepo.ListAwaitingStock(ctx)
	if err != nil {
		j.logger.Error("erp sync: failed to list drawings awaiting stock", zap.Error(err))
		return
	}
	if len(drawings) == 0 {
		return
	}

	codes := make([]string, 0, len(drawings))
	seen := make(map[string]bool, len(drawings))
	for i := range drawings {
		code := drawings[i].MaterialCode
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		j.logger.Debug("erp sync: no drawings with material codes", zap.Int("awaiting", len(drawings)))
		return
	}

	stock, err := j.erpClient.FetchMaterialStock(ctx, codes)
	if err != nil {
		j.logger.Error("erp sync: stock query failed", zap.Error(err))
		return
	}

	released := 0
	for i := range drawings {
		drawing := &drawings[i]
		row, ok := stock[drawing.MaterialCode]
		if !ok {
			continue
		}

		log := logger.WithDrawing(j.logger, drawing.Name, drawing.ID)

		if row.QuantityOnHand > 0 {
			if _, err := j.materialService.SetMaterialReady(ctx, drawing.JobID, drawing.ID); err != nil {
				log.Error("erp sync: failed to release drawing",
					zap.String("material_code", drawing.MaterialCode),
					zap.Error(err))
				continue
			}
			released++

			drawingID := drawing.ID
			j.notifier.Notify(ctx, service.InboxStores, service.NotificationStockArrived,
				fmt.Sprintf("Material %s arrived", drawing.MaterialCode),
				fmt.Sprintf("Stock for drawing '%s' is on hand (%.0f units); the drawing has been released",
					drawing.Name, row.QuantityOnHand),
				&drawingID, "drawing")
			continue
		}

		// Nothing on hand yet; carry the ERP's latest inbound date.
		if row.ExpectedDate != "" && row.ExpectedDate != drawing.ExpectedMaterialDate {
			drawing.ExpectedMaterialDate = row.ExpectedDate
			if err := j.drawingRepo.Save(ctx, drawing); err != nil {
				log.Error("erp sync: failed to update expected date", zap.Error(err))
			}
		}
	}

	j.logger.Info("erp sync finished",
		zap.Int("awaiting", len(drawings)),
		zap.Int("codes_queried", len(codes)),
		zap.Int("released", released))
}
