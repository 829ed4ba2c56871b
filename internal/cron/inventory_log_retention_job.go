package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Ani07-05/brickdash/pkg/logger"
)

const defaultLogRetentionDays = 180

// InventoryLogRetentionJobParams configure the inventory log sweep.
type InventoryLogRetentionJobParams struct {
	Logger        *logger.Logger
	Pruner        inventoryLogPruner
	RetentionDays int
}

type inventoryLogPruner interface {
	PruneLogs(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NewInventoryLogRetentionJob builds the job that trims old stock
// movement entries.
func NewInventoryLogRetentionJob(params InventoryLogRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Pruner == nil {
		return nil, fmt.Errorf("inventory log pruner required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultLogRetentionDays
	}
	return &inventoryLogRetentionJob{
		logg:      params.Logger,
		pruner:    params.Pruner,
		retention: retention,
	}, nil
}

type inventoryLogRetentionJob struct {
	logg      *logger.Logger
	pruner    inventoryLogPruner
	retention int
}

func (j *inventoryLogRetentionJob) Name() string { return "inventory-log-retention" }

func (j *inventoryLogRetentionJob) Run(ctx context.Context) error {
	olderThan := time.Duration(j.retention) * 24 * time.Hour
	removed, err := j.pruner.PruneLogs(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("inventory log retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"retention_days": j.retention,
		"rows_deleted":   removed,
	})
	j.logg.Info(logCtx, "inventory log cleanup complete")
	return nil
}
