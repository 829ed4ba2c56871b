package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ani07-05/brickdash/internal/payroll"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

type fakePruner struct {
	olderThan time.Duration
	removed   int64
	err       error
}

func (f *fakePruner) PruneLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return f.removed, f.err
}

func TestInventoryLogRetentionJob(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	pruner := &fakePruner{removed: 12}
	job, err := NewInventoryLogRetentionJob(InventoryLogRetentionJobParams{
		Logger:        logg,
		Pruner:        pruner,
		RetentionDays: 90,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "inventory-log-retention" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if want := 90 * 24 * time.Hour; pruner.olderThan != want {
		t.Fatalf("expected retention %s, got %s", want, pruner.olderThan)
	}

	pruner.err = errors.New("db down")
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected prune failure to surface")
	}
}

func TestInventoryLogRetentionJobDefaultsRetention(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	pruner := &fakePruner{}
	job, err := NewInventoryLogRetentionJob(InventoryLogRetentionJobParams{
		Logger: logg,
		Pruner: pruner,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if want := 180 * 24 * time.Hour; pruner.olderThan != want {
		t.Fatalf("expected default retention %s, got %s", want, pruner.olderThan)
	}
}

type fakePayroll struct {
	month, year int
	err         error
}

func (f *fakePayroll) Generate(ctx context.Context, month, year int) (*payroll.GenerateResult, error) {
	f.month, f.year = month, year
	if f.err != nil {
		return nil, f.err
	}
	return &payroll.GenerateResult{Month: month, Year: year, Created: 3}, nil
}

func TestSalaryGenerationJobTargetsPreviousMonth(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	gen := &fakePayroll{}
	job, err := NewSalaryGenerationJob(SalaryGenerationJobParams{Logger: logg, Payroll: gen})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	job.(*salaryGenerationJob).now = func() time.Time {
		return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if gen.month != 2 || gen.year != 2026 {
		t.Fatalf("expected 2026-02, got %d-%02d", gen.year, gen.month)
	}

	// january rolls back to december of the prior year
	job.(*salaryGenerationJob).now = func() time.Time {
		return time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if gen.month != 12 || gen.year != 2025 {
		t.Fatalf("expected 2025-12, got %d-%02d", gen.year, gen.month)
	}

	gen.err = errors.New("generation failed")
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected generation failure to surface")
	}
}
