package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Ani07-05/brickdash/internal/payroll"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

// SalaryGenerationJobParams configure the monthly payroll job.
type SalaryGenerationJobParams struct {
	Logger  *logger.Logger
	Payroll salaryGenerator
}

type salaryGenerator interface {
	Generate(ctx context.Context, month, year int) (*payroll.GenerateResult, error)
}

// NewSalaryGenerationJob builds the job that generates salary records
// for the previous month. Generation is idempotent, so running every
// cycle only fills in what is missing.
func NewSalaryGenerationJob(params SalaryGenerationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Payroll == nil {
		return nil, fmt.Errorf("payroll service required")
	}
	return &salaryGenerationJob{
		logg:    params.Logger,
		payroll: params.Payroll,
		now:     time.Now,
	}, nil
}

type salaryGenerationJob struct {
	logg    *logger.Logger
	payroll salaryGenerator
	now     func() time.Time
}

func (j *salaryGenerationJob) Name() string { return "salary-generation" }

func (j *salaryGenerationJob) Run(ctx context.Context) error {
	// pay for the month that just closed
	previous := j.now().UTC().AddDate(0, 0, -j.now().UTC().Day())
	month := int(previous.Month())
	year := previous.Year()

	result, err := j.payroll.Generate(ctx, month, year)
	if err != nil {
		return fmt.Errorf("salary generation %d-%02d: %w", year, month, err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"month":   month,
		"year":    year,
		"created": result.Created,
		"skipped": result.Skipped,
	})
	j.logg.Info(logCtx, "salary generation complete")
	return nil
}
