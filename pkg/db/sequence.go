package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ani07-05/brickdash/pkg/db/models"
)

// Counter names used across the platform.
const (
	CounterBatchCode    = "batch_code"
	CounterOrderNumber  = "order_number"
	CounterEmployeeCode = "employee_code"
)

// NextSequence increments the named counter inside the caller's
// transaction and returns the new value. The row lock serializes
// concurrent consumers, so a committed create never shares a value.
// Missing counters are created starting from start.
func NextSequence(tx *gorm.DB, name string, start int64) (int64, error) {
	var counter models.SequenceCounter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&counter).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		counter = models.SequenceCounter{Name: name, Value: start}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, fmt.Errorf("create counter %s: %w", name, err)
		}
		return counter.Value, nil
	case err != nil:
		return 0, fmt.Errorf("lock counter %s: %w", name, err)
	}

	counter.Value++
	if err := tx.Model(&models.SequenceCounter{}).
		Where("name = ?", name).
		Update("value", counter.Value).Error; err != nil {
		return 0, fmt.Errorf("advance counter %s: %w", name, err)
	}
	return counter.Value, nil
}

// NextBatchCode returns the next "B001"-style code, widening past 999.
func NextBatchCode(tx *gorm.DB) (string, error) {
	value, err := NextSequence(tx, CounterBatchCode, 1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("B%03d", value), nil
}

// NextOrderNumber returns the next "ORD1001"-style number.
func NextOrderNumber(tx *gorm.DB) (string, error) {
	value, err := NextSequence(tx, CounterOrderNumber, 1001)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD%d", value), nil
}

// NextEmployeeCode returns the next "BRK001"-style code.
func NextEmployeeCode(tx *gorm.DB) (string, error) {
	value, err := NextSequence(tx, CounterEmployeeCode, 1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BRK%03d", value), nil
}
