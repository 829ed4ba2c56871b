package models

// SequenceCounter backs human-readable code generation (batch codes,
// order numbers, employee codes). The row is incremented inside the
// transaction that consumes the value, so concurrent creators serialize
// on the row lock and codes are gapless per committed create.
type SequenceCounter struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}
