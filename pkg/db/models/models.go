package models

// All returns every model for auto-migration, ordered so foreign key
// targets are created before their referrers.
func All() []any {
	return []any{
		&Product{},
		&Employee{},
		&User{},
		&Order{},
		&InventoryLog{},
		&Attendance{},
		&Task{},
		&TaskRotation{},
		&SalaryRecord{},
		&InventoryStage{},
		&InventoryBatch{},
		&BatchOrder{},
		&SequenceCounter{},
	}
}
