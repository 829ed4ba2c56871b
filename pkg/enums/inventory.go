package enums

// StockChangeType labels an inventory log entry with the kind of
// movement it records.
type StockChangeType string

const (
	StockAddition  StockChangeType = "Addition"
	StockReduction StockChangeType = "Reduction"
)

func StockChangeTypes() []StockChangeType {
	return []StockChangeType{StockAddition, StockReduction}
}

func (t StockChangeType) Valid() bool {
	return t == StockAddition || t == StockReduction
}

func (t StockChangeType) String() string { return string(t) }

// BatchEvent labels a batch workflow mutation for audit rows.
type BatchEvent string

const (
	BatchCreated     BatchEvent = "batch_created"
	BatchTransferred BatchEvent = "batch_transferred"
	BatchAdjusted    BatchEvent = "batch_adjusted"
	BatchReserved    BatchEvent = "batch_reserved"
	BatchUnreserved  BatchEvent = "batch_unreserved"
	BatchDeleted     BatchEvent = "batch_deleted"
)

func (e BatchEvent) Valid() bool {
	switch e {
	case BatchCreated, BatchTransferred, BatchAdjusted, BatchReserved, BatchUnreserved, BatchDeleted:
		return true
	}
	return false
}

func (e BatchEvent) String() string { return string(e) }
