package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. A named constraint is matched first; when the
// driver's message does not carry constraint names (sqlite reports
// "UNIQUE constraint failed: table.column") the generic forms still match.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
