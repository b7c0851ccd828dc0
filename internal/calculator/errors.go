package calculator

import "fmt"

// UnbalancedRecordError reports an expense record whose paid total and owed total
// differ. It always indicates a bug in whatever produced the record.
type UnbalancedRecordError struct {
	RecordID string
	Paid     int64
	Owed     int64
	// Overflow is set when the record's totals, or the balances it feeds, do not
	// fit in an int64. Paid and Owed are then meaningless.
	Overflow bool
}

func (e *UnbalancedRecordError) Error() string {
	id := e.RecordID
	if id == "" {
		id = "(unsaved)"
	}
	if e.Overflow {
		return fmt.Sprintf("expense record %s overflows the int64 cent range", id)
	}
	return fmt.Sprintf("expense record %s is unbalanced: paid %d, owed %d", id, e.Paid, e.Owed)
}

// InvariantViolationError reports balances that could not be settled because they
// do not net to zero.
type InvariantViolationError struct {
	Participant string
	// Residual is what Participant is still owed (positive) or still owes (negative)
	// once every counterparty has been exhausted.
	Residual int64
	// Absorbable is the sub-threshold noise on the opposite side that could have
	// accounted for the residual.
	Absorbable int64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("balances do not net to zero: %s left with %d after settlement (only %d absorbable)",
		e.Participant, e.Residual, e.Absorbable)
}
