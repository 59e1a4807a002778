package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NotFoundError reports a missing referenced entity; the enclosing
// transaction must be aborted by the caller.
type NotFoundError struct {
	Entity string
	Id     string
}

func (e *NotFoundError) Error() string {
	if e.Id == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.Id)
}

// ValidationError reports bad input: missing fields, invalid enum values,
// FX fields supplied partially, and the like.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports an operation that is valid in form but rejected by
// the current state, e.g. reversing an already-reversed payment.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// UnbalancedJournalError means a posting batch's debits and credits differ.
// This is a data-integrity error, never expected in correct operation.
type UnbalancedJournalError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedJournalError) Error() string {
	return fmt.Sprintf("journal entries are not balanced: DR %s != CR %s",
		e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}
