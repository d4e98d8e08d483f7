package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TxType is the kind of a transaction row.
type TxType string

const (
	Deposit    TxType = "deposit"
	Withdrawal TxType = "withdrawal"
	Dispute    TxType = "dispute"
	Resolve    TxType = "resolve"
	Chargeback TxType = "chargeback"
)

// ParseTxType maps the input spelling of a type onto a TxType. Only the
// lowercase spellings are accepted; surrounding whitespace is ignored.
func ParseTxType(s string) (TxType, error) {
	switch t := TxType(strings.TrimSpace(s)); t {
	case Deposit, Withdrawal, Dispute, Resolve, Chargeback:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// IsCorrection reports whether the type refers back to an earlier transaction.
func (t TxType) IsCorrection() bool {
	return t == Dispute || t == Resolve || t == Chargeback
}

// DisputeStatus tracks corrections applied to a stored deposit or withdrawal.
type DisputeStatus string

const (
	StatusNone        DisputeStatus = "None"
	StatusDisputed    DisputeStatus = "Disputed"
	StatusResolved    DisputeStatus = "Resolved"
	StatusChargedback DisputeStatus = "Chargedback"
)

// ParseDisputeStatus is the inverse of DisputeStatus's string form.
// An empty string maps to StatusNone.
func ParseDisputeStatus(s string) (DisputeStatus, error) {
	switch st := DisputeStatus(s); st {
	case "":
		return StatusNone, nil
	case StatusNone, StatusDisputed, StatusResolved, StatusChargedback:
		return st, nil
	default:
		return "", fmt.Errorf("unknown dispute status %q", s)
	}
}

// Transaction is one row of the input stream.
//
// For deposits and withdrawals ID identifies the transaction itself. For
// corrections ID names the deposit or withdrawal being corrected.
type Transaction struct {
	Type          TxType
	Client        uint16
	ID            uint32
	Amount        decimal.NullDecimal // only valid for deposits and withdrawals
	DisputeStatus DisputeStatus
}

// IsCorrection reports whether the transaction is a dispute, resolve or chargeback.
func (t Transaction) IsCorrection() bool {
	return t.Type.IsCorrection()
}

// ReferencedID returns the id of the transaction a correction refers to.
// The second value is false for deposits and withdrawals.
func (t Transaction) ReferencedID() (uint32, bool) {
	if t.IsCorrection() {
		return t.ID, true
	}
	return 0, false
}

// Status returns the dispute status, treating the zero value as StatusNone.
func (t Transaction) Status() DisputeStatus {
	if t.DisputeStatus == "" {
		return StatusNone
	}
	return t.DisputeStatus
}

// WithStatus returns a copy of t carrying the given dispute status.
func (t Transaction) WithStatus(s DisputeStatus) Transaction {
	t.DisputeStatus = s
	return t
}
