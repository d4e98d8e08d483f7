package ledger

import (
	"github.com/sheikh-saqib/payment-engine/internal/models"
)

// Rejection explains why a transaction left the ledger untouched.
type Rejection int

const (
	RejectNone Rejection = iota // the transaction was applied
	RejectMissingAmount
	RejectUnknownReference
	RejectClientMismatch
	RejectReferenceWithoutAmount
	RejectAlreadyDisputed
	RejectNotDisputed
	RejectInsufficientFunds
	RejectUnsupportedType
)

var rejectionNames = map[Rejection]string{
	RejectNone:                   "",
	RejectMissingAmount:          "missing_amount",
	RejectUnknownReference:       "unknown_reference",
	RejectClientMismatch:         "client_mismatch",
	RejectReferenceWithoutAmount: "reference_without_amount",
	RejectAlreadyDisputed:        "already_disputed",
	RejectNotDisputed:            "not_disputed",
	RejectInsufficientFunds:      "insufficient_funds",
	RejectUnsupportedType:        "unsupported_type",
}

func (r Rejection) String() string {
	if name, ok := rejectionNames[r]; ok {
		return name
	}
	return "unknown"
}

// Outcome is the result of running one transaction through Process.
//
// Record is the new account state and Referenced the corrected transaction
// with its advanced status. Both are nil when the transaction was rejected.
type Outcome struct {
	Record     *models.Record
	Referenced *models.Transaction
	Rejection  Rejection
}

// Applied reports whether the transaction changed any state.
func (o Outcome) Applied() bool {
	return o.Rejection == RejectNone
}

func rejected(r Rejection) Outcome {
	return Outcome{Rejection: r}
}

// Process decides whether txn is valid against the current record and, for
// corrections, the referenced transaction ref. It never mutates its inputs.
func Process(txn models.Transaction, current models.Record, ref *models.Transaction) Outcome {
	if r := validate(txn, ref); r != RejectNone {
		return rejected(r)
	}

	switch txn.Type {
	case models.Deposit:
		return Outcome{Record: deposit(current, txn)}
	case models.Withdrawal:
		rec, ok := withdraw(current, txn)
		if !ok {
			return rejected(RejectInsufficientFunds)
		}
		return Outcome{Record: rec}
	case models.Dispute:
		return dispute(current, *ref)
	case models.Resolve:
		return resolve(current, *ref)
	case models.Chargeback:
		return chargeback(current, *ref)
	}
	return rejected(RejectUnsupportedType)
}

func validate(txn models.Transaction, ref *models.Transaction) Rejection {
	switch txn.Type {
	case models.Deposit, models.Withdrawal:
		if !txn.Amount.Valid {
			return RejectMissingAmount
		}
		return RejectNone
	case models.Dispute, models.Resolve, models.Chargeback:
	default:
		return RejectUnsupportedType
	}

	if r := validateCorrection(txn, ref); r != RejectNone {
		return r
	}

	switch txn.Type {
	case models.Dispute:
		if ref.Status() != models.StatusNone {
			return RejectAlreadyDisputed
		}
	case models.Resolve, models.Chargeback:
		if ref.Status() != models.StatusDisputed {
			return RejectNotDisputed
		}
	}
	return RejectNone
}

func validateCorrection(txn models.Transaction, ref *models.Transaction) Rejection {
	switch {
	case ref == nil || ref.IsCorrection():
		return RejectUnknownReference
	case ref.Client != txn.Client:
		return RejectClientMismatch
	case !ref.Amount.Valid:
		return RejectReferenceWithoutAmount
	}
	return RejectNone
}

func deposit(cur models.Record, txn models.Transaction) *models.Record {
	amount := txn.Amount.Decimal
	cur.Available = cur.Available.Add(amount)
	cur.Total = cur.Total.Add(amount)
	return &cur
}

// withdraw returns false when the withdrawal would overdraw available funds.
func withdraw(cur models.Record, txn models.Transaction) (*models.Record, bool) {
	amount := txn.Amount.Decimal
	if cur.Available.Sub(amount).IsNegative() {
		return nil, false
	}
	cur.Available = cur.Available.Sub(amount)
	cur.Total = cur.Total.Sub(amount)
	return &cur, true
}

func dispute(cur models.Record, ref models.Transaction) Outcome {
	amount := ref.Amount.Decimal
	cur.Available = cur.Available.Sub(amount)
	cur.Held = cur.Held.Add(amount)
	updated := ref.WithStatus(models.StatusDisputed)
	return Outcome{Record: &cur, Referenced: &updated}
}

func resolve(cur models.Record, ref models.Transaction) Outcome {
	amount := ref.Amount.Decimal
	cur.Available = cur.Available.Add(amount)
	cur.Held = cur.Held.Sub(amount)
	updated := ref.WithStatus(models.StatusResolved)
	return Outcome{Record: &cur, Referenced: &updated}
}

func chargeback(cur models.Record, ref models.Transaction) Outcome {
	amount := ref.Amount.Decimal
	cur.Held = cur.Held.Sub(amount)
	cur.Total = cur.Total.Sub(amount)
	cur.Locked = true
	updated := ref.WithStatus(models.StatusChargedback)
	return Outcome{Record: &cur, Referenced: &updated}
}
