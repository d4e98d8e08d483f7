package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionProcessed is emitted once per input row after the ledger decided its outcome.
type TransactionProcessed struct {
	RunID         string           `json:"run_id"`
	TransactionID uint32           `json:"tx"`
	ClientID      uint16           `json:"client"`
	Type          string           `json:"type"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Applied       bool             `json:"applied"`
	Reason        string           `json:"reason,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
