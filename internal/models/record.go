package models

import "github.com/shopspring/decimal"

// Record is the balance snapshot of a single client account.
type Record struct {
	Client    uint16          // client id, unique per account
	Available decimal.Decimal // funds the client can withdraw
	Held      decimal.Decimal // funds frozen by open disputes
	Total     decimal.Decimal // always Available + Held
	Locked    bool            // set by a chargeback, never cleared
}

// NewRecord returns the zero-balance record a client starts with.
func NewRecord(client uint16) Record {
	return Record{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
	}
}

// Balanced reports whether Total equals Available + Held.
func (r Record) Balanced() bool {
	return r.Total.Equal(r.Available.Add(r.Held))
}

// Equal compares two records by value using exact decimal equality.
func (r Record) Equal(o Record) bool {
	return r.Client == o.Client &&
		r.Available.Equal(o.Available) &&
		r.Held.Equal(o.Held) &&
		r.Total.Equal(o.Total) &&
		r.Locked == o.Locked
}
