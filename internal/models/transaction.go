package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on the wire
const DateLayout = "2006-01-02"

// TxType tags a transaction as money in or money out
type TxType string

const (
	Credit TxType = "Credit"
	Debit  TxType = "Debit"
)

// TypeFor derives the transaction type from the sign of the amount
func TypeFor(amount float64) TxType {
	if amount > 0 {
		return Credit
	}
	return Debit
}

// Transaction represents a single ledger entry
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    Category  `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Type        TxType    `json:"type"`
	Balance     float64   `json:"balance"`
}

// IsExpense reports whether the transaction is a debit with a non-zero amount
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// Magnitude returns the absolute amount
func (t Transaction) Magnitude() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// Ledger is an ordered, date-ascending sequence of transactions together with
// the balance held before the first of them
type Ledger struct {
	OpeningBalance float64       `json:"opening_balance"`
	Transactions   []Transaction `json:"transactions"`
}

// NewLedger sorts transactions by date (stable) and derives the running balance
// from scratch: balance[i] = startingBalance + sum(amount[0..i]).
func NewLedger(txs []Transaction, startingBalance float64) Ledger {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	for i := range out {
		out[i].Date = Day(out[i].Date)
		out[i].Type = TypeFor(out[i].Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	running := decimal.NewFromFloat(startingBalance)
	for i := range out {
		running = running.Add(decimal.NewFromFloat(out[i].Amount))
		out[i].Balance = running.InexactFloat64()
	}
	return Ledger{OpeningBalance: startingBalance, Transactions: out}
}

// Len returns the number of transactions
func (l Ledger) Len() int {
	return len(l.Transactions)
}

// FirstDate returns the earliest date, or the zero time for an empty ledger
func (l Ledger) FirstDate() time.Time {
	if len(l.Transactions) == 0 {
		return time.Time{}
	}
	return l.Transactions[0].Date
}

// LastDate returns the latest date, or the zero time for an empty ledger
func (l Ledger) LastDate() time.Time {
	if len(l.Transactions) == 0 {
		return time.Time{}
	}
	return l.Transactions[len(l.Transactions)-1].Date
}

// CurrentBalance returns the balance after the last transaction, or the
// opening balance when there are none
func (l Ledger) CurrentBalance() float64 {
	if len(l.Transactions) == 0 {
		return l.OpeningBalance
	}
	return l.Transactions[len(l.Transactions)-1].Balance
}

// Expenses returns the debit transactions with a negative amount
func (l Ledger) Expenses() []Transaction {
	var out []Transaction
	for _, t := range l.Transactions {
		if t.IsExpense() {
			out = append(out, t)
		}
	}
	return out
}

// Day truncates a timestamp to its calendar date at 00:00 UTC
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
