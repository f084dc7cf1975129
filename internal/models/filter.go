package models

import "time"

// DateRange is an inclusive calendar date range; a zero bound is open
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Filter restricts a ledger view. Zero values mean "no restriction".
type Filter struct {
	Category  Category  `json:"category,omitempty"`
	Type      TxType    `json:"type,omitempty"`
	DateRange DateRange `json:"date_range"`
	MinAmount float64   `json:"min_amount,omitempty"` // compared against |amount|
}

// Summary holds statistics recomputed over a (possibly filtered) ledger
type Summary struct {
	Count        int     `json:"count"`
	Total        float64 `json:"total"`
	Average      float64 `json:"average"`
	MaxMagnitude float64 `json:"max_magnitude"`
	MinMagnitude float64 `json:"min_magnitude"`
}

// FilteredView is a filtered ledger with its own summary
type FilteredView struct {
	Filter       Filter        `json:"filter"`
	Summary      Summary       `json:"summary"`
	Transactions []Transaction `json:"transactions"`
}
