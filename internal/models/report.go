package models

import "time"

// Report is a persisted summary of a ledger for a reporting period
type Report struct {
	ID             string    `json:"id"`
	Profile        Profile   `json:"profile"`
	Source         string    `json:"source"` // "generated" or "upload"
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	Summary        Summary   `json:"summary"`
	CurrentBalance float64   `json:"current_balance"`
	RunwayMonths   *float64  `json:"runway_months,omitempty"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}
