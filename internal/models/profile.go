package models

import (
	"fmt"
	"strings"
)

// Profile selects the shape of a synthetic ledger
type Profile string

const (
	Personal Profile = "personal"
	Company  Profile = "company"
)

// ParseProfile accepts a case-insensitive profile name; empty means personal
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Personal):
		return Personal, nil
	case string(Company):
		return Company, nil
	}
	return "", fmt.Errorf("unknown profile %q", s)
}

// StartingBalance is the baseline balance a profile starts from
func (p Profile) StartingBalance() float64 {
	if p == Company {
		return 250000
	}
	return 3000
}

// Categories lists the fixed categories a profile generates
func (p Profile) Categories() []Category {
	if p == Company {
		return []Category{Revenue, Payroll, OperatingExpenses}
	}
	return []Category{
		Groceries, Dining, Entertainment, Utilities, Transport, Shopping,
		Healthcare, Subscriptions, Fitness, Bills, Income,
	}
}
