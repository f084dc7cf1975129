package models

import "strings"

// Category groups transactions for reporting
type Category string

// Personal finance categories
const (
	Groceries     Category = "Groceries"
	Dining        Category = "Dining"
	Entertainment Category = "Entertainment"
	Utilities     Category = "Utilities"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Healthcare    Category = "Healthcare"
	Subscriptions Category = "Subscriptions"
	Fitness       Category = "Fitness"
	Bills         Category = "Bills"
	Income        Category = "Income"
)

// Company finance categories
const (
	Revenue           Category = "Revenue"
	Payroll           Category = "Payroll"
	OperatingExpenses Category = "Operating Expenses"
)

// NormalizeCategory trims the label and folds the short "Operating" alias
func NormalizeCategory(raw string) Category {
	c := strings.TrimSpace(raw)
	if strings.EqualFold(c, "Operating") {
		return OperatingExpenses
	}
	return Category(c)
}
