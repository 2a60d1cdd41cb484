package ledger

import (
	"time"

	"fintrack/internal/core"
)

// SeedTransactions is the fixed ledger installed the first time the
// process starts against an empty persistence service. It belongs to
// the demo account (id "1").
func SeedTransactions() []core.Transaction {
	return []core.Transaction{
		{
			ID:          "1",
			UserID:      "1",
			Amount:      50000,
			Type:        core.Income,
			Category:    "Salary",
			Description: "Monthly salary",
			Date:        seedDate(2025, time.June, 1),
		},
		{
			ID:          "2",
			UserID:      "1",
			Amount:      5000,
			Type:        core.Expense,
			Category:    "Food",
			Description: "Groceries",
			Date:        seedDate(2025, time.June, 3),
		},
		{
			ID:          "3",
			UserID:      "1",
			Amount:      10000,
			Type:        core.Expense,
			Category:    "Rent",
			Description: "Monthly rent",
			Date:        seedDate(2025, time.July, 1),
		},
	}
}

func seedDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
