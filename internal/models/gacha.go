// internal/models/gacha.go
package models

type GachaOptions struct {
	AllowDuplicates   bool `json:"allow_duplicates"`
	RequireStapleFood bool `json:"require_staple_food"`
}

// DefaultGachaOptions allows repeated items and does not require a staple.
func DefaultGachaOptions() GachaOptions {
	return GachaOptions{
		AllowDuplicates:   true,
		RequireStapleFood: false,
	}
}

type GachaResult struct {
	Items       []MenuItem   `json:"items"`
	MinBudget   int          `json:"min_budget"`
	MaxBudget   int          `json:"max_budget"`
	TotalAmount int          `json:"total_amount"`
	Success     bool         `json:"success"`
	Options     GachaOptions `json:"options"`
	// Relaxed marks the staple-only fallback: Items is a single staple
	// instead of a combination totaling the drawn amount.
	Relaxed bool `json:"relaxed,omitempty"`
}

// TotalPrice sums the prices of items.
func TotalPrice(items []MenuItem) int {
	total := 0
	for _, item := range items {
		total += item.Price
	}
	return total
}
