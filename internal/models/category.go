package models

// Transaction categories, as rendered in statements and spending breakdowns.
const (
	CategoryTransfers     = "Transfers"
	CategoryIncome        = "Income"
	CategoryGroceries     = "Groceries"
	CategoryDining        = "Food & Dining"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills & Utilities"
	CategoryEntertainment = "Entertainment"
	CategoryOther         = "Other"
)

// AllCategories returns all valid category constants
func AllCategories() []string {
	return []string{
		CategoryTransfers,
		CategoryIncome,
		CategoryGroceries,
		CategoryDining,
		CategoryTransport,
		CategoryShopping,
		CategoryBills,
		CategoryEntertainment,
		CategoryOther,
	}
}

// IsValidCategory checks if the category is a known constant
func IsValidCategory(category string) bool {
	for _, c := range AllCategories() {
		if c == category {
			return true
		}
	}
	return false
}
