package dto

// Application Request DTOs

// CardApplication carries the applicant details collected for a credit card
// application. The simulated underwriting decision does not score these
// fields, but they are validated so the assistant collects a complete set.
type CardApplication struct {
	FullName         string  `json:"full_name" validate:"required,min=1,max=100"`
	Address          string  `json:"address" validate:"required,min=1,max=255"`
	DateOfBirth      string  `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	EmploymentStatus string  `json:"employment_status" validate:"required"`
	Employer         string  `json:"employer" validate:"required"`
	AnnualIncome     float64 `json:"annual_income" validate:"gte=0"`
}

// LoanApplication carries the applicant details plus the requested loan
// amount and term.
type LoanApplication struct {
	FullName         string  `json:"full_name" validate:"required,min=1,max=100"`
	Address          string  `json:"address" validate:"required,min=1,max=255"`
	DateOfBirth      string  `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	EmploymentStatus string  `json:"employment_status" validate:"required"`
	AnnualIncome     float64 `json:"annual_income" validate:"gte=0"`
	LoanAmount       float64 `json:"loan_amount" validate:"required,gt=0"`
	TermMonths       int     `json:"term_months" validate:"required,gte=6,lte=360"`
}

// ExtensionRequest identifies the instrument whose due date should move:
// a card by its last 4 digits, or a loan by its id.
type ExtensionRequest struct {
	Kind         string `json:"kind" validate:"required,oneof=card loan"`
	InstrumentID string `json:"instrument_id" validate:"required"`
}
