package contracts

import "time"

// FundingRound is one financing event, ordered by date within a profile
type FundingRound struct {
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Investors []string  `json:"investors"`
}

// CompanyProfile is the flat descriptive record merged from the
// profile and funding sources. EmployeeCount is nil when the profile
// source reported no headcount, which is different from zero.
type CompanyProfile struct {
	Name               string          `json:"name,omitempty"`
	Description        string          `json:"description,omitempty"`
	Industry           string          `json:"industry,omitempty"`
	Website            string          `json:"website,omitempty"`
	EmployeeCount      *int            `json:"employee_count,omitempty"`
	Specialties        []string        `json:"specialties"`
	FundingRounds      []FundingRound  `json:"funding_rounds"`
	SourceAvailability map[string]bool `json:"source_availability"`
}
