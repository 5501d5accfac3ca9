// Package payroll derives a month's salary breakdown from the base
// salary and the month's attendance statistics. All arithmetic runs on
// decimals; rounding to two places happens only when building the
// response.
package payroll

import "github.com/shopspring/decimal"

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

type Input struct {
	BaseSalary      decimal.Decimal
	ESIPercentage   decimal.Decimal
	ProfessionalTax decimal.Decimal
	NumDays         int
	Absent          int
	ThirdLate       int
	SecondLate      int
}

type Breakdown struct {
	PerDay          decimal.Decimal
	FullDayCuts     int
	HalfDayCuts     int
	FullDeduction   decimal.Decimal
	HalfDeduction   decimal.Decimal
	GrossSalary     decimal.Decimal
	ESIAmount       decimal.Decimal
	ProfessionalTax decimal.Decimal
	NetSalary       decimal.Decimal
}

type BreakdownResponse struct {
	BaseSalary      string `json:"base_salary"`
	PerDay          string `json:"per_day"`
	FullDayCuts     int    `json:"full_day_cuts"`
	HalfDayCuts     int    `json:"half_day_cuts"`
	FullDeduction   string `json:"full_deduction"`
	HalfDeduction   string `json:"half_deduction"`
	GrossSalary     string `json:"gross_salary"`
	ESIAmount       string `json:"esi_amount"`
	ProfessionalTax string `json:"professional_tax"`
	NetSalary       string `json:"net_salary"`
}

// Applicable reports whether a breakdown should be computed at all.
// Users without a configured base salary get no salary panel.
func Applicable(baseSalary decimal.Decimal) bool {
	return baseSalary.IsPositive()
}

// Derive computes the salary breakdown for one month. A half-day cut
// is one second-late mark; a full-day cut is an absence or a
// third-late mark. NumDays must be positive.
func Derive(in Input) Breakdown {
	numDays := decimal.NewFromInt(int64(in.NumDays))
	perDay := in.BaseSalary.Div(numDays)

	fullCuts := in.Absent + in.ThirdLate
	halfCuts := in.SecondLate

	fullDeduction := perDay.Mul(decimal.NewFromInt(int64(fullCuts)))
	halfDeduction := perDay.Div(two).Mul(decimal.NewFromInt(int64(halfCuts)))

	gross := in.BaseSalary.Sub(fullDeduction).Sub(halfDeduction)
	esi := gross.Mul(in.ESIPercentage).Div(hundred)
	net := gross.Sub(esi).Sub(in.ProfessionalTax)

	return Breakdown{
		PerDay:          perDay,
		FullDayCuts:     fullCuts,
		HalfDayCuts:     halfCuts,
		FullDeduction:   fullDeduction,
		HalfDeduction:   halfDeduction,
		GrossSalary:     gross,
		ESIAmount:       esi,
		ProfessionalTax: in.ProfessionalTax,
		NetSalary:       net,
	}
}

// MapToResponse rounds every amount to two decimal places for display.
func MapToResponse(baseSalary decimal.Decimal, b Breakdown) BreakdownResponse {
	return BreakdownResponse{
		BaseSalary:      baseSalary.StringFixed(2),
		PerDay:          b.PerDay.StringFixed(2),
		FullDayCuts:     b.FullDayCuts,
		HalfDayCuts:     b.HalfDayCuts,
		FullDeduction:   b.FullDeduction.StringFixed(2),
		HalfDeduction:   b.HalfDeduction.StringFixed(2),
		GrossSalary:     b.GrossSalary.StringFixed(2),
		ESIAmount:       b.ESIAmount.StringFixed(2),
		ProfessionalTax: b.ProfessionalTax.StringFixed(2),
		NetSalary:       b.NetSalary.StringFixed(2),
	}
}
