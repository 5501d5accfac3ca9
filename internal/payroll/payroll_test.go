package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApplicable(t *testing.T) {
	assert.False(t, Applicable(decimal.Zero))
	assert.False(t, Applicable(decimal.NewFromInt(-100)))
	assert.True(t, Applicable(decimal.NewFromFloat(0.01)))
}

func TestDerive_FullBreakdown(t *testing.T) {
	// 3000 over 30 days, 2 absences, 1 third late, 2 second lates,
	// 1% ESI, 50 professional tax.
	b := Derive(Input{
		BaseSalary:      decimal.NewFromInt(3000),
		ESIPercentage:   decimal.NewFromInt(1),
		ProfessionalTax: decimal.NewFromInt(50),
		NumDays:         30,
		Absent:          2,
		ThirdLate:       1,
		SecondLate:      2,
	})

	assert.Equal(t, 3, b.FullDayCuts)
	assert.Equal(t, 2, b.HalfDayCuts)
	assert.True(t, b.PerDay.Equal(decimal.NewFromInt(100)))
	assert.True(t, b.FullDeduction.Equal(decimal.NewFromInt(300)))
	assert.True(t, b.HalfDeduction.Equal(decimal.NewFromInt(100)))
	assert.True(t, b.GrossSalary.Equal(decimal.NewFromInt(2600)))
	assert.True(t, b.ESIAmount.Equal(decimal.NewFromInt(26)))
	assert.True(t, b.NetSalary.Equal(decimal.NewFromInt(2524)))

	resp := MapToResponse(decimal.NewFromInt(3000), b)
	assert.Equal(t, "3000.00", resp.BaseSalary)
	assert.Equal(t, "100.00", resp.PerDay)
	assert.Equal(t, "2600.00", resp.GrossSalary)
	assert.Equal(t, "2524.00", resp.NetSalary)
}

func TestDerive_CleanMonth(t *testing.T) {
	b := Derive(Input{
		BaseSalary:      decimal.NewFromInt(4500),
		ESIPercentage:   decimal.Zero,
		ProfessionalTax: decimal.Zero,
		NumDays:         31,
	})
	assert.Equal(t, 0, b.FullDayCuts)
	assert.Equal(t, 0, b.HalfDayCuts)
	assert.True(t, b.NetSalary.Equal(decimal.NewFromInt(4500)))
}

func TestDerive_RoundsOnlyInResponse(t *testing.T) {
	// 1000 over 31 days does not divide evenly; the response rounds to
	// two places but the breakdown keeps full precision.
	b := Derive(Input{
		BaseSalary: decimal.NewFromInt(1000),
		NumDays:    31,
		Absent:     1,
	})
	resp := MapToResponse(decimal.NewFromInt(1000), b)
	assert.Equal(t, "32.26", resp.PerDay)
	assert.Equal(t, "967.74", resp.GrossSalary)
}
