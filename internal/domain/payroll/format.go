package payroll

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// noisePlaces absorbs binary floating-point error (13.774999999999999 for
// 0.0145*950) before the half-even rounding to cents.
const noisePlaces = 9

// RoundMoney rounds half to even at two decimal places.
func RoundMoney(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(noisePlaces).RoundBank(2)
}

// FormatMoney renders value with exactly two decimals, half to even.
func FormatMoney(value float64) string {
	return RoundMoney(value).StringFixed(2)
}

// registerFields renders a row in RegisterHeader order.
func registerFields(row RegisterRow) []string {
	return []string{
		row.EmployeeID,
		row.EmployeeName,
		row.JobTitle,
		row.PayPeriod,
		FormatMoney(row.HourlyRate),
		strconv.Itoa(row.RegularHours),
		strconv.Itoa(row.OvertimeHours),
		FormatMoney(row.GrossWages),
		FormatMoney(row.FederalTax),
		FormatMoney(row.StateTax),
		FormatMoney(row.SocialSecurity),
		FormatMoney(row.Medicare),
		FormatMoney(row.HealthInsurance),
		FormatMoney(row.Retirement),
		FormatMoney(row.OtherBenefits),
		FormatMoney(row.TotalBenefits),
		FormatMoney(row.TotalDeductions),
		FormatMoney(row.NetPay),
	}
}

func roundedMoney(v float64) float64 {
	rounded, _ := RoundMoney(v).Float64()
	return rounded
}

// Rounded returns a copy of the row with every amount rounded to cents.
func (r RegisterRow) Rounded() RegisterRow {
	r.HourlyRate = roundedMoney(r.HourlyRate)
	r.GrossWages = roundedMoney(r.GrossWages)
	r.FederalTax = roundedMoney(r.FederalTax)
	r.StateTax = roundedMoney(r.StateTax)
	r.SocialSecurity = roundedMoney(r.SocialSecurity)
	r.Medicare = roundedMoney(r.Medicare)
	r.HealthInsurance = roundedMoney(r.HealthInsurance)
	r.Retirement = roundedMoney(r.Retirement)
	r.OtherBenefits = roundedMoney(r.OtherBenefits)
	r.TotalBenefits = roundedMoney(r.TotalBenefits)
	r.TotalDeductions = roundedMoney(r.TotalDeductions)
	r.NetPay = roundedMoney(r.NetPay)
	return r
}

// Rounded returns a copy of the summary with totals rounded to cents.
func (s Summary) Rounded() Summary {
	s.TotalGross = roundedMoney(s.TotalGross)
	s.TotalDeductions = roundedMoney(s.TotalDeductions)
	s.TotalNet = roundedMoney(s.TotalNet)
	return s
}
