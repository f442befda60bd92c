package payroll

import "slices"

// ComputeRow applies the register formula to one matched triple. Nothing is
// rounded here.
func ComputeRow(pay PayrollRecord, hours TimeRecord, benefits BenefitsRecord) RegisterRow {
	gross := pay.HourlyRate*float64(hours.RegularHours) +
		OvertimeMultiplier*pay.HourlyRate*float64(hours.OvertimeHours)

	federalTax := FederalTaxRate * gross
	stateTax := StateTaxRate * gross
	socialSecurity := SocialSecurityRate * gross
	medicare := MedicareRate * gross

	totalBenefits := benefits.HealthInsurance + benefits.Retirement + benefits.OtherBenefits
	totalDeductions := federalTax + stateTax + socialSecurity + medicare + totalBenefits

	return RegisterRow{
		EmployeeID:      pay.EmployeeID,
		EmployeeName:    pay.EmployeeName,
		JobTitle:        pay.JobTitle,
		PayPeriod:       pay.PayPeriod,
		HourlyRate:      pay.HourlyRate,
		RegularHours:    hours.RegularHours,
		OvertimeHours:   hours.OvertimeHours,
		GrossWages:      gross,
		FederalTax:      federalTax,
		StateTax:        stateTax,
		SocialSecurity:  socialSecurity,
		Medicare:        medicare,
		HealthInsurance: benefits.HealthInsurance,
		Retirement:      benefits.Retirement,
		OtherBenefits:   benefits.OtherBenefits,
		TotalBenefits:   totalBenefits,
		TotalDeductions: totalDeductions,
		NetPay:          gross - totalDeductions,
	}
}

// ComputeRegister looks up the time and benefits tables for every payroll key
// and emits a row only when both lookups hit. Output order follows map
// iteration; use SortRows for a stable order.
func ComputeRegister(payroll map[Key]PayrollRecord, times map[Key]TimeRecord, benefits map[Key]BenefitsRecord) []RegisterRow {
	rows := make([]RegisterRow, 0, min(len(payroll), len(times), len(benefits)))
	for key, pay := range payroll {
		hours, ok := times[key]
		if !ok {
			continue
		}
		benefit, ok := benefits[key]
		if !ok {
			continue
		}
		rows = append(rows, ComputeRow(pay, hours, benefit))
	}
	return rows
}

func SortRows(rows []RegisterRow) {
	slices.SortFunc(rows, func(a, b RegisterRow) int {
		return a.Key().Compare(b.Key())
	})
}

func Summarize(rows []RegisterRow) Summary {
	summary := Summary{Rows: len(rows)}
	for _, row := range rows {
		summary.TotalGross += row.GrossWages
		summary.TotalDeductions += row.TotalDeductions
		summary.TotalNet += row.NetPay
	}
	return summary
}
