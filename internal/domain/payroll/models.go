package payroll

import (
	"cmp"
	"time"
)

// Key identifies one employee in one pay period. It is compared field by
// field, so an employee ID containing a delimiter can never collide with
// another key.
type Key struct {
	EmployeeID string
	PayPeriod  string
}

// Compare orders keys by employee ID, then pay period.
func (k Key) Compare(other Key) int {
	if c := cmp.Compare(k.EmployeeID, other.EmployeeID); c != 0 {
		return c
	}
	return cmp.Compare(k.PayPeriod, other.PayPeriod)
}

func (k Key) String() string {
	return k.EmployeeID + "/" + k.PayPeriod
}

type PayrollRecord struct {
	EmployeeID   string  `csv:"Employee ID"`
	EmployeeName string  `csv:"Employee Name"`
	JobTitle     string  `csv:"Job Title"`
	PayPeriod    string  `csv:"Pay Period"`
	HourlyRate   float64 `csv:"Hourly Rate"`
}

func (r PayrollRecord) Key() Key {
	return Key{EmployeeID: r.EmployeeID, PayPeriod: r.PayPeriod}
}

type TimeRecord struct {
	EmployeeID    string `csv:"Employee ID"`
	PayPeriod     string `csv:"Pay Period"`
	RegularHours  int    `csv:"Regular Hours"`
	OvertimeHours int    `csv:"Overtime Hours"`
}

func (r TimeRecord) Key() Key {
	return Key{EmployeeID: r.EmployeeID, PayPeriod: r.PayPeriod}
}

type BenefitsRecord struct {
	EmployeeID      string  `csv:"Employee ID"`
	PayPeriod       string  `csv:"Pay Period"`
	HealthInsurance float64 `csv:"Health Insurance"`
	Retirement      float64 `csv:"Retirement"`
	OtherBenefits   float64 `csv:"Other Benefits"`
}

func (r BenefitsRecord) Key() Key {
	return Key{EmployeeID: r.EmployeeID, PayPeriod: r.PayPeriod}
}

// RegisterRow is one computed line of the payroll register. Derived amounts
// are kept unrounded; rounding happens only when a row is serialized.
type RegisterRow struct {
	EmployeeID      string  `json:"employeeId"`
	EmployeeName    string  `json:"employeeName"`
	JobTitle        string  `json:"jobTitle"`
	PayPeriod       string  `json:"payPeriod"`
	HourlyRate      float64 `json:"hourlyRate"`
	RegularHours    int     `json:"regularHours"`
	OvertimeHours   int     `json:"overtimeHours"`
	GrossWages      float64 `json:"grossWages"`
	FederalTax      float64 `json:"federalTax"`
	StateTax        float64 `json:"stateTax"`
	SocialSecurity  float64 `json:"socialSecurity"`
	Medicare        float64 `json:"medicare"`
	HealthInsurance float64 `json:"healthInsurance"`
	Retirement      float64 `json:"retirement"`
	OtherBenefits   float64 `json:"otherBenefits"`
	TotalBenefits   float64 `json:"totalBenefits"`
	TotalDeductions float64 `json:"totalDeductions"`
	NetPay          float64 `json:"netPay"`
}

func (r RegisterRow) Key() Key {
	return Key{EmployeeID: r.EmployeeID, PayPeriod: r.PayPeriod}
}

type Summary struct {
	Rows            int     `json:"rows"`
	TotalGross      float64 `json:"totalGross"`
	TotalDeductions float64 `json:"totalDeductions"`
	TotalNet        float64 `json:"totalNet"`
}

// Paths names the three input files of a register run.
type Paths struct {
	Payroll  string
	Time     string
	Benefits string
}

type ReadStats struct {
	Rows    int
	Skipped int
}

type Timings struct {
	Read    time.Duration
	Compute time.Duration
	Write   time.Duration
	Total   time.Duration
}
