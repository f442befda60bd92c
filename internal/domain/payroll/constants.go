package payroll

const (
	FederalTaxRate     = 0.12
	StateTaxRate       = 0.05
	SocialSecurityRate = 0.062
	MedicareRate       = 0.0145
	OvertimeMultiplier = 1.5

	StrategyHash  = "hash"
	StrategyMerge = "merge"

	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"

	DefaultPayrollFile  = "payroll_data.csv"
	DefaultTimeFile     = "time_data.csv"
	DefaultBenefitsFile = "benefits.csv"
	DefaultOutputFile   = "payroll_register.csv"

	PhaseRead    = "read"
	PhaseCompute = "compute"
	PhaseWrite   = "write"
	PhaseTotal   = "total"
)

var (
	// Strategies and Formats list every accepted name, default first.
	Strategies = []string{StrategyHash, StrategyMerge}
	Formats    = []string{FormatCSV, FormatXLSX, FormatJSON}

	payrollColumns  = []string{"Employee ID", "Employee Name", "Job Title", "Pay Period", "Hourly Rate"}
	timeColumns     = []string{"Employee ID", "Pay Period", "Regular Hours", "Overtime Hours"}
	benefitsColumns = []string{"Employee ID", "Pay Period", "Health Insurance", "Retirement", "Other Benefits"}

	// RegisterHeader is the header line of the register file, in column order.
	RegisterHeader = []string{
		"Employee ID", "Employee Name", "Job Title", "Pay Period", "Hourly Rate",
		"Regular Hours", "Overtime Hours", "Gross Wages", "Federal Tax", "State Tax",
		"Social Security", "Medicare", "Health Insurance", "Retirement", "Other Benefits",
		"Total Benefits", "Total Deductions", "Net Pay",
	}
)
