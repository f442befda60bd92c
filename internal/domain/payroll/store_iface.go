package payroll

// StoreAPI is the flat-file boundary of a register run.
type StoreAPI interface {
	OpenSources(paths Paths) (Sources, func() error, error)
	WriteRegister(path, format string, rows []RegisterRow) error
}

// PayslipAPI renders one document per register row and returns the written
// file paths.
type PayslipAPI interface {
	WritePayslips(dir string, rows []RegisterRow) ([]string, error)
}

type statsReporter interface {
	Stats() ReadStats
}
