package payroll

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

var (
	firstNames = []string{"John", "Jane", "Alex", "Emily", "Michael", "Sarah", "David", "Laura"}
	lastNames  = []string{"Doe", "Smith", "Johnson", "Williams", "Brown", "Jones", "Davis", "Miller"}
	jobTitles  = []string{"Manager", "Clerk", "Engineer", "Analyst", "Technician", "Salesperson", "Administrator", "Supervisor"}
	payPeriods = []string{"01/01-01/15", "01/16-01/31", "02/01-02/15", "02/16-02/28", "03/01-03/15", "03/16-03/31"}
)

type GenerateOptions struct {
	Rows int
	Seed int64
	// MatchRatio is the share of employees present in all three files. The
	// rest are missing from either the time or the benefits file.
	MatchRatio float64
}

type Dataset struct {
	Payroll  []PayrollRecord
	Time     []TimeRecord
	Benefits []BenefitsRecord
}

// Generate builds a reproducible dataset. Employee IDs are zero padded, so
// every file comes out sorted by Key.
func Generate(opts GenerateOptions) Dataset {
	rng := rand.New(rand.NewSource(opts.Seed))
	width := max(3, len(strconv.Itoa(opts.Rows)))

	ds := Dataset{
		Payroll:  make([]PayrollRecord, 0, opts.Rows),
		Time:     make([]TimeRecord, 0, opts.Rows),
		Benefits: make([]BenefitsRecord, 0, opts.Rows),
	}
	for i := 1; i <= opts.Rows; i++ {
		id := fmt.Sprintf("%0*d", width, i)
		period := payPeriods[rng.Intn(len(payPeriods))]

		ds.Payroll = append(ds.Payroll, PayrollRecord{
			EmployeeID:   id,
			EmployeeName: firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
			JobTitle:     jobTitles[rng.Intn(len(jobTitles))],
			PayPeriod:    period,
			HourlyRate:   cents(uniform(rng, 15, 50)),
		})

		hours := TimeRecord{
			EmployeeID:    id,
			PayPeriod:     period,
			RegularHours:  70 + rng.Intn(11),
			OvertimeHours: rng.Intn(11),
		}
		benefits := BenefitsRecord{
			EmployeeID:      id,
			PayPeriod:       period,
			HealthInsurance: cents(uniform(rng, 50, 100)),
			Retirement:      cents(uniform(rng, 30, 70)),
			OtherBenefits:   cents(uniform(rng, 10, 30)),
		}

		switch {
		case rng.Float64() < opts.MatchRatio:
			ds.Time = append(ds.Time, hours)
			ds.Benefits = append(ds.Benefits, benefits)
		case rng.Intn(2) == 0:
			ds.Benefits = append(ds.Benefits, benefits)
		default:
			ds.Time = append(ds.Time, hours)
		}
	}
	return ds
}

// WriteDataset writes the three input files into dir under their
// conventional names.
func WriteDataset(dir string, ds Dataset) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, errors.Wrapf(err, "create %s", dir)
	}
	paths := Paths{
		Payroll:  filepath.Join(dir, DefaultPayrollFile),
		Time:     filepath.Join(dir, DefaultTimeFile),
		Benefits: filepath.Join(dir, DefaultBenefitsFile),
	}
	if err := marshalFile(paths.Payroll, &ds.Payroll); err != nil {
		return Paths{}, err
	}
	if err := marshalFile(paths.Time, &ds.Time); err != nil {
		return Paths{}, err
	}
	if err := marshalFile(paths.Benefits, &ds.Benefits); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

func marshalFile(path string, records any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "close %s", path)
		}
	}()
	if err := gocsv.Marshal(records, f); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func cents(value float64) float64 {
	return math.Round(value*100) / 100
}
