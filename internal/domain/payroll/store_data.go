package payroll

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FileStore reads the three input CSV files and writes the register.
type FileStore struct{}

func NewFileStore() *FileStore {
	return &FileStore{}
}

// OpenSources opens all three inputs. Nothing is left open when it fails.
func (s *FileStore) OpenSources(paths Paths) (Sources, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var first error
		for _, closeFn := range closers {
			if err := closeFn(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	open := func(path string) (io.Reader, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, &InputError{File: path, Err: err}
		}
		closers = append(closers, f.Close)
		return f, nil
	}

	payrollFile, err := open(paths.Payroll)
	if err != nil {
		_ = closeAll()
		return Sources{}, nil, err
	}
	timeFile, err := open(paths.Time)
	if err != nil {
		_ = closeAll()
		return Sources{}, nil, err
	}
	benefitsFile, err := open(paths.Benefits)
	if err != nil {
		_ = closeAll()
		return Sources{}, nil, err
	}

	src := Sources{
		Payroll:  NewPayrollCursor(paths.Payroll, payrollFile),
		Time:     NewTimeCursor(paths.Time, timeFile),
		Benefits: NewBenefitsCursor(paths.Benefits, benefitsFile),
	}
	return src, closeAll, nil
}

// ReaderSources builds Sources over already-open readers, e.g. uploaded files.
func ReaderSources(payroll, times, benefits io.Reader) Sources {
	return Sources{
		Payroll:  NewPayrollCursor("payroll", payroll),
		Time:     NewTimeCursor("time", times),
		Benefits: NewBenefitsCursor("benefits", benefits),
	}
}

// csvCursor skips the header row and every row with too few columns, and
// stops at the first unparsable numeric field.
type csvCursor[T Keyed] struct {
	name       string
	reader     *csv.Reader
	columns    []string
	parse      func(fields []string) (T, error)
	headerRead bool
	stats      ReadStats
}

func newCSVCursor[T Keyed](name string, r io.Reader, columns []string, parse func([]string) (T, error)) *csvCursor[T] {
	reader := csv.NewReader(stripUTF8BOM(bufio.NewReader(r)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return &csvCursor[T]{name: name, reader: reader, columns: columns, parse: parse}
}

func NewPayrollCursor(name string, r io.Reader) Cursor[PayrollRecord] {
	return newCSVCursor(name, r, payrollColumns, parsePayrollRow)
}

func NewTimeCursor(name string, r io.Reader) Cursor[TimeRecord] {
	return newCSVCursor(name, r, timeColumns, parseTimeRow)
}

func NewBenefitsCursor(name string, r io.Reader) Cursor[BenefitsRecord] {
	return newCSVCursor(name, r, benefitsColumns, parseBenefitsRow)
}

func (c *csvCursor[T]) Next() (T, bool, error) {
	var zero T
	if !c.headerRead {
		c.headerRead = true
		if _, err := c.reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return zero, false, nil
			}
			return zero, false, errors.Wrapf(err, "read %s header", c.name)
		}
	}

	for {
		row, err := c.reader.Read()
		if errors.Is(err, io.EOF) {
			return zero, false, nil
		}
		if err != nil {
			return zero, false, errors.Wrapf(err, "read %s", c.name)
		}
		c.stats.Rows++
		if len(row) < len(c.columns) {
			c.stats.Skipped++
			continue
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}

		record, err := c.parse(row)
		if err != nil {
			var fieldErr *FieldError
			if errors.As(err, &fieldErr) {
				fieldErr.File = c.name
				fieldErr.Line, _ = c.reader.FieldPos(0)
			}
			return zero, false, err
		}
		return record, true, nil
	}
}

func (c *csvCursor[T]) Stats() ReadStats {
	return c.stats
}

func parsePayrollRow(row []string) (PayrollRecord, error) {
	rate, err := parseMoney(row, 4, payrollColumns)
	if err != nil {
		return PayrollRecord{}, err
	}
	return PayrollRecord{
		EmployeeID:   row[0],
		EmployeeName: row[1],
		JobTitle:     row[2],
		PayPeriod:    row[3],
		HourlyRate:   rate,
	}, nil
}

func parseTimeRow(row []string) (TimeRecord, error) {
	regular, err := parseHours(row, 2, timeColumns)
	if err != nil {
		return TimeRecord{}, err
	}
	overtime, err := parseHours(row, 3, timeColumns)
	if err != nil {
		return TimeRecord{}, err
	}
	return TimeRecord{
		EmployeeID:    row[0],
		PayPeriod:     row[1],
		RegularHours:  regular,
		OvertimeHours: overtime,
	}, nil
}

func parseBenefitsRow(row []string) (BenefitsRecord, error) {
	health, err := parseMoney(row, 2, benefitsColumns)
	if err != nil {
		return BenefitsRecord{}, err
	}
	retirement, err := parseMoney(row, 3, benefitsColumns)
	if err != nil {
		return BenefitsRecord{}, err
	}
	other, err := parseMoney(row, 4, benefitsColumns)
	if err != nil {
		return BenefitsRecord{}, err
	}
	return BenefitsRecord{
		EmployeeID:      row[0],
		PayPeriod:       row[1],
		HealthInsurance: health,
		Retirement:      retirement,
		OtherBenefits:   other,
	}, nil
}

func parseMoney(row []string, idx int, columns []string) (float64, error) {
	value, err := strconv.ParseFloat(row[idx], 64)
	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
		err = errors.New("not a finite number")
	}
	if err != nil {
		return 0, &FieldError{Column: columns[idx], Value: row[idx], Err: err}
	}
	return value, nil
}

func parseHours(row []string, idx int, columns []string) (int, error) {
	value, err := strconv.Atoi(row[idx])
	if err != nil {
		return 0, &FieldError{Column: columns[idx], Value: row[idx], Err: err}
	}
	return value, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}
