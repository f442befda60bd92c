package payroll

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const registerSheet = "Register"

// WriteRegister creates path and writes rows in the given format.
func (s *FileStore) WriteRegister(path, format string, rows []RegisterRow) (err error) {
	write, err := registerWriter(format)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "close %s", path)
		}
	}()
	if err := write(f, rows); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func registerWriter(format string) (func(io.Writer, []RegisterRow) error, error) {
	switch format {
	case "", FormatCSV:
		return WriteRegisterCSV, nil
	case FormatXLSX:
		return WriteRegisterXLSX, nil
	case FormatJSON:
		return WriteRegisterJSON, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// WriteRegisterCSV writes the header and one line per row. Text fields are
// written as-is, without quoting.
func WriteRegisterCSV(w io.Writer, rows []RegisterRow) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(RegisterHeader, ",") + "\n"); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, row := range rows {
		if _, err := bw.WriteString(strings.Join(registerFields(row), ",") + "\n"); err != nil {
			return errors.Wrapf(err, "write row %s", row.Key())
		}
	}
	return bw.Flush()
}

// WriteRegisterXLSX writes a single-sheet workbook. Amounts are stored as
// numbers already rounded to cents and displayed with two decimals.
func WriteRegisterXLSX(w io.Writer, rows []RegisterRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}

	header := make([]any, len(RegisterHeader))
	for i, name := range RegisterHeader {
		header[i] = name
	}
	if err := f.SetSheetRow(registerSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := xlsxValues(row)
		if err := f.SetSheetRow(registerSheet, cell, &values); err != nil {
			return errors.Wrapf(err, "write row %s", row.Key())
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return errors.Wrap(err, "create number style")
	}
	if err := f.SetColStyle(registerSheet, "E", style); err != nil {
		return err
	}
	if err := f.SetColStyle(registerSheet, "H:R", style); err != nil {
		return err
	}
	return f.Write(w)
}

func xlsxValues(row RegisterRow) []any {
	row = row.Rounded()
	return []any{
		row.EmployeeID,
		row.EmployeeName,
		row.JobTitle,
		row.PayPeriod,
		row.HourlyRate,
		row.RegularHours,
		row.OvertimeHours,
		row.GrossWages,
		row.FederalTax,
		row.StateTax,
		row.SocialSecurity,
		row.Medicare,
		row.HealthInsurance,
		row.Retirement,
		row.OtherBenefits,
		row.TotalBenefits,
		row.TotalDeductions,
		row.NetPay,
	}
}

// WriteRegisterJSON writes rows as a JSON array with amounts rounded to cents.
func WriteRegisterJSON(w io.Writer, rows []RegisterRow) error {
	out := make([]RegisterRow, len(rows))
	for i, row := range rows {
		out[i] = row.Rounded()
	}
	return json.NewEncoder(w).Encode(out)
}
