package payroll

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	cryptoutil "payregister/internal/platform/crypto"
)

// PayslipStore renders one PDF payslip per register row, sealing each file
// when the crypto service has a key.
type PayslipStore struct {
	crypto *cryptoutil.Service
}

func NewPayslipStore(crypto *cryptoutil.Service) *PayslipStore {
	return &PayslipStore{crypto: crypto}
}

// WritePayslips writes rows in order. File names carry the row position so
// sanitized IDs can never collide.
func (s *PayslipStore) WritePayslips(dir string, rows []RegisterRow) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	paths := make([]string, 0, len(rows))
	for i, row := range rows {
		data, err := RenderPayslip(row)
		if err != nil {
			return paths, errors.Wrapf(err, "render payslip %s", row.Key())
		}
		name := fmt.Sprintf("%05d_%s_%s.pdf", i+1, fileSafe(row.EmployeeID), fileSafe(row.PayPeriod))
		written, err := s.crypto.WriteFile(filepath.Join(dir, name), data)
		if err != nil {
			return paths, errors.Wrapf(err, "write payslip %s", row.Key())
		}
		paths = append(paths, written)
	}
	return paths, nil
}

func RenderPayslip(row RegisterRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", row.EmployeeName, row.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Job title: %s", row.JobTitle))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Pay period: %s", row.PayPeriod))
	pdf.Ln(10)

	lines := []struct {
		label string
		value string
	}{
		{"Hourly rate", FormatMoney(row.HourlyRate)},
		{"Regular hours", fmt.Sprint(row.RegularHours)},
		{"Overtime hours", fmt.Sprint(row.OvertimeHours)},
		{"Gross wages", FormatMoney(row.GrossWages)},
		{"Federal tax", FormatMoney(row.FederalTax)},
		{"State tax", FormatMoney(row.StateTax)},
		{"Social security", FormatMoney(row.SocialSecurity)},
		{"Medicare", FormatMoney(row.Medicare)},
		{"Health insurance", FormatMoney(row.HealthInsurance)},
		{"Retirement", FormatMoney(row.Retirement)},
		{"Other benefits", FormatMoney(row.OtherBenefits)},
		{"Total deductions", FormatMoney(row.TotalDeductions)},
	}
	for _, line := range lines {
		pdf.CellFormat(70, 7, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, line.value, "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(70, 8, "Net pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, FormatMoney(row.NetPay), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fileSafe(value string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return '_'
	}, value)
	if safe == "" {
		return "_"
	}
	return safe
}
