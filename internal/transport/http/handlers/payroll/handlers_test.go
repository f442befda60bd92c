package payrollhandler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"payregister/internal/domain/payroll"
)

const (
	payrollCSV  = "Employee ID,Employee Name,Job Title,Pay Period,Hourly Rate\nE1,Jane,Clerk,2024-01,20.00\nE2,John,Engineer,2024-01,30.00\n"
	timeCSV     = "Employee ID,Pay Period,Regular Hours,Overtime Hours\nE1,2024-01,40,5\nE2,2024-01,40,0\n"
	benefitsCSV = "Employee ID,Pay Period,Health Insurance,Retirement,Other Benefits\nE1,2024-01,100.00,50.00,10.00\n"
)

func newRouter() http.Handler {
	logger, _ := test.NewNullLogger()
	h := NewHandler(payroll.NewService(nil, nil, logger, nil), logger)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func upload(t *testing.T, query string, parts map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, content := range parts {
		fw, err := mw.CreateFormFile(name, name+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/register"+query, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)
	return rec
}

func allParts() map[string]string {
	return map[string]string{"payroll": payrollCSV, "time": timeCSV, "benefits": benefitsCSV}
}

func TestComputeRegisterJSON(t *testing.T) {
	rec := upload(t, "", allParts())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Success bool             `json:"success"`
		Data    registerResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.Len(t, envelope.Data.Rows, 1)
	require.Equal(t, 555.82, envelope.Data.Rows[0].NetPay)
	require.Equal(t, 1, envelope.Data.Summary.Rows)
	require.Equal(t, 394.18, envelope.Data.Summary.TotalDeductions)
	require.Equal(t, 555.82, envelope.Data.Summary.TotalNet)
}

func TestComputeRegisterCSV(t *testing.T) {
	rec := upload(t, "?format=csv&strategy=merge", allParts())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(rec.Body.String(), "Employee ID,"))
	require.Contains(t, rec.Body.String(), "E1,Jane,Clerk,2024-01,20.00,40,5,950.00")
}

func TestComputeRegisterXLSX(t *testing.T) {
	rec := upload(t, "?format=xlsx", allParts())
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Register")
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestComputeRegisterRejectsBadQuery(t *testing.T) {
	rec := upload(t, "?format=ods&strategy=loop", allParts())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "validation_error")
}

func TestComputeRegisterMissingPart(t *testing.T) {
	parts := allParts()
	delete(parts, "benefits")
	rec := upload(t, "", parts)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "benefits file is required")
}

func TestComputeRegisterMalformedField(t *testing.T) {
	parts := allParts()
	parts["time"] = "h\nE1,2024-01,forty,5\n"
	rec := upload(t, "", parts)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "malformed_field")
}

func TestComputeRegisterUnsortedMerge(t *testing.T) {
	parts := allParts()
	parts["payroll"] = "h\nE2,John,Engineer,2024-01,30.00\nE1,Jane,Clerk,2024-01,20.00\n"
	rec := upload(t, "?strategy=merge", parts)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "unsorted_input")

	rec = upload(t, "?strategy=hash", parts)
	require.Equal(t, http.StatusOK, rec.Code)
}
