package payrollhandler

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"payregister/internal/domain/payroll"
	"payregister/internal/transport/http/api"
	"payregister/internal/transport/http/middleware"
	"payregister/internal/transport/http/shared"
)

const maxFormMemory = 8 << 20

type Handler struct {
	Service *payroll.Service
	Logger  logrus.FieldLogger
}

func NewHandler(service *payroll.Service, logger logrus.FieldLogger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

type registerResponse struct {
	Rows    []payroll.RegisterRow `json:"rows"`
	Summary payroll.Summary       `json:"summary"`
}

// RegisterRoutes mounts the register endpoints behind the given guards.
func (h *Handler) RegisterRoutes(r chi.Router, guards ...func(http.Handler) http.Handler) {
	r.With(guards...).Post("/register", h.handleComputeRegister)
}

// handleComputeRegister expects a multipart form with payroll, time and
// benefits file parts. The strategy and format query parameters select the
// join and the response encoding.
func (h *Handler) handleComputeRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	strategy := r.URL.Query().Get("strategy")
	format := r.URL.Query().Get("format")

	v := shared.NewValidator()
	v.Enum("strategy", strategy, payroll.Strategies)
	v.Enum("format", format, payroll.Formats)
	if v.Reject(w, reqID) {
		return
	}
	if format == "" {
		format = payroll.FormatJSON
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds size limit", reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_form", "multipart form required", reqID)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := make([]multipart.File, 0, 3)
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	for _, part := range []string{"payroll", "time", "benefits"} {
		f, _, err := r.FormFile(part)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "missing_file", fmt.Sprintf("%s file is required", part), reqID)
			return
		}
		files = append(files, f)
	}

	rows, err := h.Service.Compute(r.Context(), payroll.ReaderSources(files[0], files[1], files[2]), strategy)
	if err != nil {
		h.fail(w, err, reqID)
		return
	}

	switch format {
	case payroll.FormatCSV:
		writeAttachment(w, "text/csv", "payroll_register.csv", rows, payroll.WriteRegisterCSV)
	case payroll.FormatXLSX:
		writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "payroll_register.xlsx", rows, payroll.WriteRegisterXLSX)
	default:
		rounded := make([]payroll.RegisterRow, len(rows))
		for i, row := range rows {
			rounded[i] = row.Rounded()
		}
		api.Success(w, registerResponse{Rows: rounded, Summary: payroll.Summarize(rows).Rounded()}, reqID)
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error, reqID string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, payroll.ErrUnknownStrategy):
		api.Fail(w, http.StatusBadRequest, "invalid_strategy", err.Error(), reqID)
	case errors.Is(err, payroll.ErrMalformedField):
		api.Fail(w, http.StatusUnprocessableEntity, "malformed_field", err.Error(), reqID)
	case errors.Is(err, payroll.ErrUnsortedInput):
		api.Fail(w, http.StatusUnprocessableEntity, "unsorted_input", err.Error(), reqID)
	case errors.As(err, &tooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds size limit", reqID)
	default:
		h.Logger.WithError(err).WithField("request_id", reqID).Error("register computation failed")
		api.Fail(w, http.StatusInternalServerError, "internal_error", "register computation failed", reqID)
	}
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, rows []payroll.RegisterRow, write func(io.Writer, []payroll.RegisterRow) error) {
	var buf bytes.Buffer
	if err := write(&buf, rows); err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	_, _ = w.Write(buf.Bytes())
}
