package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatorEnum(t *testing.T) {
	v := NewValidator()
	v.Enum("strategy", "", []string{"hash", "merge"})
	v.Enum("strategy", "merge", []string{"hash", "merge"})
	require.False(t, v.HasIssues())

	v.Enum("format", "ods", []string{"csv", "json"})
	v.Enum("strategy", "loop", []string{"hash", "merge"})
	require.Equal(t, []ValidationIssue{
		{Field: "format", Reason: "must be one of csv, json"},
		{Field: "strategy", Reason: "must be one of hash, merge"},
	}, v.Issues())
}

func TestValidatorReject(t *testing.T) {
	rec := httptest.NewRecorder()
	require.False(t, NewValidator().Reject(rec, "r1"))

	v := NewValidator()
	v.Add("format", "unsupported")
	require.True(t, v.Reject(rec, "r1"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, "validation_error", body.Error.Code)
	require.Len(t, body.Error.Details.Fields, 1)
}
