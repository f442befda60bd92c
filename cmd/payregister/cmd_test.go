package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"payregister/internal/auth"
	"payregister/internal/domain/payroll"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func generate(t *testing.T, dir string, ratio string) payroll.Paths {
	t.Helper()
	_, err := execute(t, "generate", "--rows", "50", "--seed", "1", "--match-ratio", ratio, "--dir", dir)
	require.NoError(t, err)
	return payroll.Paths{
		Payroll:  filepath.Join(dir, payroll.DefaultPayrollFile),
		Time:     filepath.Join(dir, payroll.DefaultTimeFile),
		Benefits: filepath.Join(dir, payroll.DefaultBenefitsFile),
	}
}

func inputArgs(paths payroll.Paths) []string {
	return []string{"--payroll", paths.Payroll, "--time", paths.Time, "--benefits", paths.Benefits}
}

func TestRunCommandWritesRegister(t *testing.T) {
	dir := t.TempDir()
	paths := generate(t, dir, "1")
	output := filepath.Join(dir, "register.csv")
	metricsFile := filepath.Join(dir, "run.prom")

	args := append([]string{"run", "--strategy", "merge", "--output", output, "--metrics-file", metricsFile}, inputArgs(paths)...)
	out, err := execute(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "Computed 50 register records.")
	require.Contains(t, out, "Time to read input files:")
	require.Contains(t, out, "Pay register computed and saved to "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 51)
	require.True(t, strings.HasPrefix(lines[1], "001,"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `payregister_runs_total{result="ok",strategy="merge"} 1`)
}

func TestRootCommandRunsRegister(t *testing.T) {
	dir := t.TempDir()
	paths := generate(t, dir, "0.5")
	output := filepath.Join(dir, "register.xlsx")

	args := append([]string{"--format", "xlsx", "--output", output, "--payslips-dir", filepath.Join(dir, "slips")}, inputArgs(paths)...)
	out, err := execute(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "register records.")
	require.Contains(t, out, "payslips to")
	require.FileExists(t, output)
}

func TestRunCommandExitCodes(t *testing.T) {
	dir := t.TempDir()
	paths := generate(t, dir, "1")

	t.Run("usage", func(t *testing.T) {
		_, err := execute(t, "run", "--strategy", "nested-loop")
		require.Equal(t, exitUsage, exitCode(err))
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := execute(t, "run", "--bogus")
		require.Equal(t, exitUsage, exitCode(err))
	})

	t.Run("extra argument", func(t *testing.T) {
		_, err := execute(t, "run", "extra")
		require.Equal(t, exitUsage, exitCode(err))
	})

	t.Run("missing input", func(t *testing.T) {
		missing := paths
		missing.Time = filepath.Join(dir, "nope.csv")
		args := append([]string{"run", "--output", filepath.Join(dir, "out.csv")}, inputArgs(missing)...)
		_, err := execute(t, args...)
		require.Equal(t, exitInput, exitCode(err))
		require.Contains(t, err.Error(), "nope.csv")
	})

	t.Run("malformed field", func(t *testing.T) {
		bad := paths
		bad.Benefits = filepath.Join(dir, "bad_benefits.csv")
		require.NoError(t, os.WriteFile(bad.Benefits, []byte("h\n001,01/01-01/15,abc,1,1\n"), 0o644))
		args := append([]string{"run", "--output", filepath.Join(dir, "out.csv")}, inputArgs(bad)...)
		_, err := execute(t, args...)
		require.Equal(t, exitData, exitCode(err))
	})

	t.Run("output", func(t *testing.T) {
		args := append([]string{"run", "--output", filepath.Join(dir, "no", "such", "dir.csv")}, inputArgs(paths)...)
		_, err := execute(t, args...)
		require.Equal(t, exitOutput, exitCode(err))
	})

	t.Run("config", func(t *testing.T) {
		t.Setenv("MAX_BODY_BYTES", "tiny")
		_, err := execute(t, append([]string{"run"}, inputArgs(paths)...)...)
		require.Equal(t, exitConfig, exitCode(err))
	})
}

func TestGenerateCommandValidatesFlags(t *testing.T) {
	_, err := execute(t, "generate", "--rows", "0", "--dir", t.TempDir())
	require.Equal(t, exitUsage, exitCode(err))

	_, err = execute(t, "generate", "--match-ratio", "1.5", "--dir", t.TempDir())
	require.Equal(t, exitUsage, exitCode(err))
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := execute(t, "token", "--subject", "ci", "--scope", auth.ScopeRegisterRun)
	require.NoError(t, err)

	claims, err := auth.ParseToken("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, "ci", claims.UserID)
	require.Equal(t, []string{auth.ScopeRegisterRun}, claims.Scopes)
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := execute(t, "token")
	require.Equal(t, exitConfig, exitCode(err))
}

func TestExitCodeDefaults(t *testing.T) {
	require.Equal(t, exitOK, exitCode(nil))
	require.Equal(t, 1, exitCode(os.ErrClosed))
	require.Nil(t, classify(nil))
}
