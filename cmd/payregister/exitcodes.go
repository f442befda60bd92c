package main

import (
	"errors"

	"github.com/spf13/cobra"

	"payregister/internal/domain/payroll"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK     = 0
	exitUsage  = 2
	exitInput  = 3
	exitData   = 4
	exitOutput = 5
	exitConfig = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withCode(exitUsage, validate(cmd, args))
	}
}

func usageFlagError(_ *cobra.Command, err error) error {
	return withCode(exitUsage, err)
}

// classify maps domain errors to exit codes. Unsorted input counts as bad
// data, like an unparsable field.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, payroll.ErrInputUnavailable):
		return withCode(exitInput, err)
	case errors.Is(err, payroll.ErrMalformedField), errors.Is(err, payroll.ErrUnsortedInput):
		return withCode(exitData, err)
	case errors.Is(err, payroll.ErrOutputFailed):
		return withCode(exitOutput, err)
	case errors.Is(err, payroll.ErrUnknownStrategy), errors.Is(err, payroll.ErrUnknownFormat):
		return withCode(exitUsage, err)
	default:
		return err
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
