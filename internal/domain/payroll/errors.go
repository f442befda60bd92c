package payroll

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInputUnavailable = errors.New("input file unavailable")
	ErrMalformedField   = errors.New("malformed numeric field")
	ErrUnsortedInput    = errors.New("input is not sorted by employee id and pay period")
	ErrUnknownStrategy  = errors.New("unknown join strategy")
	ErrUnknownFormat    = errors.New("unknown register format")
	ErrOutputFailed     = errors.New("output could not be written")
)

// InputError reports an input file that could not be opened.
type InputError struct {
	File string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("open %s: %v", e.File, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func (e *InputError) Is(target error) bool {
	return target == ErrInputUnavailable
}

// FieldError reports a numeric field that could not be parsed, with enough
// row context to find it in the source file.
type FieldError struct {
	File   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s line %d: invalid %s %q: %v", e.File, e.Line, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMalformedField
}

// OutputError reports a register or payslip that could not be written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

func (e *OutputError) Is(target error) bool {
	return target == ErrOutputFailed
}

func unsortedError(source string, prev, next Key) error {
	return errors.Wrapf(ErrUnsortedInput, "%s: key %s follows %s", source, next, prev)
}
