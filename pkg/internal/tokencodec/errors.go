package tokencodec

import "errors"

// ErrInvalidFormat is the user-facing reason every payload rejection reports.
var ErrInvalidFormat = errors.New("invalid compressed file format")

// FormatError is returned when a payload cannot be unpacked. Error() always reads
// "invalid compressed file format"; Reason and the wrapped error carry the detail.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	return ErrInvalidFormat.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidFormat) match any FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

func formatErr(reason string, err error) *FormatError {
	return &FormatError{Reason: reason, Err: err}
}

// NewFormatError reports a payload that parsed but whose content cannot be restored.
func NewFormatError(reason string, err error) *FormatError {
	return formatErr(reason, err)
}
