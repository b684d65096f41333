package actlog

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned by Extract when start is after end.
var ErrInvalidRange = errors.New("invalid time range")

// Scan operations reported in ScanError.Op.
const (
	OpScan      = "scan"
	OpStructure = "structure"
	OpExtract   = "extract"
	OpProgress  = "progress"
)

// ScanError reports a scan that stopped before the end of its input,
// either by cancellation or by a failing progress callback.
type ScanError struct {
	Op     string // one of the Op* constants
	Offset int    // bytes consumed when the scan stopped
	Err    error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s stopped at byte %d: %v", e.Op, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Err
}
