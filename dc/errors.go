package dc

import "errors"

// Sentinel errors for the closed set of result codes.
var (
	ErrInvalidArgs = errors.New("dc: invalid arguments")
	ErrNoMemory    = errors.New("dc: out of memory")
	ErrIO          = errors.New("dc: input/output error")
	ErrTimeout     = errors.New("dc: timeout")
	ErrProtocol    = errors.New("dc: protocol error")
	ErrDataFormat  = errors.New("dc: data format error")
	ErrUnsupported = errors.New("dc: unsupported operation")
)

// Status is the result code of an operation.
type Status int

const (
	StatusSuccess Status = iota
	StatusInvalidArgs
	StatusNoMemory
	StatusIO
	StatusTimeout
	StatusProtocol
	StatusDataFormat
	StatusUnsupported
	// StatusUnknown is reported for errors that do not wrap any of the sentinels above.
	StatusUnknown
)

var statusErrors = []struct {
	err    error
	status Status
}{
	{ErrInvalidArgs, StatusInvalidArgs},
	{ErrNoMemory, StatusNoMemory},
	{ErrIO, StatusIO},
	{ErrTimeout, StatusTimeout},
	{ErrProtocol, StatusProtocol},
	{ErrDataFormat, StatusDataFormat},
	{ErrUnsupported, StatusUnsupported},
}

// StatusOf maps err to its result code. A nil error is StatusSuccess.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}

	for _, se := range statusErrors {
		if errors.Is(err, se.err) {
			return se.status
		}
	}

	return StatusUnknown
}

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInvalidArgs:
		return "invalid arguments"
	case StatusNoMemory:
		return "out of memory"
	case StatusIO:
		return "input/output error"
	case StatusTimeout:
		return "timeout"
	case StatusProtocol:
		return "protocol error"
	case StatusDataFormat:
		return "data format error"
	case StatusUnsupported:
		return "unsupported operation"
	default:
		return "unknown error"
	}
}
