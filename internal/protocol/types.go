package protocol

import "fmt"

// CommandKind selects the operation a validated command performs.
type CommandKind int

const (
	KindInit CommandKind = iota + 1
	KindApplyGate
	KindMeasure
	KindReset
	KindQuery
)

func (k CommandKind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindApplyGate:
		return "gate"
	case KindMeasure:
		return "measure"
	case KindReset:
		return "reset"
	case KindQuery:
		return "query"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is a fully-validated operation. It is only ever produced by
// schema validation, never constructed from unchecked input.
type Command struct {
	Kind    CommandKind
	Backend string
	Addr    string

	// Init only.
	QubitCount int

	// ApplyGate and Measure.
	Gate   string
	Qubits []int
	Params []float64
}

// ErrorCode is a stable wire-visible error identifier.
type ErrorCode string

const (
	CodeUnknownCommand   ErrorCode = "unknown_command"
	CodeInvalidArguments ErrorCode = "invalid_arguments"
	CodeOutOfRange       ErrorCode = "out_of_range"
	CodeNoActiveSession  ErrorCode = "no_active_session"
	CodeSessionExpired   ErrorCode = "session_expired"
	CodeBusy             ErrorCode = "busy"
	CodeBackendFailure   ErrorCode = "backend_failure"
)

// Error is a command-level failure answered with an error reply.
// ArgIndex is the offending argument position, or -1 when the failure is
// not tied to a single argument.
type Error struct {
	Code     ErrorCode
	ArgIndex int
	Reason   string
}

func (e *Error) Error() string {
	if e.ArgIndex >= 0 {
		return fmt.Sprintf("%s: arg[%d]: %s", e.Code, e.ArgIndex, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// NewError creates an Error not tied to a single argument.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, ArgIndex: -1, Reason: fmt.Sprintf(format, args...)}
}

// NewArgError creates an Error pointing at one argument position.
func NewArgError(code ErrorCode, argIndex int, format string, args ...any) *Error {
	return &Error{Code: code, ArgIndex: argIndex, Reason: fmt.Sprintf(format, args...)}
}

// IsSessionError reports whether the code instructs the client to
// re-initialize before further operations.
func IsSessionError(code ErrorCode) bool {
	return code == CodeNoActiveSession || code == CodeSessionExpired
}
