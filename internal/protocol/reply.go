package protocol

import "github.com/qoslab/qregctl/internal/protocol/osc"

// Reply address suffixes. Success replies echo the request address plus
// ReplySuffix; error replies use ErrorSuffix and carry [code, message].
const (
	ReplySuffix = "/reply"
	ErrorSuffix = "/error"
)

const StatusOK = "ok"

// Reply is one outgoing message bound for the originating client identity.
type Reply struct {
	Addr string
	Args []osc.Arg
}

// SuccessReply builds a success reply correlated to the request address.
func SuccessReply(reqAddr string, args ...osc.Arg) Reply {
	if len(args) == 0 {
		args = []osc.Arg{osc.String(StatusOK)}
	}
	return Reply{Addr: reqAddr + ReplySuffix, Args: args}
}

// ErrorReply builds an error reply correlated to the request address.
func ErrorReply(reqAddr string, cmdErr *Error) Reply {
	return Reply{
		Addr: reqAddr + ErrorSuffix,
		Args: []osc.Arg{
			osc.String(string(cmdErr.Code)),
			osc.String(cmdErr.Reason),
		},
	}
}

// Message converts the reply into a codec message.
func (r Reply) Message() osc.Message {
	return osc.Message{Addr: r.Addr, Args: r.Args}
}
