package osc

import "errors"

// Argument type tags from the OSC 1.0 contract.
const (
	TypeInt32   byte = 'i'
	TypeFloat32 byte = 'f'
	TypeString  byte = 's'
	TypeBlob    byte = 'b'
)

var (
	ErrTypeMismatch = errors.New("osc: argument type mismatch")
)

// Message is one decoded OSC message: a slash-delimited address plus an
// ordered, typed argument list. Immutable once decoded.
type Message struct {
	Addr string
	Args []Arg
}

// Arg is one typed argument. Exactly one of the value fields is set,
// selected by Type.
type Arg struct {
	Type byte

	i int32
	f float32
	s string
	b []byte
}

// Int32 creates an int32 argument.
func Int32(v int32) Arg {
	return Arg{Type: TypeInt32, i: v}
}

// Float32 creates a float32 argument.
func Float32(v float32) Arg {
	return Arg{Type: TypeFloat32, f: v}
}

// String creates a string argument.
func String(v string) Arg {
	return Arg{Type: TypeString, s: v}
}

// Blob creates a byte-blob argument. The slice is copied.
func Blob(v []byte) Arg {
	buf := make([]byte, len(v))
	copy(buf, v)
	return Arg{Type: TypeBlob, b: buf}
}

// Int32 returns the argument value as int32.
func (a Arg) Int32() (int32, error) {
	if a.Type != TypeInt32 {
		return 0, ErrTypeMismatch
	}
	return a.i, nil
}

// Float32 returns the argument value as float32.
func (a Arg) Float32() (float32, error) {
	if a.Type != TypeFloat32 {
		return 0, ErrTypeMismatch
	}
	return a.f, nil
}

// String returns the argument value as string.
func (a Arg) String() (string, error) {
	if a.Type != TypeString {
		return "", ErrTypeMismatch
	}
	return a.s, nil
}

// Blob returns the argument value as bytes. The slice is copied.
func (a Arg) Blob() ([]byte, error) {
	if a.Type != TypeBlob {
		return nil, ErrTypeMismatch
	}
	buf := make([]byte, len(a.b))
	copy(buf, a.b)
	return buf, nil
}
