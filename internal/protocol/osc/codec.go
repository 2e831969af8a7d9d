package osc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrShortPacket     = errors.New("osc: short packet")
	ErrInvalidAddress  = errors.New("osc: invalid address")
	ErrInvalidTypeTags = errors.New("osc: invalid type tag string")
	ErrTruncatedArg    = errors.New("osc: truncated argument")
	ErrPacketTooLarge  = errors.New("osc: packet too large")
	ErrTooManyArgs     = errors.New("osc: too many arguments")
	ErrBlobTooLarge    = errors.New("osc: blob too large")
)

// Limits constrains decode/encode memory use.
type Limits struct {
	MaxPacketBytes int
	MaxArgs        int
	MaxBlobBytes   int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPacketBytes: 8 * 1024,
		MaxArgs:        64,
		MaxBlobBytes:   4 * 1024,
	}
}

// Encode serializes a message into one OSC 1.0 datagram payload.
func Encode(msg Message, limits Limits) ([]byte, error) {
	if err := validateAddr(msg.Addr); err != nil {
		return nil, err
	}
	if limits.MaxArgs > 0 && len(msg.Args) > limits.MaxArgs {
		return nil, ErrTooManyArgs
	}

	tags := make([]byte, 0, len(msg.Args)+1)
	tags = append(tags, ',')
	for _, arg := range msg.Args {
		switch arg.Type {
		case TypeInt32, TypeFloat32, TypeString, TypeBlob:
			tags = append(tags, arg.Type)
		default:
			return nil, fmt.Errorf("%w: tag %q", ErrInvalidTypeTags, arg.Type)
		}
	}

	buf := appendPaddedString(nil, msg.Addr)
	buf = appendPaddedString(buf, string(tags))
	for _, arg := range msg.Args {
		switch arg.Type {
		case TypeInt32:
			buf = binary.BigEndian.AppendUint32(buf, uint32(arg.i))
		case TypeFloat32:
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(arg.f))
		case TypeString:
			buf = appendPaddedString(buf, arg.s)
		case TypeBlob:
			if limits.MaxBlobBytes > 0 && len(arg.b) > limits.MaxBlobBytes {
				return nil, ErrBlobTooLarge
			}
			buf = binary.BigEndian.AppendUint32(buf, uint32(len(arg.b)))
			buf = append(buf, arg.b...)
			buf = appendPadding(buf, len(arg.b))
		}
	}

	if limits.MaxPacketBytes > 0 && len(buf) > limits.MaxPacketBytes {
		return nil, ErrPacketTooLarge
	}
	return buf, nil
}

// Decode parses one OSC 1.0 datagram payload. Bundles are not supported;
// each datagram carries exactly one message.
func Decode(data []byte, limits Limits) (Message, error) {
	if limits.MaxPacketBytes > 0 && len(data) > limits.MaxPacketBytes {
		return Message{}, ErrPacketTooLarge
	}
	if len(data) < 4 {
		return Message{}, ErrShortPacket
	}

	addr, rest, err := readPaddedString(data)
	if err != nil {
		return Message{}, err
	}
	if err := validateAddr(addr); err != nil {
		return Message{}, err
	}

	// A message with no type tag string carries no arguments.
	if len(rest) == 0 {
		return Message{Addr: addr}, nil
	}

	tags, rest, err := readPaddedString(rest)
	if err != nil {
		return Message{}, err
	}
	if len(tags) == 0 || tags[0] != ',' {
		return Message{}, ErrInvalidTypeTags
	}
	tags = tags[1:]
	if limits.MaxArgs > 0 && len(tags) > limits.MaxArgs {
		return Message{}, ErrTooManyArgs
	}

	args := make([]Arg, 0, len(tags))
	for _, tag := range []byte(tags) {
		switch tag {
		case TypeInt32:
			if len(rest) < 4 {
				return Message{}, ErrTruncatedArg
			}
			args = append(args, Int32(int32(binary.BigEndian.Uint32(rest[:4]))))
			rest = rest[4:]
		case TypeFloat32:
			if len(rest) < 4 {
				return Message{}, ErrTruncatedArg
			}
			args = append(args, Float32(math.Float32frombits(binary.BigEndian.Uint32(rest[:4]))))
			rest = rest[4:]
		case TypeString:
			var s string
			s, rest, err = readPaddedString(rest)
			if err != nil {
				return Message{}, err
			}
			args = append(args, String(s))
		case TypeBlob:
			if len(rest) < 4 {
				return Message{}, ErrTruncatedArg
			}
			size := int(int32(binary.BigEndian.Uint32(rest[:4])))
			rest = rest[4:]
			if size < 0 || (limits.MaxBlobBytes > 0 && size > limits.MaxBlobBytes) {
				return Message{}, ErrBlobTooLarge
			}
			padded := size + padLen(size)
			if len(rest) < padded {
				return Message{}, ErrTruncatedArg
			}
			args = append(args, Blob(rest[:size]))
			rest = rest[padded:]
		default:
			return Message{}, fmt.Errorf("%w: tag %q", ErrInvalidTypeTags, tag)
		}
	}

	return Message{Addr: addr, Args: args}, nil
}

func validateAddr(addr string) error {
	if !strings.HasPrefix(addr, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	if strings.ContainsRune(addr, 0) {
		return fmt.Errorf("%w: embedded NUL", ErrInvalidAddress)
	}
	return nil
}

// padLen returns the number of zero bytes needed to reach 4-byte alignment
// for a field of n bytes.
func padLen(n int) int {
	return (4 - n%4) % 4
}

func appendPaddedString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	buf = append(buf, 0)
	return appendPadding(buf, len(s)+1)
}

func appendPadding(buf []byte, fieldLen int) []byte {
	for i := 0; i < padLen(fieldLen); i++ {
		buf = append(buf, 0)
	}
	return buf
}

func readPaddedString(data []byte) (string, []byte, error) {
	end := -1
	for i, b := range data {
		if b == 0 {
			end = i
			break
		}
	}
	if end < 0 {
		return "", nil, ErrShortPacket
	}
	consumed := end + 1 + padLen(end+1)
	if consumed > len(data) {
		return "", nil, ErrShortPacket
	}
	return string(data[:end]), data[consumed:], nil
}
