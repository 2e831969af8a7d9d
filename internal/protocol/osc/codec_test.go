package osc

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg := Message{
		Addr: "/gk/gate",
		Args: []Arg{
			String("X"),
			Int32(1),
			Int32(-7),
			Float32(0.5),
			Blob([]byte{0x01, 0x00, 0x01}),
		},
	}
	packet, err := Encode(msg, DefaultLimits())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(packet)%4 != 0 {
		t.Fatalf("packet not 4-byte aligned: %d", len(packet))
	}

	got, err := Decode(packet, DefaultLimits())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Addr != msg.Addr {
		t.Fatalf("addr mismatch: %q", got.Addr)
	}
	if len(got.Args) != len(msg.Args) {
		t.Fatalf("arg count mismatch: %d", len(got.Args))
	}
	if s, _ := got.Args[0].String(); s != "X" {
		t.Fatalf("unexpected string arg: %q", s)
	}
	if v, _ := got.Args[1].Int32(); v != 1 {
		t.Fatalf("unexpected int arg: %d", v)
	}
	if v, _ := got.Args[2].Int32(); v != -7 {
		t.Fatalf("unexpected negative int arg: %d", v)
	}
	if f, _ := got.Args[3].Float32(); f != 0.5 {
		t.Fatalf("unexpected float arg: %v", f)
	}
	if b, _ := got.Args[4].Blob(); !bytes.Equal(b, []byte{0x01, 0x00, 0x01}) {
		t.Fatalf("unexpected blob arg: %v", b)
	}
}

func TestEncodeDecodeNoArgs(t *testing.T) {
	packet, err := Encode(Message{Addr: "/gk/reset"}, DefaultLimits())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(packet, DefaultLimits())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Addr != "/gk/reset" || len(got.Args) != 0 {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x01},
		[]byte("garbage-no-slash\x00\x00\x00"),
		[]byte("/ok\x00;f\x00\x00"),               // type tags missing comma
		[]byte("/ok\x00,i\x00\x00"),               // truncated int payload
		[]byte("/ok\x00,b\x00\x00\xff\xff\xff\xff"), // negative blob size
	}
	for i, data := range cases {
		if _, err := Decode(data, DefaultLimits()); err == nil {
			t.Fatalf("case %d: expected decode error", i)
		}
	}
}

func TestDecodeEnforcesLimits(t *testing.T) {
	limits := Limits{MaxPacketBytes: 16, MaxArgs: 1, MaxBlobBytes: 2}

	big, err := Encode(Message{Addr: "/a", Args: []Arg{Int32(1), Int32(2)}}, DefaultLimits())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(big, limits); err == nil {
		t.Fatalf("expected limit violation")
	}

	if _, err := Encode(Message{Addr: "/a", Args: []Arg{Blob(make([]byte, 8))}}, limits); !errors.Is(err, ErrBlobTooLarge) {
		t.Fatalf("expected ErrBlobTooLarge, got %v", err)
	}
}

func TestEncodeRejectsBadAddress(t *testing.T) {
	if _, err := Encode(Message{Addr: "no-slash"}, DefaultLimits()); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestArgTypeMismatch(t *testing.T) {
	if _, err := Int32(3).Float32(); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if _, err := String("x").Blob(); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}
