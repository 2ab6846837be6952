package ymodem

import (
	"math"
	"testing"
)

func TestWriteU32ASCIIZero(t *testing.T) {
	var buf [16]byte
	n := writeU32ASCII(0, buf[:])
	if n != 1 || buf[0] != '0' {
		t.Errorf("writeU32ASCII(0) = %q, want \"0\"", buf[:n])
	}
}

func TestWriteU32ASCIIRoundTrip(t *testing.T) {
	for _, v := range []uint32{1, 42, 1024, 65535, 123456789, math.MaxUint32} {
		var buf [16]byte
		n := writeU32ASCII(v, buf[:])
		got := readU32ASCII(buf[:n])
		if got != v {
			t.Errorf("round trip %d -> %q -> %d", v, buf[:n], got)
		}
	}
}

func TestReadU32ASCIISkipsLeadingSpaces(t *testing.T) {
	got := readU32ASCII([]byte("   42"))
	if got != 42 {
		t.Errorf("readU32ASCII(\"   42\") = %d, want 42", got)
	}
}

func TestReadU32ASCIIStopsAtNonDigit(t *testing.T) {
	got := readU32ASCII([]byte("123\x00garbage"))
	if got != 123 {
		t.Errorf("readU32ASCII with trailing NUL = %d, want 123", got)
	}
}

func TestReadU32ASCIIOverflowSaturates(t *testing.T) {
	got := readU32ASCII([]byte("99999999999999999999"))
	if got != math.MaxUint32 {
		t.Errorf("readU32ASCII overflow = %d, want %d", got, uint32(math.MaxUint32))
	}
}

func TestReadU32ASCIIEmpty(t *testing.T) {
	if got := readU32ASCII(nil); got != 0 {
		t.Errorf("readU32ASCII(nil) = %d, want 0", got)
	}
}
