package ymodem

import "testing"

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	block := encodeHeader("firmware.bin", 123456)
	hdr := decodeHeader(block[:])

	if hdr.Kind != HeaderFile {
		t.Fatalf("kind = %v, want HeaderFile", hdr.Kind)
	}
	if hdr.Name != "firmware.bin" {
		t.Errorf("name = %q, want %q", hdr.Name, "firmware.bin")
	}
	if hdr.Size != 123456 {
		t.Errorf("size = %d, want 123456", hdr.Size)
	}
}

func TestEncodeHeaderEndOfBatch(t *testing.T) {
	block := encodeHeader("", 0)
	for i, b := range block {
		if b != 0 {
			t.Fatalf("end-of-batch block not all zero at offset %d: 0x%02x", i, b)
			break
		}
	}
}

func TestDecodeHeaderEndOfBatch(t *testing.T) {
	var block [PacketSize]byte
	hdr := decodeHeader(block[:])
	if hdr.Kind != HeaderEndOfBatch {
		t.Errorf("kind = %v, want HeaderEndOfBatch", hdr.Kind)
	}
}

func TestEncodeHeaderPadsWithZero(t *testing.T) {
	block := encodeHeader("a.txt", 1)
	nameLen := len("a.txt")
	sizeLen := len("1")
	for i := nameLen + 1 + sizeLen; i < PacketSize; i++ {
		if block[i] != 0 {
			t.Fatalf("byte %d = 0x%02x, want 0 padding", i, block[i])
		}
	}
}

func TestEncodeHeaderTruncatesOverlongFilename(t *testing.T) {
	longName := make([]byte, PacketSize*2)
	for i := range longName {
		longName[i] = 'x'
	}
	block := encodeHeader(string(longName), 10)
	hdr := decodeHeader(block[:])
	if len(hdr.Name) > headerFileNameCap {
		t.Errorf("decoded name length = %d, want <= %d", len(hdr.Name), headerFileNameCap)
	}
}
