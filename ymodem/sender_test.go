package ymodem

import (
	"testing"
	"time"
)

// respondingChannel feeds a fixed sequence of response bytes back to the
// sender, one per ReadByte call (a timeout once they run out); it records
// every byte the sender writes for inspection.
type respondingChannel struct {
	responses []byte
	pos       int
	written   []byte
}

func (r *respondingChannel) ReadByte(timeout time.Duration) (byte, error) {
	if r.pos >= len(r.responses) {
		return 0, ErrChannelTimeout
	}
	b := r.responses[r.pos]
	r.pos++
	return b, nil
}

func (r *respondingChannel) WriteByte(b byte) error {
	r.written = append(r.written, b)
	return nil
}

func (r *respondingChannel) FlushInput()         {}
func (r *respondingChannel) Sleep(time.Duration) {}

func TestSenderPadsFinalPacketWithConfiguredByte(t *testing.T) {
	// CRC -> header ACK+CRC -> data ACK -> EOT ACK -> CRC -> EOB ACK
	ch := &respondingChannel{responses: []byte{CRC, ACK, CRC, ACK, ACK, CRC, ACK}}
	s := NewSender(ch, &SenderConfig{Timeout: time.Second, PaddingByte: 0x1A})

	data := []byte("short payload")
	n, err := s.Send(data, "t.txt")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != len(data) {
		t.Errorf("n = %d, want %d", n, len(data))
	}

	// Find the first data packet (after the header packet) and check its
	// padding tail. ch.written[0] is the initial CRC solicitation byte
	// from awaitInitialCRC, which precedes the framed packets.
	var fr framer
	rd := &fakeChannel{rx: ch.written[1:]}
	oc := fr.rxPacket(rd, time.Second, 0) // header
	if oc.kind != outcomePacket {
		t.Fatalf("expected header packet, got %v", oc.kind)
	}
	oc = fr.rxPacket(rd, time.Second, 1) // data
	if oc.kind != outcomePacket {
		t.Fatalf("expected data packet, got %v", oc.kind)
	}
	if len(oc.data) != Packet1KSize {
		t.Fatalf("data packet size = %d, want %d", len(oc.data), Packet1KSize)
	}
	for i := len(data); i < Packet1KSize; i++ {
		if oc.data[i] != 0x1A {
			t.Fatalf("padding byte at %d = 0x%02x, want 0x1A", i, oc.data[i])
		}
	}
}

func TestSenderTreatsCANResponseAsAbort(t *testing.T) {
	ch := &respondingChannel{responses: []byte{CRC, ACK, CRC, CAN}}
	s := NewSender(ch, &SenderConfig{Timeout: time.Second})

	_, err := s.Send([]byte("data"), "t.txt")
	if !matchesErrorType(err, ErrSenderAbort) {
		t.Fatalf("err = %v, want ErrSenderAbort", err)
	}
}
