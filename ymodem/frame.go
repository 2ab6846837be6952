package ymodem

import "time"

// outcomeKind discriminates what rxPacket saw on the wire. fymodem.c's
// ym_rx_packet expresses CAN/CRC/ABORT handling via a C switch with
// deliberate fallthrough; this port spells each case out explicitly.
type outcomeKind int

const (
	outcomePacket outcomeKind = iota
	outcomeEndOfTransmission
	outcomeSenderAbort
	outcomeUserAbort
	outcomeChannelError
	outcomeCorrupt
)

// outcome is the result of one rxPacket call.
type outcome struct {
	kind outcomeKind
	seq  byte
	data []byte // only valid when kind == outcomePacket; aliases the framer's scratch buffer
}

// framer holds the per-session scratch buffer used to assemble a packet,
// sized once and reused for the life of a Receiver.
type framer struct {
	scratch [Packet1KSize + PacketOverhead]byte
}

// rxPacket reads a single framed packet from ch, classifying the lead byte
// and validating sequence/complement and CRC. packetsRxed distinguishes a
// stray CRC solicitation echo (before any packet has been accepted) from a
// genuine abort once flow has begun.
func (f *framer) rxPacket(ch ByteChannel, timeout time.Duration, packetsRxed uint32) outcome {
	lead, err := ch.ReadByte(timeout)
	if err != nil {
		return outcome{kind: outcomeChannelError}
	}

	var dataSize int
	switch lead {
	case SOH:
		dataSize = PacketSize
	case STX:
		dataSize = Packet1KSize
	case EOT:
		return outcome{kind: outcomeEndOfTransmission}
	case CAN:
		c, err := ch.ReadByte(timeout)
		if err != nil {
			return outcome{kind: outcomeChannelError}
		}
		if c == CAN {
			return outcome{kind: outcomeSenderAbort}
		}
		// A lone CAN (not doubled) groups with the CRC-after-flow-began
		// and 'A'/'a' cases below: all are user-initiated abort attempts
		// rather than a genuine double-CAN sender abort.
		return outcome{kind: outcomeUserAbort}
	case CRC:
		if packetsRxed == 0 {
			// The receiver's own solicitation leaking back; treat as
			// ordinary framing noise, not a real packet.
			return outcome{kind: outcomeCorrupt}
		}
		return outcome{kind: outcomeUserAbort}
	case ABORT1, ABORT2:
		return outcome{kind: outcomeUserAbort}
	default:
		return outcome{kind: outcomeSenderAbort}
	}

	// Remaining bytes after the lead byte: seq, ~seq, data, crcHi, crcLo.
	// The CRC accumulates over data and trailer as they arrive; a stream
	// whose trailer matches its data folds to zero.
	rest := f.scratch[:PacketHeader-1+dataSize+PacketTrailer]
	var crc uint16
	for i := range rest {
		b, err := ch.ReadByte(timeout)
		if err != nil {
			return outcome{kind: outcomeChannelError}
		}
		rest[i] = b
		if i >= 2 {
			crc = crc16Update(crc, b)
		}
	}

	seq := rest[0]
	seqComp := rest[1]
	if seq != (seqComp ^ 0xFF) {
		return outcome{kind: outcomeCorrupt}
	}

	if crc16Finalize(crc) != 0 {
		return outcome{kind: outcomeCorrupt}
	}

	data := rest[2 : 2+dataSize]

	return outcome{kind: outcomePacket, seq: seq, data: data}
}

// txPacket emits a framed packet: lead byte (SOH for 128-byte data, STX
// for 1024), seq, ~seq, data, then the CRC-16 high/low bytes.
func txPacket(ch ByteChannel, seq byte, data []byte) {
	if len(data) == PacketSize {
		ch.WriteByte(SOH)
	} else {
		ch.WriteByte(STX)
	}
	ch.WriteByte(seq)
	ch.WriteByte(^seq)
	for _, b := range data {
		ch.WriteByte(b)
	}
	crc := crc16(data)
	ch.WriteByte(byte(crc >> 8))
	ch.WriteByte(byte(crc))
}
