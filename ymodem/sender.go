package ymodem

import "time"

// SenderConfig configures a Sender.
type SenderConfig struct {
	// Timeout is the per-byte read deadline. Zero means PacketRXTimeout.
	Timeout time.Duration

	// PaddingByte pads the unused tail of the final 1K data packet.
	// Zero means DefaultPaddingByte (0x1A, CP/M EOF).
	PaddingByte byte

	// OnBlockAcked is called after each data block is acknowledged with
	// the number of payload bytes it carried. Nil disables the hook.
	OnBlockAcked func(n int)

	// OnRetry is called each time a data block must be retransmitted.
	// Nil disables the hook.
	OnRetry func()

	// Logger receives protocol trace events. Nil means NoopLogger.
	Logger Logger
}

func (c *SenderConfig) withDefaults() SenderConfig {
	out := SenderConfig{Timeout: PacketRXTimeout, PaddingByte: DefaultPaddingByte, Logger: NoopLogger{}}
	if c == nil {
		return out
	}
	if c.Timeout > 0 {
		out.Timeout = c.Timeout
	}
	if c.PaddingByte != 0 {
		out.PaddingByte = c.PaddingByte
	}
	if c.Logger != nil {
		out.Logger = c.Logger
	}
	out.OnBlockAcked = c.OnBlockAcked
	out.OnRetry = c.OnRetry
	return out
}

// Sender drives the YMODEM protocol as the sending side.
type Sender struct {
	ch     ByteChannel
	cfg    SenderConfig
	logger Logger
}

// NewSender creates a Sender reading/writing over ch.
func NewSender(ch ByteChannel, cfg *SenderConfig) *Sender {
	c := cfg.withDefaults()
	return &Sender{ch: ch, cfg: c, logger: c.Logger}
}

// Send transmits data under filename: it waits for the receiver's initial
// CRC solicitation, negotiates block 0 (filename + size), streams data in
// 1K packets, and closes with EOT and an end-of-batch header. On success
// it returns len(data); on failure it returns 0 and a *Error.
func (s *Sender) Send(data []byte, filename string) (int, error) {
	s.ch.Sleep(1 * time.Second)
	s.ch.FlushInput()

	if err := s.awaitInitialCRC(); err != nil {
		s.abort()
		return 0, err
	}

	if err := s.negotiateHeader(filename, uint32(len(data))); err != nil {
		s.abort()
		return 0, err
	}

	if err := s.streamData(data); err != nil {
		return 0, err
	}

	s.finish()
	return len(data), nil
}

// awaitInitialCRC emits CRC and waits for a reply, repeating on read
// timeouts until some byte arrives; any first byte other than CRC fails
// the handshake.
func (s *Sender) awaitInitialCRC() error {
	for {
		s.ch.WriteByte(CRC)
		b, err := s.ch.ReadByte(s.cfg.Timeout)
		if err != nil {
			continue
		}
		if b != CRC {
			return NewError(ErrHandshakeFailure, "receiver did not request CRC mode")
		}
		return nil
	}
}

// negotiateHeader emits block 0 until the receiver ACKs it and requests
// data.
func (s *Sender) negotiateHeader(filename string, filesize uint32) error {
	header := encodeHeader(filename, filesize)
	crcNAK := true

	for {
		txPacket(s.ch, 0, header[:])
		b, err := s.ch.ReadByte(s.cfg.Timeout)
		if err != nil {
			return NewError(ErrHandshakeFailure, "no response to header block")
		}

		switch {
		case b == ACK:
			next, err := s.ch.ReadByte(s.cfg.Timeout)
			if err != nil || next != CRC {
				return NewError(ErrHandshakeFailure, "receiver did not request data after header ACK")
			}
			return nil
		case b == CRC && crcNAK:
			crcNAK = false
		case b == NAK && !crcNAK:
			// retry block 0
		default:
			return NewError(ErrHandshakeFailure, "unexpected response to header block")
		}
	}
}

// streamData sends the payload in 1024-byte packets, padding the final
// packet's tail with cfg.PaddingByte.
func (s *Sender) streamData(data []byte) error {
	var packet [Packet1KSize]byte
	blockNbr := byte(1)
	offset := 0

	for offset < len(data) {
		chunk := len(data) - offset
		if chunk > Packet1KSize {
			chunk = Packet1KSize
		}
		n := copy(packet[:], data[offset:offset+chunk])
		for i := n; i < Packet1KSize; i++ {
			packet[i] = s.cfg.PaddingByte
		}

		for {
			txPacket(s.ch, blockNbr, packet[:])
			b, err := s.ch.ReadByte(s.cfg.Timeout)
			if err != nil {
				s.logger.Error("send: channel error awaiting ACK for block %d", blockNbr)
				return NewError(ErrTimeout, "no response streaming data")
			}
			if b == ACK {
				offset += chunk
				blockNbr++
				if s.cfg.OnBlockAcked != nil {
					s.cfg.OnBlockAcked(chunk)
				}
				break
			}
			if b == CAN {
				s.logger.Info("send: receiver aborted mid-stream")
				return NewError(ErrSenderAbort, "receiver aborted transfer")
			}
			// Any other byte: retransmit the same block.
			if s.cfg.OnRetry != nil {
				s.cfg.OnRetry()
			}
		}
	}
	return nil
}

// finish emits EOT until acknowledged, then the end-of-batch header.
// Failures here are best-effort teardown: once all data has been ACKed
// (streamData returned nil) the transfer has already succeeded, as in
// fymodem_send, which returns success once data streaming completes.
func (s *Sender) finish() {
	var b byte
	var err error
	for {
		s.ch.WriteByte(EOT)
		b, err = s.ch.ReadByte(s.cfg.Timeout)
		if err != nil || b == ACK {
			break
		}
	}
	if err != nil || b != ACK {
		return
	}

	b, err = s.ch.ReadByte(s.cfg.Timeout)
	if err != nil || b != CRC {
		return
	}

	endOfBatch := encodeHeader("", 0)
	for {
		txPacket(s.ch, 0, endOfBatch[:])
		b, err = s.ch.ReadByte(s.cfg.Timeout)
		if err != nil || b == ACK {
			return
		}
	}
}

func (s *Sender) abort() {
	writeBytes(s.ch, CAN, CAN)
	s.ch.Sleep(1 * time.Second)
}
