package ymodem

import "time"

// ReceiverConfig configures a Receiver.
type ReceiverConfig struct {
	// Timeout is the per-byte read deadline. Zero means PacketRXTimeout.
	Timeout time.Duration

	// PacketErrorMax bounds consecutive framing errors before the
	// session aborts. Zero means PacketErrorMax.
	PacketErrorMax int

	// OnHeader is called once block 0 names the incoming file. Nil
	// disables the hook.
	OnHeader func(name string, size uint32)

	// OnData is called after each accepted data block with the number of
	// payload bytes stored. Nil disables the hook.
	OnData func(n int)

	// OnRetry is called when a corrupt or timed-out read forces a
	// re-solicitation mid-transfer. Nil disables the hook.
	OnRetry func()

	// Logger receives protocol trace events. Nil means NoopLogger.
	Logger Logger
}

func (c *ReceiverConfig) withDefaults() ReceiverConfig {
	out := ReceiverConfig{Timeout: PacketRXTimeout, PacketErrorMax: PacketErrorMax, Logger: NoopLogger{}}
	if c == nil {
		return out
	}
	if c.Timeout > 0 {
		out.Timeout = c.Timeout
	}
	if c.PacketErrorMax > 0 {
		out.PacketErrorMax = c.PacketErrorMax
	}
	if c.Logger != nil {
		out.Logger = c.Logger
	}
	out.OnHeader = c.OnHeader
	out.OnData = c.OnData
	out.OnRetry = c.OnRetry
	return out
}

// Receiver drives the YMODEM protocol as the receiving side.
type Receiver struct {
	ch     ByteChannel
	fr     framer
	cfg    ReceiverConfig
	logger Logger
}

// NewReceiver creates a Receiver reading/writing over ch.
func NewReceiver(ch ByteChannel, cfg *ReceiverConfig) *Receiver {
	c := cfg.withDefaults()
	return &Receiver{ch: ch, cfg: c, logger: c.Logger}
}

// Receive drives one receive session: it solicits a sender, accepts block
// 0 (the header), streams data into buf, and finally consumes the
// end-of-batch header that closes the session. On success it returns the
// declared file size (not the padded byte count actually written, which
// may be larger) and the filename from block 0. On failure it
// returns 0 and a *Error describing why.
func (r *Receiver) Receive(buf []byte) (n int, filename string, err error) {
	var (
		nbrErrors    int
		sessionDone  bool
		declaredName string
		declaredSize uint32
	)

	for !sessionDone {
		// Solicit the sender: once at the start, and again after each EOT
		// to ask for the next header (or the end-of-batch marker).
		r.ch.WriteByte(CRC)

		var (
			crcNAK      = true
			fileDone    bool
			packetsRxed uint32
			cursor      int
		)

		for !fileDone {
			oc := r.fr.rxPacket(r.ch, r.cfg.Timeout, packetsRxed)

			switch oc.kind {
			case outcomeChannelError, outcomeCorrupt:
				if packetsRxed != 0 {
					nbrErrors++
					if nbrErrors >= r.cfg.PacketErrorMax {
						r.abort()
						r.logger.Error("receive: retry budget exhausted after %d errors", nbrErrors)
						return 0, "", NewError(ErrRetryExhausted, "too many consecutive framing errors")
					}
					if r.cfg.OnRetry != nil {
						r.cfg.OnRetry()
					}
				}
				r.ch.WriteByte(CRC)

			case outcomeSenderAbort:
				r.ch.WriteByte(ACK)
				r.logger.Info("receive: sender aborted session")
				return 0, "", NewError(ErrSenderAbort, "sender aborted transfer")

			case outcomeUserAbort:
				r.logger.Info("receive: user aborted session")
				return 0, "", NewError(ErrUserAbort, "user aborted transfer")

			case outcomeEndOfTransmission:
				r.ch.WriteByte(ACK)
				nbrErrors = 0
				fileDone = true

			case outcomePacket:
				nbrErrors = 0
				if oc.seq != byte(packetsRxed&0xFF) {
					r.ch.WriteByte(NAK)
					continue
				}

				if packetsRxed == 0 {
					hdr := decodeHeader(oc.data)
					if hdr.Kind == HeaderEndOfBatch {
						r.ch.WriteByte(ACK)
						sessionDone = true
						fileDone = true
						continue
					}
					if hdr.Size > uint32(len(buf)) {
						r.abort()
						r.logger.Error("receive: declared size %d exceeds capacity %d", hdr.Size, len(buf))
						return 0, "", NewError(ErrBufferTooSmall, "declared file size exceeds receive buffer capacity")
					}
					declaredName, declaredSize = hdr.Name, hdr.Size
					r.ch.WriteByte(ACK)
					if crcNAK {
						r.ch.WriteByte(CRC)
					} else {
						r.ch.WriteByte(NAK)
					}
					crcNAK = false
					packetsRxed++
					if r.cfg.OnHeader != nil {
						r.cfg.OnHeader(declaredName, declaredSize)
					}
					r.logger.Debug("receive: accepted header name=%q size=%d", declaredName, declaredSize)
				} else {
					if cursor+len(oc.data) > len(buf) {
						r.abort()
						r.logger.Error("receive: data would overflow buffer at cursor=%d", cursor)
						return 0, "", NewError(ErrBufferOverflow, "received data exceeded receive buffer capacity")
					}
					copy(buf[cursor:], oc.data)
					cursor += len(oc.data)
					r.ch.WriteByte(ACK)
					packetsRxed++
					if r.cfg.OnData != nil {
						r.cfg.OnData(len(oc.data))
					}
				}
			}
		}
	}

	return int(declaredSize), declaredName, nil
}

// abort emits the double-CAN abort marker and the standard settle delay.
func (r *Receiver) abort() {
	writeBytes(r.ch, CAN, CAN)
	r.ch.Sleep(1 * time.Second)
}
