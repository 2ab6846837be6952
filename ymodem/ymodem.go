// Package ymodem implements the YMODEM file-transfer protocol.
//
// YMODEM is a stop-and-wait, CRC-16 protected protocol for transferring a
// single named file over a byte-oriented channel such as a serial line. This
// package ports the protocol dialogue of fredrikhederstierna/fymodem into
// idiomatic Go: a packet framer, a header-block codec, and Receiver/Sender
// state machines driven by a caller-supplied ByteChannel.
package ymodem

import "time"

// Wire protocol constants (bit-exact, see fymodem.c / XMODEM heritage).
const (
	SOH    = 0x01 // start of 128-byte data packet
	STX    = 0x02 // start of 1024-byte data packet
	EOT    = 0x04 // end of transmission
	ACK    = 0x06 // positive acknowledgement
	NAK    = 0x15 // negative acknowledgement / retransmit
	CAN    = 0x18 // one byte; two in succession = abort
	CRC    = 0x43 // 'C', request/initiate CRC-16 mode
	ABORT1 = 0x41 // 'A', user abort
	ABORT2 = 0x61 // 'a', user abort
)

// Packet sizing.
const (
	PacketSize     = 128  // short (block 0) data size
	Packet1KSize   = 1024 // long data packet size
	PacketHeader   = 3    // lead + seq + ~seq
	PacketTrailer  = 2    // CRC hi/lo
	PacketOverhead = PacketHeader + PacketTrailer
)

// FileSizeLength is the maximum number of ASCII decimal digits used to
// encode a file size in block 0.
const FileSizeLength = 16

// FileNameMaxLength bounds the filename decodeHeader reads out of block 0
// (FYMODEM_FILE_NAME_MAX_LENGTH in fymodem.c).
const FileNameMaxLength = 256

// headerFileNameCap is the maximum filename length (excluding its NUL
// terminator) that fits in block 0 alongside a size and a NUL: 128 total
// data bytes minus the size field's worst case and the two terminators.
const headerFileNameCap = PacketSize - FileSizeLength - 2

// PacketErrorMax bounds consecutive framing errors before the receiver
// aborts the session.
const PacketErrorMax = 5

// PacketRXTimeout is the per-byte read deadline used throughout the
// protocol dialogue.
const PacketRXTimeout = 1 * time.Second

// DefaultPaddingByte is the byte used to pad the final data packet's unused
// tail. fymodem.c leaves this unspecified; CP/M EOF (0x1A) is the
// conventional choice and the one this port uses deterministically.
const DefaultPaddingByte = 0x1A
