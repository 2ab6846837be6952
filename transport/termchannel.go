package transport

import (
	"os"
	"time"

	"golang.org/x/term"
)

// stdioAdapter wraps os.Stdin/os.Stdout as a DeadlineReadWriter. A
// terminal file descriptor does not support read deadlines, so
// SetReadDeadline is a no-op and the protocol's own per-byte timeout is
// enforced further up by whatever wraps this channel (cmd/ymrx and
// cmd/ymtx don't: a local terminal link is assumed reliable and
// unbounded).
type stdioAdapter struct {
	in  *os.File
	out *os.File
}

func (a *stdioAdapter) Read(p []byte) (int, error)  { return a.in.Read(p) }
func (a *stdioAdapter) Write(p []byte) (int, error) { return a.out.Write(p) }
func (a *stdioAdapter) SetReadDeadline(time.Time) error { return nil }

// TermChannel is a ymodem.ByteChannel over the calling process's own
// stdin/stdout, for use as a local pipe endpoint (e.g. the remote side of
// an `ssh host ymrx` invocation piping back through the local terminal).
type TermChannel struct {
	*Channel
	fd       int
	oldState *term.State
}

// OpenTermChannel puts the controlling terminal into raw mode (so control
// bytes like CAN and SOH pass through untouched; every byte value is
// significant on the wire) and returns a channel over it.
// Restore must be called to return the terminal to cooked mode.
func OpenTermChannel() (*TermChannel, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	ch := NewChannel(&stdioAdapter{in: os.Stdin, out: os.Stdout})
	return &TermChannel{Channel: ch, fd: fd, oldState: oldState}, nil
}

// Restore returns the terminal to its original (cooked) mode.
func (t *TermChannel) Restore() error {
	return term.Restore(t.fd, t.oldState)
}
