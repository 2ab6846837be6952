package transport

import (
	"time"

	"go.bug.st/serial"
)

// SerialConfig configures a serial port transport. 8N1 with no flow
// control is the framing byte-oriented protocols over a dumb wire expect.
type SerialConfig struct {
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
}

// DefaultSerialConfig returns 115200 8N1, a common default for file
// transfer over a serial link.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// serialAdapter satisfies DeadlineReadWriter over a serial.Port, which
// exposes a timeout knob (SetReadTimeout) rather than an absolute
// deadline. It converts the deadline into the remaining duration on each
// call, re-arming the port's timeout before every read.
type serialAdapter struct {
	port serial.Port
}

func (a *serialAdapter) Read(p []byte) (int, error)  { return a.port.Read(p) }
func (a *serialAdapter) Write(p []byte) (int, error) { return a.port.Write(p) }

func (a *serialAdapter) SetReadDeadline(t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		d = time.Millisecond
	}
	return a.port.SetReadTimeout(d)
}

// OpenSerialChannel opens devicePath as a ymodem.ByteChannel.
func OpenSerialChannel(devicePath string, cfg SerialConfig) (*Channel, func() error, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   cfg.Parity,
		StopBits: cfg.StopBits,
	}
	port, err := serial.Open(devicePath, mode)
	if err != nil {
		return nil, nil, err
	}
	return NewChannel(&serialAdapter{port: port}), port.Close, nil
}
