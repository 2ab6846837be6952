package ymodem

import (
	"context"
	"io"
	"time"
)

// Config holds Session-level configuration: the handful of knobs a CRC-16
// stop-and-wait engine actually has.
type Config struct {
	// Timeout is the per-byte read deadline. Zero means PacketRXTimeout.
	Timeout time.Duration

	// PacketErrorMax bounds consecutive receiver framing errors. Zero
	// means PacketErrorMax.
	PacketErrorMax int

	// PaddingByte pads the sender's final data packet. Zero means
	// DefaultPaddingByte.
	PaddingByte byte

	// ProgressInterval rate-limits progress callbacks. Zero means 100ms.
	ProgressInterval time.Duration
}

// DefaultConfig returns a Config with the protocol's documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:          PacketRXTimeout,
		PacketErrorMax:   PacketErrorMax,
		PaddingByte:      DefaultPaddingByte,
		ProgressInterval: 100 * time.Millisecond,
	}
}

// Session wraps a Receiver and a Sender behind a single ByteChannel,
// bridging them to io.Reader/io.Writer, callbacks, and progress tracking.
type Session struct {
	ch        ByteChannel
	config    *Config
	callbacks *Callbacks
	ctx       context.Context
	logger    Logger
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the session configuration.
func WithConfig(config *Config) Option {
	return func(s *Session) { s.config = config }
}

// WithCallbacks sets the session callbacks.
func WithCallbacks(callbacks *Callbacks) Option {
	return func(s *Session) { s.callbacks = mergeCallbacks(callbacks) }
}

// WithContext sets the session's cancellation context.
func WithContext(ctx context.Context) Option {
	return func(s *Session) { s.ctx = ctx }
}

// WithLogger sets the session's protocol-trace logger.
func WithLogger(logger Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a Session communicating over ch.
func NewSession(ch ByteChannel, opts ...Option) *Session {
	s := &Session{
		ch:        ch,
		config:    DefaultConfig(),
		callbacks: defaultCallbacks(),
		ctx:       context.Background(),
		logger:    NoopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReceiveFile runs one receive session. maxSize bounds the receive
// buffer; a declared file size beyond it aborts with ErrBufferTooSmall.
// Once the whole file has been received, OnFilePrompt and then
// OnFileCreate are consulted for a sink; the bytes written to it are
// truncated to the header's declared size, discarding any trailing
// padding from the final 1K packet.
func (s *Session) ReceiveFile(ctx context.Context, maxSize int) (filename string, n int, err error) {
	if ctx == nil {
		ctx = s.ctx
	}

	cancelCh := &contextAwareChannel{ByteChannel: s.ch, ctx: ctx}
	tracker := NewProgressTracker(s.callbacks.OnProgress, s.config.ProgressInterval)
	recv := NewReceiver(cancelCh, &ReceiverConfig{
		Timeout:        s.config.Timeout,
		PacketErrorMax: s.config.PacketErrorMax,
		Logger:         s.logger,
		OnHeader: func(name string, size uint32) {
			s.callbacks.OnFileStart(name, int64(size))
			tracker.Start(name, int64(size))
		},
		OnData:  tracker.Block,
		OnRetry: tracker.Retry,
	})

	buf := make([]byte, maxSize)
	size, name, err := recv.Receive(buf)
	if err != nil {
		s.callbacks.OnError(err, "receive file")
		return "", 0, err
	}
	if size == 0 && name == "" {
		// End-of-batch marker with no file offered.
		return "", 0, nil
	}

	accept, err := s.callbacks.OnFilePrompt(name, int64(size))
	if err != nil {
		return "", 0, err
	}
	if !accept {
		return name, 0, nil
	}

	sink, err := s.callbacks.OnFileCreate(name, int64(size))
	if err != nil {
		s.callbacks.OnError(err, "create receive sink")
		return "", 0, err
	}
	if sink == nil {
		sink = io.Discard
	}

	if _, err := sink.Write(buf[:size]); err != nil {
		s.callbacks.OnError(err, "write received data")
		return "", 0, err
	}
	tracker.Complete()
	blocks, retries := tracker.Stats()
	s.logger.Debug("receive complete: %d blocks, %d retransmits", blocks, retries)
	s.callbacks.OnFileComplete(name, int64(size))

	return name, size, nil
}

// SendFile runs one send session, reading src fully (the header must
// declare the final size up front) before streaming it.
func (s *Session) SendFile(ctx context.Context, filename string, src io.Reader, size int64) error {
	if ctx == nil {
		ctx = s.ctx
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(src, data); err != nil {
		s.callbacks.OnError(err, "read source file")
		return err
	}

	accept, err := s.callbacks.OnFilePrompt(filename, size)
	if err != nil {
		return err
	}
	if !accept {
		return NewError(ErrUserAbort, "transfer declined by caller")
	}

	cancelCh := &contextAwareChannel{ByteChannel: s.ch, ctx: ctx}
	tracker := NewProgressTracker(s.callbacks.OnProgress, s.config.ProgressInterval)
	send := NewSender(cancelCh, &SenderConfig{
		Timeout:      s.config.Timeout,
		PaddingByte:  s.config.PaddingByte,
		Logger:       s.logger,
		OnBlockAcked: tracker.Block,
		OnRetry:      tracker.Retry,
	})

	s.callbacks.OnFileStart(filename, size)
	tracker.Start(filename, size)

	n, err := send.Send(data, filename)
	if err != nil {
		s.callbacks.OnError(err, "send file")
		return err
	}

	tracker.Complete()
	blocks, retries := tracker.Stats()
	s.logger.Debug("send complete: %d blocks acked, %d retransmits", blocks, retries)
	s.callbacks.OnFileComplete(filename, int64(n))
	return nil
}

// contextAwareChannel makes a blocking ReadByte responsive to context
// cancellation: once ctx is done, ReadByte returns promptly instead
// of waiting out the full per-byte timeout, surfacing as a ChannelError
// to the core exactly as a dropped wire would.
type contextAwareChannel struct {
	ByteChannel
	ctx context.Context
}

func (c *contextAwareChannel) ReadByte(timeout time.Duration) (byte, error) {
	select {
	case <-c.ctx.Done():
		return 0, c.ctx.Err()
	default:
	}
	return c.ByteChannel.ReadByte(timeout)
}
