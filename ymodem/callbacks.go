package ymodem

import "io"

// Callbacks provides hooks for YMODEM transfer events. All fields are
// optional; nil hooks fall back to no-op defaults. A session carries one
// file, so there are no batch-level hooks.
type Callbacks struct {
	// OnFilePrompt decides whether a file is accepted. Session.SendFile
	// calls it before any data moves; Session.ReceiveFile calls it only
	// after the whole file has been received into memory, so returning
	// false there discards the received data rather than skipping the
	// transfer. Return true to accept the file, false to skip it.
	OnFilePrompt func(filename string, size int64) (bool, error)

	// OnFileCreate is called by Session.ReceiveFile after the transfer
	// has completed and OnFilePrompt accepted it, to obtain the sink the
	// received data is written to. Returning a nil error and nil writer
	// discards the data.
	OnFileCreate func(filename string, size int64) (io.Writer, error)

	// OnProgress is called periodically during a transfer.
	OnProgress func(filename string, transferred, total int64, rate float64)

	// OnFileStart is called when a transfer starts.
	OnFileStart func(filename string, size int64)

	// OnFileComplete is called when a transfer completes.
	OnFileComplete func(filename string, bytesTransferred int64)

	// OnError is called when an error occurs. context describes where.
	OnError func(err error, context string)

	// OnEvent is accepted and merged with the other hooks, but neither
	// Session nor the Receiver/Sender state machines invoke it.
	OnEvent func(event Event)
}

// Event represents a protocol event for logging/debugging.
type Event struct {
	Type    EventType
	Message string
}

// EventType categorises protocol events.
type EventType int

const (
	EventPacketSent EventType = iota
	EventPacketReceived
	EventFileStart
	EventFileComplete
	EventError
)

func defaultCallbacks() *Callbacks {
	return &Callbacks{
		OnFilePrompt:   func(string, int64) (bool, error) { return true, nil },
		OnFileCreate:   func(string, int64) (io.Writer, error) { return io.Discard, nil },
		OnProgress:     func(string, int64, int64, float64) {},
		OnFileStart:    func(string, int64) {},
		OnFileComplete: func(string, int64) {},
		OnError:        func(error, string) {},
		OnEvent:        func(Event) {},
	}
}

// mergeCallbacks merges user callbacks with defaults; nil fields fall
// back to a no-op default.
func mergeCallbacks(user *Callbacks) *Callbacks {
	def := defaultCallbacks()
	if user == nil {
		return def
	}

	result := &Callbacks{}
	if user.OnFilePrompt != nil {
		result.OnFilePrompt = user.OnFilePrompt
	} else {
		result.OnFilePrompt = def.OnFilePrompt
	}
	if user.OnFileCreate != nil {
		result.OnFileCreate = user.OnFileCreate
	} else {
		result.OnFileCreate = def.OnFileCreate
	}
	if user.OnProgress != nil {
		result.OnProgress = user.OnProgress
	} else {
		result.OnProgress = def.OnProgress
	}
	if user.OnFileStart != nil {
		result.OnFileStart = user.OnFileStart
	} else {
		result.OnFileStart = def.OnFileStart
	}
	if user.OnFileComplete != nil {
		result.OnFileComplete = user.OnFileComplete
	} else {
		result.OnFileComplete = def.OnFileComplete
	}
	if user.OnError != nil {
		result.OnError = user.OnError
	} else {
		result.OnError = def.OnError
	}
	if user.OnEvent != nil {
		result.OnEvent = user.OnEvent
	} else {
		result.OnEvent = def.OnEvent
	}
	return result
}
