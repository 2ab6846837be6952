package ymodem

import "time"

// ProgressTracker aggregates the per-block events of a transfer into a
// rate-limited progress callback. YMODEM moves payload in fixed-size
// blocks and pads the final one, so reported byte counts are clamped to
// the declared file size rather than the raw wire count. The protocol
// dialogue is single-threaded, so the tracker does no locking.
type ProgressTracker struct {
	filename   string
	bytesTotal int64

	bytesOnWire int64 // acked payload including final-block padding
	blocks      int
	retries     int

	startTime    time.Time
	lastCallback time.Time

	callback       func(filename string, transferred, total int64, rate float64)
	updateInterval time.Duration
}

// NewProgressTracker creates a tracker that calls callback no more often
// than interval (default 100ms). Complete always fires a final callback
// regardless of the interval.
func NewProgressTracker(callback func(filename string, transferred, total int64, rate float64), interval time.Duration) *ProgressTracker {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &ProgressTracker{callback: callback, updateInterval: interval}
}

// Start begins tracking a transfer of bytesTotal payload bytes.
func (pt *ProgressTracker) Start(filename string, bytesTotal int64) {
	pt.filename = filename
	pt.bytesTotal = bytesTotal
	pt.bytesOnWire = 0
	pt.blocks = 0
	pt.retries = 0
	pt.startTime = time.Now()
	pt.lastCallback = pt.startTime
}

// Block records one acknowledged data block carrying n payload bytes,
// invoking the callback if the update interval has elapsed.
func (pt *ProgressTracker) Block(n int) {
	pt.bytesOnWire += int64(n)
	pt.blocks++

	now := time.Now()
	if now.Sub(pt.lastCallback) < pt.updateInterval {
		return
	}
	pt.lastCallback = now
	pt.emit(now)
}

// Retry records a block that had to be retransmitted or re-solicited.
func (pt *ProgressTracker) Retry() {
	pt.retries++
}

// Complete fires a final callback and returns the transfer's duration.
func (pt *ProgressTracker) Complete() time.Duration {
	pt.emit(time.Now())
	return time.Since(pt.startTime)
}

// Stats reports how many blocks were acknowledged and how many needed a
// retransmit or re-solicitation.
func (pt *ProgressTracker) Stats() (blocks, retries int) {
	return pt.blocks, pt.retries
}

// transferred clamps the wire count to the declared size; the final
// block's padding is not file content.
func (pt *ProgressTracker) transferred() int64 {
	if pt.bytesTotal > 0 && pt.bytesOnWire > pt.bytesTotal {
		return pt.bytesTotal
	}
	return pt.bytesOnWire
}

func (pt *ProgressTracker) emit(now time.Time) {
	if pt.callback == nil {
		return
	}
	transferred := pt.transferred()
	var rate float64
	if elapsed := now.Sub(pt.startTime).Seconds(); elapsed > 0 {
		rate = float64(transferred) / elapsed
	}
	pt.callback(pt.filename, transferred, pt.bytesTotal, rate)
}
