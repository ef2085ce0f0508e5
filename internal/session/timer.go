package session

// TimerState is the lifecycle of one question's countdown.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerExpired
)

// Timer counts one question's remaining seconds down. It is an explicit
// state machine with a single armed flag, so a question can produce at most
// one expiry signal: once Tick reports expiry, or Stop disarms the timer on
// advance, later ticks are ignored.
//
// Timer is not safe for concurrent use; the engine serializes access.
type Timer struct {
	state     TimerState
	remaining int
	armed     bool
}

func NewTimer() *Timer {
	return &Timer{state: TimerIdle}
}

// Start arms the timer for a fresh countdown of limit seconds. Starting
// over a running or expired timer cancels it first.
func (t *Timer) Start(limit int) {
	t.state = TimerRunning
	t.remaining = limit
	t.armed = true
}

// Stop disarms the timer. A stopped timer never expires.
func (t *Timer) Stop() {
	t.state = TimerIdle
	t.armed = false
}

// Tick consumes one second. It reports true exactly once, on the tick that
// drains the countdown while the timer is still armed.
func (t *Timer) Tick() bool {
	if t.state != TimerRunning || !t.armed {
		return false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		return false
	}
	t.state = TimerExpired
	t.armed = false
	return true
}

func (t *Timer) Remaining() int {
	return t.remaining
}

func (t *Timer) State() TimerState {
	return t.state
}
