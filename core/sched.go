package core

// Tick-paced event scheduling for target drivers. Timers are kept in a
// sorted singly linked list and dispatched from the main loop; handlers
// run in dispatch order and may reschedule themselves. The rp2040
// converter driver uses this to capture one sample per pixel-clock period.

// Timer represents a scheduled event.
type Timer struct {
	WakeTicks uint32
	Handler   func(*Timer) uint8
	next      *Timer
}

// Handler return values.
const (
	TimerDone       = 0
	TimerReschedule = 1
)

var (
	timerList  *Timer
	tickSource func() uint32
	tickCount  uint32
)

// Ticks returns the current tick counter. On targets this reads the
// hardware timer registered via SetTickSource; on the host it returns a
// counter advanced with AdvanceTicks.
func Ticks() uint32 {
	if tickSource != nil {
		return tickSource()
	}
	return tickCount
}

// SetTickSource installs a hardware tick reader. Target init calls this
// once before any timer is scheduled.
func SetTickSource(fn func() uint32) {
	tickSource = fn
}

// AdvanceTicks moves the fallback tick counter forward (host/testing).
func AdvanceTicks(n uint32) {
	tickCount += n
}

// SetTicks resets the fallback tick counter (host/testing).
func SetTicks(n uint32) {
	tickCount = n
}

// ScheduleTimer inserts a timer into the schedule, sorted by wake time.
// A timer may only be scheduled once; rescheduling from its own handler
// is done by returning TimerReschedule with an updated WakeTicks.
func ScheduleTimer(t *Timer) {
	if timerList == nil || t.WakeTicks < timerList.WakeTicks {
		t.next = timerList
		timerList = t
		return
	}
	cur := timerList
	for cur.next != nil && cur.next.WakeTicks < t.WakeTicks {
		cur = cur.next
	}
	t.next = cur.next
	cur.next = t
}

// CancelTimer removes a timer from the schedule if present.
func CancelTimer(t *Timer) {
	if timerList == t {
		timerList = t.next
		t.next = nil
		return
	}
	for cur := timerList; cur != nil; cur = cur.next {
		if cur.next == t {
			cur.next = t.next
			t.next = nil
			return
		}
	}
}

// DispatchTimers runs every timer whose wake time has passed. Called from
// the target main loop; handlers must be short.
func DispatchTimers() {
	now := Ticks()
	for timerList != nil && timerList.WakeTicks <= now {
		t := timerList
		timerList = t.next
		t.next = nil

		if t.Handler(t) == TimerReschedule {
			ScheduleTimer(t)
		}
	}
}

// ResetTimers drops all scheduled timers (testing and shutdown paths).
func ResetTimers() {
	timerList = nil
}
