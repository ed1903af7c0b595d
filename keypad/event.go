package keypad

import "time"

// Event is one confirmed key transition. The engine creates each event
// exactly once; ownership passes to the queue and then to whoever consumes
// it.
type Event struct {
	Key     int       // key number, zero-based, ascending scan order
	Pressed bool      // true for press, false for release
	Time    time.Time // the poll instant that confirmed the transition
}

// eventQueue is a FIFO of confirmed transitions. Insertion order is detection
// order (ascending key index within a poll). Consumption is destructive:
// drain wholesale or step one event at a time, never rewind.
type eventQueue struct {
	buf  []Event
	head int
}

func (q *eventQueue) push(ev Event) { q.buf = append(q.buf, ev) }

func (q *eventQueue) len() int { return len(q.buf) - q.head }

// next pops the oldest event, reporting false when the queue is empty.
func (q *eventQueue) next() (Event, bool) {
	if q.head >= len(q.buf) {
		return Event{}, false
	}
	ev := q.buf[q.head]
	q.head++
	if q.head == len(q.buf) {
		q.reset()
	}
	return ev, true
}

// drain returns everything pending, in FIFO order, and empties the queue.
// The returned slice is the consumer's; the queue keeps no alias to it.
func (q *eventQueue) drain() []Event {
	if q.head >= len(q.buf) {
		return nil
	}
	out := make([]Event, len(q.buf)-q.head)
	copy(out, q.buf[q.head:])
	q.reset()
	return out
}

func (q *eventQueue) reset() {
	q.buf = q.buf[:0]
	q.head = 0
}
