package rate

// queueLock is a single-slot admission queue serializing refresh
// cycles. Blocked acquirers are admitted strictly in arrival order:
// the runtime wakes senders blocked on a full channel FIFO, which a
// sync.Mutex does not guarantee.
type queueLock struct {
	slot chan struct{}
}

func newQueueLock() *queueLock {
	return &queueLock{slot: make(chan struct{}, 1)}
}

// acquire blocks until the slot is free and returns the release
// function. The caller must release exactly once on every exit path;
// defer it immediately.
func (l *queueLock) acquire() func() {
	l.slot <- struct{}{}
	return func() { <-l.slot }
}
