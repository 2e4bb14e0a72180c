package media

import "sync"

// outbox delivers events to a sink from a single goroutine, in push order.
// push never blocks, so a primitive can emit while the consumer is busy
// calling back into it.
type outbox struct {
	mu      sync.Mutex
	pending []Event
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	sink    Sink
}

func newOutbox(sink Sink) *outbox {
	o := &outbox{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		sink: sink,
	}
	go o.run()
	return o
}

func (o *outbox) push(ev Event) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.pending = append(o.pending, ev)
	o.mu.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
}

func (o *outbox) run() {
	for {
		select {
		case <-o.done:
			return
		case <-o.wake:
		}
		for {
			o.mu.Lock()
			batch := o.pending
			o.pending = nil
			closed := o.closed
			o.mu.Unlock()
			if len(batch) == 0 || closed {
				break
			}
			for _, ev := range batch {
				o.sink(ev)
			}
		}
	}
}

func (o *outbox) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.pending = nil
	close(o.done)
}
