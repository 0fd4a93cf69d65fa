package mail

import (
	"context"
	"sync"

	"github.com/shandysiswandi/mailgate/internal/pkg/clock"
	"github.com/shandysiswandi/mailgate/internal/pkg/uid"
	"go.uber.org/atomic"
)

// Recorder is a Mail implementation for tests. It never touches the network:
// every accepted message is appended to an in-memory ordered buffer reachable
// through Sent, and delivery succeeds unless a failure has been armed with
// FailWith.
//
// Construct one per test and inject it; there is no shared package state.
type Recorder struct {
	mu      sync.Mutex
	sent    []Message
	failErr atomic.Error
	uuid    uid.StringID
	clock   clock.Clocker
}

// NewRecorder returns a Recorder ready for concurrent use.
func NewRecorder() *Recorder {
	return &Recorder{
		uuid:  uid.NewUUID(),
		clock: clock.New(),
	}
}

// Send records the message and returns a fresh receipt, or the armed failure.
// Failed sends record nothing.
func (r *Recorder) Send(_ context.Context, msg Message) (*Receipt, error) {
	if err := r.failErr.Load(); err != nil {
		return nil, err
	}

	receipt := &Receipt{MessageID: r.uuid.Generate(), SentAt: r.clock.Now()}

	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()

	return receipt, nil
}

// Close implements io.Closer for interface compatibility.
func (r *Recorder) Close() error {
	return nil
}

// Sent returns a copy of every recorded message in submission order.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}

// FailWith makes every subsequent Send fail with err until FailNone is called.
func (r *Recorder) FailWith(err error) {
	r.failErr.Store(err)
}

// FailNone clears a previously armed failure.
func (r *Recorder) FailNone() {
	r.failErr.Store(nil)
}
