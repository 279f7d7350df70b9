// Package phases sequences timed cosmetic effects (splash screen, RSVP
// celebration) as a list of named phases driven by one cancellable scheduler.
package phases

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Phase is a named step that begins At after the sequence starts.
type Phase struct {
	Name string
	At   time.Duration
}

// MarshalJSON encodes the offset in milliseconds for the page script.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
		AtMS int64  `json:"at_ms"`
	}{p.Name, p.At.Milliseconds()})
}

// Sequence is an ordered list of phases.
type Sequence []Phase

// Validate checks that phases are named and strictly increasing in time.
func (s Sequence) Validate() error {
	if len(s) == 0 {
		return errors.New("sequence has no phases")
	}
	prev := time.Duration(-1)
	for i, p := range s {
		if p.Name == "" {
			return fmt.Errorf("phase %d has no name", i)
		}
		if p.At < 0 || p.At <= prev {
			return fmt.Errorf("phase %q at %s is not after %s", p.Name, p.At, prev)
		}
		prev = p.At
	}
	return nil
}

// Total is the offset of the final phase.
func (s Sequence) Total() time.Duration {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].At
}

// Run is one execution of a Sequence.
type Run struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stopped  bool
	mu       sync.Mutex
}

// Start schedules fn for every phase of seq. fn runs on the scheduler
// goroutine and must not call Stop on its own Run.
func Start(seq Sequence, fn func(Phase)) (*Run, error) {
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	r := &Run{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	phases := append(Sequence(nil), seq...)
	go r.loop(phases, fn)
	return r, nil
}

func (r *Run) loop(seq Sequence, fn func(Phase)) {
	defer close(r.done)

	start := time.Now()
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for _, p := range seq {
		if wait := p.At - time.Since(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-r.stop:
				return
			case <-timer.C:
			}
		}

		select {
		case <-r.stop:
			return
		default:
		}
		if fn != nil {
			fn(p)
		}
	}
}

// Stop cancels every pending phase and waits for the scheduler to exit.
// After Stop returns fn is never called again. Reports whether the run was
// cut short.
func (r *Run) Stop() bool {
	if r == nil {
		return false
	}
	cut := false
	r.stopOnce.Do(func() {
		select {
		case <-r.done:
		default:
			cut = true
		}
		r.mu.Lock()
		r.stopped = cut
		r.mu.Unlock()
		close(r.stop)
	})
	<-r.done
	return cut
}

// Done is closed once the final phase ran or the run was stopped.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Stopped reports whether Stop cut the run short.
func (r *Run) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}
