// Package rsvp manages the RSVP form and its one-shot delivery to the
// external form backend.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"wedding-site/internal/models"
	"wedding-site/internal/phases"
)

// State is the position of a Form in its submission lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// Messages shown after a submission.
const (
	SuccessMessage = "Thank you for your RSVP! We can't wait to celebrate with you!"
	FailureMessage = "Sorry, something went wrong sending your RSVP. Please try again."
)

var (
	// ErrInFlight is returned when a submission is already pending.
	ErrInFlight = errors.New("submission already in progress")
	// ErrInvalid wraps validation failures; nothing is sent.
	ErrInvalid = errors.New("rsvp is incomplete")
	// ErrClosed is returned once the form has been torn down. A result
	// arriving after Close is dropped.
	ErrClosed = errors.New("form closed")
)

// Submitter delivers a submission. *Service implements it.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) error
}

// Outcome is the visible state after a Submit call.
type Outcome struct {
	State       State           `json:"state"`
	Message     string          `json:"message,omitempty"`
	Values      models.RSVP     `json:"form"`
	Celebration phases.Sequence `json:"celebration,omitempty"`
}

// Option configures a Form.
type Option func(*Form)

// WithMenu enables conditional meal selection.
func WithMenu(m Menu) Option {
	return func(f *Form) { f.menu = m }
}

// WithCelebration sets the confetti duration.
func WithCelebration(d time.Duration) Option {
	return func(f *Form) { f.celebration = d }
}

// WithPhaseHook is called for every celebration phase.
func WithPhaseHook(fn func(phases.Phase)) Option {
	return func(f *Form) { f.onPhase = fn }
}

// Form is the editable RSVP state for one visitor.
type Form struct {
	mu sync.Mutex

	submitter   Submitter
	menu        Menu
	celebration time.Duration
	onPhase     func(phases.Phase)

	guestID string
	values  models.RSVP
	state   State
	message string
	closed  bool

	run          *phases.Run
	celebrations int
	celebrating  bool
}

// NewForm returns an empty, idle form.
func NewForm(s Submitter, opts ...Option) *Form {
	f := &Form{
		submitter:   s,
		celebration: phases.DefaultCelebration,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Prefill copies a directory record into the name and email fields.
// Fields the visitor already filled are left alone.
func (f *Form) Prefill(guestID string, rec models.GuestRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.guestID = guestID
	if len(trimmedNames(f.values.Names)) == 0 {
		f.values.Names = rec.DisplayNames()
	}
	if strings.TrimSpace(f.values.Email) == "" {
		f.values.Email = strings.TrimSpace(rec.Email)
	}
}

// PrefillEmail sets the email field if it is empty.
func (f *Form) PrefillEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.TrimSpace(f.values.Email) == "" {
		f.values.Email = strings.TrimSpace(email)
	}
}

// Edit applies a change to the values. A finished submission goes back to
// idle and its message is cleared.
func (f *Form) Edit(fn func(*models.RSVP)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if fn != nil {
		fn(&f.values)
	}
	f.touchLocked()
}

// Touch records interaction without changing values.
func (f *Form) Touch() {
	f.Edit(nil)
}

func (f *Form) touchLocked() {
	if f.state == StateSuccess || f.state == StateFailed {
		f.state = StateIdle
		f.message = ""
	}
}

// Submit validates the values and hands them to the submitter. Only one
// submission may be pending at a time.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	return f.submit(ctx, nil)
}

// SubmitValues replaces the field values and submits them in one step. While
// a submission is pending the values are ignored and ErrInFlight is returned.
func (f *Form) SubmitValues(ctx context.Context, values models.RSVP) (Outcome, error) {
	return f.submit(ctx, &values)
}

func (f *Form) submit(ctx context.Context, values *models.RSVP) (Outcome, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if f.state == StateSubmitting {
		out := f.outcomeLocked()
		f.mu.Unlock()
		return out, ErrInFlight
	}
	if values != nil {
		f.values = values.Clone()
	}
	f.touchLocked()
	if err := Validate(f.values, f.menu); err != nil {
		out := f.outcomeLocked()
		f.mu.Unlock()
		return out, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	f.state = StateSubmitting
	sub := Submission{GuestID: f.guestID, Payload: BuildPayload(f.values)}
	attending := f.values.Attendance == models.AttendanceYes
	f.mu.Unlock()

	err := f.submitter.Submit(ctx, sub)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if err != nil {
		f.state = StateFailed
		f.message = FailureMessage
		out := f.outcomeLocked()
		f.mu.Unlock()
		return out, err
	}

	f.state = StateSuccess
	f.message = SuccessMessage
	f.values = models.RSVP{}

	var previous *phases.Run
	var seq phases.Sequence
	if attending {
		previous, seq = f.celebrateLocked()
	}
	out := f.outcomeLocked()
	out.Celebration = seq
	f.mu.Unlock()

	previous.Stop()
	return out, nil
}

// celebrateLocked starts the confetti and returns the run it replaces.
func (f *Form) celebrateLocked() (*phases.Run, phases.Sequence) {
	seq := phases.Celebration(f.celebration)
	previous := f.run

	n := f.celebrations + 1
	run, err := phases.Start(seq, func(p phases.Phase) { f.handlePhase(n, p) })
	if err != nil {
		return previous, nil
	}
	f.run = run
	f.celebrations = n
	f.celebrating = true
	return previous, seq
}

// handlePhase applies a phase of the n-th celebration. Phases of a
// celebration that has since been replaced are dropped.
func (f *Form) handlePhase(n int, p phases.Phase) {
	f.mu.Lock()
	if n != f.celebrations {
		f.mu.Unlock()
		return
	}
	if p.Name == phases.CelebrationEnd {
		f.celebrating = false
	}
	hook := f.onPhase
	f.mu.Unlock()

	if hook != nil {
		hook(p)
	}
}

func (f *Form) outcomeLocked() Outcome {
	return Outcome{
		State:   f.state,
		Message: f.message,
		Values:  f.values.Clone(),
	}
}

// Close tears the form down: pending cosmetic phases are cancelled and any
// submission still in flight has its result discarded.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	run := f.run
	f.run = nil
	f.celebrating = false
	f.mu.Unlock()

	run.Stop()
}

// Values returns a copy of the current field values.
func (f *Form) Values() models.RSVP {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Clone()
}

// Snapshot returns the current visible state.
func (f *Form) Snapshot() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcomeLocked()
}

// State returns the lifecycle state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// GuestID returns the id the form was pre-filled from, if any.
func (f *Form) GuestID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.guestID
}

// Celebrations counts how many times the confetti was started.
func (f *Form) Celebrations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.celebrations
}

// Celebrating reports whether confetti is currently showing.
func (f *Form) Celebrating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.celebrating
}

// CelebrationDone is closed when the latest celebration ends. It is nil if
// none was started.
func (f *Form) CelebrationDone() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.run == nil {
		return nil
	}
	return f.run.Done()
}
