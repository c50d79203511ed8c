package toast

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind tags a message for styling.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultDuration is how long a message stays visible.
const DefaultDuration = 3 * time.Second

// Message is a transient status message.
type Message struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// Notifier shows transient status messages.
type Notifier interface {
	Show(text string, kind Kind)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(text string, kind Kind)

// Show calls fn.
func (fn NotifierFunc) Show(text string, kind Kind) {
	fn(text, kind)
}

// Nop discards every message.
var Nop Notifier = NotifierFunc(func(string, Kind) {})

// Timer is the subset of *time.Timer the slot needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after d. It matches time.AfterFunc.
type AfterFunc func(d time.Duration, fn func()) Timer

// Listener observes the slot. It is called with visible=true when a message is
// shown and visible=false when it is dismissed.
type Listener func(msg Message, visible bool)

// Option configures a Slot.
type Option func(*Slot)

// WithDuration overrides the display window.
func WithDuration(d time.Duration) Option {
	return func(s *Slot) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithAfterFunc swaps the timer source, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Slot) {
		if fn != nil {
			s.after = fn
		}
	}
}

// WithListener registers a callback for show and dismiss transitions.
func WithListener(fn Listener) Option {
	return func(s *Slot) {
		s.listener = fn
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Slot) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Slot is the single shared display slot. A new message replaces a visible
// one immediately and restarts the dismissal window; there is no queue.
type Slot struct {
	duration time.Duration
	after    AfterFunc
	listener Listener
	logger   *zap.Logger

	mu      sync.Mutex
	current Message
	visible bool
	gen     uint64
	timer   Timer
}

var _ Notifier = (*Slot)(nil)

// New constructs a Slot with a three second window.
func New(options ...Option) *Slot {
	s := &Slot{
		duration: DefaultDuration,
		after: func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		},
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Show displays text in the slot exactly as given; an empty kind is treated
// as success. Listeners that render the text are responsible for escaping it
// for their medium (see Terminal and HTML).
func (s *Slot) Show(text string, kind Kind) {
	if kind == "" {
		kind = KindSuccess
	}
	msg := Message{Text: text, Kind: kind}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	gen := s.gen
	s.current = msg
	s.visible = true
	listener := s.listener
	s.mu.Unlock()

	s.logger.Debug("toast shown", zap.String("kind", string(kind)), zap.String("text", msg.Text))
	if listener != nil {
		listener(msg, true)
	}

	// The timer is armed without holding mu: an AfterFunc may run fn
	// synchronously, and expire takes mu.
	t := s.after(s.duration, func() { s.expire(gen) })
	s.mu.Lock()
	if s.gen == gen && s.visible {
		s.timer = t
		t = nil
	}
	s.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

// Current returns the visible message, if any.
func (s *Slot) Current() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.visible
}

// Close dismisses the visible message and stops the pending timer.
func (s *Slot) Close() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	wasVisible := s.visible
	msg := s.current
	s.visible = false
	listener := s.listener
	s.mu.Unlock()

	if wasVisible && listener != nil {
		listener(msg, false)
	}
}

// expire hides the message shown at generation gen unless a newer one
// replaced it in the meantime.
func (s *Slot) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.visible {
		s.mu.Unlock()
		return
	}
	s.visible = false
	s.timer = nil
	msg := s.current
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(msg, false)
	}
}
