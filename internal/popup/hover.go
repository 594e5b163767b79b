package popup

import (
	"sync"
	"time"
)

// DefaultHideDelay lets the pointer cross the gap between trigger and popup
// without the popup disappearing.
const DefaultHideDelay = 100 * time.Millisecond

// State is the popup's visibility.
type State int

const (
	Hidden State = iota
	Visible
	PendingHide
)

func (s State) String() string {
	switch s {
	case Visible:
		return "visible"
	case PendingHide:
		return "pending-hide"
	default:
		return "hidden"
	}
}

// Event is a pointer or timer event.
type Event int

const (
	// Enter fires when the pointer enters the trigger or the popup.
	Enter Event = iota
	// Leave fires when the pointer leaves the trigger or the popup.
	Leave
	// Timeout fires when the hide delay elapses.
	Timeout
)

func (e Event) String() string {
	switch e {
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	default:
		return "timeout"
	}
}

// Next is the transition function.
//
//	hidden       --enter-->   visible
//	visible      --leave-->   pending-hide
//	pending-hide --enter-->   visible
//	pending-hide --timeout--> hidden
//
// Every other pair leaves the state unchanged.
func Next(s State, e Event) State {
	switch {
	case e == Enter:
		return Visible
	case s == Visible && e == Leave:
		return PendingHide
	case s == PendingHide && e == Timeout:
		return Hidden
	default:
		return s
	}
}

// Hover drives the state machine from pointer events. A Leave arms a single
// hide timer; an Enter before it fires cancels it, and a timer that fires
// after being superseded is ignored. Hover is safe for concurrent use.
type Hover struct {
	delay  time.Duration
	onShow func()
	onHide func()

	mu    sync.Mutex
	state State
	gen   uint64
	timer *time.Timer
}

// NewHover returns a hidden popup. onShow and onHide may be nil; delay <= 0
// uses DefaultHideDelay.
func NewHover(delay time.Duration, onShow, onHide func()) *Hover {
	if delay <= 0 {
		delay = DefaultHideDelay
	}
	return &Hover{delay: delay, onShow: onShow, onHide: onHide}
}

// State returns the current state.
func (h *Hover) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Enter shows the popup, cancelling any pending hide.
func (h *Hover) Enter() {
	h.mu.Lock()
	prev := h.state
	h.state = Next(prev, Enter)
	h.cancelLocked()
	h.mu.Unlock()

	if prev == Hidden && h.onShow != nil {
		h.onShow()
	}
}

// Leave schedules the popup to hide after the delay.
func (h *Hover) Leave() {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := Next(h.state, Leave)
	if next != PendingHide || h.state == PendingHide {
		h.state = next
		return
	}
	h.state = next
	h.cancelLocked()
	gen := h.gen
	h.timer = time.AfterFunc(h.delay, func() { h.fire(gen) })
}

// Close cancels any pending hide without changing the state.
func (h *Hover) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelLocked()
}

func (h *Hover) fire(gen uint64) {
	h.mu.Lock()
	if gen != h.gen {
		h.mu.Unlock()
		return
	}
	prev := h.state
	h.state = Next(prev, Timeout)
	h.timer = nil
	h.mu.Unlock()

	if prev == PendingHide && h.onHide != nil {
		h.onHide()
	}
}

// cancelLocked stops the pending timer and invalidates any callback already
// in flight.
func (h *Hover) cancelLocked() {
	h.gen++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}
