package progress

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Status is the lifecycle state of an Indicator run.
type Status int

// Lifecycle states. Finished and Failed are terminal for a run; a new Start
// resets to Running.
const (
	StatusPending Status = iota
	StatusRunning
	StatusFinished
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusFinished:
		return "finished"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Backend renders indicator state changes. Implementations must tolerate
// repeated Start/Stop cycles on the same value.
type Backend interface {
	// Start renders the run header (name and current action).
	Start(name, action string)
	// Update renders a composed progress string; empty text means the
	// progress is indeterminate and a spinner or equivalent should move.
	Update(text string)
	// Stop ends the visual run state.
	Stop()
	// Write emits an out-of-band message without corrupting any in-progress
	// rendering.
	Write(message string)
}

// updateInterval is the minimum time between forwarded (non-forced) updates.
const updateInterval = 100 * time.Millisecond

// Indicator tracks the progress of one named task through a Backend. It is
// not safe for concurrent use; callers driving it from multiple goroutines
// must serialize access.
type Indicator struct {
	name    string
	backend Backend
	now     func() time.Time

	action     string
	unit       string
	max        float64
	progress   float64
	status     Status
	lastUpdate time.Time
}

// New creates a pending Indicator reporting through backend. A nil backend
// degrades to the silent NoopBackend.
func New(name string, backend Backend) *Indicator {
	if backend == nil {
		backend = &NoopBackend{}
	}
	return &Indicator{
		name:    name,
		backend: backend,
		now:     time.Now,
	}
}

// Name returns the immutable task name.
func (i *Indicator) Name() string {
	return i.name
}

// Status returns the current lifecycle state.
func (i *Indicator) Status() Status {
	return i.status
}

// Progress returns the last stored progress value.
func (i *Indicator) Progress() float64 {
	return i.progress
}

// Start begins a run. If a run is already in progress it is implicitly
// finished (without a message) first. Progress resets to zero and the
// backend's start hook is invoked.
func (i *Indicator) Start(action, unit string, max float64) {
	if i.status == StatusRunning {
		i.Finish("")
	}
	i.action = action
	i.unit = unit
	i.max = max
	i.progress = 0
	i.lastUpdate = time.Time{}
	i.status = StatusRunning
	i.backend.Start(i.name, i.action)
}

// SetProgress stores value and forwards a rendered update to the backend,
// unless the previous forwarded update was less than 100ms ago and force is
// false.
func (i *Indicator) SetProgress(value float64, force bool) {
	i.progress = value
	now := i.now()
	if !force && !i.lastUpdate.IsZero() && now.Sub(i.lastUpdate) <= updateInterval {
		return
	}
	i.lastUpdate = now
	i.backend.Update(i.composeText(value))
}

// IncreaseProgress adds delta to the current progress value.
func (i *Indicator) IncreaseProgress(delta float64) {
	i.SetProgress(i.progress+delta, false)
}

// Finish forces a final render and transitions to Finished. A non-empty
// message is written through the backend afterwards.
func (i *Indicator) Finish(message string) {
	i.SetProgress(i.progress, true)
	i.status = StatusFinished
	i.backend.Stop()
	if message != "" {
		i.backend.Write(message)
	}
}

// Fail forces a final render, transitions to Failed, and always writes a
// message prefixed with "FAIL " (an empty message is still prefixed).
func (i *Indicator) Fail(message string) {
	i.SetProgress(i.progress, true)
	i.status = StatusFailed
	i.backend.Stop()
	i.backend.Write("FAIL " + message)
}

// Write emits an out-of-band message (such as a warning) during a run.
func (i *Indicator) Write(message string) {
	i.backend.Write(message)
}

// composeText builds the human-readable progress string: a percentage when
// the unit is "%", a "value/max unit (pct%)" form when a maximum is known, a
// bare "value unit" form for positive indefinite progress, and an empty
// string otherwise (the backend renders a spinner for that).
func (i *Indicator) composeText(value float64) string {
	var text string
	switch {
	case i.unit == "%":
		text = fmt.Sprintf("%.1f%%", value)
	case i.max > 0:
		percent := 100 * value / i.max
		if i.unit != "" {
			text = fmt.Sprintf("%d/%d %s (%.1f%%)", int64(value), int64(i.max), i.unit, percent)
		} else {
			text = fmt.Sprintf("%d/%d (%.1f%%)", int64(value), int64(i.max), percent)
		}
	case value > 0:
		if value == math.Trunc(value) {
			text = fmt.Sprintf("%d %s", int64(value), i.unit)
		} else {
			text = fmt.Sprintf("%.4g %s", value, i.unit)
		}
	}
	return strings.TrimRight(text, " ")
}
