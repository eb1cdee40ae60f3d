// Package scheduler provides the frame clocks that drive gauge animations.
//
// A FrameScheduler runs a callback once, before the next frame. Browser
// builds use requestAnimationFrame (see Platform); native hosts use a Loop,
// and tests inject a Manual clock and advance it tick by tick.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// FrameInterval is the frame period assumed for ~60Hz displays and used by
// timer based schedulers
const FrameInterval = 16 * time.Millisecond

// FrameScheduler schedules a callback to run before the next frame
type FrameScheduler interface {
	RequestFrame(fn func())
}

// FrameFunc adapts a function to FrameScheduler
type FrameFunc func(fn func())

// RequestFrame calls f(fn)
func (f FrameFunc) RequestFrame(fn func()) {
	f(fn)
}

// ErrorHandler receives panics recovered from frame callbacks
type ErrorHandler func(err interface{})

// debugLog is set by platform-specific code
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// Manual is a FrameScheduler advanced explicitly by calling Tick.
// It stands in for the display refresh clock in tests and in hosts that own
// their own frame loop (the preview TUI, for instance).
type Manual struct {
	mu     sync.Mutex
	queue  []func()
	frames int
}

// NewManual creates a manual clock with nothing queued
func NewManual() *Manual {
	return &Manual{}
}

// RequestFrame queues fn for the next Tick
func (m *Manual) RequestFrame(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// Pending returns the number of callbacks waiting for the next Tick
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Frames returns the number of ticks run so far
func (m *Manual) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Tick runs every callback queued before the call. Callbacks requested
// while ticking wait for the following Tick. It returns the number run.
func (m *Manual) Tick() int {
	m.mu.Lock()
	batch := m.queue
	m.queue = nil
	m.frames++
	m.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// RunUntilIdle ticks until nothing is pending or max ticks have run.
// It returns the number of ticks that ran at least one callback.
func (m *Manual) RunUntilIdle(max int) int {
	ticks := 0
	for ticks < max && m.Pending() > 0 {
		m.Tick()
		ticks++
	}
	return ticks
}

// Loop is a single goroutine event loop. Work posted with Do and frame
// callbacks all run on that goroutine, which gives native hosts the same
// single UI thread model a browser has.
type Loop struct {
	interval time.Duration

	mu     sync.Mutex
	frames []func()

	work    chan func()
	running atomic.Bool
	stopCh  chan struct{}
	done    chan struct{}
	onError ErrorHandler
}

// NewLoop creates a loop flushing frame callbacks every interval
// (FrameInterval when interval <= 0)
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &Loop{
		interval: interval,
		work:     make(chan func(), 256),
	}
}

// SetErrorHandler sets the handler for panics raised by callbacks
func (l *Loop) SetErrorHandler(handler ErrorHandler) {
	l.onError = handler
}

// Start begins the loop goroutine. Calling Start on a running loop is a no-op.
func (l *Loop) Start(ctx context.Context) {
	if !l.running.CompareAndSwap(false, true) {
		if debugLog != nil {
			debugLog("[Loop] already running")
		}
		return
	}
	l.stopCh = make(chan struct{})
	l.done = make(chan struct{})
	go l.run(ctx)
}

// Stop stops the loop and waits for the goroutine to exit
func (l *Loop) Stop() {
	if !l.running.CompareAndSwap(true, false) {
		return
	}
	close(l.stopCh)
	<-l.done
}

// IsRunning returns whether the loop is running
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Do posts fn to run on the loop goroutine. It reports false when the loop
// is not running.
func (l *Loop) Do(fn func()) bool {
	if !l.running.Load() {
		return false
	}
	select {
	case l.work <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Sync runs fn on the loop goroutine and waits for it to finish
func (l *Loop) Sync(fn func()) error {
	finished := make(chan struct{})
	if !l.Do(func() {
		defer close(finished)
		fn()
	}) {
		return fmt.Errorf("loop is not running")
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return fmt.Errorf("loop stopped before work completed")
	}
}

// RequestFrame queues fn for the next frame flush
func (l *Loop) RequestFrame(fn func()) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// run is the loop goroutine
func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	defer l.running.Store(false)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	if debugLog != nil {
		debugLog("[Loop] started, interval", l.interval)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		case fn := <-l.work:
			l.safeRun(fn)
		case <-ticker.C:
			l.flushFrames()
		}
	}
}

// flushFrames runs the callbacks queued before this frame
func (l *Loop) flushFrames() {
	l.mu.Lock()
	batch := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, fn := range batch {
		l.safeRun(fn)
	}
}

// safeRun runs fn, recovering panics so one bad callback cannot kill the loop
func (l *Loop) safeRun(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("frame callback panic: %v\n%s", r, debug.Stack())
			if debugLog != nil {
				debugLog("[Loop]", msg)
			}
			if l.onError != nil {
				l.onError(msg)
			}
		}
	}()
	fn()
}
