package circles

import (
	"math"

	"github.com/recera/circles/pkg/scheduler"
)

// AnimationState is the lifecycle of a graph's animation
type AnimationState uint8

const (
	// Idle means no animation has run, or the last one was cancelled
	Idle AnimationState = iota
	// Animating means frames are being scheduled
	Animating
	// Done means the last animation reached its target
	Done
)

func (s AnimationState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// stepper advances one animation strategy by a frame
type stepper interface {
	// ready reports whether the first step would render anything
	ready() bool
	// step renders one frame and reports whether the animation finished
	step() (done bool)
	// interrupted is called when a newer animation or Stop cancels this one
	interrupted()
}

// animator runs at most one stepper at a time. Starting a new stepper
// cancels the current one; frames queued by a cancelled stepper see a stale
// generation and return without rendering.
type animator struct {
	state   AnimationState
	gen     uint64
	current stepper
	frames  int
}

func (a *animator) start(sched scheduler.FrameScheduler, s stepper) {
	a.cancel()
	if sched == nil || !s.ready() {
		return
	}

	a.state = Animating
	a.current = s
	gen := a.gen

	var tick func()
	tick = func() {
		if a.gen != gen || a.state != Animating {
			return
		}
		a.frames++
		if s.step() {
			a.state = Done
			a.current = nil
			return
		}
		sched.RequestFrame(tick)
	}
	sched.RequestFrame(tick)
}

func (a *animator) cancel() {
	a.gen++
	if a.state == Animating {
		a.state = Idle
		if a.current != nil {
			a.current.interrupted()
		}
	}
	a.current = nil
}

// entryStepper grows the indicator and the label from zero to the target
// by a fixed factor per frame
type entryStepper struct {
	i            int
	pathFactor   float64
	numberFactor float64
	percent      float64 // target percentage
	value        float64 // target label value
	isInt        bool
	render       func(percentage, number float64)
	finish       func()
}

func newEntryStepper(pathFactor, numberFactor, percent, value float64, render func(float64, float64), finish func()) *entryStepper {
	return &entryStepper{
		i:            1,
		pathFactor:   pathFactor,
		numberFactor: numberFactor,
		percent:      percent,
		value:        value,
		isInt:        value == math.Trunc(value),
		render:       render,
		finish:       finish,
	}
}

func (s *entryStepper) ready() bool { return true }

func (s *entryStepper) step() bool {
	percentage := s.pathFactor * float64(s.i)
	nextPercentage := s.pathFactor * float64(s.i+1)
	number := s.numberFactor * float64(s.i)
	last := false

	if s.isInt {
		number = math.Round(number)
	}
	if nextPercentage > s.percent {
		percentage = s.percent
		number = s.value
		last = true
	}
	// Overshoot guard
	if percentage > s.percent {
		return true
	}

	s.render(percentage, number)
	s.i++
	return last
}

func (s *entryStepper) interrupted() {
	if s.finish != nil {
		s.finish()
	}
}

// unitStepper moves the indicator by exactly one percent per frame
type unitStepper struct {
	current    float64
	target     float64
	increasing bool
	render     func(percentage float64)
	finish     func()
}

func newUnitStepper(from, to float64, increasing bool, render func(float64), finish func()) *unitStepper {
	return &unitStepper{
		current:    from,
		target:     to,
		increasing: increasing,
		render:     render,
		finish:     finish,
	}
}

func (s *unitStepper) next() float64 {
	if s.increasing {
		return s.current + 1
	}
	return s.current - 1
}

func (s *unitStepper) crosses(v float64) bool {
	if s.increasing {
		return v > s.target
	}
	return v < s.target
}

func (s *unitStepper) ready() bool {
	return !s.crosses(s.next())
}

func (s *unitStepper) step() bool {
	v := s.next()
	if s.crosses(v) {
		return true
	}
	s.current = v
	s.render(v)
	return s.crosses(s.next())
}

func (s *unitStepper) interrupted() {
	if s.finish != nil {
		s.finish()
	}
}
