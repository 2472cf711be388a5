package playback

import (
	"time"

	"kellyServer/clock"
	"kellyServer/game"
)

// Controller drives a Cursor over a loaded trajectory, auto-advancing on the
// scheduler's cadence while playing.
//
// A Controller is not safe for concurrent use. It must be driven from one
// goroutine and its scheduler must dispatch ticks onto that goroutine.
type Controller struct {
	sched      *clock.Scheduler
	trajectory game.Trajectory
	cursor     Cursor
	onAdvance  func(Cursor)
}

// NewController returns an empty controller. onAdvance, when set, is called
// after every auto-advance tick.
func NewController(sched *clock.Scheduler, onAdvance func(Cursor)) *Controller {
	return &Controller{
		sched:     sched,
		cursor:    NewCursor(0),
		onAdvance: onAdvance,
	}
}

// Load replaces the trajectory, cancels any pending tick and rewinds.
func (c *Controller) Load(t game.Trajectory) {
	c.sched.Cancel()
	c.trajectory = t
	c.cursor = NewCursor(len(t))
}

// StepForward advances one round manually.
func (c *Controller) StepForward() Cursor {
	c.cursor = c.cursor.Step()
	if !c.cursor.Playing {
		c.sched.Cancel()
	}
	return c.cursor
}

// Reset rewinds to round 0 and stops playback.
func (c *Controller) Reset() Cursor {
	c.sched.Cancel()
	c.cursor = c.cursor.Reset()
	return c.cursor
}

// SetPlaying starts or stops auto-advance. Only one tick is ever pending.
func (c *Controller) SetPlaying(on bool) Cursor {
	c.cursor = c.cursor.WithPlaying(on)
	if !c.cursor.Playing {
		c.sched.Cancel()
		return c.cursor
	}
	if !c.sched.Pending() {
		c.sched.Next(c.tick)
	}
	return c.cursor
}

func (c *Controller) tick() {
	c.cursor = c.cursor.Step()
	if c.cursor.Playing {
		c.sched.Next(c.tick)
	}
	if c.onAdvance != nil {
		c.onAdvance(c.cursor)
	}
}

// VisiblePrefix returns rounds 0 through the cursor index inclusive.
func (c *Controller) VisiblePrefix() game.Trajectory {
	if len(c.trajectory) == 0 {
		return nil
	}
	k := c.cursor.Index + 1
	return c.trajectory[:k:k]
}

// Current returns the snapshot under the cursor.
func (c *Controller) Current() (game.RoundSnapshot, bool) {
	if c.cursor.Index >= len(c.trajectory) {
		return game.RoundSnapshot{}, false
	}
	return c.trajectory[c.cursor.Index], true
}

func (c *Controller) Cursor() Cursor { return c.cursor }

// Interval is the playback cadence.
func (c *Controller) Interval() time.Duration { return c.sched.Interval() }

func (c *Controller) Trajectory() game.Trajectory { return c.trajectory }

// Close cancels the pending tick. The controller may be reloaded afterwards.
func (c *Controller) Close() {
	c.sched.Cancel()
	c.cursor.Playing = false
}
