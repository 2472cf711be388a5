package playback

// Cursor is the playback position over a trajectory of Last+1 rounds.
// All transitions are pure and return a new Cursor.
type Cursor struct {
	Index   int  `json:"index"`
	Last    int  `json:"last"`
	Playing bool `json:"playing"`
}

// NewCursor returns a stopped cursor at round 0 for a trajectory of length n.
func NewCursor(n int) Cursor {
	last := n - 1
	if last < 0 {
		last = 0
	}
	return Cursor{Last: last}
}

// AtEnd reports whether the cursor sits on the last round.
func (c Cursor) AtEnd() bool {
	return c.Index >= c.Last
}

// Step advances one round. Reaching the last round stops playback and
// stepping past it is a no-op.
func (c Cursor) Step() Cursor {
	if c.Index < c.Last {
		c.Index++
	}
	if c.AtEnd() {
		c.Playing = false
	}
	return c
}

// Reset rewinds to round 0 and stops playback.
func (c Cursor) Reset() Cursor {
	c.Index = 0
	c.Playing = false
	return c
}

// WithPlaying toggles playback. Playing cannot start on the last round.
func (c Cursor) WithPlaying(on bool) Cursor {
	c.Playing = on && !c.AtEnd()
	return c
}
