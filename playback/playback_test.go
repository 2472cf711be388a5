package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kellyServer/clock"
	"kellyServer/game"
)

const cadence = 200 * time.Millisecond

func newTestController(t *testing.T, rounds int) (*Controller, *clock.Manual, *[]Cursor) {
	t.Helper()
	m := clock.NewManual(time.Unix(0, 0))
	var advanced []Cursor
	c := NewController(clock.NewScheduler(m, cadence, clock.Inline), func(cur Cursor) {
		advanced = append(advanced, cur)
	})
	params := game.SimulationParams{WinProbability: 0.6, DecimalOdds: 2.0, TotalRounds: rounds, InitialWealth: 1000}
	c.Load(game.Simulate(params, game.NewSeededRNG("playback")))
	return c, m, &advanced
}

func TestCursor_Transitions(t *testing.T) {
	c := NewCursor(3)
	assert.Equal(t, Cursor{Index: 0, Last: 2}, c)

	c = c.WithPlaying(true)
	assert.True(t, c.Playing)
	c = c.Step()
	assert.Equal(t, 1, c.Index)
	assert.True(t, c.Playing)
	c = c.Step()
	assert.Equal(t, 2, c.Index)
	assert.False(t, c.Playing)

	c = c.Step()
	assert.Equal(t, 2, c.Index)

	assert.False(t, c.WithPlaying(true).Playing)
	assert.Equal(t, Cursor{Index: 0, Last: 2}, c.Reset())
}

func TestCursor_EmptyTrajectory(t *testing.T) {
	c := NewCursor(0)
	assert.True(t, c.AtEnd())
	assert.Equal(t, 0, c.Step().Index)
}

func TestController_StepToEnd(t *testing.T) {
	c, _, _ := newTestController(t, 5)

	for i := 0; i < 5; i++ {
		c.StepForward()
	}
	assert.Equal(t, 5, c.Cursor().Index)
	assert.Len(t, c.VisiblePrefix(), 6)

	assert.NotPanics(t, func() { c.StepForward() })
	assert.Equal(t, 5, c.Cursor().Index)
	assert.False(t, c.Cursor().Playing)
}

func TestController_VisiblePrefixLength(t *testing.T) {
	c, _, _ := newTestController(t, 10)

	for k := 0; k <= 10; k++ {
		prefix := c.VisiblePrefix()
		require.Len(t, prefix, k+1)
		assert.Equal(t, k, prefix[len(prefix)-1].Round)
		c.StepForward()
	}
}

func TestController_AutoAdvanceCadence(t *testing.T) {
	c, m, advanced := newTestController(t, 10)

	c.SetPlaying(true)
	m.Advance(cadence - time.Millisecond)
	assert.Equal(t, 0, c.Cursor().Index)

	m.Advance(time.Millisecond)
	assert.Equal(t, 1, c.Cursor().Index)

	m.Advance(2 * cadence)
	assert.Equal(t, 3, c.Cursor().Index)
	assert.Len(t, *advanced, 3)
	assert.Equal(t, 1, m.Pending())
}

func TestController_AutoStopsAtEnd(t *testing.T) {
	c, m, _ := newTestController(t, 4)

	c.SetPlaying(true)
	m.Advance(10 * cadence)

	assert.Equal(t, 4, c.Cursor().Index)
	assert.False(t, c.Cursor().Playing)
	assert.Equal(t, 0, m.Pending())
}

func TestController_Pause(t *testing.T) {
	c, m, _ := newTestController(t, 10)

	c.SetPlaying(true)
	m.Advance(cadence)
	c.SetPlaying(false)
	m.Advance(5 * cadence)

	assert.Equal(t, 1, c.Cursor().Index)
	assert.Equal(t, 0, m.Pending())
}

func TestController_PlayTwiceKeepsOneLoop(t *testing.T) {
	c, m, _ := newTestController(t, 10)

	c.SetPlaying(true)
	c.SetPlaying(true)
	assert.Equal(t, 1, m.Pending())

	m.Advance(cadence)
	assert.Equal(t, 1, c.Cursor().Index)
}

func TestController_LoadCancelsLoop(t *testing.T) {
	c, m, _ := newTestController(t, 50)

	c.SetPlaying(true)
	m.Advance(3 * cadence)
	require.Equal(t, 3, c.Cursor().Index)

	shorter := game.Simulate(game.SimulationParams{WinProbability: 0.5, DecimalOdds: 3, TotalRounds: 2, InitialWealth: 100}, game.NewSeededRNG("short"))
	c.Load(shorter)

	assert.Equal(t, Cursor{Index: 0, Last: 2}, c.Cursor())
	assert.Equal(t, 0, m.Pending())
	m.Advance(10 * cadence)
	assert.Equal(t, 0, c.Cursor().Index)
}

func TestController_ResetStops(t *testing.T) {
	c, m, _ := newTestController(t, 10)

	c.SetPlaying(true)
	m.Advance(2 * cadence)
	c.Reset()

	assert.Equal(t, 0, c.Cursor().Index)
	assert.False(t, c.Cursor().Playing)
	m.Advance(5 * cadence)
	assert.Equal(t, 0, c.Cursor().Index)
}

func TestController_CloseCancels(t *testing.T) {
	c, m, _ := newTestController(t, 10)

	c.SetPlaying(true)
	c.Close()
	m.Advance(5 * cadence)

	assert.Equal(t, 0, c.Cursor().Index)
	assert.Equal(t, 0, m.Pending())
}

func TestController_Current(t *testing.T) {
	c, _, _ := newTestController(t, 3)

	snap, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, 0, snap.Round)

	c.StepForward()
	snap, _ = c.Current()
	assert.Equal(t, 1, snap.Round)
	assert.NotEmpty(t, snap.Outcome)

	empty := NewController(clock.NewScheduler(clock.NewManual(time.Unix(0, 0)), cadence, nil), nil)
	_, ok = empty.Current()
	assert.False(t, ok)
	assert.Nil(t, empty.VisiblePrefix())
}

func TestController_VisiblePrefixDoesNotAliasTrajectory(t *testing.T) {
	c, _, _ := newTestController(t, 5)
	before := append(game.Trajectory(nil), c.Trajectory()...)

	prefix := c.VisiblePrefix()
	require.Len(t, prefix, 1)
	_ = append(prefix, game.RoundSnapshot{Round: 99, FullKelly: -5})

	c.StepForward()
	c.StepForward()
	_ = append(c.VisiblePrefix(), game.RoundSnapshot{Round: 99, FullKelly: -5})

	assert.Equal(t, before, c.Trajectory())
}

func TestController_Interval(t *testing.T) {
	c, _, _ := newTestController(t, 2)
	assert.Equal(t, cadence, c.Interval())
}
