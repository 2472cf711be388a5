package session

import (
	"kellyServer/crash"
	"kellyServer/game"
	"kellyServer/playback"
)

// Update types published to the client.
const (
	TypeSession      = "session"
	TypeTrajectory   = "trajectory"
	TypePlayback     = "playback"
	TypeCrash        = "crash"
	TypeCrashHistory = "crash_history"
	TypeCrashAdvice  = "crash_advice"
	TypeAdvisory     = "advisory"
	TypeError        = "error"
)

// Update is one state change pushed to the session's consumer.
type Update struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type TrajectoryView struct {
	Params     game.SimulationParams `json:"params"`
	Metrics    game.KellyMetrics     `json:"metrics"`
	Trajectory game.Trajectory       `json:"trajectory"`
	Summary    game.Summary          `json:"summary"`
	Seed       string                `json:"seed"`
}

type PlaybackView struct {
	Cursor     playback.Cursor     `json:"cursor"`
	Current    *game.RoundSnapshot `json:"current,omitempty"`
	IntervalMs int64               `json:"intervalMs"`
}

type CrashAdviceView struct {
	Target float64 `json:"target"`
	game.CrashAdvice
}

type AdvisoryView struct {
	Text    string `json:"text"`
	Pending bool   `json:"pending"`
}

type ErrorView struct {
	Message string `json:"message"`
}

// Snapshot is the full state of a session.
type Snapshot struct {
	ID           string                   `json:"id"`
	Trajectory   TrajectoryView           `json:"trajectory"`
	Playback     PlaybackView             `json:"playback"`
	Crash        crash.State              `json:"crash"`
	CrashHistory []game.CrashHistoryEntry `json:"crashHistory"`
	CrashAdvice  CrashAdviceView          `json:"crashAdvice"`
	Advisory     AdvisoryView             `json:"advisory"`
}
