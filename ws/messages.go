package ws

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Message types from client
const (
	MsgSetParams   = "set_params"
	MsgGenerate    = "generate"
	MsgPlay        = "play"
	MsgPause       = "pause"
	MsgStep        = "step"
	MsgReset       = "reset"
	MsgCrashStart  = "crash_start"
	MsgCrashTarget = "crash_target"
	MsgAdvisory    = "advisory"
	MsgState       = "state"
)

// ClientMessage is one inbound frame. Data is decoded per type.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type generateData struct {
	Seed string `json:"seed"`
}

type crashStartData struct {
	Bet    decimal.Decimal `json:"bet"`
	Target float64         `json:"target"`
}

type crashTargetData struct {
	Target float64 `json:"target"`
}
