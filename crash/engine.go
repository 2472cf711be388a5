package crash

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"kellyServer/clock"
	"kellyServer/config"
	"kellyServer/game"
)

var ErrEngineClosed = errors.New("crash engine closed")

// Config holds the crash game tuning.
type Config struct {
	HouseEdgeFactor  float64
	HistoryLimit     int
	Curve            game.Curve
	FrameInterval    time.Duration
	StartingBankroll decimal.Decimal
}

// ConfigFrom builds the engine settings from the game config.
func ConfigFrom(g config.GameConfig) Config {
	return Config{
		HouseEdgeFactor:  g.HouseEdgeFactor,
		HistoryLimit:     g.CrashHistoryLimit,
		Curve:            game.Curve{Quadratic: g.CurveQuadratic, Linear: g.CurveLinear},
		FrameInterval:    g.FrameInterval,
		StartingBankroll: decimal.NewFromFloat(g.StartingBankroll),
	}
}

// State is the player-visible view of the engine.
type State struct {
	Phase      game.CrashPhase       `json:"phase"`
	Multiplier float64               `json:"multiplier"`
	Bankroll   decimal.Decimal       `json:"bankroll"`
	Bet        decimal.Decimal       `json:"bet"`
	Target     float64               `json:"target"`
	CrashPoint *float64              `json:"crashPoint,omitempty"` // only once resolved
	Result     *game.CrashResolution `json:"result,omitempty"`
	ElapsedMs  int64                 `json:"elapsedMs"`
}

// Engine runs crash rounds for one player. It owns the bankroll, the current
// round, the frame scheduler and the bounded history.
//
// An Engine is not safe for concurrent use. The dispatch passed to NewEngine
// must deliver frames to the goroutine that calls its methods.
type Engine struct {
	cfg     Config
	clock   clock.Clock
	frames  *clock.Scheduler
	rng     game.RandomSource
	history *History

	bankroll decimal.Decimal
	round    game.CrashRound
	result   *game.CrashResolution
	closed   bool

	onUpdate func(State)
}

// NewEngine returns an IDLE engine. onUpdate, when set, is called after
// every frame, including the one that resolves the round.
func NewEngine(cfg Config, c clock.Clock, dispatch clock.Dispatch, rng game.RandomSource, onUpdate func(State)) *Engine {
	return &Engine{
		cfg:      cfg,
		clock:    c,
		frames:   clock.NewScheduler(c, cfg.FrameInterval, dispatch),
		rng:      rng,
		history:  NewHistory(cfg.HistoryLimit),
		bankroll: cfg.StartingBankroll,
		round:    game.CrashRound{Phase: game.PhaseIdle, Multiplier: 1.0},
		onUpdate: onUpdate,
	}
}

// Start deducts the bet, samples a hidden crash point and begins ticking.
// A rejected start leaves the engine untouched.
func (e *Engine) Start(bet decimal.Decimal, target float64) error {
	if e.closed {
		return ErrEngineClosed
	}
	if err := game.ValidateStart(e.round.Phase, e.bankroll, bet, target); err != nil {
		return err
	}

	crashPoint := game.SampleCrashPoint(e.rng.Float64(), e.cfg.HouseEdgeFactor)

	e.bankroll = e.bankroll.Sub(bet)
	e.round = game.NewCrashRound(bet, target, crashPoint, e.clock.Now())
	e.result = nil
	e.frames.Next(e.frame)

	log.WithFields(log.Fields{
		"bet":    bet.String(),
		"target": target,
	}).Debug("🚀 Crash round started")
	return nil
}

func (e *Engine) frame() {
	if e.round.Phase != game.PhaseRunning {
		return
	}

	elapsed := e.clock.Now().Sub(e.round.StartedAt)
	next, res := e.round.Advance(elapsed, e.cfg.Curve)
	e.round = next

	if res == nil {
		e.frames.Next(e.frame)
	} else {
		e.resolve(*res)
	}

	if e.onUpdate != nil {
		e.onUpdate(e.state(elapsed))
	}
}

func (e *Engine) resolve(res game.CrashResolution) {
	e.bankroll = e.bankroll.Add(res.Payout)
	e.result = &res

	entry := e.history.Add(game.CrashHistoryEntry{
		CrashPoint: e.round.CrashPoint,
		Target:     e.round.Target,
		Bet:        e.round.Bet,
		Profit:     res.Profit,
		Result:     res.Result,
	})

	log.WithFields(log.Fields{
		"round":      entry.ID,
		"result":     res.Result,
		"crashPoint": e.round.CrashPoint,
		"profit":     res.Profit.String(),
		"history":    e.history.Len(),
	}).Debug("💥 Crash round resolved")
}

// State returns the current view. The crash point is revealed only after
// the round resolved.
func (e *Engine) State() State {
	var elapsed time.Duration
	if e.round.Phase == game.PhaseRunning {
		elapsed = e.clock.Now().Sub(e.round.StartedAt)
	}
	return e.state(elapsed)
}

func (e *Engine) state(elapsed time.Duration) State {
	s := State{
		Phase:      e.round.Phase,
		Multiplier: e.round.Multiplier,
		Bankroll:   e.bankroll,
		Bet:        e.round.Bet,
		Target:     e.round.Target,
		Result:     e.result,
		ElapsedMs:  elapsed.Milliseconds(),
	}
	if e.round.Phase == game.PhaseCrashed || e.round.Phase == game.PhaseCashed {
		cp := e.round.CrashPoint
		s.CrashPoint = &cp
	}
	return s
}

func (e *Engine) Bankroll() decimal.Decimal { return e.bankroll }

func (e *Engine) Phase() game.CrashPhase { return e.round.Phase }

// History returns resolved rounds, newest first.
func (e *Engine) History() []game.CrashHistoryEntry { return e.history.Entries() }

// Advice runs the Kelly advisor for target against the current bankroll.
func (e *Engine) Advice(target float64) game.CrashAdvice {
	return game.AnalyzeCrashTarget(target, e.bankroll, e.cfg.HouseEdgeFactor)
}

// Close cancels the pending frame. A round still RUNNING is abandoned: it is
// not resolved and its stake stays deducted.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.frames.Cancel()

	if e.round.Phase == game.PhaseRunning {
		log.WithFields(log.Fields{
			"stake":      e.round.Bet.String(),
			"target":     e.round.Target,
			"multiplier": e.round.Multiplier,
		}).Warn("⚠️  Crash engine closed with a running round, stake forfeited")
	}
}
