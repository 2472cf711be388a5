package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"kellyServer/advisory"
	"kellyServer/clock"
	"kellyServer/config"
	"kellyServer/crash"
	"kellyServer/game"
	"kellyServer/playback"
)

const eventBufferSize = 256

var ErrClosed = errors.New("session closed")

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Game      config.GameConfig
	Clock     clock.Clock
	Advisor   advisory.Advisor
	Publish   func(Update)
	NewRandom func() (game.RandomSource, string)
}

// Session is one user's simulator, playback and crash game. All state is
// owned by the goroutine running Run; public methods post events to it.
type Session struct {
	id     string
	opts   Options
	events chan func()
	done   chan struct{}
	ctx    context.Context

	params  game.SimulationParams
	metrics game.KellyMetrics
	seed    string
	summary game.Summary

	player      *playback.Controller
	engine      *crash.Engine
	crashTarget float64

	advisory    AdvisoryView
	advisoryGen uint64
}

// New builds a session and generates its first trajectory from the
// configured default parameters.
func New(opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.NewRandom == nil {
		opts.NewRandom = game.NewRandomSource
	}
	if opts.Publish == nil {
		opts.Publish = func(Update) {}
	}

	s := &Session{
		id:     uuid.NewString(),
		opts:   opts,
		events: make(chan func(), eventBufferSize),
		done:   make(chan struct{}),
		ctx:    context.Background(),
		params: game.SimulationParams{
			WinProbability: opts.Game.DefaultWinProbability,
			DecimalOdds:    opts.Game.DefaultDecimalOdds,
			TotalRounds:    opts.Game.DefaultTotalRounds,
			InitialWealth:  opts.Game.InitialWealth,
		},
		crashTarget: opts.Game.DefaultTarget,
	}

	dispatch := func(f func()) { s.post(f) }

	s.player = playback.NewController(
		clock.NewScheduler(opts.Clock, opts.Game.PlaybackInterval, dispatch),
		func(playback.Cursor) { s.publish(TypePlayback, s.playbackView()) },
	)

	rng, _ := opts.NewRandom()
	s.engine = crash.NewEngine(crash.ConfigFrom(opts.Game), opts.Clock, dispatch, rng, s.onCrashFrame)

	s.generate("")
	return s
}

func (s *Session) ID() string { return s.id }

// Run processes events until ctx is cancelled, then cancels the playback
// timer and the crash frame loop.
func (s *Session) Run(ctx context.Context) {
	s.ctx = ctx
	defer func() {
		s.player.Close()
		s.engine.Close()
		close(s.done)
		log.WithField("session", s.id).Debug("🔌 Session closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case f := <-s.events:
			f()
		}
	}
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) post(f func()) bool {
	select {
	case s.events <- f:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) publish(typ string, data any) {
	s.opts.Publish(Update{Type: typ, Data: data})
}

func (s *Session) fail(err error) {
	s.publish(TypeError, ErrorView{Message: err.Error()})
}

/* =========================
   SIMULATION + PLAYBACK
========================= */

// SetParams validates p, regenerates the trajectory and clears the analysis.
// A zero InitialWealth keeps the current one.
func (s *Session) SetParams(p game.SimulationParams) {
	s.post(func() {
		if p.InitialWealth == 0 {
			p.InitialWealth = s.params.InitialWealth
		}
		if err := game.ValidateParams(p, s.opts.Game.MaxTotalRounds); err != nil {
			s.fail(err)
			return
		}
		s.params = p
		s.advisoryGen++
		s.advisory = AdvisoryView{}
		s.generate("")
		s.publish(TypeAdvisory, s.advisory)
	})
}

// Generate draws a new trajectory for the current parameters. An empty seed
// uses fresh randomness.
func (s *Session) Generate(seed string) {
	s.post(func() { s.generate(seed) })
}

func (s *Session) generate(seed string) {
	var rng game.RandomSource
	if seed != "" {
		rng = game.NewSeededRNG(seed)
	} else {
		rng, seed = s.opts.NewRandom()
	}

	s.metrics = game.ComputeMetrics(s.params.WinProbability, s.params.DecimalOdds)
	traj := game.Simulate(s.params, rng)
	s.seed = seed
	s.summary = game.Summarize(traj)
	s.player.Load(traj)

	s.publish(TypeTrajectory, s.trajectoryView())
	s.publish(TypePlayback, s.playbackView())
}

func (s *Session) Play() {
	s.post(func() {
		s.player.SetPlaying(true)
		s.publish(TypePlayback, s.playbackView())
	})
}

func (s *Session) Pause() {
	s.post(func() {
		s.player.SetPlaying(false)
		s.publish(TypePlayback, s.playbackView())
	})
}

func (s *Session) Step() {
	s.post(func() {
		s.player.StepForward()
		s.publish(TypePlayback, s.playbackView())
	})
}

func (s *Session) Reset() {
	s.post(func() {
		s.player.Reset()
		s.publish(TypePlayback, s.playbackView())
	})
}

func (s *Session) trajectoryView() TrajectoryView {
	return TrajectoryView{
		Params:     s.params,
		Metrics:    s.metrics,
		Trajectory: s.player.Trajectory(),
		Summary:    s.summary,
		Seed:       s.seed,
	}
}

func (s *Session) playbackView() PlaybackView {
	v := PlaybackView{
		Cursor:     s.player.Cursor(),
		IntervalMs: s.player.Interval().Milliseconds(),
	}
	if snap, ok := s.player.Current(); ok {
		v.Current = &snap
	}
	return v
}

/* =========================
   CRASH GAME
========================= */

// StartCrash begins a crash round. Rejections are published as errors and
// change nothing.
func (s *Session) StartCrash(bet decimal.Decimal, target float64) {
	s.post(func() {
		if err := s.engine.Start(bet, target); err != nil {
			s.fail(err)
			return
		}
		s.crashTarget = target
		s.publish(TypeCrash, s.engine.State())
		s.publish(TypeCrashAdvice, s.crashAdvice())
	})
}

// SetCrashTarget recomputes the Kelly advice for a new cash-out target.
func (s *Session) SetCrashTarget(target float64) {
	s.post(func() {
		if target <= 1 {
			s.fail(game.ErrInvalidTarget)
			return
		}
		s.crashTarget = target
		s.publish(TypeCrashAdvice, s.crashAdvice())
	})
}

func (s *Session) onCrashFrame(state crash.State) {
	s.publish(TypeCrash, state)
	if state.Phase == game.PhaseRunning {
		return
	}
	s.publish(TypeCrashHistory, s.engine.History())
	s.publish(TypeCrashAdvice, s.crashAdvice())
}

func (s *Session) crashAdvice() CrashAdviceView {
	return CrashAdviceView{Target: s.crashTarget, CrashAdvice: s.engine.Advice(s.crashTarget)}
}

/* =========================
   ADVISORY
========================= */

// RequestAdvisory asks the advisor about the current parameters without
// blocking the session. Results for outdated parameters are dropped.
func (s *Session) RequestAdvisory() {
	s.post(func() {
		s.advisoryGen++
		gen := s.advisoryGen
		s.advisory = AdvisoryView{Pending: true}
		s.publish(TypeAdvisory, s.advisory)

		req := advisory.Request{
			WinProbability:  s.params.WinProbability,
			DecimalOdds:     s.params.DecimalOdds,
			OptimalFraction: s.metrics.OptimalFraction,
		}
		advisor := s.opts.Advisor
		ctx := s.ctx

		go func() {
			text := advisory.UnavailableMessage
			if advisor != nil {
				text = advisor.Analyze(ctx, req)
			}
			s.post(func() {
				if gen != s.advisoryGen {
					return
				}
				s.advisory = AdvisoryView{Text: text}
				s.publish(TypeAdvisory, s.advisory)
			})
		}()
	})
}

/* =========================
   SNAPSHOT
========================= */

// RequestState publishes the full session state.
func (s *Session) RequestState() {
	s.post(func() { s.publish(TypeSession, s.snapshot()) })
}

// Snapshot returns the full session state.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if !s.post(func() { reply <- s.snapshot() }) {
		return Snapshot{}, ErrClosed
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-s.done:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:           s.id,
		Trajectory:   s.trajectoryView(),
		Playback:     s.playbackView(),
		Crash:        s.engine.State(),
		CrashHistory: s.engine.History(),
		CrashAdvice:  s.crashAdvice(),
		Advisory:     s.advisory,
	}
}
