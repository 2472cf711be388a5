package config

import "time"

/* =========================
   KELLY SIMULATION
========================= */

const (
	DefaultWinProbability = 0.60
	DefaultDecimalOdds    = 2.0
	DefaultTotalRounds    = 100
	DefaultInitialWealth  = 1000.0
	MaxTotalRounds        = 10000

	// Playback advances one round per interval while playing
	PlaybackInterval = 200 * time.Millisecond
)

/* =========================
   GAME MECHANICS - CRASH
========================= */

const (
	// 1% house edge: P(crash >= m) = HouseEdgeFactor / m
	HouseEdgeFactor = 0.99

	// Multiplier curve m(t) = 1 + CurveQuadratic*t^2 + CurveLinear*t, t in seconds
	CurveQuadratic = 0.1
	CurveLinear    = 0.5

	// One animation frame (~60fps)
	FrameInterval = 16 * time.Millisecond

	MaxCrashHistory    = 10
	StartingBankroll   = 1000.0
	DefaultCrashBet    = 50.0
	DefaultCrashTarget = 2.0
)

/* =========================
   ADVISORY SERVICE
========================= */

const (
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultAdvisoryTimeout = 20 * time.Second

	// Cached advisory text TTL
	// Key: advisory:{winProbability}:{decimalOdds}
	DefaultAdvisoryCacheTTL = 1 * time.Hour
	RedisAdvisoryKey        = "advisory:%.4f:%.4f"

	RecentAdvisoryLimit    = 20
	MaxRecentAdvisoryLimit = 200
)

/* =========================
   API CONFIGURATION
========================= */

const (
	DefaultServerAddr = "0.0.0.0:8080"
	ShutdownTimeout   = 10 * time.Second
)

/* =========================
   WEBSOCKET CONFIGURATION
========================= */

const (
	WSReadDeadline  = 60 * time.Second
	WSWriteDeadline = 10 * time.Second
	WSPingInterval  = 30 * time.Second

	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
	WSSendBufferSize  = 256

	MaxMessageSize = 512 * 1024 // 512KB
)
