package advisory

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"kellyServer/config"
)

const (
	UnavailableMessage = "Analysis service is temporarily unavailable."
	EmptyMessage       = "Unable to generate an analysis right now."

	recordTimeout = 3 * time.Second
)

// Request carries the simulation parameters the analysis is written for.
type Request struct {
	WinProbability  float64 `json:"winProbability"`
	DecimalOdds     float64 `json:"decimalOdds"`
	OptimalFraction float64 `json:"optimalFraction"`
}

// CacheKey identifies requests that share an analysis.
func (r Request) CacheKey() string {
	return fmt.Sprintf(config.RedisAdvisoryKey, r.WinProbability, r.DecimalOdds)
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Cache stores successful analyses.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Record is one advisory call as written to the audit log.
type Record struct {
	WinProbability  float64   `json:"winProbability" db:"win_probability"`
	DecimalOdds     float64   `json:"decimalOdds" db:"decimal_odds"`
	OptimalFraction float64   `json:"optimalFraction" db:"optimal_fraction"`
	Analysis        string    `json:"analysis" db:"analysis"`
	Cached          bool      `json:"cached" db:"cached"`
	Failed          bool      `json:"failed" db:"failed"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// Recorder persists advisory calls.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Advisor returns an analysis or a fixed fallback string. It never fails.
type Advisor interface {
	Analyze(ctx context.Context, req Request) string
}

// Service is the Advisor backed by a Generator with optional cache and audit log.
type Service struct {
	gen      Generator
	cache    Cache
	recorder Recorder
	timeout  time.Duration
}

type Option func(*Service)

func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

func WithRecorder(r Recorder) Option { return func(s *Service) { s.recorder = r } }

func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

// NewService returns a Service. A nil gen makes every call degrade to
// UnavailableMessage.
func NewService(gen Generator, opts ...Option) *Service {
	s := &Service{gen: gen, timeout: config.DefaultAdvisoryTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Analyze(ctx context.Context, req Request) string {
	key := req.CacheKey()

	if s.cache != nil {
		text, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.WithError(err).Warn("⚠️  Advisory cache lookup failed")
		} else if ok {
			s.record(ctx, req, text, true, false)
			return text
		}
	}

	if s.gen == nil {
		s.record(ctx, req, UnavailableMessage, false, true)
		return UnavailableMessage
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(genCtx, BuildPrompt(req))
	if err != nil {
		log.WithError(err).Warn("⚠️  Advisory generation failed")
		s.record(ctx, req, UnavailableMessage, false, true)
		return UnavailableMessage
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.record(ctx, req, EmptyMessage, false, true)
		return EmptyMessage
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text); err != nil {
			log.WithError(err).Warn("⚠️  Failed to cache advisory")
		}
	}
	s.record(ctx, req, text, false, false)
	return text
}

func (s *Service) record(ctx context.Context, req Request, text string, cached, failed bool) {
	if s.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	err := s.recorder.Record(ctx, Record{
		WinProbability:  req.WinProbability,
		DecimalOdds:     req.DecimalOdds,
		OptimalFraction: req.OptimalFraction,
		Analysis:        text,
		Cached:          cached,
		Failed:          failed,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		log.WithError(err).Warn("⚠️  Failed to record advisory")
	}
}
