package advisory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text    string
	err     error
	block   bool
	calls   int
	prompts []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.text, g.err
}

type memCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

type memRecorder struct {
	records []Record
	err     error
}

func (r *memRecorder) Record(_ context.Context, rec Record) error {
	r.records = append(r.records, rec)
	return r.err
}

var req = Request{WinProbability: 0.6, DecimalOdds: 2.0, OptimalFraction: 0.2}

func TestService_Success(t *testing.T) {
	gen := &stubGenerator{text: "  Worth playing at 20%.  "}
	cache := newMemCache()
	rec := &memRecorder{}
	s := NewService(gen, WithCache(cache), WithRecorder(rec))

	got := s.Analyze(context.Background(), req)
	assert.Equal(t, "Worth playing at 20%.", got)
	assert.Equal(t, "Worth playing at 20%.", cache.data[req.CacheKey()])

	require.Len(t, rec.records, 1)
	assert.False(t, rec.records[0].Failed)
	assert.False(t, rec.records[0].Cached)
	assert.Equal(t, 0.2, rec.records[0].OptimalFraction)
}

func TestService_CacheHitSkipsGenerator(t *testing.T) {
	gen := &stubGenerator{text: "fresh"}
	cache := newMemCache()
	cache.data[req.CacheKey()] = "cached analysis"
	rec := &memRecorder{}
	s := NewService(gen, WithCache(cache), WithRecorder(rec))

	assert.Equal(t, "cached analysis", s.Analyze(context.Background(), req))
	assert.Equal(t, 0, gen.calls)
	require.Len(t, rec.records, 1)
	assert.True(t, rec.records[0].Cached)
}

func TestService_GeneratorErrorDegrades(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	cache := newMemCache()
	rec := &memRecorder{}
	s := NewService(gen, WithCache(cache), WithRecorder(rec))

	assert.Equal(t, UnavailableMessage, s.Analyze(context.Background(), req))
	assert.Empty(t, cache.data)
	require.Len(t, rec.records, 1)
	assert.True(t, rec.records[0].Failed)
}

func TestService_EmptyResponse(t *testing.T) {
	s := NewService(&stubGenerator{text: "   "})
	assert.Equal(t, EmptyMessage, s.Analyze(context.Background(), req))
}

func TestService_Timeout(t *testing.T) {
	s := NewService(&stubGenerator{block: true}, WithTimeout(10*time.Millisecond))

	start := time.Now()
	assert.Equal(t, UnavailableMessage, s.Analyze(context.Background(), req))
	assert.Less(t, time.Since(start), time.Second)
}

func TestService_NilGenerator(t *testing.T) {
	assert.Equal(t, UnavailableMessage, NewService(nil).Analyze(context.Background(), req))
}

func TestService_BackendFailuresIgnored(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	rec := &memRecorder{err: errors.New("postgres down")}
	s := NewService(&stubGenerator{text: "ok"}, WithCache(cache), WithRecorder(rec))

	assert.Equal(t, "ok", s.Analyze(context.Background(), req))
}

func TestRequest_CacheKeyRounds(t *testing.T) {
	a := Request{WinProbability: 0.60000001, DecimalOdds: 2.0}
	b := Request{WinProbability: 0.6, DecimalOdds: 2.00000002}
	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.Equal(t, "advisory:0.6000:2.0000", b.CacheKey())
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(req)
	assert.Contains(t, p, "Win rate: 60.0%")
	assert.Contains(t, p, "Decimal odds: 2.00 (net odds b = 1.00)")
	assert.Contains(t, p, "Kelly fraction (f*): 20.00%")
	assert.Contains(t, p, "about 3 sentences")

	neg := BuildPrompt(Request{WinProbability: 0.4, DecimalOdds: 2.0, OptimalFraction: -0.2})
	assert.Contains(t, neg, "-20.00%")
	assert.Contains(t, neg, "should not play")
}
