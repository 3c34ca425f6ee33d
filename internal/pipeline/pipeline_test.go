package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-risk/internal/model"
)

type chanSource struct {
	addrs chan string
	errs  chan error
	once  sync.Once
}

func newChanSource() *chanSource {
	return &chanSource{addrs: make(chan string, 100), errs: make(chan error, 10)}
}

func (s *chanSource) Start() error { return nil }

func (s *chanSource) Stop() error {
	s.once.Do(func() {
		close(s.addrs)
		close(s.errs)
	})
	return nil
}

func (s *chanSource) Addresses() <-chan string { return s.addrs }
func (s *chanSource) Errors() <-chan error     { return s.errs }

type fakeAnalyzer struct {
	mu       sync.Mutex
	inFlight map[string]int
	overlap  bool
}

func (a *fakeAnalyzer) AnalyzeReport(_ context.Context, address string) (*model.RiskReport, error) {
	key := strings.ToLower(address)
	a.mu.Lock()
	if a.inFlight == nil {
		a.inFlight = map[string]int{}
	}
	a.inFlight[key]++
	if a.inFlight[key] > 1 {
		a.overlap = true
	}
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.inFlight[key]--
		a.mu.Unlock()
	}()

	switch {
	case strings.HasPrefix(address, "0xbad"):
		return nil, errors.New("analysis failed")
	case strings.HasPrefix(address, "0xpanic"):
		panic("boom")
	}
	time.Sleep(time.Millisecond)
	return &model.RiskReport{RiskRecord: model.RiskRecord{Contract: address, RiskScore: 70}}, nil
}

type collectingPublisher struct {
	mu      sync.Mutex
	reports []*model.RiskReport
	started bool
	stopped bool
}

func (p *collectingPublisher) Start() error { p.started = true; return nil }
func (p *collectingPublisher) Stop() error  { p.stopped = true; return nil }

func (p *collectingPublisher) Submit(report *model.RiskReport) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, report)
	return true
}

func TestPipelineProcessesAllAddresses(t *testing.T) {
	src := newChanSource()
	pub := &collectingPublisher{}
	analyzer := &fakeAnalyzer{}
	p := NewPipeline(analyzer, src, pub, Config{Workers: 3})
	require.NoError(t, p.Start())
	assert.True(t, pub.started)

	for i := 0; i < 10; i++ {
		src.addrs <- "0xAAA"
		src.addrs <- "0xaaa"
		src.addrs <- "0xbbb"
	}
	src.addrs <- "  "
	src.addrs <- "0xbad1"
	src.addrs <- "0xpanic"
	src.errs <- errors.New("source hiccup")

	require.NoError(t, p.Stop())
	assert.True(t, pub.stopped)

	assert.Len(t, pub.reports, 30)
	assert.False(t, analyzer.overlap, "same contract analysed concurrently")

	stats := p.GetStats()
	assert.Equal(t, int64(30), stats.Processed)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(1), stats.SourceErrors)

	require.NoError(t, p.Stop())
}

func TestPipelineDefaults(t *testing.T) {
	p := NewPipeline(&fakeAnalyzer{}, newChanSource(), &collectingPublisher{}, Config{})
	assert.Equal(t, DefaultWorkers, p.config.Workers)
	assert.Equal(t, DefaultAnalyzeTimeout, p.config.AnalyzeTimeout)
}
