package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-risk/internal/model"
)

type stubWatchRepo struct {
	mu      sync.Mutex
	due     []*model.WatchToken
	before  []time.Time
	marked  []string
	listErr error
}

func (r *stubWatchRepo) ListDue(_ context.Context, before time.Time, limit int) ([]*model.WatchToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.before = append(r.before, before)
	if r.listErr != nil {
		return nil, r.listErr
	}
	due := r.due
	if len(due) > limit {
		due = due[:limit]
	}
	r.due = r.due[len(due):]
	return due, nil
}

func (r *stubWatchRepo) MarkScanned(_ context.Context, contracts []string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marked = append(r.marked, contracts...)
	return nil
}

func (r *stubWatchRepo) Upsert(context.Context, string) error { return nil }

func (r *stubWatchRepo) snapshot() ([]string, []time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.marked...), append([]time.Time(nil), r.before...)
}

func TestSourceConfigDefaults(t *testing.T) {
	c := SourceConfig{}.withDefaults()
	assert.Equal(t, DefaultQueryInterval, c.QueryInterval)
	assert.Equal(t, 30*time.Minute, c.RescanInterval)
	assert.Equal(t, DefaultBatchSize, c.BatchSize)
}

func TestSourceEmitsDueTokensAndMarksThem(t *testing.T) {
	store := &stubWatchRepo{due: []*model.WatchToken{{Contract: "0xaaa"}, {Contract: "0xbbb"}, {Contract: "0xccc"}}}
	s := NewSource(SourceConfig{QueryInterval: 10 * time.Millisecond, RescanInterval: time.Hour, BatchSize: 2}, store)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Start(context.Background()))

	var got []string
	for len(got) < 3 {
		select {
		case addr := <-s.Subscribe():
			got = append(got, addr)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, got %v", got)
		}
	}
	require.NoError(t, s.Stop())

	assert.Equal(t, []string{"0xaaa", "0xbbb", "0xccc"}, got)
	marked, before := s.repo.(*stubWatchRepo).snapshot()
	assert.ElementsMatch(t, got, marked)
	require.NotEmpty(t, before)
	assert.Equal(t, now.Add(-time.Hour), before[0])
}

func TestSourceReportsQueryErrors(t *testing.T) {
	store := &stubWatchRepo{listErr: errors.New("db down")}
	s := NewSource(SourceConfig{QueryInterval: time.Hour}, store)
	require.NoError(t, s.Start(context.Background()))

	select {
	case err := <-s.Errors():
		assert.Contains(t, err.Error(), "db down")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error")
	}
	require.NoError(t, s.Stop())
	assert.Error(t, s.Start(context.Background()), "restart")
}

func TestStopWithoutStart(t *testing.T) {
	s := NewSource(SourceConfig{}, &stubWatchRepo{})
	assert.NoError(t, s.Stop())
}
