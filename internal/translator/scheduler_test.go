package translator

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gearbase/uitranslator/internal/glossary"
	"github.com/gearbase/uitranslator/internal/store"
)

// recordingProvider captures every batch handed to the provider.
type recordingProvider struct {
	mu      sync.Mutex
	batches [][]string
	langs   []string
}

func (r *recordingProvider) TranslateMany(ctx context.Context, texts []string, lang string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := make([]string, len(texts))
	copy(batch, texts)
	r.batches = append(r.batches, batch)
	r.langs = append(r.langs, lang)
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = "[" + lang + "] " + t
	}
	return out, nil
}

func (r *recordingProvider) TranslateOne(ctx context.Context, text string, lang string) (string, error) {
	out, err := r.TranslateMany(ctx, []string{text}, lang)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

func newTestScheduler(t *testing.T, p *recordingProvider, maxBatchSize int) (*batchScheduler, *int) {
	t.Helper()
	db, err := store.Init(filepath.Join(t.TempDir(), "translations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := newBatchScheduler(p, glossary.NewDefault(), store.NewTranslationRepo(db),
		NewMemoryCache(), "test-model", maxBatchSize, 3*time.Second, zap.NewNop())
	sleeps := 0
	s.sleep = func(time.Duration) { sleeps++ }
	return s, &sleeps
}

func TestSchedulerSplitsOversizedRounds(t *testing.T) {
	p := &recordingProvider{}
	s, _ := newTestScheduler(t, p, 2)

	// Build the whole queue before the drain loop starts.
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	var chans []<-chan map[string]string
	for _, text := range []string{"One", "Two", "Three"} {
		chans = append(chans, s.enqueue([]string{text}, "pt"))
	}
	go s.drain()

	for _, ch := range chans {
		<-ch
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	require.Len(t, p.batches, 2)
	assert.Equal(t, []string{"One", "Two"}, p.batches[0])
	assert.Equal(t, []string{"Three"}, p.batches[1])
}

func TestSchedulerGroupsRoundsByLanguage(t *testing.T) {
	p := &recordingProvider{}
	s, _ := newTestScheduler(t, p, 20)

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	ptFirst := s.enqueue([]string{"Save"}, "pt")
	fr := s.enqueue([]string{"Save"}, "fr")
	ptSecond := s.enqueue([]string{"Cancel"}, "pt")
	go s.drain()

	<-ptFirst
	<-fr
	<-ptSecond

	p.mu.Lock()
	defer p.mu.Unlock()
	require.Len(t, p.batches, 3, "a round never mixes target languages")
	assert.Equal(t, []string{"pt", "fr", "pt"}, p.langs)
}

func TestSchedulerDeduplicatesTextsAcrossItems(t *testing.T) {
	p := &recordingProvider{}
	s, _ := newTestScheduler(t, p, 20)

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	first := s.enqueue([]string{"Hello"}, "pt")
	second := s.enqueue([]string{"Hello", "World"}, "pt")
	go s.drain()

	r1 := <-first
	r2 := <-second

	p.mu.Lock()
	require.Len(t, p.batches, 1)
	assert.Equal(t, []string{"Hello", "World"}, p.batches[0], "shared text sent once")
	p.mu.Unlock()

	assert.Equal(t, r1["Hello"], r2["Hello"])
	assert.Equal(t, "[pt] World", r2["World"])
}

func TestSchedulerDelayAfterEveryRound(t *testing.T) {
	p := &recordingProvider{}
	s, sleeps := newTestScheduler(t, p, 1)

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	a := s.enqueue([]string{"One"}, "pt")
	b := s.enqueue([]string{"Two"}, "pt")
	go s.drain()

	<-a
	<-b
	// Let the loop observe the empty queue and exit.
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return !s.running
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 2, *sleeps, "the pause follows every round, including the last")
}

func TestSchedulerRestartsAfterQueueDrains(t *testing.T) {
	p := &recordingProvider{}
	s, _ := newTestScheduler(t, p, 20)

	<-s.enqueue([]string{"One"}, "pt")
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return !s.running
	}, 2*time.Second, 10*time.Millisecond)

	// A fresh enqueue after the loop exited must start a new one.
	select {
	case r := <-s.enqueue([]string{"Two"}, "pt"):
		assert.Equal(t, "[pt] Two", r["Two"])
	case <-time.After(5 * time.Second):
		t.Fatal("drain loop did not restart")
	}
}
