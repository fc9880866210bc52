package translator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gearbase/uitranslator/internal/glossary"
	"github.com/gearbase/uitranslator/internal/provider"
	"github.com/gearbase/uitranslator/internal/store"
)

// queueItem is one caller's batch of texts awaiting resolution. The
// result map is keyed by source text; it always resolves, with the
// source text itself standing in when the provider fails.
type queueItem struct {
	texts  []string
	lang   string
	result chan map[string]string
}

// batchScheduler coalesces queued requests into size-bounded provider
// calls spaced by a minimum inter-batch delay. Exactly one drain loop is
// active while the queue is non-empty; concurrent enqueues never spawn a
// second one.
type batchScheduler struct {
	provider provider.Client
	glossary *glossary.Glossary
	repo     Store
	cache    *MemoryCache
	logger   *zap.Logger

	model        string
	maxBatchSize int
	delay        time.Duration
	sleep        func(time.Duration) // stubbed in tests

	mu      sync.Mutex
	queue   []*queueItem
	running bool
}

func newBatchScheduler(p provider.Client, g *glossary.Glossary, repo Store, cache *MemoryCache,
	model string, maxBatchSize int, delay time.Duration, logger *zap.Logger,
) *batchScheduler {
	if maxBatchSize <= 0 {
		maxBatchSize = 20
	}
	return &batchScheduler{
		provider:     p,
		glossary:     g,
		repo:         repo,
		cache:        cache,
		logger:       logger,
		model:        model,
		maxBatchSize: maxBatchSize,
		delay:        delay,
		sleep:        time.Sleep,
	}
}

// enqueue appends a request and starts the drain loop when none is
// running. The returned channel receives exactly one result map.
func (s *batchScheduler) enqueue(texts []string, lang string) <-chan map[string]string {
	item := &queueItem{
		texts:  texts,
		lang:   lang,
		result: make(chan map[string]string, 1),
	}

	s.mu.Lock()
	s.queue = append(s.queue, item)
	start := !s.running
	if start {
		s.running = true
	}
	s.mu.Unlock()

	if start {
		go s.drain()
	}
	return item.result
}

// drain is the single worker loop: one provider round per iteration,
// then the inter-batch delay, until the queue is empty.
func (s *batchScheduler) drain() {
	for {
		items, texts, lang := s.nextRound()
		if len(items) == 0 {
			return
		}

		s.processRound(items, texts, lang)

		// The pause applies after every round, success or failure, to
		// respect provider throughput.
		s.sleep(s.delay)
	}
}

// nextRound pops queue items for one provider call: items of a single
// target language, until the distinct-text cap is reached or the queue
// drains. An empty round clears the running flag before returning, under
// the same lock that enqueue checks, so no wakeup is lost.
func (s *batchScheduler) nextRound() (items []*queueItem, distinct []string, lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		s.running = false
		return nil, nil, ""
	}

	lang = s.queue[0].lang
	seen := make(map[string]struct{})
	rest := s.queue[:0]
	for i, item := range s.queue {
		if item.lang != lang || len(seen) >= s.maxBatchSize {
			rest = append(rest, s.queue[i:]...)
			break
		}
		items = append(items, item)
		for _, t := range item.texts {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			distinct = append(distinct, t)
		}
	}
	s.queue = rest
	return items, distinct, lang
}

// processRound performs one provider call and fans the shared result out
// to every collected item. Duplicate texts across and within items
// resolve to the same string.
func (s *batchScheduler) processRound(items []*queueItem, texts []string, lang string) {
	roundID := uuid.New().String()[:8]
	s.logger.Debug("translation round starting",
		zap.String("round", roundID),
		zap.Int("items", len(items)),
		zap.Int("distinctTexts", len(texts)),
		zap.String("targetLang", lang))

	ctx := context.Background()
	translated, err := s.provider.TranslateMany(ctx, texts, lang)

	resolved := make(map[string]string, len(texts))
	if err != nil {
		// Soft failure: every caller gets its original text back, and
		// nothing is cached or persisted, so the next request retries.
		s.logger.Warn("provider round failed, falling back to source text",
			zap.String("round", roundID),
			zap.Int("texts", len(texts)),
			zap.Error(err))
		for _, t := range texts {
			resolved[t] = t
		}
	} else {
		records := make([]*store.TranslationRecord, 0, len(texts))
		for i, t := range texts {
			out := s.glossary.Apply(translated[i], lang)
			resolved[t] = out
			s.cache.Set(cacheKey(lang, t), out)
			records = append(records, &store.TranslationRecord{
				SourceText:     t,
				TargetLang:     lang,
				TranslatedText: out,
				Model:          s.model,
			})
		}
		// A failed write never blocks serving the value from memory.
		if err := s.repo.BulkInsert(ctx, records); err != nil {
			s.logger.Error("failed to persist translations",
				zap.String("round", roundID),
				zap.Int("records", len(records)),
				zap.Error(err))
		}
		s.logger.Debug("translation round completed",
			zap.String("round", roundID),
			zap.Int("texts", len(texts)))
	}

	for _, item := range items {
		itemResult := make(map[string]string, len(item.texts))
		for _, t := range item.texts {
			if v, ok := resolved[t]; ok {
				itemResult[t] = v
			} else {
				itemResult[t] = t
			}
		}
		item.result <- itemResult
	}
}
