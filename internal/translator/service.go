// Package translator implements the translation resolution pipeline:
// classifier pre-filter, two-tier cache, in-flight deduplication, batch
// scheduling against the MT provider, glossary correction, and permanent
// persistence. All state lives on the Service instance; there are no
// package-level mutables.
package translator

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gearbase/uitranslator/internal/classifier"
	"github.com/gearbase/uitranslator/internal/glossary"
	"github.com/gearbase/uitranslator/internal/provider"
	"github.com/gearbase/uitranslator/internal/store"
)

// Store is the durable-store surface the pipeline needs. Satisfied by
// *store.TranslationRepo.
type Store interface {
	FindExact(ctx context.Context, text, lang string) (*store.TranslationRecord, error)
	FindBySet(ctx context.Context, texts []string, lang string) (map[string]string, error)
	BulkInsert(ctx context.Context, recs []*store.TranslationRecord) error
	All(ctx context.Context) ([]*store.TranslationRecord, error)
	Count(ctx context.Context) (int64, error)
	CountByLang(ctx context.Context) ([]store.LangCount, error)
}

// Options configures a Service.
type Options struct {
	Provider provider.Client
	Store    Store
	Glossary *glossary.Glossary // defaults to the built-in rules
	Logger   *zap.Logger        // defaults to a no-op logger

	SourceLang      string // language translation is skipped for, default "en"
	Model           string // recorded on persisted translations
	MaxBatchSize    int    // distinct texts per provider call, default 20
	InterBatchDelay time.Duration
}

// Service is the caller-facing translation resolver.
type Service struct {
	cache     *MemoryCache
	pending   *pendingMap
	scheduler *batchScheduler
	repo      Store
	logger    *zap.Logger

	sourceLang string

	preloadMu sync.Mutex
	preloaded bool
}

// CacheStats describes the volatile cache.
type CacheStats struct {
	Size    int
	Pending int
}

// StoreStats describes the durable store.
type StoreStats struct {
	Total  int64
	ByLang []store.LangCount
}

// NewService builds the pipeline around the given provider and store.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Glossary == nil {
		opts.Glossary = glossary.NewDefault()
	}
	if opts.SourceLang == "" {
		opts.SourceLang = "en"
	}

	cache := NewMemoryCache()
	return &Service{
		cache:   cache,
		pending: newPendingMap(),
		scheduler: newBatchScheduler(opts.Provider, opts.Glossary, opts.Store, cache,
			opts.Model, opts.MaxBatchSize, opts.InterBatchDelay, opts.Logger),
		repo:       opts.Store,
		logger:     opts.Logger,
		sourceLang: opts.SourceLang,
	}
}

// TranslateText resolves one string. Provider and persistence failures
// are never surfaced: the worst outcome is the source text returned
// unchanged. The returned error is non-nil only when ctx is done before
// resolution completes, and the source text accompanies it.
func (s *Service) TranslateText(ctx context.Context, text, lang string) (string, error) {
	if !s.needsTranslation(text, lang) {
		return text, nil
	}

	key := cacheKey(lang, text)

	// L1: in-memory map, fastest path.
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	// Dedup: join an in-flight resolution when one exists.
	pr, created := s.pending.getOrCreate(key)
	if !created {
		select {
		case <-ctx.Done():
			return text, ctx.Err()
		case <-pr.done:
		}
		if pr.err != nil {
			return text, nil
		}
		return pr.value, nil
	}

	value, err := s.resolve(ctx, text, lang)
	s.pending.settle(key, pr, value, err)
	if err != nil {
		if ctx.Err() != nil {
			return text, err
		}
		return text, nil
	}
	return value, nil
}

// resolve performs the L2 lookup and, on a miss, the scheduler round
// trip for a single text. Only the registering caller runs this.
func (s *Service) resolve(ctx context.Context, text, lang string) (string, error) {
	existing, err := s.repo.FindExact(ctx, text, lang)
	if err != nil {
		s.logger.Error("durable-store lookup failed", zap.Error(err))
	} else if existing != nil {
		s.cache.Set(cacheKey(lang, text), existing.TranslatedText)
		return existing.TranslatedText, nil
	}

	select {
	case <-ctx.Done():
		return text, ctx.Err()
	case result := <-s.scheduler.enqueue([]string{text}, lang):
		return result[text], nil
	}
}

// TranslateBatch resolves many strings positionally. Duplicate inputs
// resolve to the same output. Like TranslateText, it degrades to source
// text rather than failing.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, lang string) ([]string, error) {
	results := make([]string, len(texts))
	copy(results, texts)
	if lang == "" || strings.EqualFold(lang, s.sourceLang) || len(texts) == 0 {
		return results, nil
	}

	missing := s.fillFromCache(results, texts, lang)
	if len(missing) == 0 {
		return results, nil
	}

	still := s.fillFromStore(ctx, results, texts, missing, lang)
	if len(still) == 0 {
		return results, nil
	}

	select {
	case <-ctx.Done():
		return results, ctx.Err()
	case resolved := <-s.scheduler.enqueue(still, lang):
		for i, t := range texts {
			if v, ok := resolved[t]; ok {
				results[i] = v
			}
		}
	}
	return results, nil
}

// ProgressiveBatch is the live result of TranslateBatchProgressive.
// Snapshot may be called at any time while the background fill runs;
// once Done closes it returns the fully resolved results.
type ProgressiveBatch struct {
	mu      sync.Mutex
	results []string
	done    chan struct{}
}

// Snapshot returns a copy of the current results: cache hits and
// already-resolved texts translated, unresolved positions still holding
// the source text.
func (b *ProgressiveBatch) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.results))
	copy(out, b.results)
	return out
}

// Done closes when every miss has been resolved.
func (b *ProgressiveBatch) Done() <-chan struct{} { return b.done }

func (b *ProgressiveBatch) merge(results []string) {
	b.mu.Lock()
	copy(b.results, results)
	b.mu.Unlock()
}

// TranslateBatchProgressive returns immediately with cache hits filled
// in and source text standing in for misses, then resolves the misses
// in the background. Callers observe progress through Snapshot; the
// positions fill in as rounds complete.
func (s *Service) TranslateBatchProgressive(ctx context.Context, texts []string, lang string) *ProgressiveBatch {
	b := &ProgressiveBatch{
		results: make([]string, len(texts)),
		done:    make(chan struct{}),
	}
	copy(b.results, texts)

	if lang == "" || strings.EqualFold(lang, s.sourceLang) || len(texts) == 0 {
		close(b.done)
		return b
	}

	// No concurrent reader exists until this function returns, so the
	// initial cache fill can write the slice directly.
	missing := s.fillFromCache(b.results, texts, lang)
	if len(missing) == 0 {
		close(b.done)
		return b
	}

	go func() {
		defer close(b.done)
		scratch := b.Snapshot()
		still := s.fillFromStore(ctx, scratch, texts, missing, lang)
		b.merge(scratch)
		if len(still) == 0 {
			return
		}
		select {
		case <-ctx.Done():
		case resolved := <-s.scheduler.enqueue(still, lang):
			for i, t := range texts {
				if v, ok := resolved[t]; ok {
					scratch[i] = v
				}
			}
			b.merge(scratch)
		}
	}()
	return b
}

// TranslateVisible applies the classifier before translating: text that
// should not be translated (user data, identifiers, dates) is returned
// unchanged without touching cache or provider.
func (s *Service) TranslateVisible(ctx context.Context, text string, elCtx classifier.ElementContext, lang string) (string, error) {
	if !classifier.ShouldTranslate(text, elCtx) {
		return text, nil
	}
	return s.TranslateText(ctx, text, lang)
}

// Preload bulk-loads every durable record into the volatile cache. Runs
// at most once per process; later calls are no-ops.
func (s *Service) Preload(ctx context.Context) error {
	s.preloadMu.Lock()
	defer s.preloadMu.Unlock()
	if s.preloaded {
		return nil
	}

	records, err := s.repo.All(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		s.cache.Set(cacheKey(rec.TargetLang, rec.SourceText), rec.TranslatedText)
	}
	s.preloaded = true
	s.logger.Info("preloaded translations into memory", zap.Int("count", len(records)))
	return nil
}

// ClearCache drops the volatile map only; durable data is untouched.
// Maintenance operation, not part of normal request flow.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info("in-memory translation cache cleared")
}

// Reset drops the volatile map and re-arms Preload. Test and
// maintenance hook.
func (s *Service) Reset() {
	s.preloadMu.Lock()
	s.preloaded = false
	s.preloadMu.Unlock()
	s.cache.Clear()
}

// Stats reports volatile-cache statistics.
func (s *Service) Stats() CacheStats {
	return CacheStats{Size: s.cache.Len(), Pending: s.pending.size()}
}

// StoreStatistics reports durable-store statistics.
func (s *Service) StoreStatistics(ctx context.Context) (StoreStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return StoreStats{}, err
	}
	byLang, err := s.repo.CountByLang(ctx)
	if err != nil {
		return StoreStats{}, err
	}
	return StoreStats{Total: total, ByLang: byLang}, nil
}

func (s *Service) needsTranslation(text, lang string) bool {
	if lang == "" || strings.EqualFold(lang, s.sourceLang) {
		return false
	}
	return strings.TrimSpace(text) != ""
}

// fillFromCache copies cache hits into results and returns the distinct
// texts that missed.
func (s *Service) fillFromCache(results []string, texts []string, lang string) []string {
	var missing []string
	seen := make(map[string]struct{})
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if cached, ok := s.cache.Get(cacheKey(lang, t)); ok {
			results[i] = cached
			continue
		}
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			missing = append(missing, t)
		}
	}
	return missing
}

// fillFromStore resolves misses against the durable store in one query,
// fills cache and results for hits, and returns the texts still missing.
func (s *Service) fillFromStore(ctx context.Context, results []string, texts []string, missing []string, lang string) []string {
	found, err := s.repo.FindBySet(ctx, missing, lang)
	if err != nil {
		s.logger.Error("durable-store batch lookup failed",
			zap.Int("texts", len(missing)), zap.Error(err))
		return missing
	}

	var still []string
	for _, t := range missing {
		if _, ok := found[t]; !ok {
			still = append(still, t)
		}
	}
	if len(found) > 0 {
		for t, v := range found {
			s.cache.Set(cacheKey(lang, t), v)
		}
		for i, t := range texts {
			if v, ok := found[t]; ok {
				results[i] = v
			}
		}
	}
	return still
}
