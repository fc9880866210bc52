package provider

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// credential tracks one API key with its own per-minute cooldown and
// daily quota counters.
type credential struct {
	key         string
	minInterval time.Duration // 60s / requests-per-minute
	dailyQuota  int

	usedToday int
	day       string // UTC date the counter belongs to
	lastUsed  time.Time
}

func (c *credential) remaining(now time.Time) int {
	if day := now.UTC().Format("2006-01-02"); day != c.day {
		// Counters roll over on the UTC date change.
		c.day = day
		c.usedToday = 0
	}
	if c.dailyQuota <= 0 {
		return 1 << 30 // unlimited
	}
	return c.dailyQuota - c.usedToday
}

func (c *credential) cooldownUntil() time.Time {
	return c.lastUsed.Add(c.minInterval)
}

// credentialPool selects which key performs the next call. Selection
// prefers the credential with the most remaining daily quota among those
// outside their cooldown window; when every candidate with quota left is
// cooling down, the caller waits for the soonest one rather than
// switching mid-call.
type credentialPool struct {
	mu     sync.Mutex
	creds  []*credential
	logger *zap.Logger
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

func newCredentialPool(creds []*credential, logger *zap.Logger) *credentialPool {
	return &credentialPool{
		creds:  creds,
		logger: logger,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// acquire reserves a credential for one request, blocking through its
// cooldown window when necessary. It returns an exhaustion Error when no
// credential has daily quota left.
func (p *credentialPool) acquire(ctx context.Context) (string, error) {
	for {
		p.mu.Lock()
		now := p.now()

		var best *credential
		var bestCooling *credential
		for _, c := range p.creds {
			if c.remaining(now) <= 0 {
				continue
			}
			if now.Before(c.cooldownUntil()) {
				if bestCooling == nil || c.remaining(now) > bestCooling.remaining(now) {
					bestCooling = c
				}
				continue
			}
			if best == nil || c.remaining(now) > best.remaining(now) {
				best = c
			}
		}

		if best != nil {
			best.usedToday++
			best.lastUsed = now
			p.mu.Unlock()
			return best.key, nil
		}

		if bestCooling == nil {
			p.mu.Unlock()
			p.logger.Warn("all provider credentials exhausted for today")
			return "", newError(CodeExhausted, "all credentials reached their daily quota", nil)
		}

		wait := bestCooling.cooldownUntil().Sub(now)
		p.mu.Unlock()

		p.logger.Debug("credential cooling down, waiting",
			zap.Duration("wait", wait))
		if err := p.sleep(ctx, wait); err != nil {
			return "", newError(CodeTimeout, "cancelled while waiting for credential cooldown", err)
		}
	}
}
