// Package provider wraps the external machine-translation HTTP API. It
// owns credential rotation with per-key rate and quota limits, bounded
// request timeouts, and the normalization of every failure into a single
// Error type.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Client performs translation calls against the MT provider.
type Client interface {
	// TranslateMany translates texts into lang, returning translations
	// positionally aligned with the input.
	TranslateMany(ctx context.Context, texts []string, lang string) ([]string, error)

	// TranslateOne translates a single text into lang.
	TranslateOne(ctx context.Context, text string, lang string) (string, error)
}

// Credential is one API key with its throughput limits.
type Credential struct {
	Key               string
	RequestsPerMinute int
	DailyQuota        int
}

// Config holds the settings for the HTTP client.
type Config struct {
	Endpoint    string
	AuthScheme  string // e.g. "DeepL-Auth-Key"
	Timeout     time.Duration
	Credentials []Credential
}

// DefaultConfig returns a config with the free-tier endpoint and limits.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "https://api-free.deepl.com/v2/translate",
		AuthScheme: "DeepL-Auth-Key",
		Timeout:    30 * time.Second,
	}
}

// HTTPClient is the production Client implementation.
type HTTPClient struct {
	config     Config
	pool       *credentialPool
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

// New creates the HTTP provider client. It fails with ErrNoCredentials
// when no credential carries a key; every other failure mode is
// per-request.
func New(config Config, logger *zap.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	var creds []*credential
	for _, c := range config.Credentials {
		if c.Key == "" {
			continue
		}
		rpm := c.RequestsPerMinute
		var interval time.Duration
		if rpm > 0 {
			interval = time.Minute / time.Duration(rpm)
		}
		creds = append(creds, &credential{
			key:         c.Key,
			minInterval: interval,
			dailyQuota:  c.DailyQuota,
		})
	}
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "mt-provider",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("provider circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &HTTPClient{
		config:     config,
		pool:       newCredentialPool(creds, logger),
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    breaker,
		logger:     logger,
	}, nil
}

type translateRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// TranslateOne translates a single string.
func (c *HTTPClient) TranslateOne(ctx context.Context, text string, lang string) (string, error) {
	out, err := c.TranslateMany(ctx, []string{text}, lang)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// TranslateMany performs one provider call for the given texts. The
// returned slice is positionally aligned with the input.
func (c *HTTPClient) TranslateMany(ctx context.Context, texts []string, lang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	key, err := c.pool.acquire(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.exchange(ctx, key, texts, lang)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, newError(CodeBreakerOpen, "provider circuit open", err)
		}
		var perr *Error
		if errors.As(err, &perr) {
			return nil, perr
		}
		return nil, newError(CodeNetwork, err.Error(), err)
	}

	translations := result.([]string)
	c.logger.Debug("provider call completed",
		zap.Int("texts", len(texts)),
		zap.String("targetLang", lang),
		zap.Duration("elapsed", time.Since(start)))
	return translations, nil
}

func (c *HTTPClient) exchange(ctx context.Context, key string, texts []string, lang string) ([]string, error) {
	body, err := json.Marshal(translateRequest{
		Text:       texts,
		TargetLang: normalizeTargetLang(lang),
	})
	if err != nil {
		return nil, newError(CodeBadRequest, "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, newError(CodeBadRequest, "create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.config.AuthScheme+" "+key)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, newError(CodeTimeout, "provider call timed out", err)
		}
		return nil, newError(CodeNetwork, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp)
	}

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, newError(CodeBadResponse, "decode response", err)
	}
	if len(decoded.Translations) != len(texts) {
		return nil, newError(CodeBadResponse,
			fmt.Sprintf("expected %d translations, got %d", len(texts), len(decoded.Translations)), nil)
	}

	out := make([]string, len(decoded.Translations))
	for i, t := range decoded.Translations {
		out[i] = t.Text
	}
	return out, nil
}

func (c *HTTPClient) statusError(resp *http.Response) *Error {
	var msg errorResponse
	if data, err := io.ReadAll(resp.Body); err == nil {
		_ = json.Unmarshal(data, &msg)
	}
	if msg.Message == "" {
		msg.Message = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return newError(CodeBadRequest, msg.Message, nil)
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return newError(CodeAuth, msg.Message, nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return newError(CodeRateLimited, msg.Message, nil)
	case resp.StatusCode == 456: // provider-specific quota status
		return newError(CodeQuota, msg.Message, nil)
	case resp.StatusCode >= 500:
		return newError(CodeServerError, msg.Message, nil)
	default:
		return newError(CodeBadResponse, msg.Message, nil)
	}
}

// normalizeTargetLang converts any accepted language spelling into the
// uppercase code the provider expects.
func normalizeTargetLang(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToUpper(lang)
	}
	return strings.ToUpper(tag.String())
}
