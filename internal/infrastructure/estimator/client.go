package estimator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"weld_quote/internal/domain/entities"
	"weld_quote/internal/usecase/interfaces"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second
)

// Config for an OpenAI-compatible chat/completions endpoint.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	RatePerMinute int
	Temperature   float64
}

// ConfigFromEnv reads LLM_API_KEY, LLM_BASE_URL, LLM_MODEL, LLM_TIMEOUT and LLM_RATE_PER_MINUTE.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:        strings.TrimSpace(os.Getenv("LLM_API_KEY")),
		BaseURL:       getenvDefault("LLM_BASE_URL", defaultBaseURL),
		Model:         getenvDefault("LLM_MODEL", defaultModel),
		Timeout:       defaultTimeout,
		RatePerMinute: 30,
		Temperature:   0.2,
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			log.Printf("[estimator][config] invalid LLM_TIMEOUT=%q, using %s", v, defaultTimeout)
		}
	}
	if v := os.Getenv("LLM_RATE_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RatePerMinute = n
		}
	}
	return cfg
}

// Client is the external estimator adapter. Every failure comes back as *Failure.
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter *rate.Limiter
}

var _ interfaces.IExternalEstimator = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	limit := rate.Inf
	burst := 1
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
		burst = cfg.RatePerMinute
	}
	return &Client{
		cfg: cfg,
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout),
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *Client) Estimate(ctx context.Context, job entities.JobSpec, local entities.PriceRange) (entities.ExternalEstimate, error) {
	rid := uuid.NewString()
	start := time.Now()

	out, err := c.estimate(ctx, job, local)
	if err != nil {
		log.Printf("[estimator][llm] failed req_id=%s kind=%s elapsed_ms=%d err=%v", rid, KindOf(err), time.Since(start).Milliseconds(), err)
		return entities.ExternalEstimate{}, err
	}
	log.Printf("[estimator][llm] ok req_id=%s min=%d max=%d metrics=%t elapsed_ms=%d",
		rid, out.Range.Min, out.Range.Max, out.Metrics != nil, time.Since(start).Milliseconds())
	return out, nil
}

func (c *Client) estimate(ctx context.Context, job entities.JobSpec, local entities.PriceRange) (entities.ExternalEstimate, error) {
	if c.cfg.APIKey == "" {
		return entities.ExternalEstimate{}, fail(KindMissingCredentials, errors.New("LLM_API_KEY is not set"))
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return entities.ExternalEstimate{}, fail(KindRateLimited, err)
	}

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userContent(job, local)},
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		if isTimeout(err) {
			return entities.ExternalEstimate{}, fail(KindTimeout, err)
		}
		return entities.ExternalEstimate{}, fail(KindTransport, err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return entities.ExternalEstimate{}, &Failure{
			Kind:       KindHTTPStatus,
			StatusCode: code,
			Err:        fmt.Errorf("body: %s", truncate(resp.String(), 300)),
		}
	}

	content, err := messageContent(resp.Body())
	if err != nil {
		return entities.ExternalEstimate{}, err
	}
	return ParseReply(content)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
