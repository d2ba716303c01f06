package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"convert-capacity/internal/logger"

	"golang.org/x/time/rate"
)

// SubgraphClient pages season data out of the bean and field subgraphs.
type SubgraphClient struct {
	BeanURL      string
	FieldURL     string
	FieldAddress string
	BatchSize    int
	Retries      int
	Client       *http.Client

	// Backoff is the pause before retry n (0-based). Defaults to 2^n seconds.
	Backoff func(attempt int) time.Duration

	limiter *rate.Limiter
	cache   *ResponseCache
	log     *logger.Logger
}

// ClientOptions configure a SubgraphClient.
type ClientOptions struct {
	BeanURL           string
	FieldURL          string
	FieldAddress      string
	BatchSize         int
	Retries           int
	RequestsPerSecond float64
	Timeout           time.Duration
	Cache             *ResponseCache
}

// NewSubgraphClient builds a client. Zero options fall back to a page size
// of 1000, three attempts, 10 requests per second and a 30s timeout.
func NewSubgraphClient(opts ClientOptions, log *logger.Logger) *SubgraphClient {
	if log == nil {
		log = logger.Nop()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &SubgraphClient{
		BeanURL:      opts.BeanURL,
		FieldURL:     opts.FieldURL,
		FieldAddress: opts.FieldAddress,
		BatchSize:    opts.BatchSize,
		Retries:      opts.Retries,
		Client:       &http.Client{Timeout: opts.Timeout},
		Backoff: func(attempt int) time.Duration {
			return time.Duration(math.Pow(2, float64(attempt))) * time.Second
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		cache:   opts.Cache,
		log:     log.Component("subgraph"),
	}
}

// SubgraphError represents a failed subgraph request.
type SubgraphError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *SubgraphError) Error() string {
	return e.Message
}

// errRetryable marks failures worth another attempt.
var errRetryable = errors.New("retryable")

const seasonsQuery = `{
  seasons(first: %d, skip: %d, orderBy: season, orderDirection: asc) {
    season
    beanHourlySnapshot {
      twaDeltaB
      twaPrice
      l2sr
    }
  }
}`

const fieldQuery = `{
  fieldHourlySnapshots(
    first: %d,
    skip: %d,
    orderBy: season,
    orderDirection: asc,
    where: {field: "%s"}
  ) {
    season
    podRate
  }
}`

// BeanSnapshot is the per-season price and liquidity observation.
// Nil fields were absent in the subgraph.
type BeanSnapshot struct {
	TwaDeltaB *float64
	TwaPrice  *float64
	L2SR      *float64
}

// number decodes a GraphQL scalar sent either as a JSON number or a string.
type number struct {
	v  float64
	ok bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		n.v, n.ok = f, true
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	n.v, n.ok = f, true
	return nil
}

func (n number) ptr() *float64 {
	if !n.ok {
		return nil
	}
	v := n.v
	return &v
}

type graphResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchSeasons pages every season from the bean subgraph.
func (c *SubgraphClient) FetchSeasons(ctx context.Context) (map[int]BeanSnapshot, error) {
	out := map[int]BeanSnapshot{}
	for skip := 0; ; skip += c.BatchSize {
		var page struct {
			Seasons []struct {
				Season   number `json:"season"`
				Snapshot *struct {
					TwaDeltaB number `json:"twaDeltaB"`
					TwaPrice  number `json:"twaPrice"`
					L2SR      number `json:"l2sr"`
				} `json:"beanHourlySnapshot"`
			} `json:"seasons"`
		}
		q := fmt.Sprintf(seasonsQuery, c.BatchSize, skip)
		if err := c.query(ctx, c.BeanURL, q, &page); err != nil {
			return nil, fmt.Errorf("seasons page skip=%d: %w", skip, err)
		}
		for _, s := range page.Seasons {
			if !s.Season.ok || s.Snapshot == nil {
				continue
			}
			out[int(s.Season.v)] = BeanSnapshot{
				TwaDeltaB: s.Snapshot.TwaDeltaB.ptr(),
				TwaPrice:  s.Snapshot.TwaPrice.ptr(),
				L2SR:      s.Snapshot.L2SR.ptr(),
			}
		}
		c.log.Debugf("fetched %d seasons (skip=%d)", len(page.Seasons), skip)
		if len(page.Seasons) < c.BatchSize {
			break
		}
	}
	c.log.Infof("total seasons from bean subgraph: %d", len(out))
	return out, nil
}

// FetchPodRates pages field snapshots and returns podRate in percent.
func (c *SubgraphClient) FetchPodRates(ctx context.Context) (map[int]float64, error) {
	out := map[int]float64{}
	for skip := 0; ; skip += c.BatchSize {
		var page struct {
			Snapshots []struct {
				Season  number `json:"season"`
				PodRate number `json:"podRate"`
			} `json:"fieldHourlySnapshots"`
		}
		q := fmt.Sprintf(fieldQuery, c.BatchSize, skip, c.FieldAddress)
		if err := c.query(ctx, c.FieldURL, q, &page); err != nil {
			return nil, fmt.Errorf("field page skip=%d: %w", skip, err)
		}
		for _, s := range page.Snapshots {
			if !s.Season.ok || !s.PodRate.ok {
				continue
			}
			out[int(s.Season.v)] = s.PodRate.v * 100
		}
		c.log.Debugf("fetched %d field snapshots (skip=%d)", len(page.Snapshots), skip)
		if len(page.Snapshots) < c.BatchSize {
			break
		}
	}
	c.log.Infof("total field snapshots: %d", len(out))
	return out, nil
}

// FetchAll fetches both subgraphs and joins them on season, keeping
// seasons >= minSeason. Results are served from the cache when one is set.
func (c *SubgraphClient) FetchAll(ctx context.Context, minSeason int) ([]RawSeason, error) {
	key := GenerateCacheKey(c.BeanURL, c.FieldURL, c.FieldAddress, minSeason)
	if cached, ok := c.cache.Get(key); ok {
		c.log.Infof("cache hit: %d seasons", len(cached))
		return cached, nil
	}

	bean, err := c.FetchSeasons(ctx)
	if err != nil {
		return nil, err
	}
	pods, err := c.FetchPodRates(ctx)
	if err != nil {
		return nil, err
	}
	out := MergeSources(bean, pods, minSeason)
	c.cache.Set(key, out)
	return out, nil
}

// MergeSources joins bean snapshots and pod rates over the union of their
// seasons, ascending, dropping seasons below minSeason.
func MergeSources(bean map[int]BeanSnapshot, pods map[int]float64, minSeason int) []RawSeason {
	seen := make(map[int]bool, len(bean)+len(pods))
	seasons := make([]int, 0, len(bean)+len(pods))
	for s := range bean {
		if !seen[s] {
			seen[s] = true
			seasons = append(seasons, s)
		}
	}
	for s := range pods {
		if !seen[s] {
			seen[s] = true
			seasons = append(seasons, s)
		}
	}
	sort.Ints(seasons)

	out := make([]RawSeason, 0, len(seasons))
	for _, s := range seasons {
		if s < minSeason {
			continue
		}
		row := RawSeason{Season: s}
		if b, ok := bean[s]; ok {
			row.TwaDeltaB = b.TwaDeltaB
			row.TwaPrice = b.TwaPrice
			row.L2SR = b.L2SR
		}
		if p, ok := pods[s]; ok {
			v := p
			row.PodRate = &v
		}
		out = append(out, row)
	}
	return out
}

// query posts one GraphQL query and decodes its data into out, retrying
// transport failures, 5xx and 429 responses.
func (c *SubgraphClient) query(ctx context.Context, endpoint, q string, out any) error {
	body, err := json.Marshal(map[string]string{"query": q})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < c.Retries; attempt++ {
		if attempt > 0 {
			wait := c.Backoff(attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		lastErr = c.do(ctx, endpoint, body, out)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, errRetryable) {
			return lastErr
		}
		c.log.WithError(lastErr).Warnf("request failed (attempt %d/%d)", attempt+1, c.Retries)
	}
	return &SubgraphError{
		Code:    "RETRIES_EXHAUSTED",
		Message: fmt.Sprintf("subgraph request failed after %d attempts: %v", c.Retries, lastErr),
	}
}

func (c *SubgraphClient) do(ctx context.Context, endpoint string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	c.log.Debugf("POST %s -> %d (%v)", endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", errRetryable, resp.StatusCode)
	default:
		return &SubgraphError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("subgraph returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", errRetryable, err)
	}
	var gr graphResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(gr.Errors) > 0 {
		return &SubgraphError{
			StatusCode: resp.StatusCode,
			Code:       "GRAPHQL_ERROR",
			Message:    "graphql error: " + gr.Errors[0].Message,
		}
	}
	if len(gr.Data) == 0 || string(gr.Data) == "null" {
		return &SubgraphError{StatusCode: resp.StatusCode, Code: "EMPTY_DATA", Message: "graphql response has no data"}
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
