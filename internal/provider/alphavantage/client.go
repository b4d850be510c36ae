// Package alphavantage fetches intraday FX bars from the AlphaVantage
// FX_INTRADAY endpoint in CSV form.
package alphavantage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"fx-signal-bot/internal/model"
)

const (
	defaultBaseURL  = "https://www.alphavantage.co/query"
	defaultInterval = "1min"
	fetchTimeout    = 30 * time.Second
)

// Config configures the AlphaVantage client.
type Config struct {
	APIKey   string
	BaseURL  string // default: https://www.alphavantage.co/query
	Interval string // bar interval, default "1min"
}

// Client is a model.Source backed by the AlphaVantage FX_INTRADAY API.
// One invocation makes exactly one outbound call, with no caching and no
// retry; transient failures surface immediately to the caller.
type Client struct {
	apiKey   string
	baseURL  string
	interval string
	client   *http.Client
}

// New creates an AlphaVantage client with defaults applied.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Interval == "" {
		cfg.Interval = defaultInterval
	}
	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  cfg.BaseURL,
		interval: cfg.Interval,
		client: &http.Client{
			Timeout: fetchTimeout,
		},
	}
}

// FetchSeries requests the most recent compact window of intraday bars
// (about 100) and returns them sorted ascending by timestamp.
//
// AlphaVantage reports rate limits and errors inside a 200 response, so
// the body is screened for an error payload before CSV parsing.
func (c *Client) FetchSeries(ctx context.Context, pair model.Pair) ([]model.PricePoint, error) {
	q := url.Values{}
	q.Set("function", "FX_INTRADAY")
	q.Set("from_symbol", pair.Base)
	q.Set("to_symbol", pair.Quote)
	q.Set("interval", c.interval)
	q.Set("datatype", "csv")
	q.Set("outputsize", "compact")
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &model.ProviderError{Op: "request", Cause: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &model.ProviderError{Op: "fetch", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.ProviderError{Op: "read", Cause: err}
	}
	if err := screenPayload(body); err != nil {
		return nil, &model.ProviderError{Op: "payload", Cause: err}
	}

	points, err := parseSeries(body)
	if err != nil {
		return nil, &model.ProviderError{Op: "decode", Cause: err}
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].TS.Before(points[j].TS)
	})
	return points, nil
}

// screenPayload rejects error and rate-limit bodies, which arrive as a
// JSON object or carry a "Note"/"Error" marker instead of tabular data.
func screenPayload(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return errors.New("empty response")
	}
	if trimmed[0] == '{' || bytes.Contains(trimmed, []byte("Note")) || bytes.Contains(trimmed, []byte("Error")) {
		return fmt.Errorf("error or rate limit: %s", snippet(trimmed))
	}
	return nil
}

func snippet(b []byte) string {
	if len(b) > 200 {
		b = b[:200]
	}
	return string(b)
}

// parseSeries decodes "timestamp,open,high,low,close" rows into price
// points, keeping only the bar time and close.
func parseSeries(body []byte) ([]model.PricePoint, error) {
	rows, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.New("no data rows")
	}

	tsIdx, closeIdx := -1, -1
	for i, col := range rows[0] {
		switch strings.TrimSpace(col) {
		case "timestamp":
			tsIdx = i
		case "close":
			closeIdx = i
		}
	}
	if tsIdx < 0 || closeIdx < 0 {
		return nil, fmt.Errorf("unexpected header %v", rows[0])
	}

	points := make([]model.PricePoint, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= tsIdx || len(row) <= closeIdx {
			return nil, fmt.Errorf("short row %v", row)
		}
		ts, err := time.ParseInLocation("2006-01-02 15:04:05", strings.TrimSpace(row[tsIdx]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", row[tsIdx], err)
		}
		closeV, err := strconv.ParseFloat(strings.TrimSpace(row[closeIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad close %q: %w", row[closeIdx], err)
		}
		if closeV < 0 {
			return nil, fmt.Errorf("negative close %v", closeV)
		}
		points = append(points, model.PricePoint{TS: ts, Close: closeV})
	}
	return points, nil
}
