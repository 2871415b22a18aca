// Package fetcher queries the homework review API.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_bot/internal/failure"
	"homework_bot/internal/model"
)

// DefaultEndpoint is the homework statuses endpoint of the review API.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const maxBodySize = 5 * 1024 * 1024

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher requests homework statuses on behalf of a single user.
type Fetcher struct {
	client   HTTPClient
	endpoint string
	token    string
	now      func() time.Time
}

// New creates a Fetcher that authenticates with the given OAuth token.
func New(client HTTPClient, endpoint, token string) *Fetcher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Fetcher{
		client:   client,
		endpoint: endpoint,
		token:    token,
		now:      time.Now,
	}
}

// Fetch requests statuses changed since fromDate (Unix seconds).
// A zero fromDate means "now".
//
// Non-200 responses and network failures are returned as failure.KindTransport,
// unreadable or non-object bodies as failure.KindDecode.
func (f *Fetcher) Fetch(ctx context.Context, fromDate int64) (model.RawResponse, error) {
	if fromDate == 0 {
		fromDate = f.now().Unix()
	}

	u, err := url.Parse(f.endpoint)
	if err != nil {
		return nil, failure.New(failure.KindTransport, "parse endpoint", err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, failure.New(failure.KindTransport, "create request", err)
	}
	req.Header.Set("Authorization", "OAuth "+f.token)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, failure.New(failure.KindTransport, "http get", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &failure.Error{
			Kind:       failure.KindTransport,
			Op:         "http get",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, failure.New(failure.KindTransport, "read body", err)
	}

	var raw model.RawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, failure.New(failure.KindDecode, "decode body", err)
	}
	if raw == nil {
		return nil, failure.Errorf(failure.KindDecode, "decode body", "response is null")
	}
	return raw, nil
}
