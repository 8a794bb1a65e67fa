// Package algolia queries the hosted search index the catalog is mirrored
// into. Only the query endpoint is used; indexing happens on the backend.
package algolia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	appID      string
	apiKey     string
	index      string
	perPage    int
	baseURL    string
	httpClient *http.Client
}

func NewClient(appID, apiKey, index string, perPage int) *Client {
	if perPage <= 0 {
		perPage = 20
	}
	return &Client{
		appID:      appID,
		apiKey:     apiKey,
		index:      index,
		perPage:    perPage,
		baseURL:    "https://" + strings.ToLower(appID) + "-dsn.algolia.net",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the client at another host (replicas, tests).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

type queryReq struct {
	Params string `json:"params"`
}

type queryResp struct {
	Hits    []map[string]any `json:"hits"`
	NbHits  int              `json:"nbHits"`
	Page    int              `json:"page"`
	NbPages int              `json:"nbPages"`
}

// Query returns the raw hits of one result page, in ranking order.
func (c *Client) Query(ctx context.Context, text string, page int) ([]map[string]any, error) {
	if c.appID == "" || c.apiKey == "" {
		return nil, errors.New("search credentials missing")
	}
	if page < 0 {
		page = 0
	}
	params := url.Values{}
	params.Set("query", text)
	params.Set("hitsPerPage", strconv.Itoa(c.perPage))
	params.Set("page", strconv.Itoa(page))
	buf, err := json.Marshal(queryReq{Params: params.Encode()})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/1/indexes/" + url.PathEscape(c.index) + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Algolia-Application-Id", c.appID)
	req.Header.Set("X-Algolia-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		var apiErr struct {
			Message string `json:"message"`
			Status  int    `json:"status"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("search status %d: %s", res.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("search status %d: %s", res.StatusCode, string(body))
	}
	var qr queryResp
	if err := json.NewDecoder(res.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("search response: %w", err)
	}
	if qr.Hits == nil {
		qr.Hits = []map[string]any{}
	}
	return qr.Hits, nil
}
