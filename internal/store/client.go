// Package store persists scraped records to a Supabase project over its
// PostgREST API. The destination is treated as an opaque table store:
// inserts append rows, updates patch by id, and nothing here owns schema.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client talks to one Supabase project's REST endpoint.
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a store client. baseURL is the project URL
// (https://<project>.supabase.co); key is sent as both the apikey header
// and the bearer token, as PostgREST expects.
func NewClient(baseURL, key string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		key:        key,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Insert appends rows to a table in a single batched write. rows may be a
// single record or a slice; PostgREST accepts both shapes.
func (c *Client) Insert(ctx context.Context, table string, rows any) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode insert for %s: %w", table, err)
	}
	return c.do(ctx, http.MethodPost, c.tableURL(table, nil), body)
}

// Update patches the row with the given id. Only one row can match: id is
// the table's primary key.
func (c *Client) Update(ctx context.Context, table, id string, row any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode update for %s: %w", table, err)
	}
	q := url.Values{"id": {"eq." + id}}
	return c.do(ctx, http.MethodPatch, c.tableURL(table, q), body)
}

// SelectIDs fetches the full set of ids present in a table.
func (c *Client) SelectIDs(ctx context.Context, table string) (map[string]struct{}, error) {
	q := url.Values{"select": {"id"}}
	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, c.tableURL(table, q), &rows); err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		ids[r.ID] = struct{}{}
	}
	return ids, nil
}

// LatestRecencyMarker returns the last_update value of the most recently
// inserted row, ordered by insertion timestamp descending. ok is false when
// the table is empty.
func (c *Client) LatestRecencyMarker(ctx context.Context, table string) (marker string, ok bool, err error) {
	q := url.Values{
		"select": {"last_update"},
		"order":  {"timestamp.desc"},
		"limit":  {"1"},
	}
	var rows []struct {
		LastUpdate string `json:"last_update"`
	}
	if err := c.get(ctx, c.tableURL(table, q), &rows); err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].LastUpdate, true, nil
}

func (c *Client) tableURL(table string, q url.Values) string {
	u := c.baseURL + "/rest/v1/" + table
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// do issues a write request and checks for a 2xx response.
func (c *Client) do(ctx context.Context, method, fullURL string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	// Row echoes are unused; keep responses small.
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store %s %s: %w", method, fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("store %s %s: status %d: %s", method, fullURL, resp.StatusCode, snippet)
	}
	return nil
}

// get issues a read request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store GET %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("store GET %s: status %d: %s", fullURL, resp.StatusCode, snippet)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode store response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
}
