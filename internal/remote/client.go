// Package remote fetches note collections from an HTTP endpoint.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"notebox/internal/notes"
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient targets baseURL; notes are read from <baseURL>/notes.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchNotes GETs the remote collection. Any failure is a *notes.FetchError.
func (c *Client) FetchNotes(ctx context.Context) ([]notes.Note, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/notes", nil)
	if err != nil {
		return nil, &notes.FetchError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &notes.FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &notes.FetchError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &notes.FetchError{Err: fmt.Errorf("read body: %w", err)}
	}

	fetched, err := notes.DecodeNotes(body)
	if err != nil {
		return nil, &notes.FetchError{Err: err}
	}
	return fetched, nil
}
