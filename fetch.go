package pubcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// error bodies are truncated; they exist for diagnostics, not consumption
const errBodyLimit = 2 << 10

type fetchResult struct {
	notModified bool
	payload     []byte
	token       string
}

// fetchRemote performs one conditional GET against the published-document
// endpoint. When priorToken is present it is sent via If-None-Match so the
// server may answer 304 instead of resending the payload. Non-2xx, non-304
// statuses are hard failures; there is no retry at this layer.
func (cl *client[V]) fetchRemote(ctx context.Context, priorToken string) (fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.url, nil)
	if err != nil {
		return fetchResult{}, fmt.Errorf("pubcache: build request: %w", err)
	}
	req.Header.Set("Accept", cl.accept)
	if priorToken != "" {
		req.Header.Set("If-None-Match", priorToken)
	}

	resp, err := cl.http.Do(req)
	if err != nil {
		return fetchResult{}, fmt.Errorf("pubcache: fetch %s: %w", cl.url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		token := resp.Header.Get("ETag")
		if token == "" {
			// the server is implicitly confirming the token we sent
			token = priorToken
		}
		return fetchResult{notModified: true, token: token}, nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fetchResult{}, fmt.Errorf("pubcache: read body: %w", err)
		}
		return fetchResult{payload: body, token: resp.Header.Get("ETag")}, nil

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return fetchResult{}, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(b)),
		}
	}
}
