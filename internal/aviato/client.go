// Package aviato is the client for the Aviato company/person data API.
package aviato

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"prospector/internal/common/config"
	stderrors "prospector/internal/common/errors"
	"prospector/internal/common/httpclient"
	"prospector/internal/common/logger"
	"prospector/internal/pacing"
)

const snippetLimit = 500

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.Client
	log        logger.Logger

	// Shared pacers, one per upstream surface.
	companyPacer *pacing.Pacer
	contactPacer *pacing.Pacer
	retryPolicy  pacing.Policy
}

func NewClient(cfg config.AviatoConfig, log logger.Logger) *Client {
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   httpclient.NewClient(cfg.Timeout()),
		log:          log.WithFields(map[string]interface{}{"component": "aviato"}),
		companyPacer: pacing.NewPacer(cfg.CompanyPacing()),
		contactPacer: pacing.NewPacer(cfg.ContactPacing()),
		retryPolicy:  pacing.DefaultPolicy(),
	}
}

// get performs one GET attempt and classifies the outcome: transport errors
// stay raw (retryable), 429 maps to a retryable StandardError, any other
// non-200 maps to a terminal one.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, stderrors.NewUpstreamThrottledError(path)
	case resp.StatusCode != http.StatusOK:
		return nil, stderrors.NewUpstreamRejectedError(resp.StatusCode, snippet(body))
	}

	return body, nil
}

// post performs one POST attempt with a JSON payload, same classification as get.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, stderrors.NewUpstreamThrottledError(path)
	case resp.StatusCode != http.StatusOK:
		return nil, stderrors.NewUpstreamRejectedError(resp.StatusCode, snippet(body))
	}

	return body, nil
}

func snippet(body []byte) string {
	if len(body) > snippetLimit {
		return string(body[:snippetLimit])
	}
	return string(body)
}
