// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

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
)

// ErrorBody is the JSON error shape of the notification endpoint.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// EndpointClient posts payloads to a remote notification endpoint and falls
// back to a direct EmailJS send when that endpoint reports it is not
// configured.
type EndpointClient struct {
	url      string
	fallback *EmailJS
	client   *http.Client
}

// NewEndpointClient creates a client for url. fallback may be nil.
func NewEndpointClient(url string, fallback *EmailJS, client *http.Client) *EndpointClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &EndpointClient{url: url, fallback: fallback, client: client}
}

// Send posts p to the endpoint.
func (c *EndpointClient) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("Contact notification failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	text := strings.TrimSpace(string(raw))
	errBody := parseErrorBody(text)

	if errBody != nil && errBody.Error == NotConfiguredMessage && c.fallback != nil && c.fallback.Configured() {
		return c.fallback.Send(ctx, p)
	}

	return fmt.Errorf("Contact notification failed: %s", formatErrorMessage(resp.StatusCode, errBody, text))
}

func parseErrorBody(raw string) *ErrorBody {
	if raw == "" {
		return nil
	}
	var body ErrorBody
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return nil
	}
	return &body
}

func formatErrorMessage(status int, body *ErrorBody, raw string) string {
	if body != nil && body.Error != "" {
		if body.Details != "" {
			return body.Error + ": " + body.Details
		}
		return body.Error
	}
	if raw != "" {
		return fmt.Sprintf("Status %d: %s", status, raw)
	}
	return fmt.Sprintf("Status %d", status)
}

// FallbackSender tries Primary and uses Fallback only when Primary is not
// configured.
type FallbackSender struct {
	Primary  Sender
	Fallback Sender
}

// Send delivers p through the first configured sender.
func (s FallbackSender) Send(ctx context.Context, p Payload) error {
	err := s.Primary.Send(ctx, p)
	if errors.Is(err, ErrNotConfigured) && s.Fallback != nil {
		return s.Fallback.Send(ctx, p)
	}
	return err
}
