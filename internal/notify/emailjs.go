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

// DefaultEmailJSURL is the EmailJS send endpoint.
const DefaultEmailJSURL = "https://api.emailjs.com/api/v1.0/email/send"

// NotConfiguredMessage is returned to clients when the relay lacks credentials.
const NotConfiguredMessage = "Die E-Mail-Benachrichtigung ist nicht konfiguriert."

// ErrNotConfigured is returned by senders that are missing credentials.
var ErrNotConfigured = errors.New("email notification is not configured")

// Credentials identify an EmailJS service and template.
type Credentials struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
}

// EmailJS sends template emails through the EmailJS REST API.
type EmailJS struct {
	endpoint string
	creds    Credentials
	private  bool
	client   *http.Client
}

// NewRelay creates the server-side sender authenticated with the private key.
func NewRelay(endpoint string, creds Credentials, client *http.Client) *EmailJS {
	return newEmailJS(endpoint, creds, true, client)
}

// NewDirect creates a sender that authenticates with the public key only.
func NewDirect(endpoint string, creds Credentials, client *http.Client) *EmailJS {
	return newEmailJS(endpoint, creds, false, client)
}

func newEmailJS(endpoint string, creds Credentials, private bool, client *http.Client) *EmailJS {
	if endpoint == "" {
		endpoint = DefaultEmailJSURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &EmailJS{endpoint: endpoint, creds: creds, private: private, client: client}
}

// Configured reports whether every credential needed by this sender is set.
func (e *EmailJS) Configured() bool {
	if e.creds.ServiceID == "" || e.creds.TemplateID == "" {
		return false
	}
	if e.private {
		return e.creds.PrivateKey != ""
	}
	return e.creds.PublicKey != ""
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id,omitempty"`
	PublicKey      string            `json:"public_key,omitempty"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send posts the payload to EmailJS. No retries are made.
func (e *EmailJS) Send(ctx context.Context, p Payload) error {
	if !e.Configured() {
		return ErrNotConfigured
	}

	req := emailJSRequest{
		ServiceID:      e.creds.ServiceID,
		TemplateID:     e.creds.TemplateID,
		UserID:         e.creds.PublicKey,
		TemplateParams: p.TemplateParams(),
	}
	if e.private {
		req.AccessToken = e.creds.PrivateKey
	} else {
		req.PublicKey = e.creds.PublicKey
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding emailjs request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating emailjs request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("emailjs request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		text := strings.TrimSpace(string(raw))
		if text != "" {
			return fmt.Errorf("emailjs request failed with %d: %s", resp.StatusCode, text)
		}
		return fmt.Errorf("emailjs request failed with %d", resp.StatusCode)
	}
	return nil
}
