// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify delivers contact form submissions through EmailJS, either
// via the server-side relay or directly with the public key.
package notify

import (
	"context"
	"strings"
)

// Sender delivers a contact notification.
type Sender interface {
	Send(ctx context.Context, p Payload) error
}

// Payload is a contact form submission.
type Payload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// PayloadError reports an invalid field of a Payload.
type PayloadError struct {
	Field   string
	Message string
}

func (e *PayloadError) Error() string {
	return e.Message
}

// Normalize returns a copy with surrounding whitespace removed.
func (p Payload) Normalize() Payload {
	return Payload{
		Name:    strings.TrimSpace(p.Name),
		Email:   strings.TrimSpace(p.Email),
		Phone:   strings.TrimSpace(p.Phone),
		Subject: strings.TrimSpace(p.Subject),
		Message: strings.TrimSpace(p.Message),
	}
}

// Validate checks the required fields. It never performs I/O.
func (p Payload) Validate() error {
	p = p.Normalize()
	switch {
	case p.Name == "":
		return &PayloadError{Field: "name", Message: "Bitte gib deinen Namen an."}
	case !validEmail(p.Email):
		return &PayloadError{Field: "email", Message: "Bitte gib eine gültige E-Mail-Adresse an."}
	case p.Message == "":
		return &PayloadError{Field: "message", Message: "Bitte gib eine Nachricht ein."}
	}
	return nil
}

// TemplateParams returns the variables passed to the EmailJS template.
func (p Payload) TemplateParams() map[string]string {
	p = p.Normalize()
	subject := p.Subject
	if subject == "" {
		subject = "Neue Kontaktanfrage"
	}
	phone := p.Phone
	if phone == "" {
		phone = "-"
	}
	return map[string]string{
		"from_name":  p.Name,
		"from_email": p.Email,
		"reply_to":   p.Email,
		"phone":      phone,
		"subject":    subject,
		"message":    p.Message,
	}
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t\r\n")
}
