// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dscapture/dscapture/internal/auth"
	"github.com/dscapture/dscapture/internal/model"
	"github.com/dscapture/dscapture/internal/store"
)

// HeroContent is the hero copy of the home page.
type HeroContent struct {
	Heading    string
	Subheading string
	CtaLabel   string
	Stored     bool // false when the defaults are shown
}

// DisplayHeading returns the stored heading or the built-in default.
func (h HeroContent) DisplayHeading() string {
	if h.Heading != "" {
		return h.Heading
	}
	return model.DefaultHeroHeading
}

// HeroInput is the submitted hero form.
type HeroInput struct {
	Heading    string
	Subheading string
	CtaLabel   string
}

// HeroService loads and saves the singleton hero content.
type HeroService struct {
	queries  *store.Queries
	activity *ActivityService
	logger   *slog.Logger
	now      func() time.Time
}

// NewHeroService creates a new HeroService.
func NewHeroService(db *sql.DB, activity *ActivityService, logger *slog.Logger) *HeroService {
	return &HeroService{
		queries:  store.New(db),
		activity: activity,
		logger:   logger,
		now:      utcNow,
	}
}

func defaultHero() HeroContent {
	return HeroContent{CtaLabel: model.DefaultHeroCTA}
}

// Get returns the stored hero content, or the defaults when none is stored.
func (s *HeroService) Get(ctx context.Context) (HeroContent, error) {
	row, err := s.queries.GetHeroContent(ctx, model.HeroSingletonKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultHero(), nil
		}
		return defaultHero(), fmt.Errorf("loading hero content: %w", err)
	}

	hero := HeroContent{
		Heading:    strings.TrimSpace(row.Heading),
		Subheading: strings.TrimSpace(row.Subheading),
		CtaLabel:   strings.TrimSpace(row.CtaLabel),
		Stored:     true,
	}
	if hero.CtaLabel == "" {
		hero.CtaLabel = model.DefaultHeroCTA
	}
	return hero, nil
}

// Save validates and stores the hero content. The last save wins.
func (s *HeroService) Save(ctx context.Context, id auth.Identity, in HeroInput) (HeroContent, error) {
	heading := strings.TrimSpace(in.Heading)
	subheading := strings.TrimSpace(in.Subheading)
	cta := strings.TrimSpace(in.CtaLabel)

	if heading == "" || subheading == "" {
		return HeroContent{}, invalid("Bitte gib sowohl die Überschrift als auch die Unterzeile an.")
	}
	customCta := cta != ""
	if !customCta {
		cta = model.DefaultHeroCTA
	}

	row, err := s.queries.UpsertHeroContent(ctx, store.UpsertHeroContentParams{
		SingletonKey: model.HeroSingletonKey,
		Heading:      heading,
		Subheading:   subheading,
		CtaLabel:     cta,
		UpdatedAt:    s.now(),
	})
	if err != nil {
		s.logger.Error("saving hero content failed", "error", err)
		s.activity.LogUserAction(ctx, ActionParams{
			Action:      model.ActionHeroSaveFailed,
			Description: "Hero-Inhalt konnte nicht gespeichert werden",
			UserID:      id.UserID,
			UserEmail:   id.Email,
			EntityType:  model.EntityHeroContent,
			EntityID:    model.HeroSingletonKey,
			Metadata:    map[string]any{"error": err.Error()},
		})
		return HeroContent{}, fmt.Errorf("Fehler beim Speichern: %w", err)
	}

	s.activity.LogUserAction(ctx, ActionParams{
		Action:      model.ActionHeroSaved,
		Description: "Hero-Inhalt aktualisiert",
		UserID:      id.UserID,
		UserEmail:   id.Email,
		EntityType:  model.EntityHeroContent,
		EntityID:    model.HeroSingletonKey,
		Metadata: map[string]any{
			"hasCustomCta":  customCta,
			"headingLength": utf8.RuneCountInString(heading),
		},
	})

	return HeroContent{
		Heading:    row.Heading,
		Subheading: row.Subheading,
		CtaLabel:   row.CtaLabel,
		Stored:     true,
	}, nil
}
