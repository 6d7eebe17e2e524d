// Package routine turns an analysis result into personalized skincare
// routine text. Generation calls the Anthropic Messages API; any
// failure falls back to a deterministic template so an analysis never
// fails because of the model.
package routine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/glowlab/dermalyze/internal/domain"
)

const (
	defaultTimeout   = 15 * time.Second
	maxRoutineTokens = 1024

	systemPrompt = "You are a dermatology-informed skincare assistant. " +
		"Write a short morning and evening routine for the user's skin profile. " +
		"Plain text, no markdown, at most 180 words. Never diagnose conditions " +
		"or recommend prescription products."
)

// messagesAPI is the slice of the Anthropic client this generator
// needs; it keeps the model call mockable in tests.
type messagesAPI interface {
	New(ctx context.Context, params anthropicsdk.MessageNewParams, opts ...option.RequestOption) (*anthropicsdk.Message, error)
}

// Outcome carries the routine text plus where it came from. Reason is
// set only for fallbacks.
type Outcome struct {
	Source domain.RoutineSource
	Text   string
	Reason string
}

// Generator produces routine text for completed analyses.
type Generator struct {
	msgs    messagesAPI
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// Config holds generator settings. An empty APIKey disables model
// calls entirely.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewGenerator creates a routine generator.
func NewGenerator(cfg Config, logger *slog.Logger) *Generator {
	g := &Generator{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}
	if cfg.APIKey != "" {
		client := anthropicsdk.NewClient(option.WithAPIKey(cfg.APIKey))
		g.msgs = &client.Messages
	}
	return g
}

// newGeneratorWithAPI wires a custom messages implementation (tests).
func newGeneratorWithAPI(api messagesAPI, logger *slog.Logger) *Generator {
	return &Generator{msgs: api, timeout: defaultTimeout, logger: logger}
}

// Generate returns routine text for the given profile. The model call
// is bounded by the configured timeout; on error, timeout, or empty
// response the deterministic fallback is returned instead.
func (g *Generator) Generate(ctx context.Context, metrics domain.SkinMetrics, skinType domain.SkinType, premium bool) Outcome {
	if g.msgs == nil {
		return fallback(metrics, skinType, "generation disabled")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(g.model),
		MaxTokens: maxRoutineTokens,
		System: []anthropicsdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropicsdk.MessageParam{
			{
				Role: anthropicsdk.MessageParamRoleUser,
				Content: []anthropicsdk.ContentBlockParamUnion{
					anthropicsdk.NewTextBlock(buildPrompt(metrics, skinType, premium)),
				},
			},
		},
	}

	msg, err := g.msgs.New(ctx, params)
	if err != nil {
		g.logger.Warn("routine generation failed, using fallback", "error", err)
		return fallback(metrics, skinType, err.Error())
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		g.logger.Warn("routine generation returned no text, using fallback")
		return fallback(metrics, skinType, "empty model response")
	}

	return Outcome{Source: domain.RoutineGenerated, Text: text}
}

// buildPrompt renders the skin profile the model should tailor to.
// Premium-only metrics are mentioned only when present.
func buildPrompt(m domain.SkinMetrics, skinType domain.SkinType, premium bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skin profile: type %s, oiliness %d/100, redness %d/100, texture %d/100.", skinType, m.Oiliness, m.Redness, m.Texture)
	if premium && m.Acne != nil {
		fmt.Fprintf(&b, " Acne %d/100.", *m.Acne)
	}
	if premium && m.Wrinkles != nil {
		fmt.Fprintf(&b, " Wrinkles %d/100.", *m.Wrinkles)
	}
	b.WriteString(" Suggest a morning and evening routine.")
	return b.String()
}

// fallback builds routine text from fixed per-band phrases. The same
// metrics always yield the same text.
func fallback(m domain.SkinMetrics, skinType domain.SkinType, reason string) Outcome {
	var steps []string

	switch {
	case m.Oiliness >= 70:
		steps = append(steps, "Morning: gel cleanser, oil-free moisturizer, SPF 30+.")
	case m.Oiliness < 40:
		steps = append(steps, "Morning: cream cleanser, rich moisturizer, SPF 30+.")
	default:
		steps = append(steps, "Morning: gentle cleanser, light moisturizer, SPF 30+.")
	}

	if m.Redness >= 70 {
		steps = append(steps, "Midday: avoid hot water and fragranced products; a soothing mist can calm flare-ups.")
	}

	switch {
	case m.Texture >= 70:
		steps = append(steps, "Evening: cleanse, then a leave-on chemical exfoliant two or three nights a week.")
	default:
		steps = append(steps, "Evening: cleanse and apply a hydrating serum before moisturizer.")
	}

	if skinType == domain.SkinTypeVeryLight || skinType == domain.SkinTypeLight {
		steps = append(steps, "Reapply sunscreen through the day; lighter skin burns fastest.")
	}

	return Outcome{
		Source: domain.RoutineFallback,
		Text:   strings.Join(steps, " "),
		Reason: reason,
	}
}
