package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/gig-matcher/internal/filtering"
	"github.com/spigell/gig-matcher/internal/logger"
	"github.com/spigell/gig-matcher/internal/marketplace"
	"github.com/spigell/gig-matcher/internal/voice"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Interpreter asks Gemini to pull search filters out of free-form speech.
type Interpreter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewInterpreter(generator contentGenerator, maxLogLength int, log *zap.Logger) *Interpreter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Interpreter{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

func (i *Interpreter) Interpret(ctx context.Context, transcript string) (voice.Query, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return voice.Query{}, fmt.Errorf("transcript is required")
	}

	prompt := buildPrompt(transcript)

	i.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("transcript", logger.TruncateForLog(transcript, i.maxLogLen)),
	)

	raw, err := i.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return voice.Query{}, err
	}

	i.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, i.maxLogLen)),
	)

	q, err := parseResponse(raw)
	if err != nil {
		return voice.Query{}, err
	}

	q.Transcript = transcript
	return q, nil
}

func buildPrompt(transcript string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Transcript:\n{{TRANSCRIPT}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{TRANSCRIPT}}", transcript)
}

func parseResponse(raw string) (voice.Query, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return voice.Query{}, fmt.Errorf("parse gemini response: %w", err)
	}

	var q voice.Query
	q.Skill = strings.ToLower(coerceString(data["skill"]))

	if limit := coerceFloat(data["budget_limit"]); !math.IsNaN(limit) && limit > 0 {
		q.BudgetLimit = limit
		q.Budget = filtering.BucketFor(limit)
	}

	if wt, ok := marketplace.ParseWorkType(coerceString(data["work_type"])); ok && wt != marketplace.WorkTypeGeneral {
		q.WorkType = wt
	}

	return q, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimPrefix(strings.TrimSpace(val), "$")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
