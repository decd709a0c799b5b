package gemini

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/dvasyliev/cv-responder/internal/ai"
	"github.com/dvasyliev/cv-responder/internal/apify"
	"github.com/dvasyliev/cv-responder/internal/logger"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

//go:embed screen_prompt.md
var screenPromptTemplate string

const (
	screenSystemMessage = "You're a helpful, intelligent AI resume filtering assistant. Your task is to filter out inappropriate job vacancies."

	defaultMaxLogLength = 200
)

// Screener judges listing relevance against the base resume.
type Screener struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewScreener(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Screener {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Screener{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Evaluate asks the model for a fit verdict. A transport failure is returned
// as an error; a response outside the expected shape is VerdictUnparseable.
// Either way the caller treats the listing as rejected.
func (s *Screener) Evaluate(ctx context.Context, resume string, listing *apify.Listing) (ai.Verdict, error) {
	prompt := buildPrompt(screenPromptTemplate, resume, listing.DescriptionText)

	s.logger.Debug("gemini screening request",
		zap.String("listing_id", listing.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, screenSystemMessage, prompt)
	if err != nil {
		return ai.VerdictUnparseable, err
	}

	s.logger.Debug("gemini screening response",
		zap.String("listing_id", listing.ID),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	return ParseVerdict(raw), nil
}

// ParseVerdict extracts the {"verdict": "true"|"false"} decision from the
// model output. Anything else is unparseable.
func ParseVerdict(raw string) ai.Verdict {
	cleaned := extractJSON(raw)

	var data struct {
		Verdict string `json:"verdict"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return ai.VerdictUnparseable
	}

	switch strings.ToLower(strings.TrimSpace(data.Verdict)) {
	case "true":
		return ai.VerdictFit
	case "false":
		return ai.VerdictNotFit
	default:
		return ai.VerdictUnparseable
	}
}

func buildPrompt(template, resume, description string) string {
	prompt := strings.ReplaceAll(template, "{{RESUME}}", resume)
	prompt = strings.ReplaceAll(prompt, "{{DESCRIPTION}}", description)
	return prompt
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
