package gemini

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/dvasyliev/cv-responder/internal/apify"
	"github.com/dvasyliev/cv-responder/internal/logger"
	"go.uber.org/zap"
)

//go:embed tailor_prompt.md
var tailorPromptTemplate string

const tailorSystemMessage = "You're a helpful, intelligent AI job resume customisation assistant."

// Tailor rebuilds the base resume into a markdown variant styled to a
// specific listing.
type Tailor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewTailor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Tailor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Tailor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Rebuild returns the tailored markdown resume. An error or an empty model
// response yields an empty string: the caller treats that as nothing to send.
func (t *Tailor) Rebuild(ctx context.Context, resume string, listing *apify.Listing) (string, error) {
	prompt := buildPrompt(tailorPromptTemplate, resume, listing.DescriptionText)

	t.logger.Debug("gemini tailoring request",
		zap.String("listing_id", listing.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, t.maxLogLen)),
	)

	raw, err := t.generator.GenerateContent(ctx, tailorSystemMessage, prompt)
	if err != nil {
		return "", err
	}

	t.logger.Debug("gemini tailoring response",
		zap.String("listing_id", listing.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, t.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}
