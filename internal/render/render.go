package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
%s
</style>
</head>
<body>
%s
</body>
</html>
`

// Renderer converts tailored markdown resumes into styled PDF documents.
// The stylesheet is loaded once at construction; a missing stylesheet is a
// construction error and must abort the run before any listing is processed.
type Renderer struct {
	css    string
	logger *zap.Logger
	md     goldmark.Markdown
}

func New(stylesheetPath string, logger *zap.Logger) (*Renderer, error) {
	css, err := os.ReadFile(stylesheetPath)
	if err != nil {
		return nil, fmt.Errorf("loading stylesheet %q: %w", stylesheetPath, err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	return &Renderer{
		css:    string(css),
		logger: logger,
		md:     md,
	}, nil
}

// BuildHTML sanitizes the markdown and wraps the converted HTML in the styled
// document shell.
func (r *Renderer) BuildHTML(markdown string) (string, error) {
	cleaned := CleanMarkdown(markdown)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(cleaned), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	return fmt.Sprintf(htmlShell, r.css, buf.String()), nil
}

// RenderPDF produces the PDF bytes for a tailored resume.
func (r *Renderer) RenderPDF(ctx context.Context, markdown string) ([]byte, error) {
	page, err := r.BuildHTML(markdown)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("initializing pdf generator: %w", err)
	}

	pdfg.AddPage(wkhtmltopdf.NewPageReader(strings.NewReader(page)))

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}

	r.logger.Debug("rendered resume pdf", zap.Int("bytes", pdfg.Buffer().Len()))

	return pdfg.Bytes(), nil
}
