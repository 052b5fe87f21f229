package draft

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/utils/logging"
)

//go:embed prompt/draft.md
var draftPromptRaw string

//go:embed prompt/image.md
var imagePromptRaw string

var draftPromptTmpl = template.Must(template.New("draft").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
}).Parse(draftPromptRaw))

var imagePromptTmpl = template.Must(template.New("image").Parse(imagePromptRaw))

// maxContentLength bounds the article snippet embedded in the prompt,
// counted in characters so multibyte text is never split mid-rune
const maxContentLength = 2000

var ErrGenerationUnavailable = goerr.New("generation service is unavailable")

// truncateContent hard-cuts content at maxContentLength characters and
// appends an ellipsis marker only when something was cut
func truncateContent(content string) string {
	if utf8.RuneCountInString(content) <= maxContentLength {
		return content
	}
	return string([]rune(content)[:maxContentLength]) + "..."
}

// formatExamples renders retrieved posts as a bulleted quoted list, or the
// persona placeholder when nothing was retrieved
func (u *UseCase) formatExamples(examples []string) string {
	if len(examples) == 0 {
		return u.persona.NoExamples
	}

	lines := make([]string, 0, len(examples))
	for _, ex := range examples {
		lines = append(lines, `- "`+ex+`"`)
	}
	return strings.Join(lines, "\n")
}

// DraftPost renders the house-style prompt around the article and the
// retrieved examples, submits it as a single user turn, and returns the
// cleaned response. Failure is terminal for this request; the caller
// treats it as "no draft available".
func (u *UseCase) DraftPost(ctx context.Context, title, content string, examples []string) (string, error) {
	if !u.caps.CanGenerate() {
		return "", ErrGenerationUnavailable
	}
	if title == "" {
		return "", goerr.New("article title is required")
	}
	if content == "" {
		return "", goerr.New("article content is required")
	}

	var buf bytes.Buffer
	if err := draftPromptTmpl.Execute(&buf, map[string]any{
		"Persona":  u.persona,
		"Examples": u.formatExamples(examples),
		"Title":    title,
		"Content":  truncateContent(content),
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute draft prompt template")
	}

	logging.From(ctx).Debug("generating draft post",
		"title", title,
		"examples", len(examples),
		"prompt_size", buf.Len())

	raw, err := u.gemini.GenerateText(ctx, buf.String())
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate draft post")
	}

	cleaned := StripReasoning(raw)
	if cleaned == "" {
		return "", goerr.New("generation returned no usable text")
	}

	return cleaned, nil
}

// ImagePrompt derives an image-generation prompt from the article title
// and the drafted post. Same generation mechanism and cleaning as
// DraftPost, without truncation or examples.
func (u *UseCase) ImagePrompt(ctx context.Context, title, post string) (string, error) {
	if !u.caps.CanGenerate() {
		return "", ErrGenerationUnavailable
	}
	if title == "" {
		return "", goerr.New("article title is required")
	}
	if post == "" {
		return "", goerr.New("post text is required")
	}

	var buf bytes.Buffer
	if err := imagePromptTmpl.Execute(&buf, map[string]any{
		"Title": title,
		"Post":  post,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute image prompt template")
	}

	raw, err := u.gemini.GenerateText(ctx, buf.String())
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate image prompt")
	}

	cleaned := StripReasoning(raw)
	if cleaned == "" {
		return "", goerr.New("generation returned no usable text")
	}

	return cleaned, nil
}
