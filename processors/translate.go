package processors

import (
	"context"
	"fmt"
	"log"
	"strings"

	"videoInsight/core"
	"videoInsight/llm"
)

const translateParagraphChars = 2000

// TranslateProgressFunc reports per-paragraph translation progress.
type TranslateProgressFunc func(done, total int, partial string)

// Translate renders text in the target language, paragraph by paragraph
// so long transcripts stay inside the model's context. Paragraphs are
// fixed-size character windows, translated in order and rejoined with
// blank lines.
func Translate(ctx context.Context, cli llm.Client, text, targetLanguage string, onProgress TranslateProgressFunc) (string, error) {
	if strings.TrimSpace(targetLanguage) == "" {
		return "", core.InvalidArgumentf("target language is required")
	}

	paragraphs := splitChars(text, translateParagraphChars)
	log.Printf("[translate] %d paragraphs -> %s", len(paragraphs), targetLanguage)

	var out strings.Builder
	for i, para := range paragraphs {
		prompt := fmt.Sprintf(
			"Translate the following text to %s while preserving all formatting and structure:\n\n%s",
			targetLanguage, para)

		translated, err := cli.Complete(ctx, llm.Request{
			Prompt:      prompt,
			MaxTokens:   2048,
			Temperature: 0,
		})
		if err != nil {
			return "", core.SummarizationErr(fmt.Errorf("paragraph %d/%d: %w", i+1, len(paragraphs), err))
		}

		out.WriteString(translated)
		out.WriteString("\n\n")
		if onProgress != nil {
			onProgress(i+1, len(paragraphs), out.String())
		}
	}
	return strings.TrimSpace(out.String()), nil
}

// splitChars cuts s into rune windows of at most size chars. Always
// returns at least one element.
func splitChars(s string, size int) []string {
	r := []rune(s)
	if len(r) == 0 {
		return []string{""}
	}
	var parts []string
	for i := 0; i < len(r); i += size {
		end := i + size
		if end > len(r) {
			end = len(r)
		}
		parts = append(parts, string(r[i:end]))
	}
	return parts
}
