package processors

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"videoInsight/core"
	"videoInsight/llm"
)

const (
	segmentMaxTokens   = 300
	segmentTemperature = 0.2

	tocHeader    = "📋 **Table of Contents**\n\n"
	tocSeparator = "\n---\n\n"
)

// Summarizer turns a raw transcript into a chaptered summary with a
// table of contents.
type Summarizer struct {
	cli llm.Client
}

func NewSummarizer(cli llm.Client) *Summarizer {
	return &Summarizer{cli: cli}
}

// SummarizeOptions configures one summarization run.
type SummarizeOptions struct {
	Language         core.Language
	Detail           core.DetailLevel
	VideoDurationMin float64
	MaxChunks        int // defaults to DefaultSummaryChunks
}

// ProgressFunc receives the partial TOC + summary rendering after each
// completed chapter. It is called synchronously, once per chapter; a
// slow callback serializes with the run.
type ProgressFunc func(partial string)

// SummarizeSegment summarizes one transcript chunk. The first line of
// the generated text is taken as the chapter title, the remainder as the
// body. A failed or empty generation aborts the enclosing run.
func (s *Summarizer) SummarizeSegment(ctx context.Context, chunk string, language core.Language, detail core.DetailLevel) (title, body string, err error) {
	content, err := s.cli.Complete(ctx, llm.Request{
		System:      systemPrompt(language),
		Prompt:      segmentPrompt(language, detail, chunk),
		MaxTokens:   segmentMaxTokens,
		Temperature: segmentTemperature,
	})
	if err != nil {
		return "", "", core.SummarizationErr(err)
	}
	if strings.TrimSpace(content) == "" {
		return "", "", core.SummarizationErr(errors.New("empty completion"))
	}

	title, body = splitTitle(content)
	return title, body, nil
}

// SummarizeWithTOC runs the full pipeline: partition the transcript,
// summarize every chunk in order, and assemble the TOC and the chapter
// bodies. The run either fully succeeds or fails as a whole; no partial
// Summary is returned.
func (s *Summarizer) SummarizeWithTOC(ctx context.Context, text string, opts SummarizeOptions, onProgress ProgressFunc) (*core.Summary, error) {
	maxChunks := opts.MaxChunks
	if maxChunks <= 0 {
		maxChunks = DefaultSummaryChunks
	}
	chunks, err := SplitForSummary(text, maxChunks)
	if err != nil {
		return nil, err
	}
	log.Printf("[summarize] %d chunks, language=%s, detail=%s", len(chunks), opts.Language, opts.Detail)

	summary := &core.Summary{
		TableOfContents: make([]core.ChapterEntry, 0, len(chunks)),
		Segments:        make([]core.SummarySegment, 0, len(chunks)),
	}
	var toc, full strings.Builder
	toc.WriteString(tocHeader)

	for i, chunk := range chunks {
		minutes, timestamp, err := EstimateChapterTime(i, len(chunks), opts.VideoDurationMin)
		if err != nil {
			return nil, err
		}

		title, body, err := s.SummarizeSegment(ctx, chunk, opts.Language, opts.Detail)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", i+1, err)
		}

		chapter := i + 1
		summary.TableOfContents = append(summary.TableOfContents, core.ChapterEntry{
			ChapterNumber: chapter,
			Title:         title,
			Timestamp:     timestamp,
			EstimatedMin:  minutes,
		})
		summary.Segments = append(summary.Segments, core.SummarySegment{
			ChapterNumber: chapter,
			Title:         title,
			Timestamp:     timestamp,
			Body:          body,
		})

		fmt.Fprintf(&toc, "✅ Chapter %d: %s (%s)\n", chapter, title, timestamp)
		fmt.Fprintf(&full, "%s\n📌 **%s**\n%s\n\n", timestamp, title, body)

		if onProgress != nil {
			onProgress(toc.String() + tocSeparator + full.String())
		}
	}

	summary.FullText = toc.String() + tocSeparator + full.String()
	return summary, nil
}

// splitTitle separates the title line from the body. Language-specific
// label prefixes are stripped and the title is capitalized for display.
func splitTitle(content string) (string, string) {
	lines := strings.SplitN(content, "\n", 2)
	title := strings.TrimSpace(lines[0])
	for _, label := range []string{"Title:", "عنوان:", "العنوان:"} {
		title = strings.TrimSpace(strings.TrimPrefix(title, label))
	}
	title = strings.Trim(title, " :-–*#")
	title = capitalize(title)

	body := ""
	if len(lines) > 1 {
		body = strings.TrimSpace(lines[1])
	}
	return title, body
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
