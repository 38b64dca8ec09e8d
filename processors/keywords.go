package processors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"videoInsight/core"
	"videoInsight/llm"
)

const keywordSourceLimit = 2000

// ExtractKeywords asks the generation service for 10-15 keywords or key
// phrases from the given text and returns them as a cleaned list.
func ExtractKeywords(ctx context.Context, cli llm.Client, text string, language core.Language) ([]string, error) {
	prompt := fmt.Sprintf(
		"Extract 10-15 concise and important keywords or phrases from the following summary in %s. "+
			"Return them as a comma-separated list:\n\n%s",
		language, truncateChars(text, keywordSourceLimit))

	content, err := cli.Complete(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, core.SummarizationErr(err)
	}

	var keywords []string
	for _, part := range strings.Split(content, ",") {
		kw := strings.Trim(strings.TrimSpace(part), ".،;\"'`")
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return nil, core.SummarizationErr(errors.New("no keywords returned"))
	}
	return keywords, nil
}

// truncateChars bounds s to at most limit runes.
func truncateChars(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
