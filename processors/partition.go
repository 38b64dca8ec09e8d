package processors

import (
	"fmt"
	"strings"

	"videoInsight/core"
)

const (
	// DefaultSummaryChunks is the chapter count for summarization runs.
	DefaultSummaryChunks = 5
	// DefaultSplitChunks is the chunk count for generic transcript
	// splitting (vector store ingestion).
	DefaultSplitChunks = 8
)

// SplitForSummary partitions text into at most maxChunks ordered,
// word-aligned, non-overlapping chunks of roughly equal size. The word
// sequence of the joined chunks is a prefix of the source word sequence;
// when the stride walk produces more than maxChunks chunks the trailing
// ones are dropped (deliberate truncation, not an error). Empty text
// yields a single empty chunk.
func SplitForSummary(text string, maxChunks int) ([]string, error) {
	if maxChunks < 1 {
		return nil, core.InvalidArgumentf("max_chunks must be >= 1, got %d", maxChunks)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}, nil
	}

	chunkSize := len(words) / maxChunks
	if chunkSize < 1 {
		chunkSize = 1
	}

	chunks := make([]string, 0, maxChunks)
	for i := 0; i < len(words); i += chunkSize {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	if len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	return chunks, nil
}

// EstimateChapterTime maps a chunk index to its estimated start minute
// for a video of the given duration. The rendered form is "[MM:00]";
// seconds are always zero because this is a per-chapter estimate, not a
// precise cue point.
func EstimateChapterTime(chunkIndex, chunkCount int, videoDurationMin float64) (int, string, error) {
	if chunkCount <= 0 {
		return 0, "", core.InvalidArgumentf("chunk_count must be positive, got %d", chunkCount)
	}
	if chunkIndex < 0 {
		return 0, "", core.InvalidArgumentf("chunk_index must be non-negative, got %d", chunkIndex)
	}

	interval := int(videoDurationMin) / chunkCount
	if interval < 1 {
		interval = 1
	}
	minutes := chunkIndex * interval
	return minutes, fmt.Sprintf("[%02d:00]", minutes), nil
}
