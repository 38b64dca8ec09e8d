package processors

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"videoInsight/core"
)

func TestSplitForSummaryTruncates(t *testing.T) {
	// 5 words into 2 chunks: chunk_size = 2, stride walk yields 3
	// chunks and the trailing one is dropped.
	chunks, err := SplitForSummary("a b c d e", 2)
	if err != nil {
		t.Fatalf("SplitForSummary() failed: %v", err)
	}
	want := []string{"a b", "c d"}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("chunks = %v, want %v", chunks, want)
	}
}

func TestSplitForSummaryEmptyText(t *testing.T) {
	chunks, err := SplitForSummary("", 5)
	if err != nil {
		t.Fatalf("SplitForSummary() failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "" {
		t.Errorf("chunks = %v, want single empty chunk", chunks)
	}
}

func TestSplitForSummaryFewerWordsThanChunks(t *testing.T) {
	chunks, err := SplitForSummary("one two three", 8)
	if err != nil {
		t.Fatalf("SplitForSummary() failed: %v", err)
	}
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("chunks = %v, want %v", chunks, want)
	}
}

func TestSplitForSummaryInvalidMaxChunks(t *testing.T) {
	if _, err := SplitForSummary("a b c", 0); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSplitForSummaryPrefixProperty(t *testing.T) {
	texts := []string{
		"the quick brown fox jumps over the lazy dog",
		"alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu",
		"single",
	}
	for _, text := range texts {
		for maxChunks := 1; maxChunks <= 6; maxChunks++ {
			chunks, err := SplitForSummary(text, maxChunks)
			if err != nil {
				t.Fatalf("SplitForSummary(%q, %d) failed: %v", text, maxChunks, err)
			}
			if len(chunks) > maxChunks {
				t.Errorf("SplitForSummary(%q, %d) returned %d chunks", text, maxChunks, len(chunks))
			}
			joined := strings.Fields(strings.Join(chunks, " "))
			source := strings.Fields(text)
			if len(joined) > len(source) {
				t.Fatalf("joined chunks longer than source for %q", text)
			}
			for i, w := range joined {
				if w != source[i] {
					t.Errorf("word %d = %q, want %q (text=%q maxChunks=%d)", i, w, source[i], text, maxChunks)
				}
			}
		}
	}
}

func TestEstimateChapterTime(t *testing.T) {
	// interval = max(1, 7//5) = 1, minutes = 2*1 = 2
	minutes, formatted, err := EstimateChapterTime(2, 5, 7)
	if err != nil {
		t.Fatalf("EstimateChapterTime() failed: %v", err)
	}
	if minutes != 2 {
		t.Errorf("minutes = %d, want 2", minutes)
	}
	if formatted != "[02:00]" {
		t.Errorf("formatted = %q, want %q", formatted, "[02:00]")
	}
}

func TestEstimateChapterTimeMonotonic(t *testing.T) {
	prev := -1
	for i := 0; i < 10; i++ {
		minutes, _, err := EstimateChapterTime(i, 5, 42.5)
		if err != nil {
			t.Fatalf("EstimateChapterTime(%d) failed: %v", i, err)
		}
		if minutes < prev {
			t.Errorf("minutes decreased at index %d: %d < %d", i, minutes, prev)
		}
		prev = minutes
	}
}

func TestEstimateChapterTimeShortVideo(t *testing.T) {
	// interval never drops below one minute
	minutes, formatted, err := EstimateChapterTime(3, 5, 0.5)
	if err != nil {
		t.Fatalf("EstimateChapterTime() failed: %v", err)
	}
	if minutes != 3 {
		t.Errorf("minutes = %d, want 3", minutes)
	}
	if formatted != "[03:00]" {
		t.Errorf("formatted = %q, want %q", formatted, "[03:00]")
	}
}

func TestEstimateChapterTimeZeroCount(t *testing.T) {
	if _, _, err := EstimateChapterTime(0, 0, 7); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}
