package processors

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"videoInsight/core"
	"videoInsight/llm"
)

func TestExtractKeywords(t *testing.T) {
	cli := quizClient("boiling point, water, sea level , temperature,")
	keywords, err := ExtractKeywords(context.Background(), cli, "some summary", core.LanguageEnglish)
	if err != nil {
		t.Fatalf("ExtractKeywords() failed: %v", err)
	}
	want := []string{"boiling point", "water", "sea level", "temperature"}
	if !reflect.DeepEqual(keywords, want) {
		t.Errorf("keywords = %v, want %v", keywords, want)
	}
}

func TestExtractKeywordsBoundsSource(t *testing.T) {
	var got llm.Request
	cli := &fakeClient{response: func(_ int, req llm.Request) (string, error) {
		got = req
		return "kw", nil
	}}

	long := make([]rune, 5000)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := ExtractKeywords(context.Background(), cli, string(long), core.LanguageEnglish); err != nil {
		t.Fatalf("ExtractKeywords() failed: %v", err)
	}
	if len([]rune(got.Prompt)) > keywordSourceLimit+200 {
		t.Errorf("prompt length %d exceeds the source budget", len([]rune(got.Prompt)))
	}
}

func TestExtractKeywordsEmptyResponse(t *testing.T) {
	_, err := ExtractKeywords(context.Background(), quizClient(" , ,"), "summary", core.LanguageEnglish)
	if !errors.Is(err, core.ErrSummarization) {
		t.Errorf("err = %v, want ErrSummarization", err)
	}
}

func TestTranslateParagraphs(t *testing.T) {
	var prompts []string
	cli := &fakeClient{response: func(call int, req llm.Request) (string, error) {
		prompts = append(prompts, req.Prompt)
		return "translated", nil
	}}

	// 4500 runes -> three 2000-char windows.
	src := make([]rune, 4500)
	for i := range src {
		src[i] = 'a'
	}

	var progress []int
	out, err := Translate(context.Background(), cli, string(src), "French",
		func(done, total int, _ string) { progress = append(progress, done) })
	if err != nil {
		t.Fatalf("Translate() failed: %v", err)
	}
	if len(prompts) != 3 {
		t.Fatalf("service called %d times, want 3", len(prompts))
	}
	if !reflect.DeepEqual(progress, []int{1, 2, 3}) {
		t.Errorf("progress = %v, want [1 2 3]", progress)
	}
	if out != "translated\n\ntranslated\n\ntranslated" {
		t.Errorf("out = %q", out)
	}
}

func TestTranslateRequiresTarget(t *testing.T) {
	_, err := Translate(context.Background(), quizClient("x"), "text", "  ", nil)
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestTranslateFailureAborts(t *testing.T) {
	cli := &fakeClient{response: func(call int, _ llm.Request) (string, error) {
		if call == 2 {
			return "", errors.New("boom")
		}
		return "ok", nil
	}}
	src := make([]rune, 4500)
	for i := range src {
		src[i] = 'b'
	}
	_, err := Translate(context.Background(), cli, string(src), "Spanish", nil)
	if !errors.Is(err, core.ErrSummarization) {
		t.Errorf("err = %v, want ErrSummarization", err)
	}
}
