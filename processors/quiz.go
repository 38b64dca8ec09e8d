package processors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"videoInsight/core"
	"videoInsight/llm"
)

const (
	// DefaultQuizQuestions is the question count requested per quiz.
	DefaultQuizQuestions = 5
	quizSourceLimit      = 3000
	quizOptionCount      = 4
)

const quizPromptTemplate = `Based on the following content, generate %d multiple choice comprehension questions with 4 options each (A, B, C, D) and indicate the correct answer letter. Format the output in JSON like this:

[
    {
        "q": "What is the topic of the video?",
        "options": ["A. Topic A", "B. Topic B", "C. Topic C", "D. Topic D"],
        "answer": "B"
    }
]

Return ONLY the JSON array.

Content:
%s`

// GenerateQuiz builds n multiple-choice questions from the given source
// text. Model output is parsed with a strict JSON decoder and validated
// against the quiz schema; it is never evaluated as code. Anything that
// does not parse or validate fails the whole generation.
func GenerateQuiz(ctx context.Context, cli llm.Client, source string, n int) ([]core.QuizQuestion, error) {
	if n <= 0 {
		n = DefaultQuizQuestions
	}
	if strings.TrimSpace(source) == "" {
		return nil, core.InvalidArgumentf("quiz source text is empty")
	}

	content, err := cli.Complete(ctx, llm.Request{
		Prompt:      fmt.Sprintf(quizPromptTemplate, n, truncateChars(source, quizSourceLimit)),
		MaxTokens:   1500,
		Temperature: 0,
	})
	if err != nil {
		return nil, core.SummarizationErr(err)
	}

	quiz, err := parseQuiz(content)
	if err != nil {
		return nil, core.SummarizationErr(err)
	}
	return quiz, nil
}

// parseQuiz extracts the JSON array from the model response and
// validates every question.
func parseQuiz(content string) ([]core.QuizQuestion, error) {
	payload := stripCodeFences(content)
	start := strings.Index(payload, "[")
	end := strings.LastIndex(payload, "]")
	if start < 0 || end <= start {
		return nil, errors.New("quiz response contains no JSON array")
	}

	var quiz []core.QuizQuestion
	dec := json.NewDecoder(strings.NewReader(payload[start : end+1]))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&quiz); err != nil {
		return nil, fmt.Errorf("parse quiz JSON: %w", err)
	}
	if len(quiz) == 0 {
		return nil, errors.New("quiz is empty")
	}

	for i, q := range quiz {
		if strings.TrimSpace(q.Q) == "" {
			return nil, fmt.Errorf("question %d has no text", i+1)
		}
		if len(q.Options) != quizOptionCount {
			return nil, fmt.Errorf("question %d has %d options, want %d", i+1, len(q.Options), quizOptionCount)
		}
		if len(q.Answer) != 1 || q.Answer[0] < 'A' || q.Answer[0] > 'D' {
			return nil, fmt.Errorf("question %d has invalid answer %q", i+1, q.Answer)
		}
	}
	return quiz, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// GradeQuiz scores a quiz attempt. Each answer may be the option letter
// ("B") or the full option text; unanswered questions count as wrong.
func GradeQuiz(quiz []core.QuizQuestion, answers []string) (core.QuizResult, error) {
	if len(quiz) == 0 {
		return core.QuizResult{}, core.InvalidArgumentf("no quiz to grade")
	}

	score := 0
	for i, q := range quiz {
		if i >= len(answers) {
			break
		}
		answer := strings.TrimSpace(answers[i])
		correctOption := q.Options[q.Answer[0]-'A']
		if strings.EqualFold(answer, q.Answer) || answer == correctOption {
			score++
		}
	}
	return core.QuizResult{
		Score:   score,
		Total:   len(quiz),
		Percent: score * 100 / len(quiz),
	}, nil
}
