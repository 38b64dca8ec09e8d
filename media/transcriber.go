// Package media holds the narrow interfaces to the external media
// collaborators: speech-to-text and duration probing. The rest of the
// service treats transcription output as an opaque transcript string.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"videoInsight/config"
	"videoInsight/core"
)

// Transcriber converts a local media file into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// NewTranscriber builds a transcriber for the configured provider.
func NewTranscriber(cfg *config.Config) Transcriber {
	if strings.ToLower(cfg.LLMProvider) == "mock" {
		return MockTranscriber{}
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &WhisperTranscriber{cli: openai.NewClientWithConfig(clientConfig)}
}

// WhisperTranscriber uses the whisper-1 audio API.
type WhisperTranscriber struct {
	cli *openai.Client
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	resp, err := w.cli.CreateTranscription(callCtx, openai.AudioRequest{
		Model:    "whisper-1",
		FilePath: path,
	})
	if err != nil {
		return "", core.ExternalServiceErr("transcription", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", core.ExternalServiceErr("transcription", fmt.Errorf("empty transcription result"))
	}
	return text, nil
}

// MockTranscriber returns a placeholder transcript sized to the media
// duration. Offline mode only.
type MockTranscriber struct{}

func (MockTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	dur, err := ProbeDurationMinutes(path)
	if err != nil {
		dur = 1
	}
	var b strings.Builder
	for minute := 0; float64(minute) < dur; minute++ {
		fmt.Fprintf(&b, "Placeholder transcript for minute %d. ", minute)
	}
	return strings.TrimSpace(b.String()), nil
}
