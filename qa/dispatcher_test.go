package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"videoInsight/core"
	"videoInsight/llm"
)

const waterTranscript = "Water boils at 100 degrees Celsius at sea level."

type fakeClient struct {
	calls  int
	answer string
	err    error
}

func (f *fakeClient) Complete(_ context.Context, _ llm.Request) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeClient) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func readyDispatcher(cli llm.Client) (*Dispatcher, *Session) {
	sessions := NewSessionStore()
	session := sessions.GetOrCreate("s1")
	session.SetTranscript(waterTranscript)
	return NewDispatcher(sessions, cli, SubstringGate{}), session
}

func TestAnswerNotReady(t *testing.T) {
	cli := &fakeClient{answer: "irrelevant"}
	sessions := NewSessionStore()
	d := NewDispatcher(sessions, cli, SubstringGate{})

	// Unknown session and a session with no transcript both fail fast.
	if _, err := d.Answer(context.Background(), "missing", "boils"); !errors.Is(err, core.ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
	sessions.GetOrCreate("empty")
	if _, err := d.Answer(context.Background(), "empty", "boils"); !errors.Is(err, core.ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
	if cli.calls != 0 {
		t.Errorf("service called %d times, want 0", cli.calls)
	}
}

func TestAnswerOutOfScopeSentinel(t *testing.T) {
	cli := &fakeClient{answer: "should never be used"}
	d, session := readyDispatcher(cli)

	// "quantum" is not a substring of the transcript; calling twice
	// returns the identical sentinel both times with zero service calls.
	first, err := d.Answer(context.Background(), "s1", "quantum entanglement")
	if err != nil {
		t.Fatalf("Answer() failed: %v", err)
	}
	second, err := d.Answer(context.Background(), "s1", "quantum entanglement")
	if err != nil {
		t.Fatalf("Answer() failed: %v", err)
	}

	if first != OutOfScopeResponse || second != OutOfScopeResponse {
		t.Errorf("answers = %q, %q, want the sentinel", first, second)
	}
	if cli.calls != 0 {
		t.Errorf("service called %d times, want 0", cli.calls)
	}

	exchanges := session.Exchanges()
	if len(exchanges) != 4 {
		t.Fatalf("log has %d entries, want 4 (two question/sentinel pairs)", len(exchanges))
	}
	if exchanges[1].Speaker != core.SpeakerAgent || exchanges[1].Message != OutOfScopeResponse {
		t.Errorf("entry 1 = %+v, want agent sentinel", exchanges[1])
	}
}

func TestAnswerInScopeDelegates(t *testing.T) {
	cli := &fakeClient{answer: "It boils at 100 degrees Celsius."}
	d, session := readyDispatcher(cli)

	// "boils" appears verbatim in the transcript, so the gate passes.
	answer, err := d.Answer(context.Background(), "s1", "boils")
	if err != nil {
		t.Fatalf("Answer() failed: %v", err)
	}
	if answer != "It boils at 100 degrees Celsius." {
		t.Errorf("answer = %q", answer)
	}
	if cli.calls != 1 {
		t.Errorf("service called %d times, want 1", cli.calls)
	}

	exchanges := session.Exchanges()
	if len(exchanges) != 2 {
		t.Fatalf("log has %d entries, want 2", len(exchanges))
	}
	if exchanges[0].Speaker != core.SpeakerUser || exchanges[0].Message != "boils" {
		t.Errorf("entry 0 = %+v, want the user question", exchanges[0])
	}
	if exchanges[1].Speaker != core.SpeakerAgent {
		t.Errorf("entry 1 speaker = %q, want Agent", exchanges[1].Speaker)
	}
}

func TestAnswerAlwaysResponds(t *testing.T) {
	cli := &fakeClient{err: errors.New("connection reset")}
	d, session := readyDispatcher(cli)

	before := len(session.Exchanges())
	answer, err := d.Answer(context.Background(), "s1", "boils")
	if err != nil {
		t.Fatalf("Answer() must not propagate service errors, got %v", err)
	}
	if !strings.Contains(answer, "connection reset") {
		t.Errorf("answer = %q, want the error description", answer)
	}

	exchanges := session.Exchanges()
	agentLines := 0
	for _, e := range exchanges[before:] {
		if e.Speaker == core.SpeakerAgent {
			agentLines++
		}
	}
	if agentLines != 1 {
		t.Errorf("log gained %d agent entries, want exactly 1", agentLines)
	}
}

func TestAnswerEmptyQuestion(t *testing.T) {
	cli := &fakeClient{}
	d, _ := readyDispatcher(cli)
	if _, err := d.Answer(context.Background(), "s1", "   "); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestTranscriptIndexContains(t *testing.T) {
	idx := &TranscriptIndex{}
	idx.Set(waterTranscript)

	if !idx.Contains("BOILS") {
		t.Error("Contains() should be case-insensitive")
	}
	if idx.Contains("What is the boiling point of water?") {
		t.Error("Contains() matched a question that is not a literal substring")
	}
}

func TestTranscriptIndexContext(t *testing.T) {
	idx := &TranscriptIndex{}
	idx.Set(waterTranscript)

	if got := idx.Context(5); got != "Water" {
		t.Errorf("Context(5) = %q, want %q", got, "Water")
	}
	if got := idx.Context(0); got != waterTranscript {
		t.Errorf("Context(0) = %q, want the full transcript", got)
	}
}

func TestSetTranscriptDiscardsDerivedState(t *testing.T) {
	sessions := NewSessionStore()
	session := sessions.GetOrCreate("s1")
	session.SetTranscript("first transcript")
	session.SetSummary(&core.Summary{FullText: "old"})
	session.SetKeywords([]string{"old"})
	session.SetQuiz([]core.QuizQuestion{{Q: "old"}})
	session.AppendExchange(core.SpeakerUser, "hello")

	session.SetTranscript("second transcript")

	if session.Summary() != nil {
		t.Error("summary survived a transcript replacement")
	}
	if session.Keywords() != nil {
		t.Error("keywords survived a transcript replacement")
	}
	if session.Quiz() != nil {
		t.Error("quiz survived a transcript replacement")
	}
	if len(session.Exchanges()) != 1 {
		t.Error("exchange log must survive transcript replacement")
	}
}
