package qa

import (
	"context"
	"fmt"
	"log"
	"strings"

	"videoInsight/core"
	"videoInsight/llm"
)

// OutOfScopeResponse is the fixed sentinel returned for questions the
// scope gate rejects. It is produced without any reasoning service call.
const OutOfScopeResponse = "This question is outside the scope of the video."

// transcriptContextChars bounds how much transcript enters the prompt.
const transcriptContextChars = 2000

const qaPromptTemplate = `Answer the following question based ONLY on the transcript content.
Transcript:
%s

Question:
%s

If the question is unrelated to the transcript, say: '%s'`

// Dispatcher answers user questions grounded in the session transcript.
//
// State machine per session: Uninitialized (no transcript) -> Ready ->
// Answering -> Ready. Answer fails fast with core.ErrNotReady while
// Uninitialized; once Ready it always produces a response line and never
// lets a reasoning service error escape.
type Dispatcher struct {
	sessions *SessionStore
	cli      llm.Client
	gate     ScopeGate
}

func NewDispatcher(sessions *SessionStore, cli llm.Client, gate ScopeGate) *Dispatcher {
	if gate == nil {
		gate = SubstringGate{}
	}
	return &Dispatcher{sessions: sessions, cli: cli, gate: gate}
}

// Answer resolves one question against the session transcript. Every
// exchange line (the question and the answer, sentinel, or error text)
// is appended to the session log before control returns.
func (d *Dispatcher) Answer(ctx context.Context, sessionID, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", core.InvalidArgumentf("question is empty")
	}

	session := d.sessions.Get(sessionID)
	if session == nil || !session.Index.Ready() {
		return "", fmt.Errorf("%w: upload a video and transcribe first", core.ErrNotReady)
	}

	session.AppendExchange(core.SpeakerUser, question)

	inScope, err := d.gate.InScope(ctx, session, question)
	if err != nil {
		// A broken gate must not kill the conversation; fall back to
		// the substring heuristic.
		log.Printf("[qa] scope gate failed (%v), falling back to substring check", err)
		inScope = session.Index.Contains(question)
	}
	if !inScope {
		session.AppendExchange(core.SpeakerAgent, OutOfScopeResponse)
		return OutOfScopeResponse, nil
	}

	prompt := fmt.Sprintf(qaPromptTemplate,
		session.Index.Context(transcriptContextChars), question, OutOfScopeResponse)

	answer, err := d.cli.Complete(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   500,
		Temperature: 0,
	})
	if err != nil {
		// Always-respond policy: the error becomes a visible agent
		// line instead of an exception past the dispatcher.
		msg := fmt.Sprintf("Agent error: %v", err)
		session.AppendExchange(core.SpeakerAgent, msg)
		return msg, nil
	}

	session.AppendExchange(core.SpeakerAgent, answer)
	return answer, nil
}
