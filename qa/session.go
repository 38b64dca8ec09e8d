// Package qa holds the transcript-grounded question answering state:
// per-session transcript index, exchange log, and the dispatcher that
// routes questions through a relevance gate to the reasoning service.
package qa

import (
	"strings"
	"sync"
	"time"

	"videoInsight/core"
)

// TranscriptIndex holds the single active transcript of a session. It is
// the sole knowledge source for question answering.
type TranscriptIndex struct {
	mu         sync.RWMutex
	transcript string
}

// Set replaces the held transcript wholesale.
func (t *TranscriptIndex) Set(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transcript = text
}

// Ready reports whether a non-empty transcript has been set.
func (t *TranscriptIndex) Ready() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return strings.TrimSpace(t.transcript) != ""
}

// Contains is a crude relevance heuristic: a case-insensitive literal
// substring check of the query against the transcript. It is a cheap
// gate, not a correctness guarantee.
func (t *TranscriptIndex) Contains(query string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return strings.Contains(strings.ToLower(t.transcript), strings.ToLower(query))
}

// Context returns the first limit runes of the transcript for use as a
// bounded prompt context.
func (t *TranscriptIndex) Context(limit int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r := []rune(t.transcript)
	if limit > 0 && len(r) > limit {
		return string(r[:limit])
	}
	return t.transcript
}

// Session is the per-video state owned by one user session.
type Session struct {
	ID    string
	Index *TranscriptIndex

	mu          sync.RWMutex
	durationMin float64
	summary     *core.Summary
	keywords    []string
	quiz        []core.QuizQuestion
	exchanges   []core.Exchange
}

func newSession(id string) *Session {
	return &Session{ID: id, Index: &TranscriptIndex{}}
}

// SetTranscript installs a new transcript and discards every artifact
// derived from the previous one. The exchange log survives; it is an
// append-only conversation history.
func (s *Session) SetTranscript(text string) {
	s.Index.Set(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = nil
	s.keywords = nil
	s.quiz = nil
}

// SetDurationMin records the video duration used for chapter timestamp
// estimation.
func (s *Session) SetDurationMin(min float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durationMin = min
}

func (s *Session) DurationMin() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.durationMin
}

func (s *Session) SetSummary(sum *core.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = sum
}

func (s *Session) Summary() *core.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

func (s *Session) SetKeywords(kw []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keywords = kw
}

func (s *Session) Keywords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keywords
}

func (s *Session) SetQuiz(quiz []core.QuizQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = quiz
}

func (s *Session) Quiz() []core.QuizQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz
}

// AppendExchange records one conversation line.
func (s *Session) AppendExchange(speaker core.Speaker, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, core.Exchange{Speaker: speaker, Message: message, At: time.Now()})
}

// Exchanges returns a copy of the full conversation log, oldest first.
func (s *Session) Exchanges() []core.Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}

// SessionStore keys sessions by identifier so concurrent users never
// share transcript state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*Session{}}
}

// Get returns the session with the given ID, or nil.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// GetOrCreate returns the session with the given ID, creating it first
// if needed. An empty ID gets a fresh random one.
func (s *SessionStore) GetOrCreate(id string) *Session {
	if id == "" {
		id = core.NewID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess := newSession(id)
	s.sessions[id] = sess
	return sess
}
