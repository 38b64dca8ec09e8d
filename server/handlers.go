package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"videoInsight/core"
	"videoInsight/media"
	"videoInsight/processors"
)

// summarizeSourceLimit bounds how much transcript enters a
// summarization run.
const summarizeSourceLimit = 4000

// defaultDurationMin is assumed when neither the request nor the media
// probe provides a duration.
const defaultDurationMin = 7

type transcriptRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	FilePath  string `json:"file_path"`
}

type transcriptResponse struct {
	SessionID    string `json:"session_id"`
	Characters   int    `json:"characters"`
	ChunksStored int    `json:"chunks_stored"`
}

// transcriptHandler ingests a transcript, either as raw text or by
// transcribing a local media file. The transcript replaces the
// session's previous one and its chunks are pushed to the vector store.
func (s *Server) transcriptHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	text := req.Text
	session := s.sessions.GetOrCreate(req.SessionID)

	if text == "" {
		if req.FilePath == "" {
			writeError(w, core.InvalidArgumentf("text or file_path is required"))
			return
		}
		transcribed, err := s.transcriber.Transcribe(r.Context(), req.FilePath)
		if err != nil {
			writeError(w, err)
			return
		}
		text = transcribed
		if dur, err := media.ProbeDurationMinutes(req.FilePath); err == nil {
			session.SetDurationMin(dur)
		} else {
			log.Printf("[server] duration probe failed for %s: %v", req.FilePath, err)
		}
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, core.InvalidArgumentf("transcript is empty"))
		return
	}

	session.SetTranscript(text)

	stored := 0
	chunks, err := processors.SplitForSummary(text, processors.DefaultSplitChunks)
	if err == nil {
		if stored, err = s.store.Upsert(r.Context(), session.ID, chunks); err != nil {
			// Retrieval is an optimization; ingestion still succeeds.
			log.Printf("[server] vector store upsert failed for session %s: %v", session.ID, err)
		}
	}

	core.WriteJSON(w, http.StatusOK, transcriptResponse{
		SessionID:    session.ID,
		Characters:   len(text),
		ChunksStored: stored,
	})
}

type summarizeRequest struct {
	SessionID        string  `json:"session_id"`
	Language         string  `json:"language"`
	DetailLevel      string  `json:"detail_level"`
	VideoDurationMin float64 `json:"video_duration_min"`
}

type summarizeResponse struct {
	SessionID string        `json:"session_id"`
	Summary   *core.Summary `json:"summary"`
	Keywords  []string      `json:"keywords,omitempty"`
}

func (s *Server) summarizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	session := s.sessions.Get(req.SessionID)
	if session == nil || !session.Index.Ready() {
		writeError(w, fmt.Errorf("%w: upload a video and transcribe first", core.ErrNotReady))
		return
	}

	language, err := parseLanguage(req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	detail, err := parseDetailLevel(req.DetailLevel)
	if err != nil {
		writeError(w, err)
		return
	}

	duration := req.VideoDurationMin
	if duration <= 0 {
		duration = session.DurationMin()
	}
	if duration <= 0 {
		duration = defaultDurationMin
	}

	summary, err := s.summarizer.SummarizeWithTOC(r.Context(),
		session.Index.Context(summarizeSourceLimit),
		processors.SummarizeOptions{
			Language:         language,
			Detail:           detail,
			VideoDurationMin: duration,
		}, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	session.SetSummary(summary)

	// Keyword extraction follows every successful summary; a failure
	// here must not fail the summary itself.
	keywords, err := processors.ExtractKeywords(r.Context(), s.cli, summary.FullText, core.LanguageEnglish)
	if err != nil {
		log.Printf("[server] keyword extraction failed for session %s: %v", session.ID, err)
	} else {
		session.SetKeywords(keywords)
	}

	core.WriteJSON(w, http.StatusOK, summarizeResponse{
		SessionID: session.ID,
		Summary:   summary,
		Keywords:  keywords,
	})
}

type qaRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type qaResponse struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

func (s *Server) qaHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var req qaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	answer, err := s.dispatcher.Answer(r.Context(), req.SessionID, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, qaResponse{SessionID: req.SessionID, Question: req.Question, Answer: answer})
}

func (s *Server) exchangesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	session := s.sessions.Get(r.URL.Query().Get("session_id"))
	if session == nil {
		writeError(w, core.InvalidArgumentf("unknown session"))
		return
	}
	core.WriteJSON(w, http.StatusOK, map[string]any{
		"session_id": session.ID,
		"exchanges":  session.Exchanges(),
	})
}

type keywordsRequest struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}

func (s *Server) keywordsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var req keywordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	session := s.sessions.Get(req.SessionID)
	if session == nil || !session.Index.Ready() {
		writeError(w, fmt.Errorf("%w: upload a video and transcribe first", core.ErrNotReady))
		return
	}
	language, err := parseLanguage(req.Language)
	if err != nil {
		writeError(w, err)
		return
	}

	source := session.Index.Context(summarizeSourceLimit)
	if sum := session.Summary(); sum != nil {
		source = sum.FullText
	}
	keywords, err := processors.ExtractKeywords(r.Context(), s.cli, source, language)
	if err != nil {
		writeError(w, err)
		return
	}
	session.SetKeywords(keywords)

	core.WriteJSON(w, http.StatusOK, map[string]any{"session_id": session.ID, "keywords": keywords})
}

type translateRequest struct {
	SessionID      string `json:"session_id"`
	TargetLanguage string `json:"target_language"`
	Source         string `json:"source"` // "summary" (default) or "transcript"
}

func (s *Server) translateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	session := s.sessions.Get(req.SessionID)
	if session == nil || !session.Index.Ready() {
		writeError(w, fmt.Errorf("%w: upload a video and transcribe first", core.ErrNotReady))
		return
	}

	var source string
	switch strings.ToLower(req.Source) {
	case "transcript":
		source = session.Index.Context(0)
	case "", "summary":
		sum := session.Summary()
		if sum == nil {
			writeError(w, fmt.Errorf("%w: generate a summary first", core.ErrNotReady))
			return
		}
		source = sum.FullText
	default:
		writeError(w, core.InvalidArgumentf("source must be \"summary\" or \"transcript\", got %q", req.Source))
		return
	}

	translated, err := processors.Translate(r.Context(), s.cli, source, req.TargetLanguage, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, map[string]any{
		"session_id":      session.ID,
		"target_language": req.TargetLanguage,
		"translation":     translated,
	})
}

type quizRequest struct {
	SessionID string `json:"session_id"`
	Count     int    `json:"count"`
}

func (s *Server) quizHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	session := s.sessions.Get(req.SessionID)
	if session == nil || !session.Index.Ready() {
		writeError(w, fmt.Errorf("%w: upload a video and transcribe first", core.ErrNotReady))
		return
	}

	// Quiz from the summary when one exists, otherwise from the head of
	// the transcript.
	source := session.Index.Context(3000)
	if sum := session.Summary(); sum != nil {
		source = sum.FullText
	}

	quiz, err := processors.GenerateQuiz(r.Context(), s.cli, source, req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	session.SetQuiz(quiz)

	core.WriteJSON(w, http.StatusOK, map[string]any{"session_id": session.ID, "quiz": quiz})
}

type quizGradeRequest struct {
	SessionID string   `json:"session_id"`
	Answers   []string `json:"answers"`
}

func (s *Server) quizGradeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		core.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var req quizGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	session := s.sessions.Get(req.SessionID)
	if session == nil {
		writeError(w, core.InvalidArgumentf("unknown session"))
		return
	}
	quiz := session.Quiz()
	if len(quiz) == 0 {
		writeError(w, fmt.Errorf("%w: generate a quiz first", core.ErrNotReady))
		return
	}

	result, err := processors.GradeQuiz(quiz, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, map[string]any{"session_id": session.ID, "result": result})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseLanguage(s string) (core.Language, error) {
	switch s {
	case "", string(core.LanguageEnglish):
		return core.LanguageEnglish, nil
	case string(core.LanguageArabic):
		return core.LanguageArabic, nil
	default:
		return "", core.InvalidArgumentf("unsupported language %q", s)
	}
}

func parseDetailLevel(s string) (core.DetailLevel, error) {
	switch s {
	case "", string(core.DetailDetailed):
		return core.DetailDetailed, nil
	case string(core.DetailMedium):
		return core.DetailMedium, nil
	case string(core.DetailShort):
		return core.DetailShort, nil
	default:
		return "", core.InvalidArgumentf("unsupported detail level %q", s)
	}
}
