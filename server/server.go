// Package server exposes the pipeline over HTTP: transcript ingestion,
// summarization, grounded QA, keywords, translation and quiz endpoints.
package server

import (
	"errors"
	"net/http"

	"videoInsight/config"
	"videoInsight/core"
	"videoInsight/llm"
	"videoInsight/media"
	"videoInsight/processors"
	"videoInsight/qa"
	"videoInsight/storage"
)

type Server struct {
	cfg         *config.Config
	cli         llm.Client
	sessions    *qa.SessionStore
	summarizer  *processors.Summarizer
	dispatcher  *qa.Dispatcher
	store       storage.VectorStore
	transcriber media.Transcriber
}

func New(cfg *config.Config) *Server {
	cli := llm.NewClient(cfg)
	sessions := qa.NewSessionStore()
	store := storage.NewVectorStore(cfg, cli)

	return &Server{
		cfg:         cfg,
		cli:         cli,
		sessions:    sessions,
		summarizer:  processors.NewSummarizer(cli),
		dispatcher:  qa.NewDispatcher(sessions, cli, qa.SubstringGate{}),
		store:       store,
		transcriber: media.NewTranscriber(cfg),
	}
}

// Routes registers every endpoint on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/transcript", s.transcriptHandler)
	mux.HandleFunc("/summarize", s.summarizeHandler)
	mux.HandleFunc("/qa", s.qaHandler)
	mux.HandleFunc("/exchanges", s.exchangesHandler)
	mux.HandleFunc("/keywords", s.keywordsHandler)
	mux.HandleFunc("/translate", s.translateHandler)
	mux.HandleFunc("/quiz", s.quizHandler)
	mux.HandleFunc("/quiz/grade", s.quizGradeHandler)
	mux.HandleFunc("/health", s.healthHandler)
}

// errStatus maps core error kinds to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, core.ErrSummarization), errors.Is(err, core.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	core.WriteJSON(w, errStatus(err), map[string]string{"error": err.Error()})
}
