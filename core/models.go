package core

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Language of the generated summary and prompts.
type Language string

const (
	LanguageArabic  Language = "Arabic"
	LanguageEnglish Language = "English"
)

// DetailLevel selects how aggressive the per-chapter compression is.
type DetailLevel string

const (
	DetailDetailed DetailLevel = "Detailed Summary" // up to 300 words per chapter
	DetailMedium   DetailLevel = "Medium Summary"   // up to 150 words
	DetailShort    DetailLevel = "Short Summary"    // up to 80 words
)

// ChapterEntry is one table-of-contents line. Timestamp is a coarse
// per-chapter estimate rendered as "[MM:00]"; the seconds component is
// always zero, it is not a precise cue point.
type ChapterEntry struct {
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Timestamp     string `json:"timestamp"`
	EstimatedMin  int    `json:"estimated_time_minutes"`
}

// SummarySegment is the summarized rendering of one transcript chunk.
type SummarySegment struct {
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Timestamp     string `json:"timestamp"`
	Body          string `json:"body"`
}

// Summary aggregates the TOC and the per-chapter bodies. Chapters, TOC
// lines and segments share the same order; numbering starts at 1.
type Summary struct {
	TableOfContents []ChapterEntry   `json:"table_of_contents"`
	Segments        []SummarySegment `json:"segments"`
	FullText        string           `json:"full_text"`
}

// Speaker identifies who produced an exchange line.
type Speaker string

const (
	SpeakerUser  Speaker = "User"
	SpeakerAgent Speaker = "Agent"
)

// Exchange is one line of the QA conversation log.
type Exchange struct {
	Speaker Speaker   `json:"speaker"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// QuizQuestion is one multiple-choice comprehension question. Options
// always has exactly four entries labeled A-D; Answer is the letter.
type QuizQuestion struct {
	Q       string   `json:"q"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// QuizResult is the graded outcome of a quiz attempt.
type QuizResult struct {
	Score   int `json:"score"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// Hit is one vector store search result.
type Hit struct {
	SessionID string  `json:"session_id"`
	ChunkID   int     `json:"chunk_id"`
	Score     float64 `json:"score"`
	Text      string  `json:"text"`
}

// NewID returns a random 32-char hex identifier for sessions.
func NewID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
