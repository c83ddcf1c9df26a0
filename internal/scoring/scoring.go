// Package scoring produces the interview report scores.
package scoring

import (
	"context"
	"strings"
	"time"

	"github.com/rbright/mockprep/internal/store"
)

// Overall groups the headline scores.
type Overall struct {
	Grammar    int    `json:"grammar"`
	Fluency    int    `json:"fluency"`
	Confidence int    `json:"confidence"`
	Relevance  int    `json:"relevance"`
	Clarity    int    `json:"clarity"`
	Score      int    `json:"score"`
	Grade      string `json:"grade"`
	Summary    string `json:"summary"`
}

// Verbal scores derive mostly from voice analysis.
type Verbal struct {
	Clarity     int `json:"clarity"`
	Pace        int `json:"pace"`
	Volume      int `json:"volume"`
	FillerWords int `json:"fillerWords"`
	Grammar     int `json:"grammar"`
}

type NonVerbal struct {
	EyeContact       int `json:"eyeContact"`
	Posture          int `json:"posture"`
	Gestures         int `json:"gestures"`
	FacialExpression int `json:"facialExpression"`
}

type Content struct {
	Relevance int `json:"relevance"`
	Structure int `json:"structure"`
	Examples  int `json:"examples"`
	Depth     int `json:"depth"`
}

// Priority ranks an improvement.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Improvement struct {
	Category   string   `json:"category"`
	Issue      string   `json:"issue"`
	Suggestion string   `json:"suggestion"`
	Priority   Priority `json:"priority"`
}

// QuestionScores holds the per-answer dimensions.
type QuestionScores struct {
	Grammar    int `json:"grammar"`
	Fluency    int `json:"fluency"`
	Confidence int `json:"confidence"`
	Relevance  int `json:"relevance"`
}

// QuestionFeedback is the analysis of one answered question.
type QuestionFeedback struct {
	Question     string         `json:"question"`
	Type         string         `json:"type"`
	Category     string         `json:"category"`
	Difficulty   string         `json:"difficulty"`
	Answer       string         `json:"answer"`
	Transcript   string         `json:"transcript,omitempty"`
	WordCount    int            `json:"wordCount"`
	Scores       QuestionScores `json:"scores"`
	Strengths    []string       `json:"strengths"`
	Improvements []string       `json:"improvements"`
}

// Scores is the full report payload.
type Scores struct {
	Overall         Overall            `json:"overall"`
	Verbal          Verbal             `json:"verbal"`
	NonVerbal       NonVerbal          `json:"nonVerbal"`
	Content         Content            `json:"content"`
	Strengths       []string           `json:"strengths"`
	Improvements    []Improvement      `json:"improvements"`
	Questions       []QuestionFeedback `json:"questionFeedback"`
	Recommendations []string           `json:"recommendations"`
	GeneratedAt     time.Time          `json:"timestamp"`
}

// ScoreProvider scores one result bundle.
type ScoreProvider interface {
	Score(ctx context.Context, bundle store.Bundle) (Scores, error)
}

// Grade maps an overall score onto a letter grade.
func Grade(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "B+"
	case score >= 80:
		return "B"
	case score >= 75:
		return "C+"
	case score >= 70:
		return "C"
	default:
		return "D"
	}
}

// Summary returns the narrative line for a grade.
func Summary(grade string) string {
	switch grade {
	case "A+", "A":
		return "Excellent performance. Your answers were clear, relevant and delivered with confidence."
	case "B+", "B":
		return "Strong performance with room for improvement in specific areas. Your technical knowledge is solid, and communication skills are developing well."
	default:
		return "A good start. Focus on structure and concrete examples to lift your next interview."
	}
}

// WordCount counts whitespace-separated words in an answer.
func WordCount(answer string) int {
	return len(strings.Fields(answer))
}
