package store

import (
	"time"

	"github.com/rbright/mockprep/internal/capture"
	"github.com/rbright/mockprep/internal/questions"
)

// Bundle is the persisted snapshot of one completed interview.
// Answers is indexed by question position.
type Bundle struct {
	ID              string               `json:"id"`
	Questions       []questions.Question `json:"questions"`
	Answers         []string             `json:"answers"`
	VoiceAnalysis   *capture.Analysis    `json:"voiceAnalysis,omitempty"`
	RealTimeMetrics *RealTimeMetrics     `json:"realTimeMetrics,omitempty"`
	Timestamp       time.Time            `json:"timestamp"`
}

// RealTimeMetrics carries live meter aggregates and per-position transcript excerpts.
type RealTimeMetrics struct {
	capture.Metrics
	Transcripts map[int]string `json:"transcripts,omitempty"`
}

// Role is the coarse, unsigned user role marker.
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Preferences groups the process-wide flags that survive across sessions.
type Preferences struct {
	HasSeenFeedback bool   `json:"hasSeenFeedback"`
	UserRole        Role   `json:"userRole,omitempty"`
	UserEmail       string `json:"userEmail,omitempty"`
}

// Rating is the thumbs up/down answer of the feedback prompt.
type Rating string

const (
	RatingNone     Rating = ""
	RatingPositive Rating = "positive"
	RatingNegative Rating = "negative"
)

// Feedback is one submitted response to the feedback prompt.
type Feedback struct {
	Rating      Rating    `json:"rating,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}
