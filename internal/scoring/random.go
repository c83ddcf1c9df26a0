package scoring

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rbright/mockprep/internal/store"
)

var (
	strengths = []string{
		"Clear articulation and good volume control",
		"Strong technical knowledge and problem-solving approach",
		"Confident body language and professional demeanor",
		"Good use of relevant terminology",
	}

	improvements = []Improvement{
		{
			Category:   "Voice Delivery",
			Issue:      "Speaking pace could be more consistent",
			Suggestion: "Practice with a metronome to maintain steady rhythm",
			Priority:   PriorityMedium,
		},
		{
			Category:   "Eye Contact",
			Issue:      "Occasional breaks in eye contact during complex answers",
			Suggestion: "Practice maintaining eye contact even while thinking",
			Priority:   PriorityHigh,
		},
		{
			Category:   "Answer Structure",
			Issue:      "Some answers lack concrete examples",
			Suggestion: "Use the STAR method for behavioral questions",
			Priority:   PriorityMedium,
		},
	}

	recommendations = []string{
		"Practice maintaining consistent eye contact throughout your responses",
		"Work on reducing filler words (um, uh, like) in your speech",
		"Prepare more specific examples to support your answers",
		"Focus on speaking at a steady, confident pace",
		"Consider using the STAR method (Situation, Task, Action, Result) for behavioral questions",
		"Practice power poses before interviews to boost confidence",
	}

	answerStrengths = []string{
		"Clear communication",
		"Good structure in response",
		"Relevant examples provided",
	}

	answerImprovements = []string{
		"Consider adding more specific examples",
		"Work on maintaining eye contact",
		"Reduce use of filler words",
	}
)

const (
	fastPaceWPM       = 120
	defaultVolume     = 80
	defaultEyeContact = 82
	defaultPosture    = 78
)

// RandomScorer draws placeholder scores from fixed ranges. Only pace, volume
// and filler scores depend on the bundle.
type RandomScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewRandomScorer returns a scorer over src, or a time-seeded source when src is nil.
func NewRandomScorer(src rand.Source) *RandomScorer {
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.NewPCG(seed, seed>>1|1)
	}
	return &RandomScorer{rng: rand.New(src), now: time.Now}
}

// Score implements ScoreProvider.
func (s *RandomScorer) Score(ctx context.Context, bundle store.Bundle) (Scores, error) {
	if err := ctx.Err(); err != nil {
		return Scores{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	overall := Overall{
		Grammar:    s.between(70, 99),
		Fluency:    s.between(75, 99),
		Confidence: s.between(80, 99),
		Relevance:  s.between(75, 99),
		Clarity:    s.between(80, 99),
	}
	overall.Score = roundDiv(overall.Grammar+overall.Fluency+overall.Confidence+overall.Relevance+overall.Clarity, 5)
	overall.Grade = Grade(overall.Score)
	overall.Summary = Summary(overall.Grade)

	out := Scores{
		Overall: overall,
		Verbal:  verbalScores(bundle, overall),
		NonVerbal: NonVerbal{
			EyeContact:       defaultEyeContact,
			Posture:          defaultPosture,
			Gestures:         s.between(75, 94),
			FacialExpression: s.between(70, 94),
		},
		Content: Content{
			Relevance: overall.Relevance,
			Structure: s.between(70, 94),
			Examples:  s.between(65, 94),
			Depth:     s.between(75, 99),
		},
		Strengths:       append([]string(nil), strengths...),
		Improvements:    append([]Improvement(nil), improvements...),
		Recommendations: append([]string(nil), recommendations...),
		GeneratedAt:     s.now(),
	}

	out.Questions = make([]QuestionFeedback, 0, len(bundle.Questions))
	for i, q := range bundle.Questions {
		answer := ""
		if i < len(bundle.Answers) {
			answer = bundle.Answers[i]
		}
		feedback := QuestionFeedback{
			Question:   q.Question,
			Type:       string(q.Type),
			Category:   q.Category,
			Difficulty: string(q.Difficulty),
			Answer:     answer,
			WordCount:  WordCount(answer),
			Scores: QuestionScores{
				Grammar:    s.between(70, 99),
				Fluency:    s.between(75, 99),
				Confidence: s.between(80, 99),
				Relevance:  s.between(75, 99),
			},
			Strengths:    append([]string(nil), answerStrengths[:s.between(1, len(answerStrengths))]...),
			Improvements: append([]string(nil), answerImprovements[:s.between(1, len(answerImprovements))]...),
		}
		if bundle.RealTimeMetrics != nil {
			feedback.Transcript = bundle.RealTimeMetrics.Transcripts[i]
		}
		out.Questions = append(out.Questions, feedback)
	}
	return out, nil
}

func verbalScores(bundle store.Bundle, overall Overall) Verbal {
	verbal := Verbal{
		Clarity:     overall.Clarity,
		Pace:        85,
		Volume:      defaultVolume,
		FillerWords: 100,
		Grammar:     overall.Grammar,
	}
	if analysis := bundle.VoiceAnalysis; analysis != nil {
		if analysis.WordsPerMinute > fastPaceWPM {
			verbal.Pace = 70
		}
		if analysis.VolumeLevel > 0 {
			verbal.Volume = analysis.VolumeLevel
		}
		verbal.FillerWords = max(0, 100-analysis.FillerWords*10)
	}
	return verbal
}

// between returns a uniform integer in [lo, hi]. Callers hold mu.
func (s *RandomScorer) between(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

func roundDiv(sum, n int) int {
	return (sum*2 + n) / (2 * n)
}
