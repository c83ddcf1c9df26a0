// Package questions defines interview questions, the built-in bank, and custom question sets.
package questions

import "strings"

// Type tags the interview track a question belongs to.
type Type string

const (
	TypeHR        Type = "HR"
	TypeTechnical Type = "Technical"
)

// Difficulty is the coarse difficulty tag shown next to a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Question is one immutable interview prompt.
type Question struct {
	ID         int        `json:"id" yaml:"id"`
	Type       Type       `json:"type" yaml:"type"`
	Question   string     `json:"question" yaml:"question"`
	Category   string     `json:"category" yaml:"category"`
	Difficulty Difficulty `json:"difficulty,omitempty" yaml:"difficulty"`
}

// Default returns the built-in five-question interview.
func Default() []Question {
	return []Question{
		{
			ID:         1,
			Type:       TypeHR,
			Question:   "Tell me about yourself and your background.",
			Category:   "Introduction",
			Difficulty: DifficultyEasy,
		},
		{
			ID:         2,
			Type:       TypeTechnical,
			Question:   "Describe a challenging project you worked on and how you overcame obstacles.",
			Category:   "Problem Solving",
			Difficulty: DifficultyMedium,
		},
		{
			ID:         3,
			Type:       TypeHR,
			Question:   "Where do you see yourself in 5 years?",
			Category:   "Career Goals",
			Difficulty: DifficultyEasy,
		},
		{
			ID:         4,
			Type:       TypeTechnical,
			Question:   "How do you stay updated with the latest technologies in your field?",
			Category:   "Technical Skills",
			Difficulty: DifficultyMedium,
		},
		{
			ID:         5,
			Type:       TypeHR,
			Question:   "Describe a time when you had to work with a difficult team member.",
			Category:   "Behavioral",
			Difficulty: DifficultyHard,
		},
	}
}

// Clone returns an independent copy of list.
func Clone(list []Question) []Question {
	if list == nil {
		return nil
	}
	out := make([]Question, len(list))
	copy(out, list)
	return out
}

// ParseType resolves a case-insensitive type tag.
func ParseType(raw string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hr":
		return TypeHR, true
	case "technical":
		return TypeTechnical, true
	default:
		return "", false
	}
}

// ParseDifficulty resolves a case-insensitive difficulty tag. Empty input maps to Medium.
func ParseDifficulty(raw string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy":
		return DifficultyEasy, true
	case "", "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	default:
		return "", false
	}
}
