package questions

import (
	"fmt"
	"strings"
)

// Profile is the candidate input used to derive a custom question set.
type Profile struct {
	JobRole    string   `json:"jobRole"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
}

// CustomSet is the persisted custom interview, consumed by `start --custom`.
type CustomSet struct {
	Questions  []Question `json:"questions"`
	JobRole    string     `json:"jobRole"`
	Experience string     `json:"experience"`
	Skills     []string   `json:"skills"`
}

const maxSkillQuestions = 3

// Generate fabricates a custom question set from profile inputs.
func Generate(profile Profile) CustomSet {
	role := strings.TrimSpace(profile.JobRole)
	if role == "" {
		role = "this role"
	}
	skills := normalizeSkills(profile.Skills)

	list := make([]Question, 0, maxSkillQuestions+3)
	add := func(typ Type, category string, difficulty Difficulty, prompt string) {
		list = append(list, Question{
			ID:         len(list) + 1,
			Type:       typ,
			Question:   prompt,
			Category:   category,
			Difficulty: difficulty,
		})
	}

	if len(skills) >= 2 {
		add(TypeTechnical, "Technical Experience", DifficultyMedium,
			fmt.Sprintf("Based on your experience as %s, can you explain a challenging project where you used %s and %s?", role, skills[0], skills[1]))
	} else {
		add(TypeTechnical, "Technical Experience", DifficultyMedium,
			fmt.Sprintf("Based on your experience as %s, can you explain a challenging project you delivered?", role))
	}

	add(TypeHR, "Career Progression", DifficultyEasy,
		fmt.Sprintf("How have your %s shaped your career goals?", experiencePhrase(profile.Experience)))

	for i := 2; i < len(skills) && i < 2+maxSkillQuestions-1; i++ {
		add(TypeTechnical, "Domain Expertise", DifficultyMedium,
			fmt.Sprintf("Describe your experience with %s and how you've applied it in real-world projects.", skills[i]))
	}

	add(TypeHR, "Role Fit", DifficultyEasy,
		fmt.Sprintf("What attracts you to %s and how does it align with your career aspirations?", role))

	if len(skills) > 0 {
		add(TypeTechnical, "System Design", DifficultyHard,
			fmt.Sprintf("How would you approach scaling a %s based system to handle increased traffic?", skills[0]))
	}

	return CustomSet{
		Questions:  list,
		JobRole:    strings.TrimSpace(profile.JobRole),
		Experience: strings.TrimSpace(profile.Experience),
		Skills:     skills,
	}
}

// ParseSkills splits a comma separated skill list.
func ParseSkills(raw string) []string {
	return normalizeSkills(strings.Split(raw, ","))
}

func normalizeSkills(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, skill := range raw {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

func experiencePhrase(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "past roles"
	}
	return raw + " of experience"
}
