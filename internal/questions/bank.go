package questions

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyBank marks a bank file that defines no questions.
var ErrEmptyBank = errors.New("question bank has no questions")

type bankFile struct {
	Questions []bankEntry `yaml:"questions"`
}

type bankEntry struct {
	ID         int    `yaml:"id"`
	Type       string `yaml:"type"`
	Question   string `yaml:"question"`
	Category   string `yaml:"category"`
	Difficulty string `yaml:"difficulty"`
}

// LoadFile reads a YAML question bank from path.
func LoadFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %q: %w", path, err)
	}

	list, err := ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("question bank %q: %w", path, err)
	}
	return list, nil
}

// ParseBank decodes and validates YAML bank content.
func ParseBank(data []byte) ([]Question, error) {
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(file.Questions) == 0 {
		return nil, ErrEmptyBank
	}

	seen := make(map[int]struct{}, len(file.Questions))
	out := make([]Question, 0, len(file.Questions))
	for i, entry := range file.Questions {
		id := entry.ID
		if id == 0 {
			id = i + 1
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("question %d: duplicate id %d", i+1, id)
		}
		seen[id] = struct{}{}

		prompt := strings.TrimSpace(entry.Question)
		if prompt == "" {
			return nil, fmt.Errorf("question %d: prompt must not be empty", id)
		}
		typ, ok := ParseType(entry.Type)
		if !ok {
			return nil, fmt.Errorf("question %d: unknown type %q (expected HR or Technical)", id, entry.Type)
		}
		difficulty, ok := ParseDifficulty(entry.Difficulty)
		if !ok {
			return nil, fmt.Errorf("question %d: unknown difficulty %q", id, entry.Difficulty)
		}
		category := strings.TrimSpace(entry.Category)
		if category == "" {
			category = "General"
		}

		out = append(out, Question{
			ID:         id,
			Type:       typ,
			Question:   prompt,
			Category:   category,
			Difficulty: difficulty,
		})
	}
	return out, nil
}
