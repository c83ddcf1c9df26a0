package questions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultBank(t *testing.T) {
	list := Default()
	require.Len(t, list, 5)
	require.Equal(t, "Tell me about yourself and your background.", list[0].Question)

	seen := map[int]bool{}
	for _, q := range list {
		require.False(t, seen[q.ID], "duplicate id %d", q.ID)
		seen[q.ID] = true
		require.Contains(t, []Type{TypeHR, TypeTechnical}, q.Type)
		require.NotEmpty(t, q.Difficulty)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	list := Default()
	clone := Clone(list)
	clone[0].Question = "changed"
	require.NotEqual(t, list[0].Question, clone[0].Question)
	require.Nil(t, Clone(nil))
}

func TestParseBank(t *testing.T) {
	list, err := ParseBank([]byte(`
questions:
  - type: technical
    question: "  Explain goroutines. "
    category: Go
    difficulty: hard
  - id: 7
    type: HR
    question: Why us?
`))
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, Question{ID: 1, Type: TypeTechnical, Question: "Explain goroutines.", Category: "Go", Difficulty: DifficultyHard}, list[0])
	require.Equal(t, 7, list[1].ID)
	require.Equal(t, "General", list[1].Category)
	require.Equal(t, DifficultyMedium, list[1].Difficulty)
}

func TestParseBankErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "empty", yaml: "questions: []", want: "no questions"},
		{name: "bad type", yaml: "questions:\n  - type: trivia\n    question: x", want: "unknown type"},
		{name: "bad difficulty", yaml: "questions:\n  - type: HR\n    question: x\n    difficulty: brutal", want: "unknown difficulty"},
		{name: "blank prompt", yaml: "questions:\n  - type: HR\n    question: '  '", want: "must not be empty"},
		{name: "duplicate id", yaml: "questions:\n  - id: 1\n    type: HR\n    question: a\n  - id: 1\n    type: HR\n    question: b", want: "duplicate id"},
		{name: "invalid yaml", yaml: "questions: [", want: "parse yaml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBank([]byte(tc.yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions:\n  - type: HR\n    question: Hello?\n"), 0o600))

	list, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "read question bank")
}

func TestGenerateCustomSet(t *testing.T) {
	set := Generate(Profile{
		JobRole:    "Backend Engineer",
		Experience: "5 years",
		Skills:     []string{"Go", " Kubernetes ", "go", "PostgreSQL", "", "Redis"},
	})

	require.Equal(t, "Backend Engineer", set.JobRole)
	require.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL", "Redis"}, set.Skills)
	require.Len(t, set.Questions, 6)
	require.Contains(t, set.Questions[0].Question, "Go and Kubernetes")
	require.Contains(t, set.Questions[1].Question, "5 years of experience")
	require.Contains(t, set.Questions[2].Question, "PostgreSQL")
	require.Contains(t, set.Questions[3].Question, "Redis")
	require.Equal(t, "Role Fit", set.Questions[4].Category)
	require.Equal(t, "System Design", set.Questions[5].Category)

	for i, q := range set.Questions {
		require.Equal(t, i+1, q.ID)
	}
}

func TestGenerateWithoutSkills(t *testing.T) {
	set := Generate(Profile{})
	require.Len(t, set.Questions, 3)
	require.Contains(t, set.Questions[0].Question, "this role")
	require.Contains(t, set.Questions[1].Question, "past roles")
}

func TestParseSkills(t *testing.T) {
	require.Equal(t, []string{"Go", "SQL"}, ParseSkills("Go, SQL,, go"))
	require.Empty(t, ParseSkills(""))
}
