package scoring

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/mockprep/internal/capture"
	"github.com/rbright/mockprep/internal/questions"
	"github.com/rbright/mockprep/internal/store"
)

func testBundle() store.Bundle {
	qs := questions.Default()[:3]
	return store.Bundle{
		ID:        "b1",
		Questions: qs,
		Answers:   []string{"I build systems", "", "  two   words "},
	}
}

func TestRandomScorerRanges(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		scorer := NewRandomScorer(rand.NewPCG(seed, seed+7))
		scores, err := scorer.Score(context.Background(), testBundle())
		require.NoError(t, err)

		o := scores.Overall
		require.GreaterOrEqual(t, o.Grammar, 70)
		require.LessOrEqual(t, o.Grammar, 99)
		require.GreaterOrEqual(t, o.Fluency, 75)
		require.LessOrEqual(t, o.Fluency, 99)
		require.GreaterOrEqual(t, o.Confidence, 80)
		require.LessOrEqual(t, o.Confidence, 99)
		require.GreaterOrEqual(t, o.Relevance, 75)
		require.LessOrEqual(t, o.Relevance, 99)
		require.GreaterOrEqual(t, o.Clarity, 80)
		require.LessOrEqual(t, o.Clarity, 99)
		require.GreaterOrEqual(t, o.Score, 76)
		require.LessOrEqual(t, o.Score, 99)
		require.Equal(t, Grade(o.Score), o.Grade)

		require.Equal(t, 82, scores.NonVerbal.EyeContact)
		require.Equal(t, 78, scores.NonVerbal.Posture)
		require.GreaterOrEqual(t, scores.NonVerbal.Gestures, 75)
		require.LessOrEqual(t, scores.NonVerbal.Gestures, 94)
		require.GreaterOrEqual(t, scores.NonVerbal.FacialExpression, 70)
		require.LessOrEqual(t, scores.NonVerbal.FacialExpression, 94)

		require.Equal(t, o.Relevance, scores.Content.Relevance)
		require.GreaterOrEqual(t, scores.Content.Examples, 65)
		require.LessOrEqual(t, scores.Content.Examples, 94)

		require.Len(t, scores.Questions, 3)
		for _, q := range scores.Questions {
			require.GreaterOrEqual(t, len(q.Strengths), 1)
			require.LessOrEqual(t, len(q.Strengths), 3)
			require.GreaterOrEqual(t, len(q.Improvements), 1)
			require.LessOrEqual(t, len(q.Improvements), 3)
			require.GreaterOrEqual(t, q.Scores.Confidence, 80)
		}
	}
}

func TestRandomScorerIsDeterministicForSeed(t *testing.T) {
	a, err := NewRandomScorer(rand.NewPCG(3, 4)).Score(context.Background(), testBundle())
	require.NoError(t, err)
	b, err := NewRandomScorer(rand.NewPCG(3, 4)).Score(context.Background(), testBundle())
	require.NoError(t, err)

	require.Equal(t, a.Overall, b.Overall)
	require.Equal(t, a.Questions, b.Questions)
}

func TestQuestionFeedbackCarriesAnswers(t *testing.T) {
	bundle := testBundle()
	bundle.RealTimeMetrics = &store.RealTimeMetrics{Transcripts: map[int]string{0: "i build systems"}}

	scores, err := NewRandomScorer(rand.NewPCG(1, 1)).Score(context.Background(), bundle)
	require.NoError(t, err)

	require.Equal(t, 3, scores.Questions[0].WordCount)
	require.Equal(t, 0, scores.Questions[1].WordCount)
	require.Equal(t, 2, scores.Questions[2].WordCount)
	require.Equal(t, "i build systems", scores.Questions[0].Transcript)
	require.Empty(t, scores.Questions[1].Transcript)
	require.Equal(t, bundle.Questions[0].Question, scores.Questions[0].Question)
	require.Equal(t, "HR", scores.Questions[0].Type)
}

func TestVerbalScoresFollowVoiceAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		analysis *capture.Analysis
		pace     int
		volume   int
		fillers  int
	}{
		{name: "no analysis", pace: 85, volume: 80, fillers: 100},
		{name: "fast speaker", analysis: &capture.Analysis{WordsPerMinute: 150, VolumeLevel: 42, FillerWords: 3}, pace: 70, volume: 42, fillers: 70},
		{name: "silent meter", analysis: &capture.Analysis{WordsPerMinute: 120}, pace: 85, volume: 80, fillers: 100},
		{name: "many fillers", analysis: &capture.Analysis{FillerWords: 14}, pace: 85, volume: 80, fillers: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bundle := testBundle()
			bundle.VoiceAnalysis = tc.analysis

			scores, err := NewRandomScorer(rand.NewPCG(9, 9)).Score(context.Background(), bundle)
			require.NoError(t, err)
			require.Equal(t, tc.pace, scores.Verbal.Pace)
			require.Equal(t, tc.volume, scores.Verbal.Volume)
			require.Equal(t, tc.fillers, scores.Verbal.FillerWords)
			require.Equal(t, scores.Overall.Clarity, scores.Verbal.Clarity)
		})
	}
}

func TestGradeBands(t *testing.T) {
	require.Equal(t, "A+", Grade(97))
	require.Equal(t, "A", Grade(90))
	require.Equal(t, "B+", Grade(88))
	require.Equal(t, "B", Grade(80))
	require.Equal(t, "C+", Grade(79))
	require.Equal(t, "C", Grade(70))
	require.Equal(t, "D", Grade(12))
}

func TestScoreHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRandomScorer(nil).Score(ctx, testBundle())
	require.ErrorIs(t, err, context.Canceled)
}
