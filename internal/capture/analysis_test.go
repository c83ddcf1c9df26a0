package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeFillerAndScoreClamps(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		elapsed time.Duration
		pauses  int
		level   float64
		want    Analysis
	}{
		{
			name:    "clean speech",
			text:    "I design reliable systems",
			elapsed: 30 * time.Second,
			pauses:  2,
			level:   41.6,
			want:    Analysis{WordsPerMinute: 8, FillerWords: 0, PauseCount: 2, Clarity: 100, Confidence: 94, VolumeLevel: 42},
		},
		{
			name:    "heavy filler clamps clarity",
			text:    "um uh um uh um uh um basically",
			elapsed: time.Minute,
			pauses:  5,
			want:    Analysis{WordsPerMinute: 8, FillerWords: 8, PauseCount: 5, Clarity: 70, Confidence: 69},
		},
		{
			name:    "confidence floor",
			text:    "um um um um um um um um um um um um um um um",
			elapsed: time.Minute,
			pauses:  5,
			want:    Analysis{WordsPerMinute: 15, FillerWords: 15, PauseCount: 5, Clarity: 70, Confidence: 60},
		},
		{
			name:    "short capture falls back to half minute",
			text:    "hello there",
			elapsed: 200 * time.Millisecond,
			pauses:  1,
			want:    Analysis{WordsPerMinute: 4, PauseCount: 1, Clarity: 100, Confidence: 97},
		},
		{
			name:   "empty transcript",
			pauses: 3,
			want:   Analysis{PauseCount: 3, Clarity: 100, Confidence: 91},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Analyze(tc.text, tc.elapsed, tc.pauses, tc.level))
		})
	}
}

func TestLevelScalesByteAverage(t *testing.T) {
	require.Zero(t, Level(nil))
	require.InDelta(t, 100, Level([]byte{255, 255}), 0.001)
	require.InDelta(t, 50, Level([]byte{255, 0}), 0.001)
}
