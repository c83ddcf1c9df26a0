package capture

import (
	"math"
	"time"

	"github.com/rbright/mockprep/internal/transcript"
)

// Analysis is the final derived voice summary computed when capture stops.
type Analysis struct {
	WordsPerMinute int `json:"wordsPerMinute"`
	FillerWords    int `json:"fillerWords"`
	PauseCount     int `json:"pauseCount"`
	Clarity        int `json:"clarity"`
	Confidence     int `json:"confidence"`
	VolumeLevel    int `json:"volumeLevel"`
}

// Metrics summarizes the live meter over one capture session.
type Metrics struct {
	PeakVolume    int `json:"peakVolume"`
	AverageVolume int `json:"averageVolume"`
	Samples       int `json:"samples"`
}

// Analyze derives the voice summary from transcript text.
// pauses is supplied by the caller; it is not derived from the audio.
func Analyze(text string, elapsed time.Duration, pauses int, level float64) Analysis {
	words := transcript.Words(text)
	fillers := transcript.CountFillers(words)

	return Analysis{
		WordsPerMinute: wordsPerMinute(len(words), elapsed),
		FillerWords:    fillers,
		PauseCount:     pauses,
		Clarity:        clamp(100-fillers*5, 70, 100),
		Confidence:     clamp(100-pauses*3-fillers*2, 60, 100),
		VolumeLevel:    int(math.Round(level)),
	}
}

// wordsPerMinute falls back to a 30 second assumption for captures shorter than one second.
func wordsPerMinute(words int, elapsed time.Duration) int {
	if words == 0 {
		return 0
	}
	if elapsed < time.Second {
		return words * 2
	}
	return int(math.Round(float64(words) / elapsed.Minutes()))
}

// Level converts byte frequency data to a 0..100 amplitude.
func Level(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0
	for _, v := range data {
		sum += int(v)
	}
	return float64(sum) / float64(len(data)) * 100 / 255
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
