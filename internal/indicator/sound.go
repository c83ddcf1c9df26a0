package indicator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jfreymuth/pulse"
)

type cueKind int

const (
	cueQuestion cueKind = iota + 1
	cueWarning
	cueComplete
	cueCancel
)

const (
	cueSampleRate = 16000
	noteGap       = 22 * time.Millisecond
	maxRamp       = 5 * time.Millisecond
)

type note struct {
	hz     float64
	length time.Duration
	gain   float64
}

// A new question rises, the time warning taps three times, completion climbs a
// major triad, and a discard falls.
var cueNotes = map[cueKind][]note{
	cueQuestion: {{hz: 660, length: 70 * time.Millisecond, gain: 0.18}, {hz: 880, length: 80 * time.Millisecond, gain: 0.18}},
	cueWarning:  {{hz: 587, length: 60 * time.Millisecond, gain: 0.2}, {hz: 587, length: 60 * time.Millisecond, gain: 0.2}, {hz: 587, length: 60 * time.Millisecond, gain: 0.2}},
	cueComplete: {{hz: 523, length: 70 * time.Millisecond, gain: 0.18}, {hz: 659, length: 80 * time.Millisecond, gain: 0.18}, {hz: 784, length: 130 * time.Millisecond, gain: 0.16}},
	cueCancel:   {{hz: 440, length: 80 * time.Millisecond, gain: 0.18}, {hz: 330, length: 100 * time.Millisecond, gain: 0.18}},
}

var cuePCM = func() map[cueKind][]int16 {
	out := make(map[cueKind][]int16, len(cueNotes))
	for kind, notes := range cueNotes {
		out[kind] = renderNotes(notes)
	}
	return out
}()

// emitCue plays kind on the default PulseAudio sink and blocks until drained.
func emitCue(ctx context.Context, kind cueKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	samples := cuePCM[kind]
	if len(samples) == 0 {
		return nil
	}

	client, err := pulse.NewClient(
		pulse.ClientApplicationName("mockprep"),
		pulse.ClientApplicationIconName("dialog-information"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	src := &pcmSource{ctx: ctx, samples: samples}
	stream, err := client.NewPlayback(
		pulse.Int16Reader(src.read),
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cueSampleRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("mockprep interview cue"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play cue: %w", err)
	}
	return nil
}

// pcmSource feeds samples to a playback stream, stopping early on cancel.
type pcmSource struct {
	ctx     context.Context
	samples []int16
}

func (s *pcmSource) read(buf []int16) (int, error) {
	if s.ctx.Err() != nil || len(s.samples) == 0 {
		return 0, pulse.EndOfData
	}
	n := copy(buf, s.samples)
	s.samples = s.samples[n:]
	if len(s.samples) == 0 {
		return n, pulse.EndOfData
	}
	return n, nil
}

// renderNotes joins notes with a short silence between each pair.
func renderNotes(notes []note) []int16 {
	var pcm []int16
	for i, n := range notes {
		if i > 0 {
			pcm = append(pcm, make([]int16, sampleCount(noteGap))...)
		}
		pcm = append(pcm, renderNote(n)...)
	}
	return pcm
}

// renderNote synthesizes a sine with linear attack and release ramps so the
// note starts and ends at zero without clicks.
func renderNote(n note) []int16 {
	count := sampleCount(n.length)
	if count <= 0 || n.hz <= 0 || n.gain <= 0 {
		return nil
	}
	ramp := max(1, min(count/10, sampleCount(maxRamp)))

	pcm := make([]int16, count)
	for i := range pcm {
		envelope := min(1, float64(i)/float64(ramp), float64(count-1-i)/float64(ramp))
		phase := 2 * math.Pi * n.hz * float64(i) / cueSampleRate
		pcm[i] = int16(math.Round(math.Sin(phase) * n.gain * envelope * math.MaxInt16))
	}
	return pcm
}

func sampleCount(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * cueSampleRate))
}
