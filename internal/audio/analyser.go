package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

const (
	fftSize     = 256
	binCount    = fftSize / 2
	minDecibels = -100.0
	maxDecibels = -30.0
	smoothing   = 0.8
)

// Analyser keeps the most recent fftSize samples and derives byte frequency data
// with the scaling of a browser analyser node.
type Analyser struct {
	mu       sync.Mutex
	ring     [fftSize]float64
	pos      int
	smoothed [binCount]float64

	window [fftSize]float64
	cos    [fftSize]float64
	sin    [fftSize]float64
}

// NewAnalyser constructs an analyser with a Blackman window.
func NewAnalyser() *Analyser {
	a := &Analyser{}
	const alpha = 0.16
	a0, a1, a2 := (1-alpha)/2, 0.5, alpha/2
	for n := 0; n < fftSize; n++ {
		x := 2 * math.Pi * float64(n) / fftSize
		a.window[n] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
		a.cos[n] = math.Cos(x)
		a.sin[n] = math.Sin(x)
	}
	return a
}

// WriteS16LE appends little-endian signed 16-bit mono samples.
func (a *Analyser) WriteS16LE(pcm []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		a.ring[a.pos] = float64(sample) / 32768
		a.pos = (a.pos + 1) % fftSize
	}
}

// WriteSamples appends normalized [-1, 1] samples.
func (a *Analyser) WriteSamples(samples []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.ring[a.pos] = s
		a.pos = (a.pos + 1) % fftSize
	}
}

// FrequencyData fills dst with up to binCount magnitudes mapped from
// [minDecibels, maxDecibels] onto [0, 255].
func (a *Analyser) FrequencyData(dst []byte) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	var frame [fftSize]float64
	for n := 0; n < fftSize; n++ {
		frame[n] = a.ring[(a.pos+n)%fftSize] * a.window[n]
	}

	bins := min(len(dst), binCount)
	for k := 0; k < binCount; k++ {
		var re, im float64
		for n := 0; n < fftSize; n++ {
			idx := (k * n) % fftSize
			re += frame[n] * a.cos[idx]
			im -= frame[n] * a.sin[idx]
		}
		magnitude := math.Hypot(re, im) / fftSize
		a.smoothed[k] = smoothing*a.smoothed[k] + (1-smoothing)*magnitude
		if k < bins {
			dst[k] = toByte(a.smoothed[k])
		}
	}
	return bins
}

func toByte(magnitude float64) byte {
	if magnitude <= 0 {
		return 0
	}
	db := 20 * math.Log10(magnitude)
	scaled := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	switch {
	case scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	default:
		return byte(scaled)
	}
}
