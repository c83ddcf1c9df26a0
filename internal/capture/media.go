// Package capture provides best-effort media acquisition, level metering, and speech analysis.
package capture

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrPermissionDenied marks a media request refused by the runtime or the user.
	ErrPermissionDenied = errors.New("media permission denied")
	// ErrNoDevice marks a media request with no usable input device.
	ErrNoDevice = errors.New("no usable media device")
	// ErrUnsupported marks a runtime without the requested media capability.
	ErrUnsupported = errors.New("media capability unsupported")
)

// Kind identifies one track type of an acquired stream.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Request describes the tracks requested from MediaDevices.
type Request struct {
	Audio bool
	Video bool
}

// MediaDevices is the runtime capability that grants media streams.
type MediaDevices interface {
	Acquire(context.Context, Request) (Stream, error)
}

// Stream is one granted media stream owned exclusively by the Adapter.
type Stream interface {
	Kinds() []Kind
	// FrequencyData fills dst with byte-scaled frequency magnitudes and returns the bin count written.
	FrequencyData(dst []byte) int
	Close() error
}

// PCMSource is implemented by streams that expose raw audio for speech recognition.
type PCMSource interface {
	PCM() io.Reader
}

// Recognizer is the optional continuous speech-to-text capability.
type Recognizer interface {
	Recognize(ctx context.Context, pcm io.Reader, onFinal func(string)) (Recognition, error)
}

// Recognition is one running recognizer session.
type Recognition interface {
	Stop() error
}

// PreviewSink renders the live preview of an active stream.
type PreviewSink interface {
	Attach(kinds []Kind)
	Detach()
}

func hasKind(kinds []Kind, want Kind) bool {
	for _, kind := range kinds {
		if kind == want {
			return true
		}
	}
	return false
}
