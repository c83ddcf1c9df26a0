package capture

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rbright/mockprep/internal/transcript"
)

const (
	defaultMeterInterval = 16 * time.Millisecond
	frequencyBins        = 128
)

// State is the media acquisition state of the Adapter.
type State string

const (
	StateIdle        State = "idle"
	StateAcquiring   State = "acquiring"
	StateActive      State = "active"
	StateDenied      State = "denied"
	StateUnsupported State = "unsupported"
)

// SpeechState is the speech-to-text capability state.
// SpeechUnsupported is permanent for the Adapter; SpeechDenied is retried on the next StartCapture.
type SpeechState string

const (
	SpeechUnsupported SpeechState = "unsupported"
	SpeechReady       SpeechState = "ready"
	SpeechListening   SpeechState = "listening"
	SpeechDenied      SpeechState = "denied"
)

// NoticeKind classifies a non-fatal capture notice.
type NoticeKind string

const (
	NoticeDenied            NoticeKind = "denied"
	NoticeUnsupported       NoticeKind = "unsupported"
	NoticeNoVideo           NoticeKind = "no_video"
	NoticeSpeechDenied      NoticeKind = "speech_denied"
	NoticeSpeechUnavailable NoticeKind = "speech_unavailable"
)

// Notice is a dismissable, non-fatal capture message.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

// Status is a point-in-time view of the Adapter.
type Status struct {
	State  State
	Speech SpeechState
	Kinds  []Kind
	Level  int
}

// Options wires Adapter collaborators. Only Media is needed for capture; every other field is optional.
type Options struct {
	Media      MediaDevices
	Recognizer Recognizer
	Preview    PreviewSink
	Notify     func(Notice)
	Logger     *slog.Logger

	// Request defaults to audio plus video.
	Request       Request
	MeterInterval time.Duration
	// PauseCount supplies the pause metric of the final analysis.
	PauseCount func() int
	Now        func() time.Time
}

// Adapter owns one media stream at a time and never blocks its caller on acquisition.
type Adapter struct {
	media      MediaDevices
	recognizer Recognizer
	preview    PreviewSink
	notify     func(Notice)
	logger     *slog.Logger
	request    Request
	interval   time.Duration
	pauses     func() int
	now        func() time.Time

	// opMu serializes StartCapture and StopCapture.
	opMu sync.Mutex

	mu          sync.Mutex
	state       State
	speech      SpeechState
	gen         uint64
	speechGen   uint64
	stream      Stream
	kinds       []Kind
	recognition Recognition
	segments    []string
	startedAt   time.Time
	level       float64
	peak        float64
	levelSum    float64
	samples     int

	meterCancel context.CancelFunc
	meterWG     sync.WaitGroup
}

// NewAdapter constructs an idle Adapter. Speech capability is resolved here, once.
func NewAdapter(opts Options) *Adapter {
	a := &Adapter{
		media:      opts.Media,
		recognizer: opts.Recognizer,
		preview:    opts.Preview,
		notify:     opts.Notify,
		logger:     opts.Logger,
		request:    opts.Request,
		interval:   opts.MeterInterval,
		pauses:     opts.PauseCount,
		now:        opts.Now,
		state:      StateIdle,
		speech:     SpeechUnsupported,
	}
	if a.recognizer != nil {
		a.speech = SpeechReady
	}
	if !a.request.Audio && !a.request.Video {
		a.request = Request{Audio: true, Video: true}
	}
	if a.interval <= 0 {
		a.interval = defaultMeterInterval
	}
	if a.pauses == nil {
		a.pauses = func() int { return rand.IntN(5) + 1 }
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	return a
}

// StartCapture requests media asynchronously. It is a no-op while acquiring or active.
func (a *Adapter) StartCapture(ctx context.Context) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	a.mu.Lock()
	if a.state == StateAcquiring || a.state == StateActive {
		a.mu.Unlock()
		return
	}
	if a.media == nil {
		a.state = StateUnsupported
		a.mu.Unlock()
		a.emit(Notice{Kind: NoticeUnsupported, Message: "Camera and microphone are not supported here. You can still continue with text responses."})
		return
	}

	a.gen++
	a.speechGen++
	gen := a.gen
	a.state = StateAcquiring
	a.kinds = nil
	a.segments = nil
	a.level, a.peak, a.levelSum, a.samples = 0, 0, 0, 0
	a.mu.Unlock()

	go a.acquire(ctx, gen)
}

// acquire completes one media request and activates it unless capture was stopped meanwhile.
func (a *Adapter) acquire(ctx context.Context, gen uint64) {
	stream, err := a.media.Acquire(ctx, a.request)

	a.mu.Lock()
	if gen != a.gen || a.state != StateAcquiring {
		a.mu.Unlock()
		if stream != nil {
			_ = stream.Close()
		}
		return
	}

	if err != nil {
		notice := Notice{Kind: NoticeDenied, Message: "Camera access denied. You can still continue with text responses.", Err: err}
		a.state = StateDenied
		if errors.Is(err, ErrUnsupported) {
			notice.Kind = NoticeUnsupported
			notice.Message = "Camera and microphone are not supported here. You can still continue with text responses."
			a.state = StateUnsupported
		}
		a.mu.Unlock()
		a.logger.Warn("capture acquisition failed", "error", err.Error(), "state", string(notice.Kind))
		a.emit(notice)
		return
	}

	kinds := stream.Kinds()
	a.stream = stream
	a.kinds = kinds
	a.state = StateActive
	a.startedAt = a.now()

	meterCtx, cancel := context.WithCancel(context.Background())
	a.meterCancel = cancel
	a.meterWG.Add(1)
	go a.meter(meterCtx, stream, gen)

	speech := a.speech
	speechGen := a.speechGen
	a.mu.Unlock()

	a.logger.Info("capture active", "kinds", kindNames(kinds))
	if a.request.Video && !hasKind(kinds, KindVideo) {
		a.emit(Notice{Kind: NoticeNoVideo, Message: "Camera unavailable; continuing with microphone only."})
	}
	if a.preview != nil {
		a.preview.Attach(kinds)
	}

	var recognition Recognition
	nextSpeech := speech
	if speech != SpeechUnsupported {
		recognition, nextSpeech = a.startSpeech(ctx, stream, speechGen)
	}

	a.mu.Lock()
	stale := gen != a.gen
	if !stale {
		a.recognition = recognition
		a.speech = nextSpeech
	}
	a.mu.Unlock()

	if stale {
		if recognition != nil {
			_ = recognition.Stop()
		}
		if a.preview != nil {
			a.preview.Detach()
		}
	}
}

// startSpeech begins transcript accumulation for stream, reporting failures as notices.
func (a *Adapter) startSpeech(ctx context.Context, stream Stream, speechGen uint64) (Recognition, SpeechState) {
	source, ok := stream.(PCMSource)
	if !ok || !hasKind(stream.Kinds(), KindAudio) {
		a.emit(Notice{Kind: NoticeSpeechUnavailable, Message: "Speech transcript unavailable for this input."})
		return nil, SpeechReady
	}

	recognition, err := a.recognizer.Recognize(ctx, source.PCM(), func(segment string) {
		a.appendSegment(speechGen, segment)
	})
	if err != nil {
		a.logger.Warn("speech recognition start failed", "error", err.Error())
		a.emit(Notice{Kind: NoticeSpeechDenied, Message: "Speech recognition unavailable. Continuing without a transcript.", Err: err})
		return nil, SpeechDenied
	}
	return recognition, SpeechListening
}

func (a *Adapter) appendSegment(speechGen uint64, segment string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if speechGen != a.speechGen {
		return
	}
	a.segments = append(a.segments, segment)
}

// meter samples stream levels until ctx is cancelled.
func (a *Adapter) meter(ctx context.Context, stream Stream, gen uint64) {
	defer a.meterWG.Done()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	buf := make([]byte, frequencyBins)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n := stream.FrequencyData(buf)
		level := Level(buf[:n])

		a.mu.Lock()
		if gen == a.gen {
			a.level = level
			a.levelSum += level
			a.samples++
			if level > a.peak {
				a.peak = level
			}
		}
		a.mu.Unlock()
	}
}

// StopCapture releases all media resources and returns the final analysis.
// The analysis is nil unless capture had become active. Repeated calls are no-ops.
func (a *Adapter) StopCapture() *Analysis {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	a.mu.Lock()
	wasActive := a.state == StateActive
	if a.state == StateAcquiring || a.state == StateActive {
		a.state = StateIdle
	}
	a.gen++
	stream := a.stream
	recognition := a.recognition
	cancel := a.meterCancel
	a.stream = nil
	a.recognition = nil
	a.meterCancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.meterWG.Wait()

	if stream != nil {
		if err := stream.Close(); err != nil {
			a.logger.Debug("capture stream close failed", "error", err.Error())
		}
	}
	if recognition != nil {
		if err := recognition.Stop(); err != nil {
			a.logger.Debug("speech recognition stop failed", "error", err.Error())
		}
	}
	if wasActive && a.preview != nil {
		a.preview.Detach()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.speechGen++
	if a.speech == SpeechListening {
		a.speech = SpeechReady
	}
	if !wasActive {
		return nil
	}

	analysis := Analyze(
		transcript.Assemble(a.segments, transcript.Options{}),
		a.now().Sub(a.startedAt),
		a.pauses(),
		a.level,
	)
	a.logger.Info("capture stopped",
		"words_per_minute", analysis.WordsPerMinute,
		"filler_words", analysis.FillerWords,
		"segments", len(a.segments),
	)
	return &analysis
}

// Status returns the current acquisition and speech state.
func (a *Adapter) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{
		State:  a.state,
		Speech: a.speech,
		Kinds:  append([]Kind(nil), a.kinds...),
		Level:  int(a.level + 0.5),
	}
}

// Level returns the latest 0..100 amplitude reading.
func (a *Adapter) Level() int {
	return a.Status().Level
}

// Transcript returns the accumulated transcript of the current or last capture.
func (a *Adapter) Transcript() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return transcript.Assemble(a.segments, transcript.Options{})
}

// TranscriptMark returns a position usable with TranscriptSince.
func (a *Adapter) TranscriptMark() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.segments)
}

// TranscriptSince returns the transcript accumulated after mark.
func (a *Adapter) TranscriptSince(mark int) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if mark < 0 {
		mark = 0
	}
	if mark >= len(a.segments) {
		return ""
	}
	return transcript.Assemble(a.segments[mark:], transcript.Options{})
}

// Metrics returns live meter aggregates of the current or last capture.
func (a *Adapter) Metrics() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	m := Metrics{PeakVolume: int(a.peak + 0.5), Samples: a.samples}
	if a.samples > 0 {
		m.AverageVolume = int(a.levelSum/float64(a.samples) + 0.5)
	}
	return m
}

func (a *Adapter) emit(notice Notice) {
	if a.notify != nil {
		a.notify(notice)
	}
}

func kindNames(kinds []Kind) []string {
	out := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, string(kind))
	}
	return out
}
