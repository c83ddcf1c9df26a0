package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/mockprep/internal/capture"
	"github.com/rbright/mockprep/internal/config"
	"github.com/rbright/mockprep/internal/questions"
)

func sampleBundle() Bundle {
	return Bundle{
		ID:        "4a4c8c2e-8f2c-4b7e-9d55-0a9f9d3e9a11",
		Questions: questions.Default()[:2],
		Answers:   []string{"I am an engineer", ""},
		VoiceAnalysis: &capture.Analysis{
			WordsPerMinute: 120,
			FillerWords:    1,
			PauseCount:     2,
			Clarity:        95,
			Confidence:     92,
			VolumeLevel:    40,
		},
		RealTimeMetrics: &RealTimeMetrics{
			Metrics:     capture.Metrics{PeakVolume: 70, AverageVolume: 35, Samples: 90},
			Transcripts: map[int]string{0: "I am an engineer"},
		},
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBundleRoundTripOverwrites(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory())

	_, err := s.LoadBundle(ctx)
	require.ErrorIs(t, err, ErrNoBundle)

	first := sampleBundle()
	require.NoError(t, s.SaveBundle(ctx, first))

	got, err := s.LoadBundle(ctx)
	require.NoError(t, err)
	require.Equal(t, first, got)

	second := sampleBundle()
	second.ID = "second"
	second.VoiceAnalysis = nil
	second.RealTimeMetrics = nil
	require.NoError(t, s.SaveBundle(ctx, second))

	got, err = s.LoadBundle(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", got.ID)
	require.Nil(t, got.VoiceAnalysis)
}

func TestBundleJSONUsesHandOffKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, New(kv).SaveBundle(ctx, sampleBundle()))

	raw, found, err := kv.Get(ctx, KeyBundle)
	require.NoError(t, err)
	require.True(t, found)
	for _, key := range []string{`"questions"`, `"answers"`, `"voiceAnalysis"`, `"realTimeMetrics"`, `"timestamp"`, `"peakVolume"`, `"wordsPerMinute"`} {
		require.Contains(t, string(raw), key)
	}
}

func TestLoadBundleRejectsCorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, KeyBundle, []byte("{not json")))

	_, err := New(kv).LoadBundle(ctx)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoBundle)
	require.Contains(t, err.Error(), "decode interviewAnswers")
}

func TestPreferencesTypedAccessors(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory())

	prefs, err := s.Preferences(ctx)
	require.NoError(t, err)
	require.Equal(t, Preferences{}, prefs)

	require.NoError(t, s.MarkFeedbackSeen(ctx))
	require.NoError(t, s.SetRole(ctx, RoleAdmin, " admin@example.com "))

	seen, err := s.HasSeenFeedback(ctx)
	require.NoError(t, err)
	require.True(t, seen)

	role, err := s.UserRole(ctx)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, role)

	require.NoError(t, s.ClearRole(ctx))
	prefs, err = s.Preferences(ctx)
	require.NoError(t, err)
	require.Equal(t, Preferences{HasSeenFeedback: true}, prefs)
}

func TestCustomQuestionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory())

	_, err := s.LoadCustomQuestions(ctx)
	require.ErrorIs(t, err, ErrNoCustomQuestions)

	set := questions.Generate(questions.Profile{JobRole: "SRE", Experience: "3 years", Skills: []string{"Go", "Linux"}})
	require.NoError(t, s.SaveCustomQuestions(ctx, set))

	got, err := s.LoadCustomQuestions(ctx)
	require.NoError(t, err)
	require.Equal(t, set, got)
}

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory())
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, err := s.SubmitFeedback(ctx, RatingNone, "  ")
	require.ErrorIs(t, err, ErrEmptyFeedback)

	_, err = s.SubmitFeedback(ctx, RatingPositive, "")
	require.NoError(t, err)
	_, err = s.SubmitFeedback(ctx, RatingNone, " more questions please ")
	require.NoError(t, err)

	all, err := s.FeedbackResponses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, RatingPositive, all[0].Rating)
	require.Equal(t, "more questions please", all[1].Comment)
	require.Equal(t, 2026, all[1].SubmittedAt.Year())
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := []byte(`"a"`)
	require.NoError(t, m.Set(ctx, "k", value))
	value[1] = 'b'

	got, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `"a"`, string(got))

	require.NoError(t, m.Delete(ctx, "k"))
	_, found, err = m.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, found)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	first := NewFile(path)
	_, found, err := first.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, first.Set(ctx, "a", []byte(`{"x":1}`)))
	require.NoError(t, first.Set(ctx, "b", []byte(`true`)))

	second := NewFile(path)
	got, found, err := second.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `{"x":1}`, string(got))

	require.NoError(t, second.Delete(ctx, "a"))
	require.NoError(t, second.Delete(ctx, "a"))
	_, found, err = first.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, found)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFileStoreRejectsInvalidJSONAndCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	f := NewFile(path)

	err := f.Set(ctx, "k", []byte("not json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not valid JSON")

	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o600))
	_, _, err = f.Get(ctx, "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode store")

	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))
	_, found, err := f.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, found)
}

func TestDefaultPathUsesXDGStateHome(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_STATE_HOME", base)

	path, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "mockprep", "store.json"), path)
}

func TestOpenBackends(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	kv, err := Open(Options{})
	require.NoError(t, err)
	require.IsType(t, &File{}, kv)

	kv, err = Open(Options{Backend: "MEMORY"})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, kv)

	kv, err = Open(Options{Backend: BackendRedis, RedisAddr: "127.0.0.1:1", KeyPrefix: "mockprep:"})
	require.NoError(t, err)
	require.IsType(t, &Redis{}, kv)
	require.NoError(t, kv.(*Redis).Close())

	_, err = Open(Options{Backend: "etcd"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown store backend")
}

func TestOptionsFromConfigOpensConfiguredBackend(t *testing.T) {
	cfg := config.Default().Store
	cfg.Path = filepath.Join(t.TempDir(), "store.json")

	opts := OptionsFromConfig(cfg)
	require.Equal(t, BackendFile, opts.Backend)
	require.Equal(t, "mockprep:", opts.KeyPrefix)

	kv, err := Open(opts)
	require.NoError(t, err)
	file, ok := kv.(*File)
	require.True(t, ok)
	require.Equal(t, cfg.Path, file.Path())
}
