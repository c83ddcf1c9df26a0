package config

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeJSONCRemovesCommentsAndTrailingCommas(t *testing.T) {
	input := `
{
  // line comment
  "items": [
    "one", /* block comment */
    "two",
  ],
  "nested": {
    "enabled": true,
  },
}
`

	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.NotContains(t, normalized, "//")
	require.NotContains(t, normalized, "/*")
	require.NotContains(t, normalized, ",]")
	require.NotContains(t, normalized, ",}")
}

func TestNormalizeJSONCRetainsCommentLikeTextInsideStrings(t *testing.T) {
	input := `{"value":"contains // and /* comment-like */ text",}`
	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.Contains(t, normalized, "// and /* comment-like */")
}

func TestNormalizeJSONCUnterminatedBlockCommentFails(t *testing.T) {
	_, err := normalizeJSONC("{ /* unterminated ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated block comment")
}

func TestEnsureSingleJSONValueRejectsExtraPayload(t *testing.T) {
	decoder := json.NewDecoder(strings.NewReader(`{"one":1}{"two":2}`))
	var payload map[string]any
	require.NoError(t, decoder.Decode(&payload))

	err := ensureSingleJSONValue(decoder)
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple JSON values")
}

func TestOffsetToLineCol(t *testing.T) {
	content := "line1\nline2\nline3"
	line, col := offsetToLineCol(content, 1)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = offsetToLineCol(content, 8) // line2, col2
	require.Equal(t, 2, line)
	require.Equal(t, 2, col)

	line, col = offsetToLineCol(content, 999)
	require.Equal(t, 3, line)
	require.Equal(t, 5, col)
}

func TestParseJSONCRejectsInvalidSpeechCommand(t *testing.T) {
	_, _, err := parseJSONC(`{"capture":{"speech_command":"unterminated ' quote"}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid capture.speech_command")
}

func TestParseJSONCAppliesAllSections(t *testing.T) {
	cfg, warnings, err := parseJSONC(`{
  // shorter interviews while practicing
  "session": {"question_seconds": 90},
  "questions": {"file": "  ~/bank.yaml  "},
  "capture": {
    "enable": false,
    "meter_interval_ms": 32,
    "speech_command": "vosk-transcriber --rate 16000",
    "audio_input": "Elgato",
  },
  "store": {"backend": " Redis ", "redis_addr": "10.0.0.2:6379", "redis_db": 2, "key_prefix": "mp:"},
  "indicator": {"sound_enable": false},
}`, Default())
	require.NoError(t, err)
	require.Empty(t, warnings)

	require.Equal(t, 90, cfg.Session.QuestionSeconds)
	require.Equal(t, 1000, cfg.Session.TickIntervalMS)
	require.Equal(t, "~/bank.yaml", cfg.Questions.File)
	require.False(t, cfg.Capture.Enable)
	require.Equal(t, 32, cfg.Capture.MeterIntervalMS)
	require.Equal(t, []string{"vosk-transcriber", "--rate", "16000"}, cfg.Capture.Speech.Argv)
	require.Equal(t, "Elgato", cfg.Capture.AudioInput)
	require.Equal(t, "default", cfg.Capture.AudioFallback)
	require.Equal(t, "redis", cfg.Store.Backend)
	require.Equal(t, "10.0.0.2:6379", cfg.Store.RedisAddr)
	require.Equal(t, 2, cfg.Store.RedisDB)
	require.Equal(t, "mp:", cfg.Store.KeyPrefix)
	require.False(t, cfg.Indicator.SoundEnable)
	require.True(t, cfg.Indicator.Enable)
}

func TestParseJSONCWarnsOnUnusedRedisPassword(t *testing.T) {
	_, warnings, err := parseJSONC(`{"store":{"redis_password":"secret"}}`, Default())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "redis_password")
}

func TestParseJSONCTrimsIndicatorFields(t *testing.T) {
	cfg, _, err := parseJSONC(`{
  "indicator": {
    "backend": " desktop ",
    "desktop_app_name": "  mockprep-coach  "
  }
}`, Default())
	require.NoError(t, err)
	require.Equal(t, "desktop", cfg.Indicator.Backend)
	require.Equal(t, "mockprep-coach", cfg.Indicator.DesktopAppName)
}

func TestParseJSONCRejectsMultipleTopLevelValues(t *testing.T) {
	_, _, err := parseJSONC(`{"capture":{"enable":false}}{"capture":{"enable":true}}`, Default())
	require.Error(t, err)
	require.True(
		t,
		strings.Contains(err.Error(), "multiple JSON values") || strings.Contains(err.Error(), "unknown field"),
		"unexpected error: %v",
		err,
	)
}

func TestParseJSONCRejectsUnknownField(t *testing.T) {
	_, _, err := parseJSONC(`{"riva": {"grpc": "127.0.0.1:50051"}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field")
}

func TestParseJSONCTypeErrorIncludesLocation(t *testing.T) {
	_, _, err := parseJSONC(`{
  "session": {"question_seconds": "two minutes"}
}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line")
	require.Contains(t, err.Error(), "column")
}

func TestParseValidatesAndRejectsNonObjects(t *testing.T) {
	cfg, _, err := Parse("", Default())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, _, err = Parse(`question_seconds = 90`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "JSONC object")

	_, _, err = Parse(`{"session":{"question_seconds":0}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "session.question_seconds")
}

func TestNormalizeJSONCPreservesOffsets(t *testing.T) {
	input := "{\n  \"a\": 1, // note\n  /* gone */ \"b\": [2,],\n}"
	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.Len(t, normalized, len(input))
	require.Equal(t, strings.Count(input, "\n"), strings.Count(normalized, "\n"))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(normalized), &got))
	require.Equal(t, map[string]any{"a": float64(1), "b": []any{float64(2)}}, got)
}

func TestNormalizeJSONCKeepsCommaBeforeCommentedValue(t *testing.T) {
	normalized, err := normalizeJSONC(`[1, /* two */ 3]`)
	require.NoError(t, err)

	var got []int
	require.NoError(t, json.Unmarshal([]byte(normalized), &got))
	require.Equal(t, []int{1, 3}, got)
}
