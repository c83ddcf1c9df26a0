package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgv(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr string
	}{
		{name: "blank", input: "   ", want: nil},
		{name: "plain words", input: "whisper-cli -m base.en -f -", want: []string{"whisper-cli", "-m", "base.en", "-f", "-"}},
		{name: "double quoted", input: `transcribe --model "large v3"`, want: []string{"transcribe", "--model", "large v3"}},
		{name: "single quotes are literal", input: `echo 'a\b'`, want: []string{"echo", `a\b`}},
		{name: "escape inside double quotes", input: `echo "say \"hi\""`, want: []string{"echo", `say "hi"`}},
		{name: "escaped space", input: `stt recordings\ dir`, want: []string{"stt", "recordings dir"}},
		{name: "empty quoted word kept", input: `stt --lang ""`, want: []string{"stt", "--lang", ""}},
		{name: "adjacent quoting joins", input: `stt --out=/tmp/"my file"`, want: []string{"stt", "--out=/tmp/my file"}},
		{name: "disabled by comment", input: `# vosk-transcriber`, want: nil},
		{name: "unterminated quote", input: `stt "oops`, wantErr: "unterminated quote"},
		{name: "unterminated escape", input: `stt oops\`, wantErr: "unterminated escape"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseArgv(tc.input)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
