package config

import (
	"fmt"
	"strings"
	"unicode"
)

// parseArgv splits a command line into argv with POSIX-like quoting: single
// quotes are literal, double quotes honor backslash escapes, and an empty
// quoted word is kept. No shell is involved. A leading # disables the command.
func parseArgv(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return nil, nil
	}

	var s argvScanner
	for _, r := range input {
		s.feed(r)
	}

	switch {
	case s.escaped:
		return nil, fmt.Errorf("unterminated escape sequence in command: %q", input)
	case s.quote != 0:
		return nil, fmt.Errorf("unterminated quote in command: %q", input)
	}
	s.endWord()
	return s.argv, nil
}

type argvScanner struct {
	argv    []string
	word    strings.Builder
	inWord  bool
	quote   rune
	escaped bool
}

func (s *argvScanner) feed(r rune) {
	if s.escaped {
		s.word.WriteRune(r)
		s.escaped = false
		return
	}

	switch s.quote {
	case '\'':
		if r == '\'' {
			s.quote = 0
			return
		}
		s.word.WriteRune(r)
		return
	case '"':
		switch r {
		case '"':
			s.quote = 0
		case '\\':
			s.escaped = true
		default:
			s.word.WriteRune(r)
		}
		return
	}

	switch {
	case unicode.IsSpace(r):
		s.endWord()
	case r == '\\':
		s.inWord, s.escaped = true, true
	case r == '\'' || r == '"':
		s.inWord, s.quote = true, r
	default:
		s.inWord = true
		s.word.WriteRune(r)
	}
}

func (s *argvScanner) endWord() {
	if !s.inWord {
		return
	}
	s.argv = append(s.argv, s.word.String())
	s.word.Reset()
	s.inWord = false
}
