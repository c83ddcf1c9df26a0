package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Commands understood by the session owner.
const (
	CommandStatus  = "status"
	CommandNext    = "next"
	CommandDraft   = "draft"
	CommandAppend  = "append"
	CommandStart   = "start"
	CommandRestart = "restart"
)

// Request is one command sent to the session owner.
type Request struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
}

// Response is the owner reply. Session fields are filled for session-aware commands.
type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	Position  int    `json:"position,omitempty"`
	Total     int    `json:"total,omitempty"`
	Countdown int    `json:"countdown,omitempty"`
	Question  string `json:"question,omitempty"`
	Draft     string `json:"draft,omitempty"`
	Capture   string `json:"capture,omitempty"`

	// Level is the live microphone meter, 0 to 100.
	Level      int    `json:"level,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// writeMessage encodes v as one newline-terminated JSON document.
func writeMessage(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// readMessage decodes one JSON line into v. kind names the message in errors.
func readMessage(r *bufio.Reader, kind string, v any) error {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("read %s: %w", kind, err)
	}
	if err := json.Unmarshal(line, v); err != nil {
		return fmt.Errorf("decode %s: %w", kind, err)
	}
	return nil
}
