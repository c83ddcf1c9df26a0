package indicator

import (
	"os"
	"strings"
)

type locale string

const (
	localeEnglish locale = "en"
)

type messages struct {
	question     string
	instructions string
	remaining    string
	finished     string
	restarted    string
	reportHint   string
	captureOn    string
	captureOff   string
	level        string
	heard        string
}

func indicatorMessagesFromEnv() messages {
	return indicatorMessages(resolveLocale(os.Getenv("LANG")))
}

func resolveLocale(raw string) locale {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(raw, "en") {
		return localeEnglish
	}
	return localeEnglish
}

func indicatorMessages(tag locale) messages {
	switch tag {
	case localeEnglish:
		fallthrough
	default:
		return messages{
			question:     "Question %d of %d",
			instructions: "Type your answer. /next submits, /restart starts over.",
			remaining:    "%ds remaining",
			finished:     "Interview complete: %d of %d answered.",
			restarted:    "Session reset.",
			reportHint:   "Run \"mockprep report\" to view your feedback.",
			captureOn:    "Capture active:",
			captureOff:   "Capture stopped.",
			level:        "mic %s %d%%",
			heard:        "heard %q",
		}
	}
}
