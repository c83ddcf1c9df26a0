package transcript

import "strings"

// FillerWords are the hesitation markers counted by filler analysis.
var FillerWords = []string{"um", "uh", "like", "you know", "actually", "basically"}

// Words splits text on whitespace and drops empty tokens.
func Words(text string) []string {
	return strings.Fields(text)
}

// CountFillers counts words whose lowercase form contains any filler marker.
// Each word counts at most once.
func CountFillers(words []string) int {
	count := 0
	for _, word := range words {
		lower := strings.ToLower(word)
		for _, filler := range FillerWords {
			if strings.Contains(lower, filler) {
				count++
				break
			}
		}
	}
	return count
}

// Tail returns the last n runes of text with whitespace collapsed. A cut
// excerpt starts with "...".
func Tail(text string, n int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if n <= 0 || len(runes) <= n {
		return collapsed
	}
	return "..." + strings.TrimLeft(string(runes[len(runes)-n:]), " ")
}
