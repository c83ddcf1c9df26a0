package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rbright/mockprep/internal/store"
)

// FeedbackStore is the persistence used by the one-time feedback prompt.
type FeedbackStore interface {
	HasSeenFeedback(ctx context.Context) (bool, error)
	MarkFeedbackSeen(ctx context.Context) error
	SubmitFeedback(ctx context.Context, rating store.Rating, comment string) (store.Feedback, error)
}

// PromptOutcome describes how the feedback prompt ended.
type PromptOutcome string

const (
	PromptNotShown  PromptOutcome = "not_shown"
	PromptSkipped   PromptOutcome = "skipped"
	PromptSubmitted PromptOutcome = "submitted"
)

// PromptFeedback asks once for a rating or comment. A submission needs at
// least one of them; skipping or reaching EOF also suppresses future prompts.
func PromptFeedback(ctx context.Context, in io.Reader, out io.Writer, st FeedbackStore) (PromptOutcome, error) {
	seen, err := st.HasSeenFeedback(ctx)
	if err != nil {
		return PromptNotShown, err
	}
	if seen {
		return PromptNotShown, nil
	}

	scanner := bufio.NewScanner(in)
	readLine := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Quick Feedback")
	fmt.Fprintln(out, "How's your experience with mockprep so far?")

	for {
		raw, ok := readLine("Rating [+ good / - needs work / s skip]: ")
		if !ok || strings.EqualFold(raw, "s") || strings.EqualFold(raw, "skip") {
			return PromptSkipped, st.MarkFeedbackSeen(ctx)
		}
		rating, valid := parseRating(raw)
		if !valid {
			fmt.Fprintln(out, "Enter +, - or leave blank.")
			continue
		}

		comment, ok := readLine("Any specific feedback? (optional): ")
		if !ok && rating == store.RatingNone && comment == "" {
			return PromptSkipped, st.MarkFeedbackSeen(ctx)
		}
		if rating == store.RatingNone && comment == "" {
			fmt.Fprintln(out, "Please provide a rating or feedback.")
			continue
		}

		if _, err := st.SubmitFeedback(ctx, rating, comment); err != nil {
			return PromptNotShown, err
		}
		if err := st.MarkFeedbackSeen(ctx); err != nil {
			return PromptSubmitted, err
		}
		fmt.Fprintln(out, "Thank you for your feedback!")
		return PromptSubmitted, nil
	}
}

func parseRating(raw string) (store.Rating, bool) {
	switch strings.ToLower(raw) {
	case "":
		return store.RatingNone, true
	case "+", "good":
		return store.RatingPositive, true
	case "-", "bad":
		return store.RatingNegative, true
	default:
		return store.RatingNone, false
	}
}
