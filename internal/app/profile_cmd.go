package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rbright/mockprep/internal/cli"
	"github.com/rbright/mockprep/internal/questions"
	"github.com/rbright/mockprep/internal/store"
)

const accessDenied = "Access denied. Admin privileges required."

// commandPrepare derives and stores a custom question set from profile inputs.
func (r Runner) commandPrepare(ctx context.Context, e env, parsed cli.Parsed) int {
	set := questions.Generate(questions.Profile{
		JobRole:    parsed.JobRole,
		Experience: parsed.Experience,
		Skills:     questions.ParseSkills(parsed.Skills),
	})
	if err := e.store.SaveCustomQuestions(ctx, set); err != nil {
		fmt.Fprintf(r.Stderr, "error: save custom questions: %v\n", err)
		return 1
	}
	e.logger.Info("custom questions prepared", "job_role", set.JobRole, "skills", len(set.Skills), "questions", len(set.Questions))

	fmt.Fprintf(r.Stdout, "Prepared %d questions for %s:\n", len(set.Questions), describeRole(set.JobRole))
	writeQuestionList(r.Stdout, set.Questions)
	fmt.Fprintln(r.Stdout, "\nRun \"mockprep start --custom\" to practice them.")
	return 0
}

// commandQuestions lists the bank `start` would use, plus any prepared custom set.
func (r Runner) commandQuestions(ctx context.Context, e env) int {
	list, source, err := resolveQuestions(ctx, e, false)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.Stdout, "Questions from %s:\n", source)
	writeQuestionList(r.Stdout, list)

	set, err := e.store.LoadCustomQuestions(ctx)
	switch {
	case errors.Is(err, store.ErrNoCustomQuestions):
	case err != nil:
		fmt.Fprintf(r.Stderr, "warning: load custom questions: %v\n", err)
	default:
		fmt.Fprintf(r.Stdout, "\nCustom set for %s (%d questions): mockprep start --custom\n", describeRole(set.JobRole), len(set.Questions))
	}
	return 0
}

// commandAdmin shows the bank and feedback tallies to the admin role only.
func (r Runner) commandAdmin(ctx context.Context, e env) int {
	role, err := e.store.UserRole(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if role != store.RoleAdmin {
		fmt.Fprintln(r.Stderr, accessDenied)
		e.logger.Warn("admin access denied", "role", string(role))
		return 1
	}

	list, source, err := resolveQuestions(ctx, e, false)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(r.Stdout, "Question bank (%s, %d questions):\n", source, len(list))
	writeQuestionList(r.Stdout, list)

	responses, err := e.store.FeedbackResponses(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	positive, negative := 0, 0
	for _, fb := range responses {
		switch fb.Rating {
		case store.RatingPositive:
			positive++
		case store.RatingNegative:
			negative++
		}
	}
	fmt.Fprintf(r.Stdout, "\nFeedback responses: %d (positive %d, negative %d)\n", len(responses), positive, negative)
	for _, fb := range responses {
		if fb.Comment == "" {
			continue
		}
		fmt.Fprintf(r.Stdout, "  %s  %s\n", fb.SubmittedAt.Format("2006-01-02"), fb.Comment)
	}
	return 0
}

func (r Runner) commandRole(ctx context.Context, e env, parsed cli.Parsed) int {
	switch parsed.RoleAction {
	case cli.RoleClear:
		if err := e.store.ClearRole(ctx); err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		e.logger.Info("role cleared")
		fmt.Fprintln(r.Stdout, "Role cleared.")
		return 0
	case cli.RoleSet:
		role, ok := parseRole(parsed.RoleName)
		if !ok {
			fmt.Fprintf(r.Stderr, "error: unknown role %q (expected user or admin)\n", parsed.RoleName)
			return 2
		}
		if err := e.store.SetRole(ctx, role, parsed.Email); err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		e.logger.Info("role set", "role", string(role))
		fmt.Fprintf(r.Stdout, "Role set to %s.\n", role)
		return 0
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported role action %q\n", parsed.RoleAction)
		return 2
	}
}

func parseRole(raw string) (store.Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user":
		return store.RoleUser, true
	case "admin":
		return store.RoleAdmin, true
	default:
		return store.RoleNone, false
	}
}

func writeQuestionList(w io.Writer, list []questions.Question) {
	for i, q := range list {
		fmt.Fprintf(w, "%2d. [%s | %s | %s] %s\n", i+1, q.Type, q.Difficulty, q.Category, q.Question)
	}
}
