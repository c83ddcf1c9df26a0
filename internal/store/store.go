package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rbright/mockprep/internal/questions"
)

const (
	KeyBundle          = "interviewAnswers"
	KeyPreferences     = "preferences"
	KeyCustomQuestions = "customQuestions"
	KeyFeedback        = "feedbackResponses"
)

var (
	// ErrNoBundle reports that no interview has been completed yet.
	ErrNoBundle = errors.New("no interview data found")
	// ErrNoCustomQuestions reports that no custom question set was prepared.
	ErrNoCustomQuestions = errors.New("no custom questions prepared")
	// ErrEmptyFeedback rejects a feedback submission with neither rating nor comment.
	ErrEmptyFeedback = errors.New("feedback needs a rating or a comment")
)

// Store exposes typed accessors over a KV backend.
type Store struct {
	kv  KV
	now func() time.Time
}

// New wraps kv with typed accessors.
func New(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// KV returns the underlying backend.
func (s *Store) KV() KV {
	return s.kv
}

// SaveBundle overwrites the stored result bundle.
func (s *Store) SaveBundle(ctx context.Context, bundle Bundle) error {
	return s.put(ctx, KeyBundle, bundle)
}

// LoadBundle returns the stored bundle or ErrNoBundle.
func (s *Store) LoadBundle(ctx context.Context) (Bundle, error) {
	var bundle Bundle
	found, err := s.get(ctx, KeyBundle, &bundle)
	if err != nil {
		return Bundle{}, err
	}
	if !found || len(bundle.Questions) == 0 {
		return Bundle{}, ErrNoBundle
	}
	return bundle, nil
}

// Preferences returns stored preferences, or zero values when none exist.
func (s *Store) Preferences(ctx context.Context) (Preferences, error) {
	var prefs Preferences
	if _, err := s.get(ctx, KeyPreferences, &prefs); err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}

// UpdatePreferences applies fn to the stored preferences and writes the result.
func (s *Store) UpdatePreferences(ctx context.Context, fn func(*Preferences)) (Preferences, error) {
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return Preferences{}, err
	}
	fn(&prefs)
	if err := s.put(ctx, KeyPreferences, prefs); err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}

// HasSeenFeedback reports whether the feedback prompt was already shown.
func (s *Store) HasSeenFeedback(ctx context.Context) (bool, error) {
	prefs, err := s.Preferences(ctx)
	return prefs.HasSeenFeedback, err
}

// MarkFeedbackSeen suppresses future feedback prompts.
func (s *Store) MarkFeedbackSeen(ctx context.Context) error {
	_, err := s.UpdatePreferences(ctx, func(p *Preferences) { p.HasSeenFeedback = true })
	return err
}

// UserRole returns the stored role marker.
func (s *Store) UserRole(ctx context.Context) (Role, error) {
	prefs, err := s.Preferences(ctx)
	return prefs.UserRole, err
}

// SetRole stores role and optional email.
func (s *Store) SetRole(ctx context.Context, role Role, email string) error {
	_, err := s.UpdatePreferences(ctx, func(p *Preferences) {
		p.UserRole = role
		p.UserEmail = strings.TrimSpace(email)
	})
	return err
}

// ClearRole removes the role and email, as on logout.
func (s *Store) ClearRole(ctx context.Context) error {
	_, err := s.UpdatePreferences(ctx, func(p *Preferences) {
		p.UserRole = RoleNone
		p.UserEmail = ""
	})
	return err
}

// SaveCustomQuestions stores a prepared custom interview.
func (s *Store) SaveCustomQuestions(ctx context.Context, set questions.CustomSet) error {
	return s.put(ctx, KeyCustomQuestions, set)
}

// LoadCustomQuestions returns the prepared custom interview or ErrNoCustomQuestions.
func (s *Store) LoadCustomQuestions(ctx context.Context) (questions.CustomSet, error) {
	var set questions.CustomSet
	found, err := s.get(ctx, KeyCustomQuestions, &set)
	if err != nil {
		return questions.CustomSet{}, err
	}
	if !found || len(set.Questions) == 0 {
		return questions.CustomSet{}, ErrNoCustomQuestions
	}
	return set, nil
}

// SubmitFeedback appends one feedback response.
func (s *Store) SubmitFeedback(ctx context.Context, rating Rating, comment string) (Feedback, error) {
	comment = strings.TrimSpace(comment)
	if rating == RatingNone && comment == "" {
		return Feedback{}, ErrEmptyFeedback
	}

	var all []Feedback
	if _, err := s.get(ctx, KeyFeedback, &all); err != nil {
		return Feedback{}, err
	}
	entry := Feedback{Rating: rating, Comment: comment, SubmittedAt: s.now().UTC()}
	all = append(all, entry)
	if err := s.put(ctx, KeyFeedback, all); err != nil {
		return Feedback{}, err
	}
	return entry, nil
}

// FeedbackResponses returns all submitted feedback.
func (s *Store) FeedbackResponses(ctx context.Context) ([]Feedback, error) {
	var all []Feedback
	if _, err := s.get(ctx, KeyFeedback, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *Store) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, dst any) (bool, error) {
	data, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
