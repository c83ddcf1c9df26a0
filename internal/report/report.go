// Package report renders the result bundle of the last interview.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/rbright/mockprep/internal/scoring"
	"github.com/rbright/mockprep/internal/store"
)

// ErrNoData reports that no completed interview exists to render.
var ErrNoData = errors.New("no interview data found")

// BundleLoader reads the stored result bundle.
type BundleLoader interface {
	LoadBundle(ctx context.Context) (store.Bundle, error)
}

// Report pairs a bundle with its scores.
type Report struct {
	Bundle store.Bundle
	Scores scoring.Scores
}

// Build loads the latest bundle and scores it. Scores are only computed when
// a bundle exists.
func Build(ctx context.Context, loader BundleLoader, scorer scoring.ScoreProvider) (Report, error) {
	bundle, err := loader.LoadBundle(ctx)
	if errors.Is(err, store.ErrNoBundle) {
		return Report{}, ErrNoData
	}
	if err != nil {
		return Report{}, err
	}

	scores, err := scorer.Score(ctx, bundle)
	if err != nil {
		return Report{}, fmt.Errorf("score interview %s: %w", bundle.ID, err)
	}
	return Report{Bundle: bundle, Scores: scores}, nil
}
