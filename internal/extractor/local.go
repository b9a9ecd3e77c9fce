// internal/extractor/local.go
package extractor

import (
	"context"
	"fmt"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	apperrors "github.com/labordacousins/scriptbreakdown/internal/errors"
	"github.com/labordacousins/scriptbreakdown/internal/models"
	"github.com/labordacousins/scriptbreakdown/internal/screenplay"
)

// LocalExtractor runs the deterministic rule pipeline on a chunk. It needs no
// network and is the fallback when no API key is configured; it also backs the
// tests for everything downstream of extraction.
type LocalExtractor struct {
	tuning config.Tuning
}

func NewLocalExtractor(tuning config.Tuning) *LocalExtractor {
	return &LocalExtractor{tuning: tuning}
}

func (e *LocalExtractor) Name() string { return "local" }

func (e *LocalExtractor) Extract(ctx context.Context, chunkText string, chunkIndex int, knownCharacters []string) (*models.PartialExtraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The minimum-length gate is a document-level check; a short tail chunk
	// is still a valid chunk.
	tuning := e.tuning
	tuning.Segmenter.MinViableLength = 0
	tuning.Identity.KnownCharacters = knownCharacters

	segmented, err := screenplay.Segment(chunkText, tuning)
	if err != nil {
		// A chunk carved mid-document can legitimately open without a
		// slugline; report it as an extraction failure, not a structural one.
		if apperrors.IsStructuralFailure(err) {
			return nil, apperrors.NewExtractionFailure(fmt.Sprintf("chunk %d has no scene structure", chunkIndex), err)
		}
		return nil, err
	}

	partial := screenplay.BuildPartial(chunkIndex, segmented.Scenes, tuning)
	partial.Warnings = segmented.Warnings
	return &partial, nil
}
