// internal/screenplay/pipeline.go
package screenplay

import (
	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// Analyze runs the full single-pass pipeline over raw screenplay text:
// segmentation, classification, entity extraction, consolidation, scoring,
// and final shaping. The only error it returns is a structural failure.
func Analyze(text string, titleCandidates []string, tuning config.Tuning) (*models.BreakdownDocument, error) {
	segmented, err := Segment(text, tuning)
	if err != nil {
		return nil, err
	}

	partial := BuildPartial(0, segmented.Scenes, tuning)
	partial.Warnings = segmented.Warnings
	consolidation := Consolidate([]models.ChunkResult{{ChunkIndex: 0, Partial: &partial}}, tuning)

	return Finish(consolidation, text, titleCandidates, tuning), nil
}
