// internal/extractor/local_test.go
package extractor

import (
	"context"
	"testing"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	apperrors "github.com/labordacousins/scriptbreakdown/internal/errors"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

const localFixture = `INT. WAREHOUSE - NIGHT

Mara moves between the crates.

MARA
It's not here.

EXT. LOADING DOCK - CONTINUOUS

A truck idles with its lights off.
`

func TestLocalExtractorProducesPartial(t *testing.T) {
	e := NewLocalExtractor(config.DefaultTuning())

	partial, err := e.Extract(context.Background(), localFixture, 3, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if partial.ChunkIndex != 3 {
		t.Errorf("chunk index = %d, want 3", partial.ChunkIndex)
	}
	if len(partial.Scenes) != 2 {
		t.Errorf("scenes = %d, want 2", len(partial.Scenes))
	}
	if len(partial.Characters) != 1 || partial.Characters[0].CanonicalName != "MARA" {
		t.Errorf("characters = %+v", partial.Characters)
	}
}

func TestLocalExtractorCarriesSegmentWarnings(t *testing.T) {
	e := NewLocalExtractor(config.DefaultTuning())
	chunk := "Torn page, handwritten notes in the margin.\n\n" + localFixture

	partial, err := e.Extract(context.Background(), chunk, 2, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	found := false
	for _, w := range partial.Warnings {
		if w.Code == models.WarnPreSluglineDiscard {
			found = true
		}
	}
	if !found {
		t.Errorf("segmenter warning not carried on the partial: %+v", partial.Warnings)
	}
}

func TestLocalExtractorStructurelessChunk(t *testing.T) {
	e := NewLocalExtractor(config.DefaultTuning())

	_, err := e.Extract(context.Background(), "plain prose with no scene headings anywhere in this chunk of text at all", 0, nil)
	if err == nil {
		t.Fatal("expected extraction failure")
	}
	if !apperrors.IsExtractionFailure(err) {
		t.Errorf("error is not an extraction failure: %v", err)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(NewLocalExtractor(config.DefaultTuning()))

	if _, err := r.Get("local"); err != nil {
		t.Errorf("Get(local): %v", err)
	}
	if _, err := r.Get("openai"); err == nil {
		t.Error("expected error for unregistered provider")
	}
	if names := r.Names(); len(names) != 1 || names[0] != "local" {
		t.Errorf("names = %v", names)
	}
}
