// internal/screenplay/consolidate_test.go
package screenplay

import (
	"reflect"
	"testing"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

func chunkScene(number int, slugline string) models.RawScene {
	return models.RawScene{
		SceneNumber: number,
		SluglineRaw: slugline,
		LocationRaw: slugline,
		Lines:       []string{"Action."},
	}
}

func TestConsolidateRenumbersAcrossChunks(t *testing.T) {
	results := []models.ChunkResult{
		{
			ChunkIndex: 1,
			Partial: &models.PartialExtraction{
				ChunkIndex: 1,
				Scenes:     []models.RawScene{chunkScene(1, "INT. LAB - DAY"), chunkScene(2, "EXT. ROOF - NIGHT")},
			},
		},
		{
			ChunkIndex: 0,
			Partial: &models.PartialExtraction{
				ChunkIndex: 0,
				Scenes:     []models.RawScene{chunkScene(1, "INT. OFFICE - DAY")},
			},
		},
	}

	c := Consolidate(results, config.DefaultTuning())

	if len(c.Scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(c.Scenes))
	}
	wantOrder := []string{"INT. OFFICE - DAY", "INT. LAB - DAY", "EXT. ROOF - NIGHT"}
	for i, want := range wantOrder {
		if c.Scenes[i].SluglineRaw != want {
			t.Errorf("scene %d = %q, want %q (chunk order not restored)", i+1, c.Scenes[i].SluglineRaw, want)
		}
		if c.Scenes[i].SceneNumber != i+1 {
			t.Errorf("scene numbering not contiguous: %d at position %d", c.Scenes[i].SceneNumber, i)
		}
	}
}

func TestConsolidateMergesCharacterVariants(t *testing.T) {
	results := []models.ChunkResult{
		{
			ChunkIndex: 0,
			Partial: &models.PartialExtraction{
				Scenes: []models.RawScene{chunkScene(1, "INT. OFFICE - DAY")},
				Characters: []models.CharacterIdentity{{
					CanonicalName:     "JOHN",
					DialogueLineCount: 4,
					WordCount:         22,
					ScenesPresent:     []int{1},
					FirstSeenScene:    1,
				}},
			},
		},
		{
			ChunkIndex: 1,
			Partial: &models.PartialExtraction{
				Scenes: []models.RawScene{chunkScene(1, "INT. LAB - DAY")},
				Characters: []models.CharacterIdentity{{
					CanonicalName:     "JOHN (CONT'D)",
					DialogueLineCount: 3,
					WordCount:         17,
					ScenesPresent:     []int{1},
					FirstSeenScene:    1,
				}},
			},
		},
	}

	c := Consolidate(results, config.DefaultTuning())

	if len(c.Characters) != 1 {
		t.Fatalf("expected 1 merged identity, got %d: %+v", len(c.Characters), c.Characters)
	}
	id := c.Characters[0]
	if id.CanonicalName != "JOHN" {
		t.Errorf("CanonicalName = %q, want JOHN", id.CanonicalName)
	}
	if id.DialogueLineCount != 7 {
		t.Errorf("DialogueLineCount = %d, want 7", id.DialogueLineCount)
	}
	if !reflect.DeepEqual(id.ScenesPresent, []int{1, 2}) {
		t.Errorf("ScenesPresent = %v, want remapped [1 2]", id.ScenesPresent)
	}
}

func TestConsolidateFailedChunkGap(t *testing.T) {
	results := []models.ChunkResult{
		{ChunkIndex: 0, Partial: &models.PartialExtraction{Scenes: []models.RawScene{chunkScene(1, "INT. A - DAY")}}},
		{ChunkIndex: 1, Failure: &models.ExtractionFailure{ChunkIndex: 1, Reason: "model timeout"}},
		{ChunkIndex: 2, Partial: &models.PartialExtraction{Scenes: []models.RawScene{chunkScene(1, "INT. C - DAY")}}},
	}

	c := Consolidate(results, config.DefaultTuning())

	if len(c.Scenes) != 2 {
		t.Fatalf("expected scenes from chunks 0 and 2, got %d", len(c.Scenes))
	}
	if c.Scenes[0].SceneNumber != 1 || c.Scenes[1].SceneNumber != 2 {
		t.Errorf("renumbering not contiguous across the gap: %+v", c.Scenes)
	}

	gapWarned := false
	for _, w := range c.Warnings {
		if w.Code == models.WarnChunkGap {
			gapWarned = true
		}
	}
	if !gapWarned {
		t.Error("missing chunk gap warning")
	}

	blocked := false
	for _, b := range c.QC.Blockers {
		if b.Code == models.BlockChunkFailed && b.Chunk == 1 {
			blocked = true
		}
	}
	if !blocked {
		t.Errorf("missing chunk-failed blocker: %+v", c.QC.Blockers)
	}
	if c.QC.CompletenessScore >= 1.0 {
		t.Errorf("completeness score not lowered: %v", c.QC.CompletenessScore)
	}
}

func TestConsolidateForwardsChunkWarnings(t *testing.T) {
	results := []models.ChunkResult{
		{
			ChunkIndex: 0,
			Partial: &models.PartialExtraction{
				Scenes: []models.RawScene{chunkScene(1, "INT. OFFICE - DAY"), chunkScene(2, "INT. HALL - DAY")},
				Warnings: []models.Warning{{
					Code:    models.WarnPreSluglineDiscard,
					Message: "2 line(s) before first slugline not attached to any scene",
				}},
			},
		},
		{
			ChunkIndex: 1,
			Partial: &models.PartialExtraction{
				Scenes: []models.RawScene{chunkScene(1, "ROOF INT EXT MESS")},
				Warnings: []models.Warning{{
					Code:    models.WarnAmbiguousSlugline,
					Message: `accepted loose scene heading: "ROOF INT EXT MESS"`,
					Scene:   1,
				}},
			},
		},
	}

	c := Consolidate(results, config.DefaultTuning())

	var discard, ambiguous *models.Warning
	for i := range c.Warnings {
		switch c.Warnings[i].Code {
		case models.WarnPreSluglineDiscard:
			discard = &c.Warnings[i]
		case models.WarnAmbiguousSlugline:
			ambiguous = &c.Warnings[i]
		}
	}
	if discard == nil {
		t.Fatalf("pre-slugline warning lost in merge: %+v", c.Warnings)
	}
	if ambiguous == nil {
		t.Fatalf("ambiguous slugline warning lost in merge: %+v", c.Warnings)
	}
	// Chunk 1's scene 1 became global scene 3.
	if ambiguous.Scene != 3 {
		t.Errorf("warning scene = %d, want remapped 3", ambiguous.Scene)
	}
	if discard.Scene != 0 {
		t.Errorf("document-level warning picked up a scene: %+v", discard)
	}
}

func TestConsolidateEmptyChunkBlocker(t *testing.T) {
	results := []models.ChunkResult{
		{ChunkIndex: 0, Partial: &models.PartialExtraction{Scenes: []models.RawScene{chunkScene(1, "INT. A - DAY")}}},
		{ChunkIndex: 1, Partial: &models.PartialExtraction{}},
	}

	c := Consolidate(results, config.DefaultTuning())

	found := false
	for _, b := range c.QC.Blockers {
		if b.Code == models.BlockEmptyChunk && b.Chunk == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("missing empty-chunk blocker: %+v", c.QC.Blockers)
	}
}

func TestConsolidateThreadEvidenceInvariant(t *testing.T) {
	scenes := make([]models.RawScene, 0, 6)
	for i := 1; i <= 6; i++ {
		s := chunkScene(i, "INT. DINER - NIGHT")
		if i%2 == 0 {
			s.Lines = []string{
				"ANNA",
				"Pass the ledger.",
				"BEN",
				"It stays in the briefcase.",
			}
		}
		scenes = append(scenes, s)
	}

	partial := BuildPartial(0, scenes, config.DefaultTuning())
	c := Consolidate([]models.ChunkResult{{ChunkIndex: 0, Partial: &partial}}, config.DefaultTuning())

	if len(c.Threads) == 0 {
		t.Fatal("expected at least one thread from repeated evidence")
	}
	for _, th := range c.Threads {
		if len(th.EvidenceScenes) < 2 {
			t.Errorf("thread %s emitted with %d evidence scenes", th.ID, len(th.EvidenceScenes))
		}
		if th.ID == "" {
			t.Error("thread without ID")
		}
	}

	foundRelationship := false
	for _, th := range c.Threads {
		if th.Type == models.ThreadRelationship {
			foundRelationship = true
		}
	}
	if !foundRelationship {
		t.Errorf("ANNA/BEN relationship thread not inferred: %+v", c.Threads)
	}
}

func TestConsolidateThreadIDsDeterministic(t *testing.T) {
	build := func() *Consolidation {
		scenes := []models.RawScene{
			chunkScene(1, "INT. DINER - NIGHT"),
			chunkScene(2, "INT. DINER - NIGHT"),
			chunkScene(3, "INT. DINER - NIGHT"),
		}
		partial := BuildPartial(0, scenes, config.DefaultTuning())
		return Consolidate([]models.ChunkResult{{ChunkIndex: 0, Partial: &partial}}, config.DefaultTuning())
	}

	first := build()
	second := build()
	if !reflect.DeepEqual(first.Threads, second.Threads) {
		t.Errorf("thread inference not deterministic:\n%+v\n%+v", first.Threads, second.Threads)
	}
	if len(first.Threads) == 0 {
		t.Fatal("expected a location arc for the recurring diner")
	}
}
