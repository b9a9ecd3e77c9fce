// internal/screenplay/entities_test.go
package screenplay

import (
	"testing"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

func TestExtractSceneCharacters(t *testing.T) {
	scene := &models.RawScene{
		SceneNumber: 3,
		LocationRaw: "WAREHOUSE - BACK ROOM",
		IntExt:      models.IntExtInterior,
		Lines: []string{
			"MARA (30s) slips through the gap, flashlight in hand.",
			"MARA",
			"Anyone here?",
			"DRIVER (O.S.)",
			"Just us.",
			"MARA (CONT'D)",
			"Good. Keep it that way.",
		},
	}
	Classify(scene, config.DefaultTuning())

	entities := ExtractScene(scene, config.DefaultTuning())

	var mara, driver *CharacterMention
	for i := range entities.Characters {
		switch entities.Characters[i].Raw {
		case "MARA":
			mara = &entities.Characters[i]
		case "DRIVER":
			driver = &entities.Characters[i]
		}
	}

	if mara == nil {
		t.Fatalf("MARA not extracted: %+v", entities.Characters)
	}
	if mara.DialogueLines != 2 {
		t.Errorf("MARA dialogue lines = %d, want 2", mara.DialogueLines)
	}
	if driver == nil || driver.DialogueLines != 1 {
		t.Errorf("DRIVER mention = %+v, want 1 dialogue line", driver)
	}
}

func TestExtractSceneActionIntroduction(t *testing.T) {
	scene := &models.RawScene{
		SceneNumber: 1,
		LocationRaw: "DOCK",
		Lines: []string{
			"VIKTOR steps out of the shadows, a crowbar loose in one hand.",
		},
	}
	Classify(scene, config.DefaultTuning())

	entities := ExtractScene(scene, config.DefaultTuning())

	found := false
	for _, m := range entities.Characters {
		if m.Raw == "VIKTOR" {
			found = true
			if m.DialogueLines != 0 {
				t.Errorf("action-only mention has dialogue lines: %+v", m)
			}
		}
	}
	if !found {
		t.Errorf("all-caps action introduction missed: %+v", entities.Characters)
	}
}

func TestExtractSceneLocationSplit(t *testing.T) {
	scene := &models.RawScene{
		SceneNumber: 2,
		LocationRaw: "WAREHOUSE - BACK ROOM",
		IntExt:      models.IntExtInterior,
	}
	Classify(scene, config.DefaultTuning())

	entities := ExtractScene(scene, config.DefaultTuning())
	if entities.Location.Base != "WAREHOUSE" {
		t.Errorf("Base = %q, want WAREHOUSE", entities.Location.Base)
	}
	if entities.Location.Variant != "WAREHOUSE - BACK ROOM" {
		t.Errorf("Variant = %q", entities.Location.Variant)
	}
}

func TestExtractSceneProps(t *testing.T) {
	scene := &models.RawScene{
		SceneNumber: 1,
		LocationRaw: "OFFICE",
		Lines: []string{
			"A gun sits on the desk next to an open briefcase.",
			"He checks the gun, then the phone.",
		},
	}
	Classify(scene, config.DefaultTuning())

	entities := ExtractScene(scene, config.DefaultTuning())

	want := map[string]struct {
		category string
		count    int
	}{
		"gun":       {"weapon", 2},
		"briefcase": {"valuables", 1},
		"phone":     {"electronics", 1},
	}
	if len(entities.Props) != len(want) {
		t.Fatalf("props = %+v, want %d entries", entities.Props, len(want))
	}
	for _, p := range entities.Props {
		w, ok := want[p.Name]
		if !ok {
			t.Errorf("unexpected prop %+v", p)
			continue
		}
		if p.Category != w.category || p.MentionCount != w.count {
			t.Errorf("prop %s = {%s %d}, want {%s %d}", p.Name, p.Category, p.MentionCount, w.category, w.count)
		}
	}
}

func TestBuildPartialAggregates(t *testing.T) {
	scenes := []models.RawScene{
		{
			SceneNumber: 1,
			LocationRaw: "WAREHOUSE",
			IntExt:      models.IntExtInterior,
			Lines:       []string{"MARA", "The gun stays with me."},
		},
		{
			SceneNumber: 2,
			LocationRaw: "WAREHOUSE - BACK ROOM",
			IntExt:      models.IntExtInterior,
			Lines:       []string{"MARA (CONT'D)", "Still with me."},
		},
	}

	partial := BuildPartial(0, scenes, config.DefaultTuning())

	if len(partial.Characters) != 1 || partial.Characters[0].CanonicalName != "MARA" {
		t.Fatalf("characters = %+v", partial.Characters)
	}
	if partial.Characters[0].DialogueLineCount != 2 {
		t.Errorf("dialogue line count = %d, want 2", partial.Characters[0].DialogueLineCount)
	}

	if len(partial.Locations) != 1 || partial.Locations[0].Name != "WAREHOUSE" {
		t.Fatalf("locations = %+v", partial.Locations)
	}
	if partial.Locations[0].SceneCount != 2 {
		t.Errorf("location scene count = %d, want 2", partial.Locations[0].SceneCount)
	}
	if len(partial.Locations[0].Variants) != 1 || partial.Locations[0].Variants[0] != "WAREHOUSE - BACK ROOM" {
		t.Errorf("variants = %v", partial.Locations[0].Variants)
	}

	if len(partial.Props) != 1 || partial.Props[0].Name != "gun" {
		t.Errorf("props = %+v", partial.Props)
	}
}
