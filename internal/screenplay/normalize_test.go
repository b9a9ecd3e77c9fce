// internal/screenplay/normalize_test.go
package screenplay

import (
	"strings"
	"testing"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

func TestSelectTitleCascade(t *testing.T) {
	tuning := config.DefaultTuning().Normalizer

	t.Run("first valid candidate wins", func(t *testing.T) {
		title, ok := selectTitle([]string{"", "The Long Night"}, "", tuning)
		if !ok || title != "The Long Night" {
			t.Errorf("title = %q ok=%v", title, ok)
		}
	})

	t.Run("overlong candidate skipped", func(t *testing.T) {
		long := strings.Repeat("word ", 20)
		title, ok := selectTitle([]string{long, "Fallback"}, "", tuning)
		if !ok || title != "Fallback" {
			t.Errorf("title = %q ok=%v", title, ok)
		}
	})

	t.Run("sentence punctuation rejected", func(t *testing.T) {
		_, ok := shapedTitle("He walks into the night and never returns.", tuning)
		if ok {
			t.Error("sentence accepted as title")
		}
	})

	t.Run("raw text scan", func(t *testing.T) {
		raw := "a speculative draft\nTHE LONG NIGHT\nwritten by someone\nINT. BAR - NIGHT\n"
		title, ok := selectTitle(nil, raw, tuning)
		if !ok || title != "THE LONG NIGHT" {
			t.Errorf("title = %q ok=%v", title, ok)
		}
	})

	t.Run("scene heading not a title", func(t *testing.T) {
		raw := "INT. BAR - NIGHT\nsome prose follows here\n"
		_, ok := selectTitle(nil, raw, tuning)
		if ok {
			t.Error("scene heading accepted as title")
		}
	})
}

func TestBucketCharacters(t *testing.T) {
	tuning := config.DefaultTuning().Normalizer
	characters := []models.CharacterIdentity{
		{CanonicalName: "MARA"},
		{CanonicalName: "GUARD 2"},
		{CanonicalName: "OLD MAN"},
		{CanonicalName: "RADIO VOICE"},
		{CanonicalName: "GPS"},
	}

	buckets := bucketCharacters(characters, tuning)

	if len(buckets.Cast) != 1 || buckets.Cast[0].CanonicalName != "MARA" {
		t.Errorf("cast = %+v", buckets.Cast)
	}
	if len(buckets.FeaturedExtrasWithLine) != 2 {
		t.Errorf("featured extras = %+v", buckets.FeaturedExtrasWithLine)
	}
	if len(buckets.VoicesAndFunctional) != 2 {
		t.Errorf("voices = %+v", buckets.VoicesAndFunctional)
	}
	for _, id := range buckets.FeaturedExtrasWithLine {
		if id.Role != models.RoleFeaturedExtra {
			t.Errorf("role not set on %s", id.CanonicalName)
		}
	}
}

func TestPropSufficiencyWarning(t *testing.T) {
	// 90 scenes with 3 props: a warning, never a failure.
	c := &Consolidation{Props: []models.Prop{
		{Name: "gun", Category: "weapon", MentionCount: 4},
		{Name: "phone", Category: "electronics", MentionCount: 2},
		{Name: "letter", Category: "document", MentionCount: 1},
	}}
	for i := 1; i <= 90; i++ {
		c.Scenes = append(c.Scenes, models.RawScene{SceneNumber: i, SluglineRaw: "INT. SET - DAY"})
	}

	doc := Finish(c, "", []string{"Test Feature"}, config.DefaultTuning())

	if doc == nil {
		t.Fatal("Finish returned nil for a valid consolidation")
	}
	found := false
	for _, w := range doc.Warnings {
		if w.Code == models.WarnPropsTooFew {
			found = true
		}
	}
	if !found {
		t.Errorf("missing PROPS_TOO_FEW warning: %+v", doc.Warnings)
	}
	if doc.Counts.Scenes != 90 || doc.Counts.Props != 3 {
		t.Errorf("counts = %+v", doc.Counts)
	}
}

func TestCountsConsistency(t *testing.T) {
	c := &Consolidation{
		Scenes: []models.RawScene{
			{SceneNumber: 1, SluglineRaw: "INT. A - DAY", Dialogue: []models.DialogueLine{{CharacterKey: "MARA", Text: "Hi."}}},
			{SceneNumber: 2, SluglineRaw: "INT. B - DAY"},
		},
		Characters: []models.CharacterIdentity{
			{CanonicalName: "MARA", DialogueLineCount: 1, ScenesPresent: []int{1}},
			{CanonicalName: "GUARD", DialogueLineCount: 1, ScenesPresent: []int{2}},
			{CanonicalName: "RADIO VOICE", DialogueLineCount: 1, ScenesPresent: []int{2}},
		},
		Locations: []models.LocationIdentity{{Name: "A", SceneCount: 1}, {Name: "B", SceneCount: 1}},
		Props:     []models.Prop{{Name: "gun", Category: "weapon", MentionCount: 1}},
	}

	doc := Finish(c, "", nil, config.DefaultTuning())

	if doc.Counts.CastCharactersTotal != len(doc.Characters.Cast) {
		t.Errorf("cast count %d != %d", doc.Counts.CastCharactersTotal, len(doc.Characters.Cast))
	}
	if doc.Counts.FeaturedExtrasTotal != len(doc.Characters.FeaturedExtrasWithLine) {
		t.Errorf("featured count mismatch")
	}
	if doc.Counts.VoicesTotal != len(doc.Characters.VoicesAndFunctional) {
		t.Errorf("voices count mismatch")
	}
	if doc.Counts.Locations != len(doc.Locations.Base) {
		t.Errorf("locations count mismatch")
	}
	if doc.Counts.Props != len(doc.Props) {
		t.Errorf("props count mismatch")
	}
	if doc.Counts.Threads != len(doc.Threads) {
		t.Errorf("threads count mismatch")
	}
	if doc.Counts.DialogueLines != 1 {
		t.Errorf("dialogue lines = %d, want 1", doc.Counts.DialogueLines)
	}
	if doc.Counts.Scenes != 2 {
		t.Errorf("scenes = %d, want 2", doc.Counts.Scenes)
	}
}

func TestFinishTitleMissingWarning(t *testing.T) {
	c := &Consolidation{Scenes: []models.RawScene{{SceneNumber: 1, SluglineRaw: "INT. A - DAY"}}}

	doc := Finish(c, "int. a - day\nlowercase prose only\n", nil, config.DefaultTuning())

	if doc.Title != "" {
		t.Errorf("title = %q, want empty", doc.Title)
	}
	found := false
	for _, w := range doc.Warnings {
		if w.Code == models.WarnTitleMissing {
			found = true
		}
	}
	if !found {
		t.Error("missing TITLE_MISSING warning")
	}
}

func TestFinishNeutralDefaultsPopulated(t *testing.T) {
	c := &Consolidation{Scenes: []models.RawScene{{SceneNumber: 1, SluglineRaw: "INT. A - DAY"}}}

	doc := Finish(c, "", []string{"Empty Stage"}, config.DefaultTuning())

	if doc.Genre == nil || doc.Genre.Genre == "" {
		t.Error("genre not populated with a default")
	}
	if doc.Protagonist == nil {
		t.Error("protagonist result absent")
	}
	if doc.QC == nil {
		t.Error("qc report absent")
	}
}
