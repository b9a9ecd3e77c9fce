// internal/screenplay/identity_test.go
package screenplay

import (
	"reflect"
	"testing"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

func TestIdentityContinuityMerge(t *testing.T) {
	acc := NewCharacterAccumulator(config.DefaultTuning())
	acc.Add("JOHN", 1, 2, 10)
	acc.Add("JOHN (CONT'D)", 2, 3, 15)

	out := acc.Resolve()
	if len(out) != 1 {
		t.Fatalf("expected 1 identity, got %d: %+v", len(out), out)
	}

	id := out[0]
	if id.CanonicalName != "JOHN" {
		t.Errorf("CanonicalName = %q, want JOHN", id.CanonicalName)
	}
	if id.DialogueLineCount != 5 {
		t.Errorf("DialogueLineCount = %d, want 5", id.DialogueLineCount)
	}
	if id.WordCount != 25 {
		t.Errorf("WordCount = %d, want 25", id.WordCount)
	}
	if !reflect.DeepEqual(id.ScenesPresent, []int{1, 2}) {
		t.Errorf("ScenesPresent = %v, want [1 2]", id.ScenesPresent)
	}
	if id.FirstSeenScene != 1 {
		t.Errorf("FirstSeenScene = %d, want 1", id.FirstSeenScene)
	}
	if !id.HasAlias("JOHN (CONT'D)") {
		t.Errorf("variant not kept as alias: %v", id.Aliases)
	}
}

func TestIdentityResolutionIdempotent(t *testing.T) {
	build := func() []models.CharacterIdentity {
		acc := NewCharacterAccumulator(config.DefaultTuning())
		acc.Add("MARA", 1, 4, 30)
		acc.Add("DRIVER (V.O.)", 2, 1, 5)
		acc.Add("MARA (CONT'D)", 3, 2, 12)
		acc.Add("GUARD 2", 3, 1, 4)
		return acc.Resolve()
	}

	first := build()
	second := build()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolution not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestIdentityRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"heading token", "INT"},
		{"time of day", "NIGHT"},
		{"two letters", "AL"},
		{"all digits", "1947"},
		{"no vowel", "XYZ"},
		{"draft metadata", "REVISED"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			acc := NewCharacterAccumulator(config.DefaultTuning())
			if acc.Add(c.raw, 1, 1, 3) {
				t.Errorf("Add(%q) accepted a non-name", c.raw)
			}
			if len(acc.Resolve()) != 0 {
				t.Errorf("%q produced an identity", c.raw)
			}
		})
	}
}

func TestIdentityKnownNameBypassesRejection(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Identity.KnownCharacters = []string{"XYZ", "al", "Bg 7"}

	cases := []struct {
		name string
		raw  string
	}{
		{"no vowel", "XYZ"},
		{"two letters", "AL"},
		{"spaced and mixed case hint", "BG 7"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			acc := NewCharacterAccumulator(tuning)
			if !acc.Add(c.raw, 1, 2, 6) {
				t.Fatalf("Add(%q) rejected a known character", c.raw)
			}
			out := acc.Resolve()
			if len(out) != 1 {
				t.Fatalf("known character %q not resolved: %+v", c.raw, out)
			}
		})
	}

	// Names outside the known set still go through the normal rules.
	acc := NewCharacterAccumulator(tuning)
	if acc.Add("QRS", 1, 1, 3) {
		t.Error("unlisted vowelless name accepted")
	}
}

func TestIdentityKnownNameSurvivesDisguiseRemoval(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Identity.KnownCharacters = []string{"OVERSEER"}

	acc := NewCharacterAccumulator(tuning)
	// Present in 11 scenes with almost no dialogue: the disguise heuristic
	// would normally drop it.
	for scene := 1; scene <= 11; scene++ {
		lines := 0
		if scene == 1 {
			lines = 1
		}
		acc.Add("OVERSEER", scene, lines, lines*2)
	}

	out := acc.Resolve()
	if len(out) != 1 || out[0].CanonicalName != "OVERSEER" {
		t.Fatalf("known character removed by disguise heuristic: %+v", out)
	}
}

func TestIdentityLocationDisguiseRemoval(t *testing.T) {
	acc := NewCharacterAccumulator(config.DefaultTuning())
	// Present in 11 scenes with 2 dialogue lines total: a slugline fragment.
	for scene := 1; scene <= 11; scene++ {
		lines := 0
		if scene <= 2 {
			lines = 1
		}
		acc.Add("WAREHOUSE FLOOR", scene, lines, lines*3)
	}
	acc.Add("MARA", 1, 6, 40)

	out := acc.Resolve()
	if len(out) != 1 || out[0].CanonicalName != "MARA" {
		t.Fatalf("location-disguised identity not removed: %+v", out)
	}
}

func TestIdentityAbsorbPartials(t *testing.T) {
	acc := NewCharacterAccumulator(config.DefaultTuning())
	acc.Absorb(models.CharacterIdentity{
		CanonicalName:     "JOHN",
		DialogueLineCount: 4,
		WordCount:         20,
		ScenesPresent:     []int{1, 2},
		FirstSeenScene:    1,
	})
	acc.Absorb(models.CharacterIdentity{
		CanonicalName:     "JOHN (CONT'D)",
		DialogueLineCount: 3,
		WordCount:         18,
		ScenesPresent:     []int{2, 5},
		FirstSeenScene:    2,
	})

	out := acc.Resolve()
	if len(out) != 1 {
		t.Fatalf("expected 1 identity after absorb, got %d", len(out))
	}
	id := out[0]
	if id.DialogueLineCount != 7 || id.WordCount != 38 {
		t.Errorf("counts not summed: %+v", id)
	}
	if !reflect.DeepEqual(id.ScenesPresent, []int{1, 2, 5}) {
		t.Errorf("ScenesPresent = %v, want [1 2 5]", id.ScenesPresent)
	}
	if id.FirstSeenScene != 1 {
		t.Errorf("FirstSeenScene = %d, want 1", id.FirstSeenScene)
	}
}
