// internal/screenplay/classifier_test.go
package screenplay

import (
	"strings"
	"testing"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

func classifyLines(t *testing.T, lines ...string) *models.RawScene {
	t.Helper()
	scene := &models.RawScene{SceneNumber: 1, Lines: lines}
	Classify(scene, config.DefaultTuning())
	return scene
}

func TestClassifyBasicDialogue(t *testing.T) {
	scene := classifyLines(t,
		"Mara circles the crates, counting under her breath.",
		"MARA",
		"It's not here.",
		"They moved it this morning.",
		"DRIVER (V.O.)",
		"(over radio)",
		"Then we have a problem.",
	)

	if len(scene.Dialogue) != 2 {
		t.Fatalf("expected 2 dialogue lines, got %d: %+v", len(scene.Dialogue), scene.Dialogue)
	}

	first := scene.Dialogue[0]
	if first.CharacterKey != "MARA" {
		t.Errorf("CharacterKey = %q, want MARA", first.CharacterKey)
	}
	if first.Text != "It's not here. They moved it this morning." {
		t.Errorf("continuation not joined: %q", first.Text)
	}

	second := scene.Dialogue[1]
	if second.CharacterKey != "DRIVER" {
		t.Errorf("continuity marker not stripped from cue: key = %q", second.CharacterKey)
	}
	if second.Parenthetical != "over radio" {
		t.Errorf("Parenthetical = %q, want %q", second.Parenthetical, "over radio")
	}
	if second.Text != "Then we have a problem." {
		t.Errorf("Text = %q", second.Text)
	}

	if len(scene.ActionLines) != 1 {
		t.Errorf("expected 1 action line, got %v", scene.ActionLines)
	}
}

func TestClassifyTransitionEndsDialogue(t *testing.T) {
	scene := classifyLines(t,
		"MARA",
		"Wait for my signal.",
		"CUT TO:",
		"The dock, later. Empty.",
	)

	if len(scene.Dialogue) != 1 {
		t.Fatalf("expected 1 dialogue line, got %d", len(scene.Dialogue))
	}
	if scene.Dialogue[0].Text != "Wait for my signal." {
		t.Errorf("transition leaked into dialogue: %q", scene.Dialogue[0].Text)
	}
	if len(scene.ActionLines) != 2 {
		t.Errorf("expected transition and trailing prose as action, got %v", scene.ActionLines)
	}
}

func TestClassifyProseEndsDialogue(t *testing.T) {
	prose := strings.Repeat("The warehouse settles around them, metal ticking as it cools. ", 3)

	scene := classifyLines(t,
		"MARA",
		"Quiet now.",
		prose,
		"More action text.",
	)

	if len(scene.Dialogue) != 1 || scene.Dialogue[0].Text != "Quiet now." {
		t.Fatalf("dialogue = %+v", scene.Dialogue)
	}
	if len(scene.ActionLines) != 2 {
		t.Errorf("long prose line should revert to action, got %v", scene.ActionLines)
	}
}

func TestClassifyCueRejections(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"blacklisted heading keyword", "FLASHBACK"},
		{"crowd label", "CROWD"},
		{"draft metadata", "FINAL DRAFT"},
		{"no vowel", "XYZ"},
		{"too long", strings.ToUpper(strings.Repeat("NAME ", 12))},
		{"lowercase", "Mara"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			scene := classifyLines(t, c.line, "Some line that would be dialogue.")
			if len(scene.Dialogue) != 0 {
				t.Errorf("%q parsed as cue: %+v", c.line, scene.Dialogue)
			}
		})
	}
}

func TestClassifyCueWithoutDialogueRevertsToAction(t *testing.T) {
	scene := classifyLines(t,
		"Action before.",
		"MARA",
	)

	if len(scene.Dialogue) != 0 {
		t.Fatalf("dangling cue produced dialogue: %+v", scene.Dialogue)
	}
	if len(scene.ActionLines) != 2 || scene.ActionLines[1] != "MARA" {
		t.Errorf("dangling cue should be kept as action, got %v", scene.ActionLines)
	}
}

func TestClassifyKnownCharacterCue(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Identity.KnownCharacters = []string{"XL7"}

	scene := &models.RawScene{SceneNumber: 1, Lines: []string{
		"XL7",
		"Initiating transfer.",
	}}
	Classify(scene, tuning)

	if len(scene.Dialogue) != 1 || scene.Dialogue[0].CharacterKey != "XL7" {
		t.Fatalf("known vowelless cue not accepted: %+v", scene.Dialogue)
	}
}

func TestClassifyNumberedCharacter(t *testing.T) {
	scene := classifyLines(t,
		"GUARD 2",
		"Nobody gets in.",
	)

	if len(scene.Dialogue) != 1 || scene.Dialogue[0].CharacterKey != "GUARD 2" {
		t.Fatalf("numbered cue not accepted: %+v", scene.Dialogue)
	}
}
