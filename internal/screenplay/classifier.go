// internal/screenplay/classifier.go
package screenplay

import (
	"strings"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

type lineState int

const (
	stateAction lineState = iota
	stateAwaitingDialogue
	stateInDialogue
)

// Classify runs the per-scene line state machine, filling scene.Dialogue and
// scene.ActionLines. Ambiguous lines default to action: over-segmenting
// dialogue corrupts downstream word counts more than under-segmenting does.
func Classify(scene *models.RawScene, tuning config.Tuning) {
	scene.Dialogue = nil
	scene.ActionLines = nil

	state := stateAction
	var pending models.DialogueLine
	var pendingCueLine string

	flush := func() {
		if state == stateInDialogue && pending.Text != "" {
			scene.Dialogue = append(scene.Dialogue, pending)
		} else if state == stateAwaitingDialogue && pendingCueLine != "" {
			// Cue with no dialogue after it reverts to action.
			scene.ActionLines = append(scene.ActionLines, pendingCueLine)
		}
		pending = models.DialogueLine{}
		pendingCueLine = ""
		state = stateAction
	}

	for _, line := range scene.Lines {
		if isTransition(line, tuning.Classifier) {
			flush()
			scene.ActionLines = append(scene.ActionLines, line)
			continue
		}

		if name, ok := parseCue(line, tuning); ok {
			flush()
			pending = models.DialogueLine{
				CharacterKey: upperKey(name),
				CharacterRaw: name,
			}
			pendingCueLine = line
			state = stateAwaitingDialogue
			continue
		}

		switch state {
		case stateAwaitingDialogue:
			if isParenthetical(line) {
				pending.Parenthetical = joinParenthetical(pending.Parenthetical, line)
				continue
			}
			if len(line) >= tuning.Classifier.ProseLineMin {
				flush()
				scene.ActionLines = append(scene.ActionLines, line)
				continue
			}
			pending.Text = line
			state = stateInDialogue

		case stateInDialogue:
			if len(line) >= tuning.Classifier.ProseLineMin {
				flush()
				scene.ActionLines = append(scene.ActionLines, line)
				continue
			}
			if isParenthetical(line) {
				pending.Parenthetical = joinParenthetical(pending.Parenthetical, line)
				continue
			}
			pending.Text += " " + line

		default:
			scene.ActionLines = append(scene.ActionLines, line)
		}
	}
	flush()
}

// parseCue reports whether the line is a character cue and returns the name
// with continuity markers stripped.
func parseCue(line string, tuning config.Tuning) (string, bool) {
	candidate := line
	for _, marker := range tuning.Classifier.ContinuityMarkers {
		candidate = strings.ReplaceAll(candidate, marker, "")
	}

	// Any remaining trailing parenthetical ("(INTO PHONE)") is dropped from
	// the cue; mid-line parens disqualify it.
	candidate = strings.TrimSpace(candidate)
	if idx := strings.Index(candidate, "("); idx >= 0 {
		if !strings.HasSuffix(candidate, ")") || idx == 0 {
			return "", false
		}
		candidate = candidate[:idx]
	}

	candidate = collapseSpaces(candidate)
	if candidate == "" {
		return "", false
	}

	// Names the caller declared as known are cues regardless of shape.
	if isKnownCharacterKey(upperKey(candidate), tuning.Identity) {
		return candidate, true
	}

	if len([]rune(candidate)) > tuning.Classifier.CueMaxLen {
		return "", false
	}
	if !isUpperCueShaped(candidate) || !hasVowel(candidate) {
		return "", false
	}

	key := strings.TrimRight(candidate, ".")
	firstWord := strings.Fields(key)[0]
	for _, banned := range tuning.Classifier.CueBlacklist {
		if key == banned || firstWord == banned {
			return "", false
		}
	}

	return candidate, true
}

func isTransition(line string, tuning config.ClassifierTuning) bool {
	if !isAllCapsLine(line) {
		return false
	}
	upper := strings.ToUpper(line)
	for _, t := range tuning.Transitions {
		if strings.HasPrefix(upper, t) {
			return true
		}
	}
	return false
}

func isParenthetical(line string) bool {
	return strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")")
}

func joinParenthetical(existing, line string) string {
	note := strings.TrimSuffix(strings.TrimPrefix(line, "("), ")")
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
