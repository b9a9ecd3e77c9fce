// internal/screenplay/identity.go
package screenplay

import (
	"sort"
	"strings"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// NormalizeCharacterName strips continuity and POV suffixes from a raw cue,
// collapses whitespace, and returns the display form plus the uppercase key
// used for case-insensitive dedup.
func NormalizeCharacterName(raw string, tuning config.Tuning) (display, key string) {
	s := raw
	for _, marker := range tuning.Classifier.ContinuityMarkers {
		s = strings.ReplaceAll(s, marker, "")
		s = strings.ReplaceAll(s, strings.ToLower(marker), "")
	}
	if idx := strings.Index(s, "("); idx > 0 {
		s = s[:idx]
	}
	s = strings.TrimRight(collapseSpaces(s), ".,:")
	return s, upperKey(s)
}

// ValidCharacterKey applies the name-validity filter: blacklisted tokens,
// one- and two-letter tokens, all-digit tokens, and vowelless strings are not
// character names. Names the caller declared as known are exempt from every
// rejection rule.
func ValidCharacterKey(key string, tuning config.IdentityTuning) bool {
	if isKnownCharacterKey(key, tuning) {
		return true
	}
	if len([]rune(key)) <= 2 {
		return false
	}
	if !hasVowel(key) {
		return false
	}

	firstWord := strings.Fields(key)[0]
	for _, banned := range tuning.NameBlacklist {
		if key == banned || firstWord == banned {
			return false
		}
	}
	return true
}

// isKnownCharacterKey matches a normalized key against the caller-supplied
// known-character hints, case-insensitively.
func isKnownCharacterKey(key string, tuning config.IdentityTuning) bool {
	for _, known := range tuning.KnownCharacters {
		if upperKey(collapseSpaces(known)) == key {
			return true
		}
	}
	return false
}

// CharacterAccumulator builds canonical identities additively. It is created
// fresh per resolution run, so resolving the same scene set twice reproduces
// identical totals.
type CharacterAccumulator struct {
	identities map[string]*models.CharacterIdentity
	tuning     config.Tuning
}

// NewCharacterAccumulator creates an empty accumulator.
func NewCharacterAccumulator(tuning config.Tuning) *CharacterAccumulator {
	return &CharacterAccumulator{
		identities: make(map[string]*models.CharacterIdentity),
		tuning:     tuning,
	}
}

// Add records one observation of a raw character name in a scene. Rejected
// names are dropped here, rule-driven, never downstream.
func (a *CharacterAccumulator) Add(raw string, scene, dialogueLines, words int) bool {
	display, key := NormalizeCharacterName(raw, a.tuning)
	if key == "" || !ValidCharacterKey(key, a.tuning.Identity) {
		return false
	}

	id, ok := a.identities[key]
	if !ok {
		id = &models.CharacterIdentity{
			CanonicalName:  display,
			FirstSeenScene: scene,
			Role:           models.RoleCast,
		}
		a.identities[key] = id
	}

	cleanRaw := collapseSpaces(raw)
	if cleanRaw != id.CanonicalName && !id.HasAlias(cleanRaw) {
		id.Aliases = append(id.Aliases, cleanRaw)
	}

	id.DialogueLineCount += dialogueLines
	id.WordCount += words
	if scene > 0 {
		if !id.InScene(scene) {
			id.ScenesPresent = append(id.ScenesPresent, scene)
		}
		if scene < id.FirstSeenScene || id.FirstSeenScene == 0 {
			id.FirstSeenScene = scene
		}
	}
	return true
}

// Absorb merges an already-built identity (from a chunk partial) into the
// accumulator: counts sum, aliases union, first-seen is the minimum.
func (a *CharacterAccumulator) Absorb(other models.CharacterIdentity) bool {
	display, key := NormalizeCharacterName(other.CanonicalName, a.tuning)
	if key == "" || !ValidCharacterKey(key, a.tuning.Identity) {
		return false
	}

	id, ok := a.identities[key]
	if !ok {
		id = &models.CharacterIdentity{
			CanonicalName:  display,
			FirstSeenScene: other.FirstSeenScene,
			Role:           models.RoleCast,
		}
		a.identities[key] = id
	}

	if clean := collapseSpaces(other.CanonicalName); clean != id.CanonicalName && !id.HasAlias(clean) {
		id.Aliases = append(id.Aliases, clean)
	}
	for _, alias := range other.Aliases {
		if alias != id.CanonicalName && !id.HasAlias(alias) {
			id.Aliases = append(id.Aliases, alias)
		}
	}

	id.DialogueLineCount += other.DialogueLineCount
	id.WordCount += other.WordCount
	for _, s := range other.ScenesPresent {
		if !id.InScene(s) {
			id.ScenesPresent = append(id.ScenesPresent, s)
		}
	}
	if other.FirstSeenScene > 0 && (id.FirstSeenScene == 0 || other.FirstSeenScene < id.FirstSeenScene) {
		id.FirstSeenScene = other.FirstSeenScene
	}
	return true
}

// Resolve finalizes the accumulated identities: the location-disguise
// heuristic removes slugline fragments misread as cues, scene lists are
// sorted, confidence is filled, and the output order is deterministic.
func (a *CharacterAccumulator) Resolve() []models.CharacterIdentity {
	out := make([]models.CharacterIdentity, 0, len(a.identities))
	for key, id := range a.identities {
		if len(id.ScenesPresent) > a.tuning.Identity.LocationDisguiseMinScenes &&
			id.DialogueLineCount < a.tuning.Identity.LocationDisguiseMaxLines &&
			!isKnownCharacterKey(key, a.tuning.Identity) {
			continue
		}

		sort.Ints(id.ScenesPresent)
		sort.Strings(id.Aliases)
		id.Confidence = identityConfidence(id)
		out = append(out, *id)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].FirstSeenScene != out[j].FirstSeenScene {
			return out[i].FirstSeenScene < out[j].FirstSeenScene
		}
		return out[i].CanonicalName < out[j].CanonicalName
	})
	return out
}

// identityConfidence is a defined neutral default plus evidence boosts, never
// absent: downstream consumers never null-check "no opinion".
func identityConfidence(id *models.CharacterIdentity) float64 {
	conf := 0.5
	if id.DialogueLineCount >= 5 {
		conf += 0.2
	} else if id.DialogueLineCount >= 1 {
		conf += 0.1
	}
	if len(id.ScenesPresent) >= 3 {
		conf += 0.2
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
