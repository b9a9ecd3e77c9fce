// internal/models/character.go
package models

// CharacterRole buckets a resolved identity for the final breakdown.
type CharacterRole string

const (
	RoleCast          CharacterRole = "cast"
	RoleFeaturedExtra CharacterRole = "featured_extra"
	RoleVoiceFunction CharacterRole = "voice_functional"
)

// CharacterIdentity is the canonical, deduplicated representation of one
// character. It is created on first textual evidence and mutated additively
// as more scenes are processed; two keys normalizing to the same identity are
// merged, never silently dropped.
type CharacterIdentity struct {
	CanonicalName     string        `json:"canonical_name"`
	Aliases           []string      `json:"aliases"`
	DialogueLineCount int           `json:"dialogue_line_count"`
	WordCount         int           `json:"word_count"`
	ScenesPresent     []int         `json:"scenes_present"`
	FirstSeenScene    int           `json:"first_seen_scene"`
	Role              CharacterRole `json:"role"`
	Confidence        float64       `json:"confidence"`
}

// HasAlias reports whether the identity already carries the given alias.
func (c *CharacterIdentity) HasAlias(alias string) bool {
	for _, a := range c.Aliases {
		if a == alias {
			return true
		}
	}
	return false
}

// InScene reports whether the identity was seen in the given scene number.
func (c *CharacterIdentity) InScene(scene int) bool {
	for _, s := range c.ScenesPresent {
		if s == scene {
			return true
		}
	}
	return false
}
