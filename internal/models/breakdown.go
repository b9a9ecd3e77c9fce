// internal/models/breakdown.go
package models

import "time"

// Warning codes collected in BreakdownDocument.Warnings. Soft by definition:
// a warning never blocks output (see qc.go for blockers).
const (
	WarnPreSluglineDiscard = "PRE_SLUGLINE_DISCARDED"
	WarnAmbiguousSlugline  = "AMBIGUOUS_SLUGLINE"
	WarnPropsTooFew        = "PROPS_TOO_FEW"
	WarnTitleMissing       = "TITLE_MISSING"
	WarnChunkGap           = "CHUNK_GAP"
	WarnAmbiguousAlias     = "AMBIGUOUS_ALIAS"
	WarnCharacterNoLines   = "CHARACTER_WITHOUT_DIALOGUE"
)

// Warning is one soft finding attached to the final document.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Scene   int    `json:"scene,omitempty"`
}

// CharacterBuckets holds the three role groups of the final cast list. Field
// names are part of the stable output contract.
type CharacterBuckets struct {
	Cast                   []CharacterIdentity `json:"cast"`
	FeaturedExtrasWithLine []CharacterIdentity `json:"featured_extras_with_lines"`
	VoicesAndFunctional    []CharacterIdentity `json:"voices_and_functional"`
}

// LocationGroups separates base locations from their raw slugline variants.
type LocationGroups struct {
	Base     []LocationIdentity `json:"base"`
	Variants []string           `json:"variants"`
}

// BreakdownCounts is always recomputed from the final arrays, never copied
// from upstream partials.
type BreakdownCounts struct {
	Scenes              int `json:"scenes"`
	CastCharactersTotal int `json:"cast_characters_total"`
	FeaturedExtrasTotal int `json:"featured_extras_total"`
	VoicesTotal         int `json:"voices_total"`
	Locations           int `json:"locations"`
	Props               int `json:"props"`
	Threads             int `json:"threads"`
	DialogueLines       int `json:"dialogue_lines"`
}

// BreakdownDocument is the final, consolidated script breakdown. The JSON
// shape is consumed by reporting layers and evolves additively only.
type BreakdownDocument struct {
	ID          string             `json:"id,omitempty"`
	Title       string             `json:"title"`
	Scenes      []RawScene         `json:"scenes"`
	Characters  CharacterBuckets   `json:"characters"`
	Locations   LocationGroups     `json:"locations"`
	Props       []Prop             `json:"props"`
	Threads     []NarrativeThread  `json:"threads"`
	Genre       *GenreResult       `json:"genre,omitempty"`
	Protagonist *ProtagonistResult `json:"protagonist,omitempty"`
	Counts      BreakdownCounts    `json:"counts"`
	Warnings    []Warning          `json:"warnings"`
	QC          *QCReport          `json:"qc,omitempty"`
	CreatedAt   time.Time          `json:"created_at,omitempty"`
}

// BreakdownMetadata is the listing view of a stored breakdown.
type BreakdownMetadata struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SceneCount int       `json:"scene_count"`
	CreatedAt  time.Time `json:"created_at"`
}
