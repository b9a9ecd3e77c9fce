// internal/models/genre.go
package models

// GenreOverride records one applied reassignment rule for auditability.
type GenreOverride struct {
	Rule          string `json:"rule"`
	From          string `json:"from"`
	To            string `json:"to"`
	Justification string `json:"justification"`
}

// GenreResult is the outcome of keyword scoring plus the ordered override
// rules. RawWinner is the pre-override maximum; Genre is the contract value.
type GenreResult struct {
	Genre      string          `json:"genre"`
	RawWinner  string          `json:"raw_winner"`
	Scores     map[string]int  `json:"scores"`
	Confidence float64         `json:"confidence"`
	Overrides  []GenreOverride `json:"overrides,omitempty"`
}

// ProtagonistCandidate is one ranked character with its weighted-signal
// score and the structural signals that contributed to it.
type ProtagonistCandidate struct {
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	FirstScene    bool    `json:"first_scene"`
	LastScene     bool    `json:"last_scene"`
	TurningPoints bool    `json:"turning_points"`
}

// ProtagonistResult ranks the cast by narrative weight. When IsEnsemble is
// set, Candidates carries the near-equal top three instead of one winner and
// Confidence is capped low.
type ProtagonistResult struct {
	Candidates []ProtagonistCandidate `json:"candidates"`
	IsEnsemble bool                   `json:"is_ensemble"`
	Confidence float64                `json:"confidence"`
}
