// internal/models/extraction.go
package models

// PartialExtraction is the per-chunk result an extractor returns. It follows
// the same scene/character/location/prop shape as the final document,
// restricted to one chunk; scene numbers are chunk-local until consolidation.
// Warnings raised while segmenting the chunk ride along so consolidation can
// surface them in the final document.
type PartialExtraction struct {
	ChunkIndex int                 `json:"chunk_index"`
	Scenes     []RawScene          `json:"scenes"`
	Characters []CharacterIdentity `json:"characters"`
	Locations  []LocationIdentity  `json:"locations"`
	Props      []Prop              `json:"props"`
	Warnings   []Warning           `json:"warnings,omitempty"`
}

// ExtractionFailure is the explicit failure record for one chunk. The
// consolidator records a scene-range gap and proceeds; a failed chunk never
// blocks the whole document.
type ExtractionFailure struct {
	ChunkIndex int    `json:"chunk_index"`
	Reason     string `json:"reason"`
}

// ChunkResult is the join-barrier unit: every dispatched chunk resolves to
// exactly one of Partial or Failure before consolidation starts.
type ChunkResult struct {
	ChunkIndex int                `json:"chunk_index"`
	Partial    *PartialExtraction `json:"partial,omitempty"`
	Failure    *ExtractionFailure `json:"failure,omitempty"`
}
