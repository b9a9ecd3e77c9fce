// internal/models/qc.go
package models

// Blocker codes recorded in QCReport.Blockers. A blocker lowers the
// completeness score but never aborts the run.
const (
	BlockSceneWithoutSlugline = "SCENE_WITHOUT_SLUGLINE"
	BlockEmptyChunk           = "EMPTY_CHUNK"
	BlockNamelessCharacter    = "NAMELESS_CHARACTER"
	BlockChunkFailed          = "CHUNK_EXTRACTION_FAILED"
)

// QCBlocker is a hard gap found while consolidating chunk partials.
type QCBlocker struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Chunk   int    `json:"chunk,omitempty"`
	Scene   int    `json:"scene,omitempty"`
}

// QCReport distinguishes hard gaps (blockers) from soft ambiguities
// (warnings) and carries an overall completeness score in [0,1].
type QCReport struct {
	CompletenessScore float64     `json:"completeness_score"`
	Blockers          []QCBlocker `json:"blockers"`
	Warnings          []Warning   `json:"warnings"`
}
