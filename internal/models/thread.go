// internal/models/thread.go
package models

// ThreadType labels the narrative function of an inferred thread.
type ThreadType string

const (
	ThreadRelationship ThreadType = "relationship"
	ThreadLocationArc  ThreadType = "location_arc"
	ThreadObjectArc    ThreadType = "object_arc"
)

// NarrativeThread is a cross-scene storyline inferred from repeated evidence.
// Invariant: EvidenceScenes has length >= 2, otherwise the thread must not be
// emitted at all.
type NarrativeThread struct {
	ID             string     `json:"id"`
	Type           ThreadType `json:"type"`
	Question       string     `json:"question"`
	Milestones     []string   `json:"milestones"`
	EvidenceScenes []int      `json:"evidence_scenes"`
}
