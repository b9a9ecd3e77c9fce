// internal/models/location.go
package models

// LocationIdentity is a deduplicated location with the slugline variants that
// mapped onto it.
type LocationIdentity struct {
	Name       string   `json:"name"`
	Variants   []string `json:"variants"`
	IntExtType IntExt   `json:"int_ext_type"`
	SceneCount int      `json:"scene_count"`
}

// Prop is a physical object mentioned in action text.
type Prop struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	MentionCount int    `json:"mention_count"`
}
