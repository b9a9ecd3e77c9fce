// internal/models/scene.go
package models

// IntExt classifies a slugline as interior, exterior, both, or unknown.
type IntExt string

const (
	IntExtInterior IntExt = "INT"
	IntExtExterior IntExt = "EXT"
	IntExtBoth     IntExt = "INT_EXT"
	IntExtUnknown  IntExt = "UNKNOWN"
)

// TimeOfDay is the normalized time token of a slugline. The verbatim text is
// always preserved in RawScene.TimeOfDayRaw.
type TimeOfDay string

const (
	TimeDay        TimeOfDay = "DAY"
	TimeNight      TimeOfDay = "NIGHT"
	TimeMorning    TimeOfDay = "MORNING"
	TimeEvening    TimeOfDay = "EVENING"
	TimeDawn       TimeOfDay = "DAWN"
	TimeDusk       TimeOfDay = "DUSK"
	TimeContinuous TimeOfDay = "CONTINUOUS"
	TimeLater      TimeOfDay = "LATER"
	TimeUnknown    TimeOfDay = "UNKNOWN"
)

// RawScene is one segmented scene. It is immutable after segmentation; only
// the consolidation merge may renumber it.
type RawScene struct {
	SceneNumber  int            `json:"scene_number"`
	SluglineRaw  string         `json:"slugline_raw"`
	IntExt       IntExt         `json:"int_ext"`
	LocationRaw  string         `json:"location_raw"`
	TimeOfDayRaw string         `json:"time_of_day_raw"`
	TimeOfDay    TimeOfDay      `json:"time_of_day"`
	Lines        []string       `json:"lines"`
	Dialogue     []DialogueLine `json:"dialogue,omitempty"`
	ActionLines  []string       `json:"action_lines,omitempty"`
}

// DialogueLine is a classified dialogue utterance inside exactly one scene.
type DialogueLine struct {
	CharacterKey  string `json:"character_key"`
	CharacterRaw  string `json:"character_raw"`
	Parenthetical string `json:"parenthetical,omitempty"`
	Text          string `json:"text"`
}

// WordCount counts the whitespace-separated words of the utterance.
func (d DialogueLine) WordCount() int {
	n := 0
	inWord := false
	for _, r := range d.Text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}
