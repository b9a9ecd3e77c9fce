// internal/screenplay/entities.go
package screenplay

import (
	"sort"
	"strings"
	"unicode"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// CharacterMention is one per-scene observation of a character name, either
// from a dialogue cue or from an all-caps introduction in action text.
type CharacterMention struct {
	Raw           string
	Scene         int
	DialogueLines int
	Words         int
}

// LocationCandidate is the scene's slugline location split into its base name
// and the full variant.
type LocationCandidate struct {
	Base    string
	Variant string
	IntExt  models.IntExt
}

// SceneEntities holds everything the extractor found in one classified scene.
type SceneEntities struct {
	Scene      int
	Characters []CharacterMention
	Location   LocationCandidate
	Props      []models.Prop
}

// ExtractScene collects character, location, and prop candidates from one
// scene. The scene must already be classified; every candidate is backed by
// text in the scene, nothing is inferred.
func ExtractScene(scene *models.RawScene, tuning config.Tuning) SceneEntities {
	entities := SceneEntities{
		Scene:    scene.SceneNumber,
		Location: locationCandidate(scene),
	}

	// Speakers first, with their per-scene dialogue stats.
	spoken := make(map[string]*CharacterMention)
	order := []string{}
	for _, d := range scene.Dialogue {
		m, ok := spoken[d.CharacterKey]
		if !ok {
			m = &CharacterMention{Raw: d.CharacterRaw, Scene: scene.SceneNumber}
			spoken[d.CharacterKey] = m
			order = append(order, d.CharacterKey)
		}
		m.DialogueLines++
		m.Words += d.WordCount()
	}
	for _, key := range order {
		entities.Characters = append(entities.Characters, *spoken[key])
	}

	// All-caps introductions in action text ("MARA (30s) moves...").
	for _, line := range scene.ActionLines {
		for _, name := range capsRuns(line) {
			_, key := NormalizeCharacterName(name, tuning)
			if key == "" || !ValidCharacterKey(key, tuning.Identity) {
				continue
			}
			if _, ok := spoken[key]; ok {
				continue
			}
			spoken[key] = &CharacterMention{Raw: name, Scene: scene.SceneNumber}
			entities.Characters = append(entities.Characters, CharacterMention{
				Raw:   name,
				Scene: scene.SceneNumber,
			})
		}
	}

	entities.Props = extractProps(scene, tuning.Props)
	return entities
}

func locationCandidate(scene *models.RawScene) LocationCandidate {
	raw := collapseSpaces(scene.LocationRaw)
	base := raw
	if loc, _, ok := splitLocationTime(raw); ok && loc != "" {
		base = loc
	}
	return LocationCandidate{
		Base:    strings.ToUpper(base),
		Variant: raw,
		IntExt:  scene.IntExt,
	}
}

// capsRuns finds maximal runs of one to three consecutive all-caps words in a
// mixed-case line. A line that is entirely uppercase yields nothing, it is a
// shout or a formatting artifact, not an introduction.
func capsRuns(line string) []string {
	if isAllCapsLine(line) {
		return nil
	}

	words := strings.Fields(line)
	var runs []string
	var current []string

	flush := func() {
		if n := len(current); n >= 1 && n <= 3 {
			runs = append(runs, strings.Join(current, " "))
		}
		current = nil
	}

	for _, w := range words {
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(trimmed)) >= 3 && isAllCapsLine(trimmed) && isUpperCueShaped(trimmed) {
			current = append(current, trimmed)
			// Punctuation after the word ends the run.
			if !strings.HasSuffix(w, trimmed) {
				flush()
			}
			continue
		}
		flush()
	}
	flush()
	return runs
}

// extractProps matches the categorized lexicon as whole lowercase words over
// action and dialogue text, counting mentions per prop.
func extractProps(scene *models.RawScene, tuning config.PropTuning) []models.Prop {
	counts := make(map[string]*models.Prop)

	scan := func(text string) {
		for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && r != '-'
		}) {
			for category, entries := range tuning.Categories {
				for _, entry := range entries {
					if word != entry {
						continue
					}
					if p, ok := counts[entry]; ok {
						p.MentionCount++
					} else {
						counts[entry] = &models.Prop{Name: entry, Category: category, MentionCount: 1}
					}
				}
			}
		}
	}

	for _, line := range scene.ActionLines {
		scan(line)
	}
	for _, d := range scene.Dialogue {
		scan(d.Text)
	}

	out := make([]models.Prop, 0, len(counts))
	for _, p := range counts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MentionCount != out[j].MentionCount {
			return out[i].MentionCount > out[j].MentionCount
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// BuildPartial classifies and extracts a chunk-local scene list into one
// PartialExtraction with resolved characters and merged locations and props.
func BuildPartial(chunkIndex int, scenes []models.RawScene, tuning config.Tuning) models.PartialExtraction {
	acc := NewCharacterAccumulator(tuning)
	locations := NewLocationAccumulator()
	props := NewPropAccumulator()

	for i := range scenes {
		scene := &scenes[i]
		if scene.Dialogue == nil && scene.ActionLines == nil {
			Classify(scene, tuning)
		}

		entities := ExtractScene(scene, tuning)
		for _, m := range entities.Characters {
			acc.Add(m.Raw, m.Scene, m.DialogueLines, m.Words)
		}
		locations.Add(entities.Location)
		props.AddAll(entities.Props)
	}

	return models.PartialExtraction{
		ChunkIndex: chunkIndex,
		Scenes:     scenes,
		Characters: acc.Resolve(),
		Locations:  locations.Resolve(),
		Props:      props.Resolve(),
	}
}

// LocationAccumulator dedups location candidates by base name.
type LocationAccumulator struct {
	byName map[string]*models.LocationIdentity
	order  []string
}

// NewLocationAccumulator creates an empty accumulator.
func NewLocationAccumulator() *LocationAccumulator {
	return &LocationAccumulator{byName: make(map[string]*models.LocationIdentity)}
}

// Add records one scene's location candidate.
func (a *LocationAccumulator) Add(c LocationCandidate) {
	if c.Base == "" {
		return
	}
	id, ok := a.byName[c.Base]
	if !ok {
		id = &models.LocationIdentity{Name: c.Base, IntExtType: c.IntExt}
		a.byName[c.Base] = id
		a.order = append(a.order, c.Base)
	}
	id.SceneCount++
	if c.IntExt != id.IntExtType && c.IntExt != models.IntExtUnknown && id.IntExtType != models.IntExtUnknown {
		id.IntExtType = models.IntExtBoth
	} else if id.IntExtType == models.IntExtUnknown {
		id.IntExtType = c.IntExt
	}
	if c.Variant != "" && c.Variant != id.Name && !containsString(id.Variants, c.Variant) {
		id.Variants = append(id.Variants, c.Variant)
	}
}

// AbsorbIdentity merges an already-built location (from a chunk partial).
func (a *LocationAccumulator) AbsorbIdentity(other models.LocationIdentity) {
	name := strings.ToUpper(collapseSpaces(other.Name))
	if name == "" {
		return
	}
	id, ok := a.byName[name]
	if !ok {
		id = &models.LocationIdentity{Name: name, IntExtType: other.IntExtType}
		a.byName[name] = id
		a.order = append(a.order, name)
	}
	id.SceneCount += other.SceneCount
	if other.IntExtType != id.IntExtType && other.IntExtType != models.IntExtUnknown && id.IntExtType != models.IntExtUnknown {
		id.IntExtType = models.IntExtBoth
	}
	for _, v := range other.Variants {
		if v != id.Name && !containsString(id.Variants, v) {
			id.Variants = append(id.Variants, v)
		}
	}
}

// Resolve returns locations in first-seen order with sorted variants.
func (a *LocationAccumulator) Resolve() []models.LocationIdentity {
	out := make([]models.LocationIdentity, 0, len(a.order))
	for _, name := range a.order {
		id := a.byName[name]
		sort.Strings(id.Variants)
		out = append(out, *id)
	}
	return out
}

// PropAccumulator sums prop mention counts by name.
type PropAccumulator struct {
	byName map[string]*models.Prop
}

// NewPropAccumulator creates an empty accumulator.
func NewPropAccumulator() *PropAccumulator {
	return &PropAccumulator{byName: make(map[string]*models.Prop)}
}

// AddAll folds a batch of per-scene prop counts into the accumulator.
func (a *PropAccumulator) AddAll(props []models.Prop) {
	for _, p := range props {
		if existing, ok := a.byName[p.Name]; ok {
			existing.MentionCount += p.MentionCount
		} else {
			cp := p
			a.byName[p.Name] = &cp
		}
	}
}

// Resolve returns props ordered by mention count, then name.
func (a *PropAccumulator) Resolve() []models.Prop {
	out := make([]models.Prop, 0, len(a.byName))
	for _, p := range a.byName {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MentionCount != out[j].MentionCount {
			return out[i].MentionCount > out[j].MentionCount
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
