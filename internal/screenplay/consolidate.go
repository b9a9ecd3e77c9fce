// internal/screenplay/consolidate.go
package screenplay

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// Consolidation is the deterministic merge of per-chunk partials: one global
// scene list with contiguous numbering, deduplicated entities, inferred
// threads, and the QC record.
type Consolidation struct {
	Scenes     []models.RawScene
	Characters []models.CharacterIdentity
	Locations  []models.LocationIdentity
	Props      []models.Prop
	Threads    []models.NarrativeThread
	QC         models.QCReport
	Warnings   []models.Warning
}

// Consolidate merges chunk results into one global breakdown. Chunks may
// arrive in any order; they are reordered by index before scene renumbering.
// A failed chunk records a gap and never blocks the rest of the document.
func Consolidate(results []models.ChunkResult, tuning config.Tuning) *Consolidation {
	ordered := make([]models.ChunkResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ChunkIndex < ordered[j].ChunkIndex
	})

	out := &Consolidation{}
	characters := NewCharacterAccumulator(tuning)
	locations := NewLocationAccumulator()
	props := NewPropAccumulator()

	for _, r := range ordered {
		if r.Failure != nil {
			out.QC.Blockers = append(out.QC.Blockers, models.QCBlocker{
				Code:    models.BlockChunkFailed,
				Message: fmt.Sprintf("chunk %d extraction failed: %s", r.ChunkIndex, r.Failure.Reason),
				Chunk:   r.ChunkIndex,
			})
			out.Warnings = append(out.Warnings, models.Warning{
				Code:    models.WarnChunkGap,
				Message: fmt.Sprintf("scenes of chunk %d are missing from the document", r.ChunkIndex),
			})
			continue
		}

		partial := r.Partial
		if partial == nil || len(partial.Scenes) == 0 {
			out.QC.Blockers = append(out.QC.Blockers, models.QCBlocker{
				Code:    models.BlockEmptyChunk,
				Message: fmt.Sprintf("chunk %d returned zero scenes", r.ChunkIndex),
				Chunk:   r.ChunkIndex,
			})
			continue
		}

		// Renumber chunk-local scenes to be globally contiguous and remap
		// every scene reference the partial's entities carry.
		renumber := make(map[int]int, len(partial.Scenes))
		for _, scene := range partial.Scenes {
			global := len(out.Scenes) + 1
			renumber[scene.SceneNumber] = global
			scene.SceneNumber = global
			if strings.TrimSpace(scene.SluglineRaw) == "" {
				out.QC.Blockers = append(out.QC.Blockers, models.QCBlocker{
					Code:    models.BlockSceneWithoutSlugline,
					Message: fmt.Sprintf("scene %d has no slugline", global),
					Chunk:   r.ChunkIndex,
					Scene:   global,
				})
			}
			out.Scenes = append(out.Scenes, scene)
		}

		// Chunk-level warnings survive the merge with their scene references
		// remapped to global numbers.
		for _, w := range partial.Warnings {
			if global, ok := renumber[w.Scene]; ok {
				w.Scene = global
			}
			out.Warnings = append(out.Warnings, w)
		}

		for _, c := range partial.Characters {
			if strings.TrimSpace(c.CanonicalName) == "" {
				out.QC.Blockers = append(out.QC.Blockers, models.QCBlocker{
					Code:    models.BlockNamelessCharacter,
					Message: fmt.Sprintf("chunk %d carries a character without a resolvable name", r.ChunkIndex),
					Chunk:   r.ChunkIndex,
				})
				continue
			}
			characters.Absorb(remapCharacter(c, renumber))
		}
		for _, l := range partial.Locations {
			locations.AbsorbIdentity(l)
		}
		props.AddAll(partial.Props)
	}

	out.Characters = characters.Resolve()
	out.Locations = locations.Resolve()
	out.Props = props.Resolve()
	out.Threads = inferThreads(out.Scenes, out.Characters, out.Props, tuning)
	out.QC.CompletenessScore = completenessScore(len(out.QC.Blockers))
	return out
}

func remapCharacter(c models.CharacterIdentity, renumber map[int]int) models.CharacterIdentity {
	scenes := make([]int, 0, len(c.ScenesPresent))
	for _, s := range c.ScenesPresent {
		if global, ok := renumber[s]; ok {
			scenes = append(scenes, global)
		}
	}
	sort.Ints(scenes)
	c.ScenesPresent = scenes
	if global, ok := renumber[c.FirstSeenScene]; ok {
		c.FirstSeenScene = global
	} else if len(scenes) > 0 {
		c.FirstSeenScene = scenes[0]
	}
	return c
}

func completenessScore(blockers int) float64 {
	score := 1.0 - 0.1*float64(blockers)
	if score < 0 {
		score = 0
	}
	return score
}

// inferThreads derives narrative threads from repeated evidence across the
// merged scene set. A thread cited by fewer than the minimum number of
// distinct scenes is noise and is never promoted.
func inferThreads(scenes []models.RawScene, characters []models.CharacterIdentity, props []models.Prop, tuning config.Tuning) []models.NarrativeThread {
	var threads []models.NarrativeThread

	emit := func(kind models.ThreadType, key, question string, evidence []int, milestones []string) {
		if len(evidence) < tuning.Threads.MinEvidenceScenes {
			return
		}
		threads = append(threads, models.NarrativeThread{
			ID:             uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(kind)+":"+key)).String(),
			Type:           kind,
			Question:       question,
			Milestones:     milestones,
			EvidenceScenes: evidence,
		})
	}

	// Relationship threads: character pairs sharing enough scenes.
	for i := 0; i < len(characters); i++ {
		for j := i + 1; j < len(characters); j++ {
			a, b := &characters[i], &characters[j]
			shared := intersectScenes(a.ScenesPresent, b.ScenesPresent)
			if len(shared) < tuning.Threads.MinSharedScenes {
				continue
			}
			emit(models.ThreadRelationship,
				a.CanonicalName+"|"+b.CanonicalName,
				fmt.Sprintf("How does the relationship between %s and %s evolve?", a.CanonicalName, b.CanonicalName),
				shared,
				sceneMilestones(scenes, shared))
		}
	}

	// Location arcs: places the story keeps returning to.
	byLocation := make(map[string][]int)
	var locationOrder []string
	for _, s := range scenes {
		base := strings.ToUpper(collapseSpaces(s.LocationRaw))
		if loc, _, ok := splitLocationTime(base); ok && loc != "" {
			base = loc
		}
		if base == "" {
			continue
		}
		if _, seen := byLocation[base]; !seen {
			locationOrder = append(locationOrder, base)
		}
		byLocation[base] = append(byLocation[base], s.SceneNumber)
	}
	for _, name := range locationOrder {
		evidence := byLocation[name]
		if len(evidence) < tuning.Threads.MinSharedScenes {
			continue
		}
		emit(models.ThreadLocationArc, name,
			fmt.Sprintf("What keeps drawing the story back to %s?", name),
			evidence,
			sceneMilestones(scenes, evidence))
	}

	// Object arcs: props recurring across distinct scenes.
	for _, p := range props {
		evidence := scenesMentioning(scenes, p.Name)
		if len(evidence) < tuning.Threads.MinSharedScenes {
			continue
		}
		emit(models.ThreadObjectArc, p.Name,
			fmt.Sprintf("What role does the %s play across the story?", p.Name),
			evidence,
			sceneMilestones(scenes, evidence))
	}

	return threads
}

func intersectScenes(a, b []int) []int {
	set := make(map[int]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	var out []int
	for _, s := range b {
		if set[s] {
			out = append(out, s)
		}
	}
	sort.Ints(out)
	return out
}

// sceneMilestones names the first and last evidence scenes by slugline.
func sceneMilestones(scenes []models.RawScene, evidence []int) []string {
	if len(evidence) == 0 {
		return nil
	}
	slugline := func(number int) string {
		for _, s := range scenes {
			if s.SceneNumber == number {
				return s.SluglineRaw
			}
		}
		return fmt.Sprintf("scene %d", number)
	}
	first := evidence[0]
	last := evidence[len(evidence)-1]
	milestones := []string{fmt.Sprintf("first: %s", slugline(first))}
	if last != first {
		milestones = append(milestones, fmt.Sprintf("last: %s", slugline(last)))
	}
	return milestones
}

func scenesMentioning(scenes []models.RawScene, word string) []int {
	needle := " " + strings.ToLower(word) + " "
	var out []int
	for _, s := range scenes {
		text := normalizedHaystack(strings.Join(s.Lines, " "))
		if strings.Contains(text, needle) {
			out = append(out, s.SceneNumber)
		}
	}
	return out
}
