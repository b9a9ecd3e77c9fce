// internal/screenplay/protagonist.go
package screenplay

import (
	"sort"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// ClassifyProtagonist ranks the cast by the weighted-signal formula and
// detects ensemble stories. totalScenes is the length of the final scene
// sequence; structural signals come from presence in the first scene, the
// last scene, and the 25/50/75% turning-point scenes.
func ClassifyProtagonist(characters []models.CharacterIdentity, totalScenes int, tuning config.ProtagonistTuning) *models.ProtagonistResult {
	if len(characters) == 0 || totalScenes == 0 {
		return &models.ProtagonistResult{Confidence: 0}
	}

	totalDialogue := 0
	maxWords := 0
	for _, c := range characters {
		totalDialogue += c.DialogueLineCount
		if c.WordCount > maxWords {
			maxWords = c.WordCount
		}
	}

	turning := turningPointScenes(totalScenes)

	candidates := make([]models.ProtagonistCandidate, 0, len(characters))
	for _, c := range characters {
		cand := models.ProtagonistCandidate{
			Name:          c.CanonicalName,
			FirstScene:    c.InScene(1),
			LastScene:     c.InScene(totalScenes),
			TurningPoints: inAny(&c, turning),
		}

		score := 0.0
		if totalDialogue > 0 {
			score += tuning.DialogueShareWeight * float64(c.DialogueLineCount) / float64(totalDialogue)
		}
		if maxWords > 0 {
			score += tuning.WordCountWeight * float64(c.WordCount) / float64(maxWords)
		}
		score += tuning.ScenePresenceWeight * float64(len(c.ScenesPresent)) / float64(totalScenes)
		if cand.FirstScene {
			score += tuning.FirstSceneWeight
		}
		if cand.LastScene {
			score += tuning.LastSceneWeight
		}
		if cand.TurningPoints {
			score += tuning.TurningPointWeight
		}
		if cand.FirstScene && cand.LastScene && cand.TurningPoints {
			score += tuning.AllSignalsBonus
		}

		cand.Score = score
		candidates = append(candidates, cand)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Name < candidates[j].Name
	})

	winner := candidates[0]
	confidence := tuning.BaseConfidence
	if len(candidates) > 1 {
		confidence += tuning.GapBoostFactor * (winner.Score - candidates[1].Score)
	}
	for _, present := range []bool{winner.FirstScene, winner.LastScene, winner.TurningPoints} {
		if present {
			confidence += tuning.SignalBoost
		}
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	// Ensemble: the top three scores sit within a tight band, so a single
	// winner would be false confidence.
	if len(candidates) >= 3 {
		spread := candidates[0].Score - candidates[2].Score
		if spread < tuning.EnsembleTolerance {
			if confidence > tuning.EnsembleMaxConf {
				confidence = tuning.EnsembleMaxConf
			}
			return &models.ProtagonistResult{
				Candidates: candidates[:3],
				IsEnsemble: true,
				Confidence: confidence,
			}
		}
	}

	return &models.ProtagonistResult{
		Candidates: candidates[:1],
		Confidence: confidence,
	}
}

// turningPointScenes returns the scene numbers at the 25, 50, and 75 percent
// positions of the sequence, deduplicated for very short documents.
func turningPointScenes(totalScenes int) []int {
	points := []int{totalScenes / 4, totalScenes / 2, 3 * totalScenes / 4}
	out := make([]int, 0, 3)
	for _, p := range points {
		if p < 1 {
			p = 1
		}
		if p > totalScenes {
			p = totalScenes
		}
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	return out
}

func inAny(c *models.CharacterIdentity, scenes []int) bool {
	for _, s := range scenes {
		if c.InScene(s) {
			return true
		}
	}
	return false
}
