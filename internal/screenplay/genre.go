// internal/screenplay/genre.go
package screenplay

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// ClassifyGenre scores the full extracted text against the keyword tiers and
// applies the ordered override rules.
func ClassifyGenre(text string, tuning config.GenreTuning) *models.GenreResult {
	return ClassifyGenreScores(ScoreGenres(text, tuning), tuning)
}

// ScoreGenres computes per-genre keyword scores over the text. Low-tier
// keywords are capped per keyword so common words cannot run away with the
// score.
func ScoreGenres(text string, tuning config.GenreTuning) map[string]int {
	haystack := normalizedHaystack(text)

	scores := make(map[string]int, len(tuning.Keywords))
	for genre, tiers := range tuning.Keywords {
		score := 0
		for _, kw := range tiers.High {
			score += countKeyword(haystack, kw) * tuning.HighWeight
		}
		for _, kw := range tiers.Medium {
			score += countKeyword(haystack, kw) * tuning.MediumWeight
		}
		for _, kw := range tiers.Low {
			points := countKeyword(haystack, kw) * tuning.LowWeight
			if points > tuning.LowTierCap {
				points = tuning.LowTierCap
			}
			score += points
		}
		scores[genre] = score
	}
	return scores
}

// ClassifyGenreScores applies selection and the override rules to precomputed
// scores. The rules run in a fixed order; each may reassign the genre once and
// later rules see the updated value.
func ClassifyGenreScores(scores map[string]int, tuning config.GenreTuning) *models.GenreResult {
	winner, winnerScore := topGenre(scores)
	if winnerScore < tuning.MinScore {
		winner = tuning.DefaultGenre
	}

	result := &models.GenreResult{
		RawWinner: winner,
		Scores:    scores,
	}

	current := winner
	apply := func(rule, to, justification string) {
		result.Overrides = append(result.Overrides, models.GenreOverride{
			Rule:          rule,
			From:          current,
			To:            to,
			Justification: justification,
		})
		current = to
	}

	comedy := scores["comedy"]
	drama := scores["drama"]
	action := scores["action"]
	thriller := scores["thriller"]
	romance := scores["romance"]
	scifi := scores["scifi"]

	// Rule 1: comedy masking a thriller.
	if current == "comedy" &&
		thriller >= tuning.ThrillerOverComedyAbs &&
		float64(thriller) >= float64(comedy)*tuning.ThrillerOverComedyRatio {
		apply("thriller_over_comedy", "thriller",
			fmt.Sprintf("thriller %d within %.0f%% of comedy %d and above the absolute floor %d",
				thriller, tuning.ThrillerOverComedyRatio*100, comedy, tuning.ThrillerOverComedyAbs))
	}

	// Rule 2: action with a non-trivial, non-dominant drama undercurrent.
	if current == "action" &&
		float64(drama) >= float64(action)*tuning.DramaUnderActionRatio &&
		drama <= action {
		apply("drama_under_action", "drama",
			fmt.Sprintf("drama %d within %.0f%% of action %d", drama, tuning.DramaUnderActionRatio*100, action))
	}

	// Rule 3: comedy/drama tie resolves to the more serious genre.
	if current == "comedy" || current == "drama" {
		maxCD := comedy
		if drama > maxCD {
			maxCD = drama
		}
		diff := comedy - drama
		if diff < 0 {
			diff = -diff
		}
		if maxCD > 0 && float64(diff) <= float64(maxCD)*tuning.ComedyDramaTolerance && current != "drama" {
			apply("comedy_drama_tie", "drama",
				fmt.Sprintf("comedy %d and drama %d within %.0f%% tolerance", comedy, drama, tuning.ComedyDramaTolerance*100))
		}
	}

	// Rule 4: romance disproportionately high relative to comedy.
	if current == "comedy" && comedy > 0 &&
		float64(romance) >= float64(comedy)*tuning.RomanceOverComedyRatio {
		apply("romance_over_comedy", "romance",
			fmt.Sprintf("romance %d within %.0f%% of comedy %d", romance, tuning.RomanceOverComedyRatio*100, comedy))
	}

	// Rule 5: sci-fi crossing the absolute and relative bar.
	if current != "scifi" &&
		scifi >= tuning.SciFiAbsBar &&
		float64(scifi) >= float64(scores[current])*tuning.SciFiRatio {
		apply("scifi_bar", "scifi",
			fmt.Sprintf("scifi %d crosses the absolute bar %d", scifi, tuning.SciFiAbsBar))
	}

	// Rule 6: action both high and the outright maximum.
	if current != "action" && action >= tuning.ActionHighBar && isOutrightMax(scores, "action") {
		apply("action_dominant", "action",
			fmt.Sprintf("action %d is the outright maximum above %d", action, tuning.ActionHighBar))
	}

	result.Genre = current
	result.Confidence = genreConfidence(scores, current, winnerScore, tuning, len(result.Overrides))
	return result
}

func topGenre(scores map[string]int) (string, int) {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	best, bestScore := "", -1
	for _, name := range names {
		if scores[name] > bestScore {
			best, bestScore = name, scores[name]
		}
	}
	return best, bestScore
}

func isOutrightMax(scores map[string]int, genre string) bool {
	for name, score := range scores {
		if name != genre && score >= scores[genre] {
			return false
		}
	}
	return true
}

// genreConfidence: defined neutral default when the score never cleared the
// minimum, otherwise margin over the runner-up, lowered a step per override.
func genreConfidence(scores map[string]int, genre string, winnerScore int, tuning config.GenreTuning, overrides int) float64 {
	if winnerScore < tuning.MinScore {
		return 0.3
	}

	second := 0
	for name, score := range scores {
		if name != genre && score > second {
			second = score
		}
	}
	top := scores[genre]
	if top <= 0 {
		return 0.3
	}

	conf := 0.5 + 0.45*float64(top-second)/float64(top)
	conf -= 0.05 * float64(overrides)
	if conf > 0.95 {
		conf = 0.95
	}
	if conf < 0.3 {
		conf = 0.3
	}
	return conf
}

// normalizedHaystack lowercases the text, maps punctuation to spaces, and pads
// it so whole-word matching reduces to substring search.
func normalizedHaystack(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return " " + collapseSpaces(mapped) + " "
}

func countKeyword(haystack, keyword string) int {
	return strings.Count(haystack, " "+strings.ToLower(keyword)+" ")
}
