// internal/screenplay/normalize.go
package screenplay

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// Finish scores and shapes a consolidation into the final document: title
// selection, character bucketing, prop sufficiency, genre and protagonist
// classification, and count computation. Counts are always recomputed from
// the final arrays.
func Finish(c *Consolidation, rawText string, titleCandidates []string, tuning config.Tuning) *models.BreakdownDocument {
	doc := &models.BreakdownDocument{
		Scenes:   c.Scenes,
		Props:    c.Props,
		Threads:  c.Threads,
		Warnings: append([]models.Warning{}, c.Warnings...),
	}

	qc := c.QC

	title, ok := selectTitle(titleCandidates, rawText, tuning.Normalizer)
	doc.Title = title
	if !ok {
		doc.Warnings = append(doc.Warnings, models.Warning{
			Code:    models.WarnTitleMissing,
			Message: "no usable title found; left empty rather than fabricated",
		})
	}

	doc.Characters = bucketCharacters(c.Characters, tuning.Normalizer)
	doc.Locations = groupLocations(c.Locations)

	for _, id := range c.Characters {
		if id.DialogueLineCount == 0 {
			qc.Warnings = append(qc.Warnings, models.Warning{
				Code:    models.WarnCharacterNoLines,
				Message: fmt.Sprintf("%s appears without any dialogue", id.CanonicalName),
				Scene:   id.FirstSeenScene,
			})
		}
	}
	qc.Warnings = append(qc.Warnings, ambiguousAliasWarnings(c.Characters)...)

	minProps := tuning.Normalizer.MinPropsShort
	if len(doc.Scenes) >= tuning.Normalizer.FeatureSceneCount {
		minProps = tuning.Normalizer.MinPropsFeature
	}
	if len(doc.Props) < minProps {
		doc.Warnings = append(doc.Warnings, models.Warning{
			Code:    models.WarnPropsTooFew,
			Message: fmt.Sprintf("%d props extracted, expected at least %d for %d scenes", len(doc.Props), minProps, len(doc.Scenes)),
		})
	}

	doc.Genre = ClassifyGenre(rawText, tuning.Genre)
	doc.Protagonist = ClassifyProtagonist(c.Characters, len(c.Scenes), tuning.Protagonist)

	doc.Counts = computeCounts(doc)
	doc.QC = &qc
	return doc
}

func computeCounts(doc *models.BreakdownDocument) models.BreakdownCounts {
	dialogue := 0
	for _, s := range doc.Scenes {
		dialogue += len(s.Dialogue)
	}
	return models.BreakdownCounts{
		Scenes:              len(doc.Scenes),
		CastCharactersTotal: len(doc.Characters.Cast),
		FeaturedExtrasTotal: len(doc.Characters.FeaturedExtrasWithLine),
		VoicesTotal:         len(doc.Characters.VoicesAndFunctional),
		Locations:           len(doc.Locations.Base),
		Props:               len(doc.Props),
		Threads:             len(doc.Threads),
		DialogueLines:       dialogue,
	}
}

// selectTitle tries the explicit candidates in order, then scans the opening
// lines of the raw text for an all-caps title-shaped line. Returns ok=false
// when nothing qualifies; the title is then empty, never fabricated.
func selectTitle(candidates []string, rawText string, tuning config.NormalizerTuning) (string, bool) {
	for _, c := range candidates {
		if title, ok := shapedTitle(c, tuning); ok {
			return title, true
		}
	}

	lines := nonEmptyLines(rawText)
	if len(lines) > tuning.TitleScanLines {
		lines = lines[:tuning.TitleScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !isAllCapsLine(line) || looseHeadingPattern.MatchString(line) {
			continue
		}
		if title, ok := shapedTitle(line, tuning); ok {
			return title, true
		}
	}
	return "", false
}

// shapedTitle validates title-shape rules: bounded word and rune counts, no
// terminal sentence punctuation beyond a short phrase.
func shapedTitle(s string, tuning config.NormalizerTuning) (string, bool) {
	title := collapseSpaces(s)
	if title == "" {
		return "", false
	}
	if len([]rune(title)) > tuning.TitleMaxChars || countWords(title) > tuning.TitleMaxWords {
		return "", false
	}

	last := []rune(title)[len([]rune(title))-1]
	if strings.ContainsRune(".!?;:", last) {
		if countWords(title) > 3 {
			return "", false
		}
		title = strings.TrimRight(title, ".!?;: ")
		if title == "" {
			return "", false
		}
	}
	return title, true
}

// bucketCharacters splits resolved identities into the three role groups of
// the output contract. Unrecognized names default to cast; the role-label
// heuristic is English-specific by design.
func bucketCharacters(characters []models.CharacterIdentity, tuning config.NormalizerTuning) models.CharacterBuckets {
	buckets := models.CharacterBuckets{
		Cast:                   []models.CharacterIdentity{},
		FeaturedExtrasWithLine: []models.CharacterIdentity{},
		VoicesAndFunctional:    []models.CharacterIdentity{},
	}

	for _, id := range characters {
		key := upperKey(id.CanonicalName)
		switch {
		case matchesVoicePattern(key, tuning.VoicePatterns):
			id.Role = models.RoleVoiceFunction
			buckets.VoicesAndFunctional = append(buckets.VoicesAndFunctional, id)
		case isRoleLabel(key, tuning.RoleLabelWords):
			id.Role = models.RoleFeaturedExtra
			buckets.FeaturedExtrasWithLine = append(buckets.FeaturedExtrasWithLine, id)
		default:
			id.Role = models.RoleCast
			buckets.Cast = append(buckets.Cast, id)
		}
	}
	return buckets
}

func matchesVoicePattern(key string, patterns []string) bool {
	fields := strings.Fields(key)
	for _, p := range patterns {
		if strings.ContainsAny(p, " .") {
			if strings.Contains(key, p) {
				return true
			}
			continue
		}
		for _, f := range fields {
			if f == p {
				return true
			}
		}
	}
	return false
}

// isRoleLabel: an all-caps generic job-title pattern without a comma-separated
// proper name ("GUARD", "OFFICER", "GUARD 2").
func isRoleLabel(key string, roleWords []string) bool {
	if strings.Contains(key, ",") {
		return false
	}
	for _, w := range roleWords {
		if key == w {
			return true
		}
	}

	matched := false
	for _, field := range strings.Fields(key) {
		if isDigits(field) || field == "#" {
			continue
		}
		found := false
		for _, w := range roleWords {
			if field == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
		matched = true
	}
	return matched
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '#' {
			return false
		}
	}
	return true
}

func groupLocations(locations []models.LocationIdentity) models.LocationGroups {
	groups := models.LocationGroups{
		Base:     []models.LocationIdentity{},
		Variants: []string{},
	}
	for _, l := range locations {
		groups.Base = append(groups.Base, l)
		groups.Variants = append(groups.Variants, l.Variants...)
	}
	return groups
}

func ambiguousAliasWarnings(characters []models.CharacterIdentity) []models.Warning {
	owners := make(map[string][]string)
	for _, id := range characters {
		for _, alias := range id.Aliases {
			key := upperKey(alias)
			owners[key] = append(owners[key], id.CanonicalName)
		}
	}

	aliases := make([]string, 0, len(owners))
	for alias := range owners {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	var warnings []models.Warning
	for _, alias := range aliases {
		if names := owners[alias]; len(names) > 1 {
			warnings = append(warnings, models.Warning{
				Code:    models.WarnAmbiguousAlias,
				Message: fmt.Sprintf("alias %q claimed by %s", alias, strings.Join(names, " and ")),
			})
		}
	}
	return warnings
}
