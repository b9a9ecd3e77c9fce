// internal/screenplay/segmenter.go
package screenplay

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	apperrors "github.com/labordacousins/scriptbreakdown/internal/errors"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// looseHeadingPattern accepts a line that is not a well-formed slugline but
// still carries an uppercase INT/EXT token somewhere. Matching is done on the
// original line so lowercase prose never triggers it.
var looseHeadingPattern = regexp.MustCompile(`(^|[^A-ZÁÉÍÓÚ])(INT|EXT)($|[^A-ZÁÉÍÓÚ])`)

// SegmentResult is the output of scene segmentation. Preamble holds the
// discarded lines found before the first slugline, kept around for the
// normalizer's title scan.
type SegmentResult struct {
	Scenes   []models.RawScene
	Preamble []string
	Warnings []models.Warning
}

// Segment splits raw screenplay text into an ordered scene sequence on
// slugline boundaries. Input with no recognizable scene structure, or input
// shorter than the minimal viable length, is a structural failure.
func Segment(text string, tuning config.Tuning) (*SegmentResult, error) {
	if len([]rune(strings.TrimSpace(text))) < tuning.Segmenter.MinViableLength {
		return nil, apperrors.NewStructuralFailure("script below minimal viable length", apperrors.ErrScriptTooShort)
	}

	result := &SegmentResult{}
	lines := strings.Split(text, "\n")

	var current *models.RawScene
	sceneNumber := 0

	flush := func() {
		if current != nil {
			result.Scenes = append(result.Scenes, *current)
			current = nil
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}

		if scene, ok := parseSlugline(line, tuning.Segmenter); ok {
			flush()
			sceneNumber++
			scene.SceneNumber = sceneNumber
			current = &scene
			continue
		}

		if current == nil {
			// Loose fallback only opens scenes; inside a scene an INT/EXT
			// mention in action text stays action text.
			if looseHeadingPattern.MatchString(line) {
				sceneNumber++
				current = &models.RawScene{
					SceneNumber:  sceneNumber,
					SluglineRaw:  line,
					IntExt:       looseIntExt(line),
					LocationRaw:  line,
					TimeOfDayRaw: "",
					TimeOfDay:    models.TimeUnknown,
				}
				result.Warnings = append(result.Warnings, models.Warning{
					Code:    models.WarnAmbiguousSlugline,
					Message: fmt.Sprintf("accepted loose scene heading: %q", line),
					Scene:   sceneNumber,
				})
				continue
			}
			result.Preamble = append(result.Preamble, line)
			continue
		}

		if looseHeadingPattern.MatchString(line) && isAllCapsLine(line) {
			// An all-caps INT/EXT line mid-document is a malformed heading,
			// not action.
			flush()
			sceneNumber++
			current = &models.RawScene{
				SceneNumber:  sceneNumber,
				SluglineRaw:  line,
				IntExt:       looseIntExt(line),
				LocationRaw:  line,
				TimeOfDayRaw: "",
				TimeOfDay:    models.TimeUnknown,
			}
			result.Warnings = append(result.Warnings, models.Warning{
				Code:    models.WarnAmbiguousSlugline,
				Message: fmt.Sprintf("accepted loose scene heading: %q", line),
				Scene:   sceneNumber,
			})
			continue
		}

		current.Lines = append(current.Lines, line)
	}
	flush()

	if len(result.Scenes) == 0 {
		return nil, apperrors.NewStructuralFailure("no slugline found in input", apperrors.ErrNoSceneStructure)
	}

	if len(result.Preamble) > 0 {
		result.Warnings = append(result.Warnings, models.Warning{
			Code:    models.WarnPreSluglineDiscard,
			Message: fmt.Sprintf("%d line(s) before first slugline not attached to any scene", len(result.Preamble)),
		})
	}

	return result, nil
}

// parseSlugline matches the strict slugline pattern: a heading token at the
// start of the line, then location, then optionally " - TIME". The verbatim
// line is always preserved in SluglineRaw.
func parseSlugline(line string, tuning config.SegmenterTuning) (models.RawScene, bool) {
	upper := strings.ToUpper(line)

	intExt, rest, ok := matchHeadingToken(upper, tuning)
	if !ok {
		return models.RawScene{}, false
	}

	// The heading token must be uppercase in the original line, otherwise
	// prose like "Interior lights flicker" would open a scene.
	consumed := len(upper) - len(rest)
	if consumed > len(line) || line[:consumed] != upper[:consumed] {
		return models.RawScene{}, false
	}

	// The token must be followed by the location, keep the original casing
	// for it.
	location := strings.TrimLeft(line[consumed:], ". :")
	timeRaw := ""
	tod := models.TimeUnknown

	if loc, tail, ok := splitLocationTime(location); ok {
		location = loc
		timeRaw = tail
		tod = normalizeTimeOfDay(timeRaw, tuning)
	}

	location = collapseSpaces(location)
	if location == "" {
		return models.RawScene{}, false
	}

	return models.RawScene{
		SluglineRaw:  line,
		IntExt:       intExt,
		LocationRaw:  location,
		TimeOfDayRaw: timeRaw,
		TimeOfDay:    tod,
	}, true
}

// matchHeadingToken finds the longest configured INT/EXT token prefix.
// Returns the classification and the remainder of the line after the token.
func matchHeadingToken(upper string, tuning config.SegmenterTuning) (models.IntExt, string, bool) {
	best := ""
	bestType := models.IntExtUnknown

	try := func(token string, kind models.IntExt) {
		if !strings.HasPrefix(upper, token) {
			return
		}
		rest := upper[len(token):]
		if rest != "" && rest[0] != '.' && rest[0] != ' ' && rest[0] != '/' {
			return
		}
		if len(token) > len(best) {
			best = token
			bestType = kind
		}
	}

	for _, token := range tuning.IntTokens {
		kind := models.IntExtInterior
		if strings.Contains(token, "/") {
			kind = models.IntExtBoth
		}
		try(token, kind)
	}
	for _, token := range tuning.ExtTokens {
		try(token, models.IntExtExterior)
	}

	if best == "" {
		return models.IntExtUnknown, "", false
	}

	rest := upper[len(best):]
	// "INT./EXT." style: the interior token followed by a slash and an
	// exterior token.
	if bestType == models.IntExtInterior && strings.HasPrefix(rest, "/") {
		for _, ext := range tuning.ExtTokens {
			if strings.HasPrefix(rest[1:], ext) {
				bestType = models.IntExtBoth
				rest = rest[1+len(ext):]
				break
			}
		}
	}

	return bestType, rest, true
}

func looseIntExt(line string) models.IntExt {
	m := looseHeadingPattern.FindStringSubmatch(line)
	if m == nil {
		return models.IntExtUnknown
	}
	hasInt := strings.Contains(line, "INT")
	hasExt := strings.Contains(line, "EXT")
	switch {
	case hasInt && hasExt:
		return models.IntExtBoth
	case hasInt:
		return models.IntExtInterior
	case hasExt:
		return models.IntExtExterior
	}
	return models.IntExtUnknown
}

// splitLocationTime splits "LOCATION - TIME" on the last separator, accepting
// hyphen, double hyphen, en dash, or a comma.
func splitLocationTime(s string) (string, string, bool) {
	for _, sep := range []string{" - ", " -- ", " – ", ", "} {
		if idx := strings.LastIndex(s, sep); idx >= 0 {
			return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len(sep):]), true
		}
	}
	return s, "", false
}

func normalizeTimeOfDay(raw string, tuning config.SegmenterTuning) models.TimeOfDay {
	key := strings.ToUpper(collapseSpaces(strings.Trim(raw, ".,;:")))
	if key == "" {
		return models.TimeUnknown
	}
	if mapped, ok := tuning.TimeOfDay[key]; ok {
		return models.TimeOfDay(mapped)
	}
	// "DAY ONE", "NIGHT - CONTINUOUS" style compounds: match on the first
	// word.
	first := strings.Fields(key)[0]
	if mapped, ok := tuning.TimeOfDay[first]; ok {
		return models.TimeOfDay(mapped)
	}
	return models.TimeUnknown
}
