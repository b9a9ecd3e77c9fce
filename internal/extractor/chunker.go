// internal/extractor/chunker.go
package extractor

import (
	"regexp"
	"strings"
)

// Chunk is one contiguous slice of the input text. Start and End are rune
// offsets into the original document; chunks never overlap and concatenate
// back to the full text.
type Chunk struct {
	Index int
	Text  string
	Start int
	End   int
}

// Boundary hint only: the segmenter owns real slugline parsing. A cheap
// prefix match is enough to avoid cutting a scene in half.
var chunkHeadingHint = regexp.MustCompile(`^\s*(INT|EXT|EST|I/E)[\s./]`)

// Split carves the document into chunks of roughly sizeRunes, preferring to
// break right before a scene heading. A break point is only taken once a
// chunk is at least half full, so a heading-dense script still produces
// chunks near the target size.
func Split(text string, sizeRunes int) []Chunk {
	if sizeRunes <= 0 || len([]rune(text)) <= sizeRunes {
		return []Chunk{{Index: 0, Text: text, Start: 0, End: len([]rune(text))}}
	}

	lines := strings.SplitAfter(text, "\n")

	var chunks []Chunk
	var buf []string
	bufRunes := 0
	start := 0
	breakAt := -1    // index into buf where the last heading started
	breakRunes := 0  // rune count of buf[:breakAt]

	flush := func(upto int, runes int) {
		if upto == 0 {
			return
		}
		chunkText := strings.Join(buf[:upto], "")
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  chunkText,
			Start: start,
			End:   start + runes,
		})
		start += runes
		buf = append([]string{}, buf[upto:]...)
		bufRunes -= runes
		breakAt = -1
	}

	for _, line := range lines {
		lineRunes := len([]rune(line))

		if bufRunes >= sizeRunes/2 && chunkHeadingHint.MatchString(line) {
			breakAt = len(buf)
			breakRunes = bufRunes
		}
		buf = append(buf, line)
		bufRunes += lineRunes

		if bufRunes >= sizeRunes {
			if breakAt > 0 {
				flush(breakAt, breakRunes)
			} else {
				flush(len(buf), bufRunes)
			}
		}
	}
	flush(len(buf), bufRunes)
	return chunks
}
