// internal/extractor/chunker_test.go
package extractor

import (
	"strings"
	"testing"
)

func buildScript(scenes int, actionLines int) string {
	var b strings.Builder
	for i := 0; i < scenes; i++ {
		b.WriteString("INT. WAREHOUSE - NIGHT\n\n")
		for j := 0; j < actionLines; j++ {
			b.WriteString("The forklift grinds past the stacked crates again.\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func TestSplitSmallTextSingleChunk(t *testing.T) {
	text := "INT. BAR - NIGHT\n\nA quiet room.\n"
	chunks := Split(text, 24000)

	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0].Text != text || chunks[0].Start != 0 || chunks[0].End != len([]rune(text)) {
		t.Errorf("chunk = %+v", chunks[0])
	}
}

func TestSplitReassemblesToOriginal(t *testing.T) {
	text := buildScript(40, 20)
	chunks := Split(text, 2000)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var b strings.Builder
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		b.WriteString(c.Text)
	}
	if b.String() != text {
		t.Error("chunks do not concatenate back to the original text")
	}
}

func TestSplitOffsetsContiguous(t *testing.T) {
	text := buildScript(40, 20)
	chunks := Split(text, 2000)

	pos := 0
	for _, c := range chunks {
		if c.Start != pos {
			t.Errorf("chunk %d starts at %d, want %d", c.Index, c.Start, pos)
		}
		if c.End-c.Start != len([]rune(c.Text)) {
			t.Errorf("chunk %d span %d != rune length %d", c.Index, c.End-c.Start, len([]rune(c.Text)))
		}
		pos = c.End
	}
	if pos != len([]rune(text)) {
		t.Errorf("final offset %d != document length %d", pos, len([]rune(text)))
	}
}

func TestSplitPrefersHeadingBoundaries(t *testing.T) {
	text := buildScript(40, 20)
	chunks := Split(text, 2000)

	// Every chunk after the first should open on a scene heading.
	for _, c := range chunks[1:] {
		first := strings.SplitN(c.Text, "\n", 2)[0]
		if !strings.HasPrefix(first, "INT.") {
			t.Errorf("chunk %d opens mid-scene: %q", c.Index, first)
		}
	}
}
