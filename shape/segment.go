package shape

import "golang.org/x/text/unicode/bidi"

// Segment is one directionally uniform piece of a source string.
type Segment struct {
	// Text is the segment's slice of the source string.
	Text string

	// Start and End delimit the segment's byte range in the source.
	Start, End int

	// Direction resolved by the bidirectional algorithm.
	Direction Direction

	// Level is the bidi embedding level (even = LTR, odd = RTL).
	Level int
}

// SegmentText splits text into directionally uniform runs using the
// Unicode bidirectional algorithm. base sets the paragraph embedding
// direction: DirectionLTR treats direction-neutral paragraphs as
// left-to-right, DirectionRTL as right-to-left. Vertical bases skip
// the bidirectional algorithm and yield a single segment.
//
// Segments are returned in logical order.
func SegmentText(text string, base Direction) []Segment {
	if text == "" {
		return nil
	}
	if base.IsVertical() {
		return []Segment{{
			Text:      text,
			Start:     0,
			End:       len(text),
			Direction: base,
		}}
	}

	runes := []rune(text)
	levels := bidiLevels(text, runes, base)
	return buildSegments(text, runes, levels)
}

// bidiLevels resolves a bidi embedding level per rune.
func bidiLevels(text string, runes []rune, base Direction) []int {
	levels := make([]int, len(runes))

	defaultDir := bidi.Neutral
	if base == DirectionRTL {
		defaultDir = bidi.RightToLeft
	}

	p := bidi.Paragraph{}
	_, _ = p.SetString(text, bidi.DefaultDirection(defaultDir))

	ordering, err := p.Order()
	if err != nil {
		return levels
	}

	// run.Pos() returns rune indices, start and end inclusive.
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		startRune, endRune := run.Pos()
		runLevel := 0
		if run.Direction() == bidi.RightToLeft {
			runLevel = 1
		}
		for j := startRune; j <= endRune && j < len(levels); j++ {
			levels[j] = runLevel
		}
	}

	return levels
}

// buildSegments groups consecutive runes of equal level into segments.
func buildSegments(text string, runes []rune, levels []int) []Segment {
	if len(runes) == 0 {
		return nil
	}

	byteOffsets := computeByteOffsets(text, runes)
	segments := make([]Segment, 0, 4)

	currentLevel := levels[0]
	segmentStart := 0

	for i := 1; i < len(runes); i++ {
		if levels[i] == currentLevel {
			continue
		}
		segments = append(segments, makeSegment(text, byteOffsets, segmentStart, i, currentLevel))
		segmentStart = i
		currentLevel = levels[i]
	}
	segments = append(segments, makeSegment(text, byteOffsets, segmentStart, len(runes), currentLevel))

	return segments
}

// computeByteOffsets maps rune index to byte offset; the final entry
// is len(text).
func computeByteOffsets(text string, runes []rune) []int {
	offsets := make([]int, len(runes)+1)
	offset := 0
	for i, r := range runes {
		offsets[i] = offset
		offset += len(string(r))
	}
	offsets[len(runes)] = len(text)
	return offsets
}

func makeSegment(text string, byteOffsets []int, startRune, endRune, level int) Segment {
	startByte := byteOffsets[startRune]
	endByte := byteOffsets[endRune]

	dir := DirectionLTR
	if level%2 == 1 {
		dir = DirectionRTL
	}

	return Segment{
		Text:      text[startByte:endByte],
		Start:     startByte,
		End:       endByte,
		Direction: dir,
		Level:     level,
	}
}
