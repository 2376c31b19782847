package extract

import (
	"regexp"
	"strings"
)

// The fill-blank grammar requires an explicit answer keyword, so questions
// whose authors omitted the answer line are invisible to it. blankScanner
// recovers them with a single stateful pass over the paragraph sequence,
// using the leading question number as the boundary heuristic: exam
// documents number every question, so a numbered paragraph reliably opens a
// new question even when no answer field follows. Non-numbered questions are
// traded away for precision.

var (
	questionStartRE = regexp.MustCompile(`^\d+[.、]`)
	blankMarkers    = []string{"（", "(", "）", ")", "___"}
)

// blankScanner is a two-state machine (idle / open) with one accumulator.
type blankScanner struct {
	existing []QuestionRecord
	open     bool
	lines    []string
	emitted  []QuestionRecord
}

func newBlankScanner(existing []QuestionRecord) *blankScanner {
	return &blankScanner{existing: existing}
}

// scanBlankParagraphs runs the scanner over a trimmed, non-empty paragraph
// sequence. existing holds the records already produced by the explicit
// fill-blank grammar; candidates covered by them are suppressed. The scan is
// a pure function of its inputs.
func scanBlankParagraphs(paragraphs []string, existing []QuestionRecord) []QuestionRecord {
	s := newBlankScanner(existing)
	for _, p := range paragraphs {
		s.feed(p)
	}
	return s.finish()
}

func (s *blankScanner) feed(paragraph string) {
	switch {
	case questionStartRE.MatchString(paragraph):
		// A new numbered question always closes the previous one.
		if s.open {
			s.flush()
		}
		s.lines = []string{paragraph}
		s.open = true
	case s.open && strings.Contains(paragraph, "答案"):
		// An answer line means the open question was an answered one; the
		// explicit grammar owns it.
		s.flush()
		s.lines = nil
		s.open = false
	case s.open:
		s.lines = append(s.lines, paragraph)
	default:
		// Idle: paragraph belongs to no candidate.
	}
}

func (s *blankScanner) finish() []QuestionRecord {
	if s.open && len(s.lines) > 0 {
		s.flush()
	}
	return s.emitted
}

// flush turns the accumulator into a no-answer fill-blank record, provided
// the content actually carries a blank marker and is not already covered by
// an explicit fill-blank match.
func (s *blankScanner) flush() {
	content := strings.TrimSpace(strings.Join(s.lines, "\n"))
	if content == "" || !hasBlankMarker(content) || s.covered(content) {
		return
	}
	s.emitted = append(s.emitted, QuestionRecord{
		Type:    TypeFillBlank,
		Content: content,
		Answer:  "",
	})
}

func hasBlankMarker(content string) bool {
	for _, marker := range blankMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

// covered reports whether an already-extracted record's content equals,
// contains, or is contained by the candidate content. This is the engine's
// only cross-pass deduplication.
func (s *blankScanner) covered(content string) bool {
	for _, rec := range s.existing {
		if rec.Content == content ||
			strings.Contains(rec.Content, content) ||
			strings.Contains(content, rec.Content) {
			return true
		}
	}
	return false
}
