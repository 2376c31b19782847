package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerRecoversUnansweredFillBlank(t *testing.T) {
	paragraphs := []string{
		"7.(___) is the largest planet.",
		"8.答案：discussion",
	}

	records := scanBlankParagraphs(paragraphs, nil)
	require.Len(t, records, 1)
	assert.Equal(t, TypeFillBlank, records[0].Type)
	assert.Equal(t, "7.(___) is the largest planet.", records[0].Content)
	assert.Equal(t, "", records[0].Answer)
}

func TestScannerAnswerMarkerClosesQuestion(t *testing.T) {
	paragraphs := []string{
		"1.The answer is (___)",
		"答案：42",
		"some trailing prose",
	}

	records := scanBlankParagraphs(paragraphs, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "1.The answer is (___)", records[0].Content)
}

func TestScannerContainmentDedup(t *testing.T) {
	paragraphs := []string{
		"1.The answer to everything is (___)",
		"答案：42",
	}
	existing := []QuestionRecord{{
		Type:    TypeFillBlank,
		Content: "1.The answer to everything is (___)",
		Answer:  "42",
	}}

	records := scanBlankParagraphs(paragraphs, existing)
	assert.Empty(t, records, "covered candidate must be suppressed")
}

func TestScannerContainmentDedupBySubstring(t *testing.T) {
	// The explicit match may span more text than the candidate; either
	// direction of containment counts as covered.
	existing := []QuestionRecord{{
		Type:    TypeFillBlank,
		Content: "preamble\n1.Fill in (___) please",
		Answer:  "x",
	}}

	records := scanBlankParagraphs([]string{"1.Fill in (___) please"}, existing)
	assert.Empty(t, records)
}

func TestScannerAccumulatesMultilineQuestion(t *testing.T) {
	paragraphs := []string{
		"1.Fill in the blank (___)",
		"using the word bank below",
	}

	records := scanBlankParagraphs(paragraphs, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "1.Fill in the blank (___)\nusing the word bank below", records[0].Content)
}

func TestScannerIgnoresProseOutsideQuestions(t *testing.T) {
	paragraphs := []string{
		"Exam instructions: answer all questions.",
		"Good luck!",
	}

	assert.Empty(t, scanBlankParagraphs(paragraphs, nil))
}

func TestScannerRequiresBlankMarker(t *testing.T) {
	records := scanBlankParagraphs([]string{"1.What is love?"}, nil)
	assert.Empty(t, records, "questions without a blank marker are not fill-blank")
}

func TestScannerFlushesAtEndOfStream(t *testing.T) {
	records := scanBlankParagraphs([]string{"3.The moon orbits the (___)"}, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "3.The moon orbits the (___)", records[0].Content)
}

func TestScannerIsIdempotent(t *testing.T) {
	paragraphs := []string{
		"1.First blank (___)",
		"2.Second blank (___)",
		"8.答案：n/a",
	}

	first := scanBlankParagraphs(paragraphs, nil)
	second := scanBlankParagraphs(paragraphs, nil)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}
