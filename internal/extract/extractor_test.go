package extract

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	return NewEngine(zerolog.Nop())
}

func extractParagraphs(t *testing.T, paragraphs ...string) []QuestionRecord {
	t.Helper()
	return testEngine().Extract(strings.Join(paragraphs, "\n"), paragraphs)
}

func TestExtractEmptyInput(t *testing.T) {
	engine := testEngine()

	assert.Empty(t, engine.Extract("", nil))
	assert.Empty(t, engine.Extract("   \n\t ", []string{}))
}

func TestExtractSingleChoice(t *testing.T) {
	records := extractParagraphs(t, "1.What is 2+2? A.3 B.4 C.5 D.6 答案：B")

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, TypeSingleChoice, rec.Type)
	assert.Equal(t, "1.What is 2+2?", rec.Content)
	assert.Equal(t, []string{"3", "4", "5", "6"}, rec.Options)
	assert.Equal(t, "B", rec.Answer)
}

func TestExtractMultipleChoice(t *testing.T) {
	records := extractParagraphs(t, "3.Which are primes? A.2 B.4 C.5 D.9 答案：AC")

	require.Len(t, records, 1)
	assert.Equal(t, TypeMultipleChoice, records[0].Type)
	assert.Equal(t, "AC", records[0].Answer)
}

func TestExtractFillBlankWithAnswer(t *testing.T) {
	records := extractParagraphs(t, "5.The capital of France is (___) 答案：Paris")

	require.Len(t, records, 1)
	assert.Equal(t, TypeFillBlank, records[0].Type)
	assert.Equal(t, "Paris", records[0].Answer)
}

func TestExtractFillBlankWithoutAnswer(t *testing.T) {
	records := extractParagraphs(t,
		"7.(___) is the largest planet.",
		"8.答案：discussion",
	)

	require.Len(t, records, 1)
	assert.Equal(t, TypeFillBlank, records[0].Type)
	assert.Equal(t, "7.(___) is the largest planet.", records[0].Content)
	assert.Equal(t, "", records[0].Answer)
}

func TestExtractJudge(t *testing.T) {
	records := extractParagraphs(t, "9.The sky is blue. 答案：对")

	require.Len(t, records, 1)
	assert.Equal(t, TypeJudge, records[0].Type)
	assert.Equal(t, "true", records[0].Answer)
}

func TestExtractDoesNotDuplicateAnsweredFillBlank(t *testing.T) {
	// The explicit grammar owns a question that carries an answer line; the
	// paragraph scanner must not emit a second, empty-answer copy.
	records := extractParagraphs(t,
		"1.The answer to everything is (___)",
		"答案：42",
	)

	require.Len(t, records, 1)
	assert.Equal(t, "42", records[0].Answer)
}

func TestExtractAppliesDefaultEnrichment(t *testing.T) {
	records := extractParagraphs(t,
		"1.What is 2+2? A.3 B.4 C.5 D.6 答案：B",
		"9.The sky is blue. 答案：对",
	)

	require.NotEmpty(t, records)
	for _, rec := range records {
		assert.Equal(t, DifficultyMedium, rec.Difficulty)
		assert.Equal(t, 1, rec.Grade)
		assert.Equal(t, "", rec.Subject)
		assert.Nil(t, rec.Images, "engine never populates images")
	}
}

func TestExtractMixedDocument(t *testing.T) {
	records := extractParagraphs(t,
		"1.What is 2+2? A.3 B.4 C.5 D.6 答案：B",
		"2.Which are primes? A.2 B.4 C.5 D.9 答案：AC",
		"3.The capital of France is (___) 答案：Paris",
		"4.The sky is blue. 答案：对",
		"5.Prove that 1+1=2. 解析：By definition of addition.",
	)

	counts := map[string]int{}
	for _, rec := range records {
		counts[rec.Type]++
	}
	assert.Equal(t, 1, counts[TypeSingleChoice])
	assert.Equal(t, 1, counts[TypeMultipleChoice])
	assert.Equal(t, 1, counts[TypeJudge])
	assert.Equal(t, 1, counts[TypeEssay])
	// The greedy fill-blank grammar claims the answered blank; the scanner
	// additionally flushes the same numbered paragraph because the two
	// contents differ. Accepted noise, not deduplicated across passes.
	assert.Equal(t, 2, counts[TypeFillBlank])

	// Passes run in fixed order, types concatenated.
	var types []string
	for _, rec := range records {
		types = append(types, rec.Type)
	}
	assert.Equal(t, []string{
		TypeSingleChoice,
		TypeMultipleChoice,
		TypeFillBlank,
		TypeFillBlank,
		TypeJudge,
		TypeEssay,
	}, types)
}

func TestExtractFieldInvariants(t *testing.T) {
	records := extractParagraphs(t,
		"1.Pick one A.a B.b C.c D.d 答案：D",
		"2.Pick many A.a B.b C.c D.d 答案：BD",
		"3.Fill this (___) 答案：word",
		"4.True or false? 答案：×",
		"5.Discuss. 解析：At length.",
	)

	require.NotEmpty(t, records)
	for _, rec := range records {
		assert.NotEmpty(t, strings.TrimSpace(rec.Content))
		switch rec.Type {
		case TypeSingleChoice, TypeMultipleChoice:
			assert.Len(t, rec.Options, 4)
			assert.NotEmpty(t, rec.Answer)
		case TypeJudge:
			assert.Contains(t, []string{"true", "false"}, rec.Answer)
		case TypeEssay:
			assert.Equal(t, "", rec.Answer)
			assert.NotEmpty(t, rec.Explanation)
		}
	}
}
