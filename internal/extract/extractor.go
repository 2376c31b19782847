package extract

import (
	"strings"

	"github.com/rs/zerolog"
)

// Engine turns a flat stream of document text into typed question records.
// It is purely functional: no shared mutable state between passes, no I/O,
// bounded time proportional to input length.
type Engine struct {
	grammars *grammars
	logger   zerolog.Logger
}

func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		grammars: newGrammars(),
		logger:   logger.With().Str("component", "extract_engine").Logger(),
	}
}

// Extract runs the five grammars plus the fill-blank paragraph scanner over
// the same two inputs and returns the concatenation, in match order per
// type. fullText is the paragraphs joined with newlines; the engine assumes
// but does not verify that the two inputs are consistent.
//
// The passes are independent and non-exclusive: a span authored ambiguously
// between single- and multiple-choice appears under both types. The only
// cross-pass deduplication is the scanner's containment check against the
// explicit fill-blank matches, which is why that pass runs after the
// fill-blank grammar.
//
// Extraction never fails: empty or unparseable input yields an empty list.
// Most real exam documents match only a handful of spans, so zero matches is
// business as usual, not an error.
func (e *Engine) Extract(fullText string, paragraphs []string) []QuestionRecord {
	if strings.TrimSpace(fullText) == "" {
		e.logger.Debug().Msg("empty document text, nothing to extract")
		return nil
	}

	var records []QuestionRecord

	records = append(records, e.grammars.singleChoicePass(fullText)...)

	multi, shortAnswers := e.grammars.multipleChoicePass(fullText)
	records = append(records, multi...)

	filled := e.grammars.fillBlankPass(fullText)
	records = append(records, filled...)
	records = append(records, scanBlankParagraphs(paragraphs, filled)...)

	judged, badTokens := e.grammars.judgePass(fullText)
	records = append(records, judged...)

	records = append(records, e.grammars.essayPass(fullText)...)

	records = enrich(records)

	for _, rec := range records {
		questionsExtracted.WithLabelValues(rec.Type).Inc()
	}
	candidatesRejected.WithLabelValues(reasonShortAnswer).Add(float64(shortAnswers))
	candidatesRejected.WithLabelValues(reasonJudgeToken).Add(float64(badTokens))

	e.logger.Info().
		Int("paragraphs", len(paragraphs)).
		Int("chars", len(fullText)).
		Int("questions", len(records)).
		Int("rejected_short_answer", shortAnswers).
		Int("rejected_judge_token", badTokens).
		Msg("extraction finished")

	return records
}
