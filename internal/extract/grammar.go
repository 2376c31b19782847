package extract

import (
	"regexp"
	"strings"
)

// Each grammar is a precompiled pattern over the full document text. The
// passes are independent: an ambiguously authored span can legitimately be
// emitted by more than one grammar (a parenthesized judge question with a
// 对/错 answer also satisfies the fill-blank shape). Deduplication across
// types is left to consumers.
//
// Go's regexp is RE2, so matching is linear in the input and the pathological
// backtracking possible with the equivalent PCRE patterns cannot occur. RE2
// also lacks lookahead, which the fill-blank and essay grammars need to stop
// an answer at the next question's leading number without consuming it; see
// findAllResuming.

const answerKey = `(?:答案|Answer)`

type grammars struct {
	singleChoice   *regexp.Regexp
	multipleChoice *regexp.Regexp
	fillBlank      *regexp.Regexp
	judge          *regexp.Regexp
	essay          *regexp.Regexp
	optionLabel    *regexp.Regexp
}

func newGrammars() *grammars {
	// Content and options may span lines ((?s)), and the $ boundary in the
	// resuming grammars is per-line ((?m)), matching the source corpus of
	// exam documents where answers sit on the question's own line block.
	choiceBody := `(\d+[.、]?\s*.+?)\s+(A[.、]\s*.+?)\s+(B[.、]\s*.+?)\s+(C[.、]\s*.+?)\s+(D[.、]\s*.+?)\s+` + answerKey + `[：:]\s*`
	return &grammars{
		singleChoice:   regexp.MustCompile(`(?sm)` + choiceBody + `([ABCD])\b`),
		multipleChoice: regexp.MustCompile(`(?sm)` + choiceBody + `([ABCD]+)`),
		fillBlank:      regexp.MustCompile(`(?sm)(\d+[.、]?\s*.+?[（(].*?[）)]|.+?___.+?)\s+` + answerKey + `[：:]\s*(.+?)(?:(\d+[.、])|$)`),
		judge:          regexp.MustCompile(`(?sm)(\d+[.、]?\s*.+?)\s+` + answerKey + `[：:]\s*(正确|错误|对|错|√|×)`),
		essay:          regexp.MustCompile(`(?sm)(\d+[.、]?\s*.+?)\s+解析[：:]\s*(.+?)(?:(\d+[.、])|$)`),
		optionLabel:    regexp.MustCompile(`^[A-D][.、]\s*`),
	}
}

// singleChoicePass emits one record per span shaped like a numbered question
// with four options and a single-letter answer.
func (g *grammars) singleChoicePass(text string) []QuestionRecord {
	var records []QuestionRecord
	for _, m := range g.singleChoice.FindAllStringSubmatch(text, -1) {
		records = append(records, QuestionRecord{
			Type:    TypeSingleChoice,
			Content: strings.TrimSpace(m[1]),
			Options: g.stripOptionLabels(m[2:6]),
			Answer:  strings.TrimSpace(m[6]),
		})
	}
	return records
}

// multipleChoicePass matches the same shape with a 1+ letter answer and
// discards single-letter matches, which belong to single-choice. The filter
// is the sole disambiguation between the two choice grammars; rejected is
// reported so tests and metrics can tell a filtered candidate from a span
// that never matched.
func (g *grammars) multipleChoicePass(text string) (records []QuestionRecord, rejected int) {
	for _, m := range g.multipleChoice.FindAllStringSubmatch(text, -1) {
		answer := strings.TrimSpace(m[6])
		if len(answer) <= 1 {
			rejected++
			continue
		}
		records = append(records, QuestionRecord{
			Type:    TypeMultipleChoice,
			Content: strings.TrimSpace(m[1]),
			Options: g.stripOptionLabels(m[2:6]),
			Answer:  answer,
		})
	}
	return records, rejected
}

// fillBlankPass matches questions carrying a blank marker (full- or
// half-width parentheses, or the literal ___) followed by an explicit answer
// line. The answer runs up to the next question's leading number or end of
// line; group 3 is the resume boundary.
func (g *grammars) fillBlankPass(text string) []QuestionRecord {
	var records []QuestionRecord
	for _, m := range findAllResuming(g.fillBlank, text, 3) {
		records = append(records, QuestionRecord{
			Type:    TypeFillBlank,
			Content: strings.TrimSpace(m[1]),
			Answer:  strings.TrimSpace(m[2]),
		})
	}
	return records
}

// judgePass matches true/false questions. An answer token outside the
// normalization table drops the candidate silently (a data-quality gap in
// the source document, not an engine fault).
func (g *grammars) judgePass(text string) (records []QuestionRecord, rejected int) {
	for _, m := range g.judge.FindAllStringSubmatch(text, -1) {
		answer, ok := normalizeJudgeAnswer(m[2])
		if !ok {
			rejected++
			continue
		}
		records = append(records, QuestionRecord{
			Type:    TypeJudge,
			Content: strings.TrimSpace(m[1]),
			Answer:  answer,
		})
	}
	return records, rejected
}

// essayPass matches numbered questions followed by a 解析 explanation block.
// Essays have no reference answer.
func (g *grammars) essayPass(text string) []QuestionRecord {
	var records []QuestionRecord
	for _, m := range findAllResuming(g.essay, text, 3) {
		records = append(records, QuestionRecord{
			Type:        TypeEssay,
			Content:     strings.TrimSpace(m[1]),
			Answer:      "",
			Explanation: strings.TrimSpace(m[2]),
		})
	}
	return records
}

func (g *grammars) stripOptionLabels(raw []string) []string {
	options := make([]string, len(raw))
	for i, opt := range raw {
		options[i] = g.optionLabel.ReplaceAllString(strings.TrimSpace(opt), "")
	}
	return options
}

// normalizeJudgeAnswer maps a matched judge token onto the wire values.
func normalizeJudgeAnswer(token string) (string, bool) {
	switch strings.TrimSpace(token) {
	case "对", "正确", "√":
		return "true", true
	case "错", "错误", "×":
		return "false", true
	default:
		return "", false
	}
}

// findAllResuming behaves like FindAllStringSubmatch except that when
// boundaryGroup captured text (the next question's leading number), the scan
// resumes at the start of that capture instead of after the whole match.
// This reproduces lookahead semantics on RE2: the boundary terminates the
// current match yet stays available as the next match's opening.
func findAllResuming(re *regexp.Regexp, text string, boundaryGroup int) [][]string {
	var out [][]string
	pos := 0
	for pos < len(text) {
		idx := re.FindStringSubmatchIndex(text[pos:])
		if idx == nil {
			break
		}
		groups := make([]string, re.NumSubexp()+1)
		for g := 0; g <= re.NumSubexp(); g++ {
			if idx[2*g] >= 0 {
				groups[g] = text[pos+idx[2*g] : pos+idx[2*g+1]]
			}
		}
		out = append(out, groups)

		next := pos + idx[1]
		if boundaryGroup <= re.NumSubexp() && idx[2*boundaryGroup] >= 0 {
			next = pos + idx[2*boundaryGroup]
		}
		if next <= pos {
			next = pos + 1
		}
		pos = next
	}
	return out
}
