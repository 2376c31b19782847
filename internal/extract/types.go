package extract

// Question type constants, one per grammar.
const (
	TypeSingleChoice   = "single-choice"
	TypeMultipleChoice = "multiple-choice"
	TypeFillBlank      = "fill-blank"
	TypeJudge          = "judge"
	TypeEssay          = "essay"
)

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Defaults applied to every extracted record. The engine does not infer
// difficulty, grade or subject; downstream services reclassify.
const (
	DefaultDifficulty = DifficultyMedium
	DefaultGrade      = 1
	DefaultSubject    = ""
)

// QuestionRecord is the normalized question payload published downstream.
//
// Options is populated only for choice types (exactly four entries, A-D).
// Answer is "true"/"false" for judge questions and empty for essays; a
// fill-blank record recovered without an answer line carries an empty
// answer. Images is attached by the pipeline after extraction, never by the
// engine.
type QuestionRecord struct {
	Type        string   `json:"type"`
	Content     string   `json:"content"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
	Images      []string `json:"images,omitempty"`
	Difficulty  string   `json:"difficulty"`
	Grade       int      `json:"grade"`
	Subject     string   `json:"subject"`
}

// enrich stamps the global default fields in one place so grammars never
// carry magic literals.
func enrich(records []QuestionRecord) []QuestionRecord {
	for i := range records {
		records[i].Difficulty = DefaultDifficulty
		records[i].Grade = DefaultGrade
		records[i].Subject = DefaultSubject
	}
	return records
}
