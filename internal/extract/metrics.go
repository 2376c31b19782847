package extract

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons: candidates that matched a grammar but were dropped by a
// post-filter. Externally indistinguishable from a non-match, counted so the
// difference stays observable.
const (
	reasonShortAnswer = "short_answer"
	reasonJudgeToken  = "judge_token"
)

var (
	questionsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "document_service_questions_extracted_total",
		Help: "Questions extracted, labeled by question type.",
	}, []string{"type"})

	candidatesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "document_service_candidates_rejected_total",
		Help: "Grammar matches dropped by a post-filter, labeled by reason.",
	}, []string{"reason"})
)
