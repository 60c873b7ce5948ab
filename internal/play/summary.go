package play

import (
	"math"

	"chapter-quiz-service/internal/domain"
)

// SummaryItem pairs a played question with how it was answered.
type SummaryItem struct {
	Question      domain.Question `json:"question"`
	Entry         ResultEntry     `json:"result"`
	Answered      bool            `json:"answered"`
	CorrectAnswer domain.Answer   `json:"correctAnswer"`
}

// Summary is the end-of-session result.
type Summary struct {
	Score   int           `json:"score"`
	Total   int           `json:"total"`
	Percent int           `json:"percent"`
	Items   []SummaryItem `json:"items"`
}

// Summarize derives the result screen from a session's log and pool. Log
// entries are matched to pool questions in play order.
func Summarize(log []ResultEntry, pool []domain.Question) Summary {
	byQuestion := indexLog(log)
	summary := Summary{
		Total: len(pool),
		Items: make([]SummaryItem, 0, len(pool)),
	}
	for _, q := range pool {
		item := SummaryItem{Question: q}
		if entry, ok := byQuestion[q.ID]; ok {
			item.Entry = entry
			item.Answered = true
			if entry.Correct {
				summary.Score++
			}
		}
		item.CorrectAnswer, _ = q.CorrectAnswer()
		summary.Items = append(summary.Items, item)
	}
	summary.Percent = Percent(summary.Score, summary.Total)
	return summary
}

// WrongPool returns the questions of pool whose log entry is incorrect, in
// play order.
func WrongPool(log []ResultEntry, pool []domain.Question) []domain.Question {
	byQuestion := indexLog(log)
	wrong := make([]domain.Question, 0)
	for _, q := range pool {
		if entry, ok := byQuestion[q.ID]; ok && !entry.Correct {
			wrong = append(wrong, q)
		}
	}
	return wrong
}

// Percent rounds correct/total to a whole percentage; an empty total yields 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// indexLog keeps the first entry per question; each question is answered once
// per session.
func indexLog(log []ResultEntry) map[string]ResultEntry {
	out := make(map[string]ResultEntry, len(log))
	for _, entry := range log {
		if _, seen := out[entry.QuestionID]; !seen {
			out[entry.QuestionID] = entry
		}
	}
	return out
}
