package cli

import "chapter-quiz-service/internal/domain"

// sampleCatalog is the built-in catalog used when no database is configured,
// and the seed for an empty SQLite file.
func sampleCatalog() ([]domain.Chapter, []domain.Category, []domain.Question) {
	categories := []domain.Category{
		{ID: "cat-basics", Name: "Basics"},
		{ID: "cat-concurrency", Name: "Concurrency"},
		{ID: "cat-draft", Name: "Draft", Hidden: true},
	}
	chapters := []domain.Chapter{
		{ID: "ch-1", Number: 1, Description: "Types and values", CategoryIDs: []string{"cat-basics"}},
		{ID: "ch-2", Number: 2, Description: "Goroutines and channels", CategoryIDs: []string{"cat-concurrency"}},
		{ID: "ch-3", Number: 3, Description: "Errors", CategoryIDs: []string{"cat-basics", "cat-draft"}},
	}

	questions := []domain.Question{
		sampleQuestion("q-1", chapters[0], "What is the zero value of a map?", "nil", "an empty map", "0"),
		sampleQuestion("q-2", chapters[0], "Which type holds a Unicode code point?", "rune", "byte", "char"),
		sampleQuestion("q-3", chapters[0], "What does len return for a string?", "its length in bytes", "its length in runes", "its capacity"),
		sampleQuestion("q-4", chapters[1], "What happens when sending on a nil channel?", "it blocks forever", "it panics", "it is a no-op"),
		sampleQuestion("q-5", chapters[1], "Who should close a channel?", "the sender", "the receiver", "the garbage collector"),
		sampleQuestion("q-6", chapters[1], "Which statement waits on several channel operations?", "select", "switch", "range"),
		sampleQuestion("q-7", chapters[2], "Which function checks an error chain for a sentinel?", "errors.Is", "errors.As", "errors.Unwrap"),
		sampleQuestion("q-8", chapters[2], "Which fmt verb wraps an error?", "%w", "%v", "%e"),
	}
	return chapters, categories, questions
}

// sampleQuestion builds a question whose first answer is the correct one.
func sampleQuestion(id string, ch domain.Chapter, text, correct string, wrong ...string) domain.Question {
	answers := []domain.Answer{{ID: id + "-a", Text: correct, Correct: true}}
	for i, w := range wrong {
		answers = append(answers, domain.Answer{ID: id + "-" + string(rune('b'+i)), Text: w})
	}
	return domain.Question{
		ID:      id,
		Text:    text,
		Chapter: domain.ChapterRef{ID: ch.ID, Number: ch.Number, Description: ch.Description},
		Answers: answers,
	}
}
