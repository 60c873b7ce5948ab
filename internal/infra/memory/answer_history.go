package memory

import (
	"context"
	"sync"

	"chapter-quiz-service/internal/domain"
)

// AnswerHistory keeps the latest answer per user and question in memory.
type AnswerHistory struct {
	mu      sync.RWMutex
	answers map[string]map[string]domain.RecentAnswer // userID -> questionID
}

func NewAnswerHistory() *AnswerHistory {
	return &AnswerHistory{answers: make(map[string]map[string]domain.RecentAnswer)}
}

func (h *AnswerHistory) RecordAnswer(_ context.Context, answer domain.RecentAnswer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	byQuestion, ok := h.answers[answer.UserID]
	if !ok {
		byQuestion = make(map[string]domain.RecentAnswer)
		h.answers[answer.UserID] = byQuestion
	}
	byQuestion[answer.QuestionID] = answer
	return nil
}

func (h *AnswerHistory) RecentAnswers(_ context.Context, userID string) ([]domain.RecentAnswer, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.RecentAnswer, 0, len(h.answers[userID]))
	for _, a := range h.answers[userID] {
		out = append(out, a)
	}
	return out, nil
}

func (h *AnswerHistory) ResetChapter(_ context.Context, userID, chapterID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, a := range h.answers[userID] {
		if a.ChapterID == chapterID {
			a.Correct = false
			h.answers[userID][id] = a
		}
	}
	return nil
}
