package app

import (
	"testing"

	"chapter-quiz-service/internal/domain"
)

func TestScoreChapters(t *testing.T) {
	chapters := []domain.Chapter{{ID: "c1", Number: 1}, {ID: "c2", Number: 2}}
	questions := []domain.Question{
		{ID: "q1", Chapter: domain.ChapterRef{Number: 1}},
		{ID: "q2", Chapter: domain.ChapterRef{Number: 1}},
		{ID: "q3", Chapter: domain.ChapterRef{Number: 1}},
	}
	recent := []domain.RecentAnswer{
		{UserID: "u1", QuestionID: "q1", Correct: true},
		{UserID: "u1", QuestionID: "q2", Correct: true},
		{UserID: "u2", QuestionID: "q3", Correct: true},
	}

	scores := ScoreChapters("u1", chapters, questions, recent)
	if scores[0].CorrectCount != 2 || scores[0].QuestionCount != 3 || scores[0].Percent != 67 {
		t.Fatalf("unexpected score %+v", scores[0])
	}
	if scores[1].QuestionCount != 0 || scores[1].Percent != 0 {
		t.Fatalf("expected empty chapter, got %+v", scores[1])
	}
}
